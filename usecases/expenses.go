package usecases

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"expense-server/apperr"
	"expense-server/entities"
	"expense-server/moneyutil"
	"expense-server/repositories"
	"expense-server/timeutil"
)

// SummaryInvalidator drops any cached summary for a user after one of their
// expenses changes.
type SummaryInvalidator interface {
	Invalidate(userID string)
}

type ExpenseUseCase struct {
	ExpenseRepo     repositories.ExpenseRepository
	UserRepo        repositories.UserRepository
	Events          EventPublisher
	Cache           SummaryInvalidator
	DefaultPageSize int
	MaxPageSize     int
}

func NewExpenseUseCase(
	expenseRepo repositories.ExpenseRepository,
	userRepo repositories.UserRepository,
	events EventPublisher,
	cache SummaryInvalidator,
	defaultPageSize, maxPageSize int,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		ExpenseRepo:     expenseRepo,
		UserRepo:        userRepo,
		Events:          events,
		Cache:           cache,
		DefaultPageSize: defaultPageSize,
		MaxPageSize:     maxPageSize,
	}
}

type CreateExpenseInput struct {
	Title    *string  `json:"title"`
	Amount   *float64 `json:"amount"`
	Category *string  `json:"category"`
	Date     *string  `json:"date"`
	UserID   *string  `json:"userId"`
}

type PatchExpenseInput struct {
	Title    *string  `json:"title"`
	Amount   *float64 `json:"amount"`
	Category *string  `json:"category"`
	Date     *string  `json:"date"`
	UserID   *string  `json:"userId"`
}

// ExpenseListQuery carries the raw query parameters of a listing request;
// parsing and clamping happen here so the handler stays a thin adapter.
type ExpenseListQuery struct {
	Category  string
	StartDate string
	EndDate   string
	Page      string
	Limit     string
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// CreateExpense validates the payload, confirms the referenced user exists,
// and persists the expense. The stored record is returned with the owner's
// name and email attached.
func (uc *ExpenseUseCase) CreateExpense(input CreateExpenseInput) (*entities.ExpenseWithOwner, error) {
	if input.Title == nil || *input.Title == "" ||
		input.Amount == nil ||
		input.Category == nil || *input.Category == "" ||
		input.UserID == nil || *input.UserID == "" {
		return nil, apperr.BadRequestf("Title, amount, category, and userId are required")
	}

	owner, err := uc.requireOwner(*input.UserID)
	if err != nil {
		return nil, err
	}

	date := time.Now().UTC()
	if input.Date != nil && *input.Date != "" {
		parsed, err := timeutil.ParseDate(*input.Date)
		if err != nil {
			return nil, apperr.BadRequestf("Invalid date format")
		}
		date = parsed.UTC()
	}

	expense := &entities.Expense{
		Title:    strings.TrimSpace(*input.Title),
		Amount:   moneyutil.Round2(*input.Amount),
		Category: *input.Category,
		Date:     entities.NewTimestamp(date),
		UserID:   owner.ID,
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if err := uc.ExpenseRepo.Create(expense); err != nil {
		return nil, err
	}

	uc.invalidate(owner.ID)
	result := withOwner(expense, owner)
	uc.publish("expense.created", result)
	return result, nil
}

// ListUserExpenses returns one page of a user's expenses, date descending,
// with optional category and date-range filters.
func (uc *ExpenseUseCase) ListUserExpenses(userID string, query ExpenseListQuery) ([]entities.Expense, *Pagination, error) {
	if !entities.ValidID(userID) {
		return nil, nil, apperr.BadRequestf("Invalid user ID")
	}
	if _, err := uc.UserRepo.GetByID(userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, apperr.NotFoundf("User not found")
		}
		return nil, nil, err
	}

	filter := repositories.ExpenseFilter{UserID: userID}

	if query.Category != "" {
		if !entities.ValidCategory(query.Category) {
			return nil, nil, apperr.BadRequestf("Invalid category. Must be one of: %s", entities.CategoryList())
		}
		filter.Category = query.Category
	}

	if query.StartDate != "" {
		start, err := timeutil.ParseDate(query.StartDate)
		if err != nil {
			return nil, nil, apperr.BadRequestf("Invalid startDate format")
		}
		start = start.UTC()
		filter.Start = &start
	}
	if query.EndDate != "" {
		end, err := timeutil.ParseDate(query.EndDate)
		if err != nil {
			return nil, nil, apperr.BadRequestf("Invalid endDate format")
		}
		// endDate is inclusive through the end of that day
		end = timeutil.EndOfDay(end.UTC())
		filter.End = &end
	}

	page, limit := uc.parsePagination(query.Page, query.Limit)
	filter.Offset = (page - 1) * limit
	filter.Limit = limit

	expenses, total, err := uc.ExpenseRepo.ListByUser(filter)
	if err != nil {
		return nil, nil, err
	}

	pagination := &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
	return expenses, pagination, nil
}

// UpdateExpense is the full replacement: all of title, amount, category and
// userId must be present. Date keeps its stored value unless provided.
func (uc *ExpenseUseCase) UpdateExpense(id string, input CreateExpenseInput) (*entities.ExpenseWithOwner, error) {
	if input.Title == nil || *input.Title == "" ||
		input.Amount == nil ||
		input.Category == nil || *input.Category == "" ||
		input.UserID == nil || *input.UserID == "" {
		return nil, apperr.BadRequestf("Title, amount, category, and userId are required")
	}

	expense, err := uc.requireExpense(id)
	if err != nil {
		return nil, err
	}
	previousOwner := expense.UserID

	owner, err := uc.requireOwner(*input.UserID)
	if err != nil {
		return nil, err
	}

	expense.Title = strings.TrimSpace(*input.Title)
	expense.Amount = moneyutil.Round2(*input.Amount)
	expense.Category = *input.Category
	expense.UserID = owner.ID
	if input.Date != nil && *input.Date != "" {
		parsed, err := timeutil.ParseDate(*input.Date)
		if err != nil {
			return nil, apperr.BadRequestf("Invalid date format")
		}
		expense.Date = entities.NewTimestamp(parsed.UTC())
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if err := uc.ExpenseRepo.Update(expense); err != nil {
		return nil, err
	}

	uc.invalidate(previousOwner)
	uc.invalidate(owner.ID)
	result := withOwner(expense, owner)
	uc.publish("expense.updated", result)
	return result, nil
}

// PatchExpense applies any subset of {title, amount, category, date, userId}.
func (uc *ExpenseUseCase) PatchExpense(id string, input PatchExpenseInput) (*entities.ExpenseWithOwner, error) {
	if input.Title == nil && input.Amount == nil && input.Category == nil &&
		input.Date == nil && input.UserID == nil {
		return nil, apperr.BadRequestf("At least one of title, amount, category, date, or userId must be provided")
	}

	expense, err := uc.requireExpense(id)
	if err != nil {
		return nil, err
	}
	previousOwner := expense.UserID

	if input.UserID != nil {
		owner, err := uc.requireOwner(*input.UserID)
		if err != nil {
			return nil, err
		}
		expense.UserID = owner.ID
	}
	if input.Title != nil {
		expense.Title = strings.TrimSpace(*input.Title)
	}
	if input.Amount != nil {
		expense.Amount = moneyutil.Round2(*input.Amount)
	}
	if input.Category != nil {
		expense.Category = *input.Category
	}
	if input.Date != nil && *input.Date != "" {
		parsed, err := timeutil.ParseDate(*input.Date)
		if err != nil {
			return nil, apperr.BadRequestf("Invalid date format")
		}
		expense.Date = entities.NewTimestamp(parsed.UTC())
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if err := uc.ExpenseRepo.Update(expense); err != nil {
		return nil, err
	}

	owner, err := uc.UserRepo.GetByID(expense.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.BadRequestf("User does not exist")
	}
	if err != nil {
		return nil, err
	}

	uc.invalidate(previousOwner)
	uc.invalidate(expense.UserID)
	result := withOwner(expense, owner)
	uc.publish("expense.updated", result)
	return result, nil
}

// DeleteExpense removes an expense by id.
func (uc *ExpenseUseCase) DeleteExpense(id string) error {
	expense, err := uc.requireExpense(id)
	if err != nil {
		return err
	}

	if err := uc.ExpenseRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFoundf("Expense not found")
		}
		return err
	}

	uc.invalidate(expense.UserID)
	uc.publish("expense.deleted", expense)
	return nil
}

// requireOwner resolves userId to an existing user. Both a malformed and an
// unknown id are client errors on the expense payload, not a missing
// resource, so both map to BadRequest.
func (uc *ExpenseUseCase) requireOwner(userID string) (*entities.User, error) {
	if !entities.ValidID(userID) {
		return nil, apperr.BadRequestf("Invalid user ID")
	}
	owner, err := uc.UserRepo.GetByID(userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.BadRequestf("User does not exist")
	}
	if err != nil {
		return nil, err
	}
	return owner, nil
}

func (uc *ExpenseUseCase) requireExpense(id string) (*entities.Expense, error) {
	if !entities.ValidID(id) {
		return nil, apperr.BadRequestf("Invalid expense ID")
	}
	expense, err := uc.ExpenseRepo.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.NotFoundf("Expense not found")
	}
	if err != nil {
		return nil, err
	}
	return expense, nil
}

func (uc *ExpenseUseCase) parsePagination(pageStr, limitStr string) (page, limit int) {
	page = 1
	if n, err := strconv.Atoi(pageStr); err == nil && n > 1 {
		page = n
	}

	limit = uc.DefaultPageSize
	if n, err := strconv.Atoi(limitStr); err == nil {
		limit = n
	}
	if limit < 1 {
		limit = 1
	}
	if limit > uc.MaxPageSize {
		limit = uc.MaxPageSize
	}
	return page, limit
}

func (uc *ExpenseUseCase) invalidate(userID string) {
	if uc.Cache != nil {
		uc.Cache.Invalidate(userID)
	}
}

func (uc *ExpenseUseCase) publish(eventType string, data any) {
	if uc.Events != nil {
		uc.Events.Publish(eventType, data)
	}
}

func withOwner(expense *entities.Expense, owner *entities.User) *entities.ExpenseWithOwner {
	return &entities.ExpenseWithOwner{
		Expense: *expense,
		User:    entities.OwnerRef{ID: owner.ID, Name: owner.Name, Email: owner.Email},
	}
}
