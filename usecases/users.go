package usecases

import (
	"errors"
	"strings"

	"expense-server/apperr"
	"expense-server/entities"
	"expense-server/moneyutil"
	"expense-server/repositories"
)

// EventPublisher receives entity-change notifications. A nil publisher is
// allowed and turns publishing into a no-op.
type EventPublisher interface {
	Publish(eventType string, data any)
}

type UserUseCase struct {
	UserRepo repositories.UserRepository
	Events   EventPublisher
	Cache    SummaryInvalidator
}

func NewUserUseCase(userRepo repositories.UserRepository, events EventPublisher, cache SummaryInvalidator) *UserUseCase {
	return &UserUseCase{UserRepo: userRepo, Events: events, Cache: cache}
}

// CreateUserInput uses pointers so a missing field is distinguishable from a
// zero value: a budget of 0 must fail the field rule, not the presence check.
type CreateUserInput struct {
	Name          *string  `json:"name"`
	Email         *string  `json:"email"`
	MonthlyBudget *float64 `json:"monthlyBudget"`
}

type UpdateUserInput struct {
	Name          *string  `json:"name"`
	MonthlyBudget *float64 `json:"monthlyBudget"`
}

type ChangeEmailInput struct {
	CurrentEmail *string `json:"currentEmail"`
	NewEmail     *string `json:"newEmail"`
}

// CreateUser normalizes, validates and persists a new user. The email is
// lower-cased before the uniqueness check so duplicates differing only in
// case collide.
func (uc *UserUseCase) CreateUser(input CreateUserInput) (*entities.User, error) {
	if input.Name == nil || *input.Name == "" ||
		input.Email == nil || *input.Email == "" ||
		input.MonthlyBudget == nil {
		return nil, apperr.BadRequestf("Name, email, and monthlyBudget are required")
	}

	user := &entities.User{
		Name:          strings.TrimSpace(*input.Name),
		Email:         entities.NormalizeEmail(*input.Email),
		MonthlyBudget: moneyutil.Round2(*input.MonthlyBudget),
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	existing, err := uc.UserRepo.GetByEmail(user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflictf("Email already exists")
	}

	if err := uc.UserRepo.Create(user); err != nil {
		// The uniqueness check above is not atomic with the insert; the
		// unique index still backstops concurrent creates.
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, apperr.Conflictf("Email already exists")
		}
		return nil, err
	}

	uc.publish("user.created", user)
	return user, nil
}

// GetUser retrieves a user by id.
func (uc *UserUseCase) GetUser(id string) (*entities.User, error) {
	if !entities.ValidID(id) {
		return nil, apperr.BadRequestf("Invalid user ID")
	}
	user, err := uc.UserRepo.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.NotFoundf("User not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns all users, optionally narrowed to an exact email match.
// The filter is normalized the same way stored emails are.
func (uc *UserUseCase) ListUsers(emailFilter string) ([]entities.User, error) {
	if emailFilter != "" {
		emailFilter = entities.NormalizeEmail(emailFilter)
	}
	return uc.UserRepo.GetAll(emailFilter)
}

// UpdateUser replaces name and monthlyBudget. Email is immutable through
// this path.
func (uc *UserUseCase) UpdateUser(id string, input UpdateUserInput) (*entities.User, error) {
	if input.Name == nil || *input.Name == "" || input.MonthlyBudget == nil {
		return nil, apperr.BadRequestf("Name and monthlyBudget are required")
	}

	user, err := uc.GetUser(id)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(*input.Name)
	user.MonthlyBudget = moneyutil.Round2(*input.MonthlyBudget)
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := uc.UserRepo.Update(user); err != nil {
		return nil, err
	}

	uc.invalidate(user.ID)
	uc.publish("user.updated", user)
	return user, nil
}

// PatchUser applies any subset of {name, monthlyBudget}. A payload carrying
// neither — empty, or only unrecognized fields — is rejected.
func (uc *UserUseCase) PatchUser(id string, input UpdateUserInput) (*entities.User, error) {
	if input.Name == nil && input.MonthlyBudget == nil {
		return nil, apperr.BadRequestf("At least one of name or monthlyBudget must be provided")
	}

	user, err := uc.GetUser(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.MonthlyBudget != nil {
		user.MonthlyBudget = moneyutil.Round2(*input.MonthlyBudget)
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := uc.UserRepo.Update(user); err != nil {
		return nil, err
	}

	uc.invalidate(user.ID)
	uc.publish("user.updated", user)
	return user, nil
}

// ChangeEmail is the verified email-change path: the caller must present the
// currently stored email (compared case-insensitively) before the new one is
// accepted.
func (uc *UserUseCase) ChangeEmail(id string, input ChangeEmailInput) (*entities.User, error) {
	if input.CurrentEmail == nil || *input.CurrentEmail == "" ||
		input.NewEmail == nil || *input.NewEmail == "" {
		return nil, apperr.BadRequestf("currentEmail and newEmail are required")
	}

	user, err := uc.GetUser(id)
	if err != nil {
		return nil, err
	}

	if entities.NormalizeEmail(*input.CurrentEmail) != user.Email {
		return nil, apperr.Forbiddenf("Current email does not match")
	}

	newEmail := entities.NormalizeEmail(*input.NewEmail)
	candidate := *user
	candidate.Email = newEmail
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	other, err := uc.UserRepo.GetByEmail(newEmail)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != user.ID {
		return nil, apperr.Conflictf("Email already exists")
	}

	user.Email = newEmail
	if err := uc.UserRepo.Update(user); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, apperr.Conflictf("Email already exists")
		}
		return nil, err
	}

	uc.invalidate(user.ID)
	uc.publish("user.updated", user)
	return user, nil
}

// invalidate drops the user's cached summary; it carries the budget, name
// and email, so any user write can stale it.
func (uc *UserUseCase) invalidate(userID string) {
	if uc.Cache != nil {
		uc.Cache.Invalidate(userID)
	}
}

func (uc *UserUseCase) publish(eventType string, data any) {
	if uc.Events != nil {
		uc.Events.Publish(eventType, data)
	}
}
