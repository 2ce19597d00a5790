package usecases

import (
	"errors"
	"time"

	"expense-server/apperr"
	"expense-server/entities"
	"expense-server/moneyutil"
	"expense-server/repositories"
	"expense-server/timeutil"
)

// SummaryCache holds computed summaries between requests. Implemented by
// cache.Store; replaced by fakes in tests.
type SummaryCache interface {
	Get(userID string) (MonthlySummary, bool)
	Set(userID string, summary MonthlySummary)
	Invalidate(userID string)
}

type SummaryUseCase struct {
	UserRepo    repositories.UserRepository
	ExpenseRepo repositories.ExpenseRepository
	Cache       SummaryCache
	// Now is swappable so tests can pin the month window.
	Now func() time.Time
}

func NewSummaryUseCase(userRepo repositories.UserRepository, expenseRepo repositories.ExpenseRepository, cache SummaryCache) *SummaryUseCase {
	return &SummaryUseCase{
		UserRepo:    userRepo,
		ExpenseRepo: expenseRepo,
		Cache:       cache,
		Now:         time.Now,
	}
}

type SummaryUserInfo struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	MonthlyBudget float64 `json:"monthlyBudget"`
}

type MonthInfo struct {
	Month string `json:"month"`
	Year  int    `json:"year"`
}

type SummaryTotals struct {
	TotalExpenses     float64 `json:"totalExpenses"`
	RemainingBudget   float64 `json:"remainingBudget"`
	NumberOfExpenses  int64   `json:"numberOfExpenses"`
	BudgetUtilization string  `json:"budgetUtilization"`
}

type MonthlySummary struct {
	User               SummaryUserInfo              `json:"user"`
	CurrentMonth       MonthInfo                    `json:"currentMonth"`
	Summary            SummaryTotals                `json:"summary"`
	ExpensesByCategory []repositories.CategoryTotal `json:"expensesByCategory"`
}

// GetMonthlySummary aggregates the user's expenses over the current calendar
// month: overall total and count, and per-category totals sorted largest
// first. Budget figures are rounded to 2 places; overspend shows up as a
// negative remainingBudget.
func (uc *SummaryUseCase) GetMonthlySummary(userID string) (*MonthlySummary, error) {
	if !entities.ValidID(userID) {
		return nil, apperr.BadRequestf("Invalid user ID")
	}
	user, err := uc.UserRepo.GetByID(userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.NotFoundf("User not found")
	}
	if err != nil {
		return nil, err
	}

	if uc.Cache != nil {
		if cached, ok := uc.Cache.Get(userID); ok {
			return &cached, nil
		}
	}

	start, end := timeutil.MonthRange(uc.Now())

	total, count, err := uc.ExpenseRepo.TotalForRange(userID, start, end)
	if err != nil {
		return nil, err
	}
	byCategory, err := uc.ExpenseRepo.TotalsByCategory(userID, start, end)
	if err != nil {
		return nil, err
	}
	for i := range byCategory {
		byCategory[i].Total = moneyutil.Round2(byCategory[i].Total)
	}
	if byCategory == nil {
		byCategory = []repositories.CategoryTotal{}
	}

	summary := MonthlySummary{
		User: SummaryUserInfo{
			ID:            user.ID,
			Name:          user.Name,
			Email:         user.Email,
			MonthlyBudget: user.MonthlyBudget,
		},
		CurrentMonth: MonthInfo{
			Month: start.Month().String(),
			Year:  start.Year(),
		},
		Summary: SummaryTotals{
			TotalExpenses:     moneyutil.Round2(total),
			RemainingBudget:   moneyutil.Round2(user.MonthlyBudget - total),
			NumberOfExpenses:  count,
			BudgetUtilization: moneyutil.UtilizationPercent(total, user.MonthlyBudget),
		},
		ExpensesByCategory: byCategory,
	}

	if uc.Cache != nil {
		uc.Cache.Set(userID, summary)
	}
	return &summary, nil
}
