package repositories

import (
	"errors"
	"time"

	"expense-server/entities"
)

// ErrNotFound is returned by lookups when no record matches. The usecases
// map it to the NotFound taxonomy; any other repository error passes through
// as an internal failure.
var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	Create(user *entities.User) error
	GetByID(id string) (*entities.User, error)
	// GetByEmail returns (nil, nil) when no user has the email.
	GetByEmail(email string) (*entities.User, error)
	// GetAll returns users newest-created-first, optionally filtered to an
	// exact (already normalized) email.
	GetAll(emailFilter string) ([]entities.User, error)
	Update(user *entities.User) error
}

// ExpenseFilter narrows a user's expense listing. Category is empty for no
// category filter; Start/End are nil for an unbounded range.
type ExpenseFilter struct {
	UserID   string
	Category string
	Start    *time.Time
	End      *time.Time
	Offset   int
	Limit    int
}

// CategoryTotal is one row of the per-category aggregation.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}

type ExpenseRepository interface {
	Create(expense *entities.Expense) error
	GetByID(id string) (*entities.Expense, error)
	// ListByUser returns one page of matches sorted by date descending,
	// plus the total number of matching records.
	ListByUser(filter ExpenseFilter) ([]entities.Expense, int64, error)
	Update(expense *entities.Expense) error
	Delete(id string) error
	// TotalForRange sums a user's expense amounts within [start, end].
	TotalForRange(userID string, start, end time.Time) (float64, int64, error)
	// TotalsByCategory groups the same window per category, largest total first.
	TotalsByCategory(userID string, start, end time.Time) ([]CategoryTotal, error)
}
