package entities

import (
	"strings"

	"expense-server/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Categories is the closed set of permitted expense classifications.
var Categories = []string{
	"Food", "Travel", "Shopping", "Entertainment", "Bills", "Healthcare", "Education", "Other",
}

// ValidCategory reports whether c is one of Categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// CategoryList renders the permitted categories for error messages.
func CategoryList() string {
	return strings.Join(Categories, ", ")
}

type Expense struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Category  string    `gorm:"not null;index:idx_expenses_user_category,priority:2" json:"category"`
	Date      Timestamp `gorm:"type:timestamptz;index:idx_expenses_user_date,priority:2,sort:desc" json:"date"`
	UserID    string    `gorm:"type:text;not null;index:idx_expenses_user_date,priority:1;index:idx_expenses_user_category,priority:1" json:"userId"`
	CreatedAt Timestamp `gorm:"type:timestamptz" json:"createdAt"`
	UpdatedAt Timestamp `gorm:"type:timestamptz" json:"updatedAt"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}

// Validate checks the field rules after normalization.
func (e *Expense) Validate() error {
	if e.Title == "" {
		return apperr.BadRequestf("Title is required")
	}
	if len([]rune(e.Title)) < 2 {
		return apperr.BadRequestf("Title must be at least 2 characters")
	}
	if e.Amount < 1 {
		return apperr.BadRequestf("Amount must be greater than 0")
	}
	if e.Category == "" {
		return apperr.BadRequestf("Category is required")
	}
	if !ValidCategory(e.Category) {
		return apperr.BadRequestf("Invalid category")
	}
	if e.Date.IsZero() {
		return apperr.BadRequestf("Date is required")
	}
	if e.UserID == "" {
		return apperr.BadRequestf("User ID is required")
	}
	return nil
}

// ExpenseWithOwner is an expense with the owning user's name and email
// attached at read time. The owner is never embedded in the stored record.
type ExpenseWithOwner struct {
	Expense
	User OwnerRef `json:"user"`
}

type OwnerRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
