package entities

import (
	"regexp"
	"strings"

	"expense-server/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type User struct {
	ID            string    `gorm:"type:text;primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	MonthlyBudget float64   `gorm:"not null" json:"monthlyBudget"`
	CreatedAt     Timestamp `gorm:"type:timestamptz" json:"createdAt"`
	UpdatedAt     Timestamp `gorm:"type:timestamptz" json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// Validate checks the field rules after normalization. The caller runs the
// normalization first so trimming never masks a too-short name.
func (u *User) Validate() error {
	if u.Name == "" {
		return apperr.BadRequestf("Name is required")
	}
	if len([]rune(u.Name)) < 2 {
		return apperr.BadRequestf("Name must be at least 2 characters")
	}
	if u.Email == "" {
		return apperr.BadRequestf("Email is required")
	}
	if !emailPattern.MatchString(u.Email) {
		return apperr.BadRequestf("Invalid email format")
	}
	if u.MonthlyBudget < 1 {
		return apperr.BadRequestf("Monthly budget must be greater than 0")
	}
	return nil
}

// NormalizeEmail lowercases and trims an email the same way persisted
// records are normalized, so comparisons are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidID reports whether id is a well-formed record identifier.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
