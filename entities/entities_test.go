package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserValidate(t *testing.T) {
	valid := User{Name: "Ada", Email: "ada@example.com", MonthlyBudget: 100}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name    string
		mutate  func(u *User)
		message string
	}{
		{"empty name", func(u *User) { u.Name = "" }, "Name is required"},
		{"short name", func(u *User) { u.Name = "A" }, "Name must be at least 2 characters"},
		{"empty email", func(u *User) { u.Email = "" }, "Email is required"},
		{"no at sign", func(u *User) { u.Email = "ada.example.com" }, "Invalid email format"},
		{"no tld", func(u *User) { u.Email = "ada@example" }, "Invalid email format"},
		{"space in email", func(u *User) { u.Email = "ada @example.com" }, "Invalid email format"},
		{"zero budget", func(u *User) { u.MonthlyBudget = 0 }, "Monthly budget must be greater than 0"},
		{"negative budget", func(u *User) { u.MonthlyBudget = -5 }, "Monthly budget must be greater than 0"},
	}
	for _, tc := range cases {
		u := valid
		tc.mutate(&u)
		err := u.Validate()
		require.Error(t, err, tc.name)
		assert.Equal(t, tc.message, err.Error(), tc.name)
	}
}

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		Title:    "Groceries",
		Amount:   25,
		Category: "Food",
		Date:     NewTimestamp(time.Now()),
		UserID:   "some-user",
	}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name    string
		mutate  func(e *Expense)
		message string
	}{
		{"empty title", func(e *Expense) { e.Title = "" }, "Title is required"},
		{"short title", func(e *Expense) { e.Title = "X" }, "Title must be at least 2 characters"},
		{"zero amount", func(e *Expense) { e.Amount = 0 }, "Amount must be greater than 0"},
		{"sub-unit amount", func(e *Expense) { e.Amount = 0.99 }, "Amount must be greater than 0"},
		{"unknown category", func(e *Expense) { e.Category = "Groceries" }, "Invalid category"},
		{"missing user", func(e *Expense) { e.UserID = "" }, "User ID is required"},
	}
	for _, tc := range cases {
		e := valid
		tc.mutate(&e)
		err := e.Validate()
		require.Error(t, err, tc.name)
		assert.Equal(t, tc.message, err.Error(), tc.name)
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, ValidCategory(c))
	}
	assert.False(t, ValidCategory("food"), "categories are case-sensitive")
	assert.False(t, ValidCategory(""))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail("  ADA@Example.COM "))
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("6b1e4a5c-9f27-4c39-bb71-54c60e6a9d10"))
	assert.False(t, ValidID("42"))
	assert.False(t, ValidID(""))
}

func TestTimestampMarshalsAsIST(t *testing.T) {
	ts := NewTimestamp(time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC))
	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"05-01-2026 15:30:00 IST"`, string(out))
}

func TestExpenseJSONShape(t *testing.T) {
	e := Expense{
		ID:       "id-1",
		Title:    "Groceries",
		Amount:   25.5,
		Category: "Food",
		Date:     NewTimestamp(time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)),
		UserID:   "user-1",
	}
	out, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "user-1", decoded["userId"], "camelCase keys on the wire")
	assert.Equal(t, "05-01-2026 15:30:00 IST", decoded["date"])
}
