package repositories

import (
	"errors"
	"time"

	"expense-server/db"
	"expense-server/entities"

	"gorm.io/gorm"
)

type expensePgRepository struct {
	db db.Database
}

func NewExpensePgRepository(database db.Database) ExpenseRepository {
	return &expensePgRepository{db: database}
}

func (r *expensePgRepository) Create(expense *entities.Expense) error {
	now := entities.NewTimestamp(time.Now())
	expense.CreatedAt = now
	expense.UpdatedAt = now
	return r.db.GetDB().Create(expense).Error
}

func (r *expensePgRepository) GetByID(id string) (*entities.Expense, error) {
	var expense entities.Expense
	err := r.db.GetDB().Where("id = ?", id).First(&expense).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expensePgRepository) ListByUser(filter ExpenseFilter) ([]entities.Expense, int64, error) {
	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenses []entities.Expense
	err := r.filtered(filter).Order("date DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&expenses).Error
	return expenses, total, err
}

func (r *expensePgRepository) Update(expense *entities.Expense) error {
	expense.UpdatedAt = entities.NewTimestamp(time.Now())
	return r.db.GetDB().Save(expense).Error
}

func (r *expensePgRepository) Delete(id string) error {
	result := r.db.GetDB().Where("id = ?", id).Delete(&entities.Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *expensePgRepository) TotalForRange(userID string, start, end time.Time) (float64, int64, error) {
	var row struct {
		Total float64
		Count int64
	}
	err := r.db.GetDB().Model(&entities.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Scan(&row).Error
	return row.Total, row.Count, err
}

func (r *expensePgRepository) TotalsByCategory(userID string, start, end time.Time) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := r.db.GetDB().Model(&entities.Expense{}).
		Select("category, SUM(amount) AS total, COUNT(*) AS count").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Group("category").
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *expensePgRepository) filtered(filter ExpenseFilter) *gorm.DB {
	q := r.db.GetDB().Model(&entities.Expense{}).Where("user_id = ?", filter.UserID)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Start != nil {
		q = q.Where("date >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("date <= ?", *filter.End)
	}
	return q
}
