package repositories

import (
	"errors"
	"time"

	"expense-server/db"
	"expense-server/entities"

	"gorm.io/gorm"
)

type userPgRepository struct {
	db db.Database
}

func NewUserPgRepository(database db.Database) UserRepository {
	return &userPgRepository{db: database}
}

func (r *userPgRepository) Create(user *entities.User) error {
	now := entities.NewTimestamp(time.Now())
	user.CreatedAt = now
	user.UpdatedAt = now
	return r.db.GetDB().Create(user).Error
}

func (r *userPgRepository) GetByID(id string) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userPgRepository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userPgRepository) GetAll(emailFilter string) ([]entities.User, error) {
	q := r.db.GetDB().Model(&entities.User{})
	if emailFilter != "" {
		q = q.Where("email = ?", emailFilter)
	}
	var users []entities.User
	err := q.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *userPgRepository) Update(user *entities.User) error {
	user.UpdatedAt = entities.NewTimestamp(time.Now())
	return r.db.GetDB().Save(user).Error
}
