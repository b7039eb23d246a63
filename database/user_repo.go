package database

import (
	"errors"

	"github.com/picboard/picboard-backend/errs"
	"github.com/picboard/picboard-backend/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByID returns a user by id, or nil without error when absent. The search
// resolver relies on the nil return to short-circuit fp: lookups for unknown
// users into an empty result instead of an error.
func (r *UserRepo) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns a user by email, or nil without error when absent.
func (r *UserRepo) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Add inserts a new user. A duplicate email reports errs.ErrAlreadyExists so
// the signup handler can surface a field error instead of a 500.
func (r *UserRepo) Add(user *models.User) error {
	err := r.db.Create(user).Error
	if isUniqueViolation(err) {
		return errs.NewAlreadyExists("user")
	}
	return err
}

// Update updates an existing user in the database
func (r *UserRepo) Update(user *models.User) error {
	return r.db.Save(user).Error
}
