package database

import (
	"github.com/picboard/picboard-backend/models"
	"gorm.io/gorm"
)

type FlagRepo struct {
	db *gorm.DB
}

func NewFlagRepo(db *gorm.DB) *FlagRepo {
	return &FlagRepo{db}
}

// Add inserts a new flag into the database
func (r *FlagRepo) Add(flag *models.Flag) error {
	return r.db.Create(flag).Error
}

// FindAll returns every flag, newest first, with the flagged post and the
// reporting user attached for the admin review listing.
func (r *FlagRepo) FindAll() ([]*models.Flag, error) {
	var flags []*models.Flag
	err := r.db.
		Order("created_at DESC").
		Preload("Post").
		Preload("User").
		Find(&flags).Error
	return flags, err
}
