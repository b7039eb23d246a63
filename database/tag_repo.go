package database

import (
	"errors"

	"github.com/picboard/picboard-backend/models"
	"gorm.io/gorm"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindAll returns all tags from the database
func (r *TagRepo) FindAll() ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

// FindOrCreate returns the tag with the given name, inserting it with
// active=true if absent. Concurrent ingestions may race to insert the same
// name; the loser of the race hits the unique index and re-reads the winner's
// row instead of surfacing a duplicate-key error.
func (r *TagRepo) FindOrCreate(name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = models.Tag{Name: name, Active: true}
	if err := r.db.Create(&tag).Error; err != nil {
		if isUniqueViolation(err) {
			var existing models.Tag
			if err := r.db.Where("name = ?", name).First(&existing).Error; err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}
	return &tag, nil
}

// ToggleActive flips the active flag on each of the given tags.
func (r *TagRepo) ToggleActive(ids []uint) error {
	return r.db.Model(&models.Tag{}).
		Where("id IN ?", ids).
		Update("active", gorm.Expr("NOT active")).Error
}

// Delete removes tags and cascades to their post associations.
func (r *TagRepo) Delete(ids []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id IN ?", ids).Delete(&models.TaggedPost{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Tag{}).Error
	})
}
