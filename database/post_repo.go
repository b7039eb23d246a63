package database

import (
	"github.com/picboard/picboard-backend/models"
	"gorm.io/gorm"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// PostFilter narrows a page query. A nil IDs slice means no id restriction;
// an empty non-nil slice matches nothing (a resolved-but-empty candidate set).
type PostFilter struct {
	IDs     []uint
	OwnerID *uint
}

// FindPage returns one page of active posts matching the filter, newest first
// with tags preloaded, plus the total match count over the same filter.
func (r *PostRepo) FindPage(filter PostFilter, page, pageSize int) ([]*models.Post, int64, error) {
	if page < 1 {
		page = 1
	}

	query := r.db.Model(&models.Post{}).Where("active = ?", true)
	if filter.IDs != nil {
		query = query.Where("id IN ?", filter.IDs)
	}
	if filter.OwnerID != nil {
		query = query.Where("user_id = ?", *filter.OwnerID)
	}
	// Reusable session: the same conditions feed both the count and the page.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Preload("Tags").
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// FindByID returns a post by id with tags and owner preloaded, regardless of
// the active flag. Inactive posts stay addressable by id.
func (r *PostRepo) FindByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Tags").Preload("User").First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Add inserts a new post into the database
func (r *PostRepo) Add(post *models.Post) error {
	return r.db.Create(post).Error
}

// Update updates an existing post in the database
func (r *PostRepo) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// Delete hard-deletes a post row and its tag associations. Used by the
// ingestion pipeline's compensating cleanup; soft deletion goes through
// Update with Active cleared.
func (r *PostRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.TaggedPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.FavoritedPost{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}
