package database

import (
	"github.com/picboard/picboard-backend/models"
	"gorm.io/gorm"
)

type TaggedPostRepo struct {
	db *gorm.DB
}

func NewTaggedPostRepo(db *gorm.DB) *TaggedPostRepo {
	return &TaggedPostRepo{db}
}

// Add inserts a post/tag association carrying the tag's current name. An
// association that already exists for the (postId, tagId) pair is a no-op,
// so repeated tokens in one ingestion collapse to a single row.
func (r *TaggedPostRepo) Add(assoc *models.TaggedPost) error {
	err := r.db.Create(assoc).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

// PostIDsTaggedAll resolves the tag-intersection filter: post ids that carry
// every one of the given tag names. Callers pass distinct names; a post
// qualifies when its count of matching associations equals len(names).
func (r *TaggedPostRepo) PostIDsTaggedAll(names []string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.TaggedPost{}).
		Where("tag_name IN ?", names).
		Group("post_id").
		Having("COUNT(post_id) = ?", len(names)).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
