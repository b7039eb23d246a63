package database

import (
	"errors"

	"github.com/picboard/picboard-backend/errs"
	"github.com/picboard/picboard-backend/models"
	"gorm.io/gorm"
)

type FavoriteRepo struct {
	db *gorm.DB
}

func NewFavoriteRepo(db *gorm.DB) *FavoriteRepo {
	return &FavoriteRepo{db}
}

// Exists reports whether the user has favorited the post.
func (r *FavoriteRepo) Exists(postID, userID uint) (bool, error) {
	var fav models.FavoritedPost
	err := r.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&fav).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Add inserts the favorite row. A duplicate pair maps to ErrAlreadyExists so
// the toggle can resolve a lost concurrent race.
func (r *FavoriteRepo) Add(postID, userID uint) error {
	err := r.db.Create(&models.FavoritedPost{PostID: postID, UserID: userID}).Error
	if err != nil && isUniqueViolation(err) {
		return errs.NewAlreadyExists("favorite")
	}
	return err
}

func (r *FavoriteRepo) Delete(postID, userID uint) error {
	return r.db.
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.FavoritedPost{}).Error
}

// PostIDsFavoritedBy returns the ids of every post the user has favorited.
func (r *FavoriteRepo) PostIDsFavoritedBy(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.FavoritedPost{}).
		Where("user_id = ?", userID).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FavoritesOf returns the user's favorited posts with tags preloaded.
func (r *FavoriteRepo) FavoritesOf(userID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.Model(&models.Post{}).
		Joins("JOIN favorited_posts ON favorited_posts.post_id = posts.id").
		Where("favorited_posts.user_id = ?", userID).
		Order("posts.created_at DESC").
		Preload("Tags").
		Find(&posts).Error
	return posts, err
}
