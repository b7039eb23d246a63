package models

// FavoritedPost marks a post as favorited by a user. Presence of the row is
// the whole state; the unique index makes concurrent duplicate toggles safe.
type FavoritedPost struct {
	PostID uint `json:"postId" db:"post_id" gorm:"primaryKey;not null;uniqueIndex:idx_favorited_post_unique"`
	UserID uint `json:"userId" db:"user_id" gorm:"primaryKey;not null;uniqueIndex:idx_favorited_post_unique"`
}
