package models

import "time"

// User is an account that owns posts and favorites.
type User struct {
	ID                 uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement;not null"`
	Username           string    `json:"username" db:"username" gorm:"type:text;not null"`
	Email              string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex:idx_user_email"`
	Password           string    `json:"-" db:"password" gorm:"type:text;not null"`
	PasswordResetToken string    `json:"-" db:"password_reset_token" gorm:"type:text"`
	Admin              bool      `json:"admin" db:"admin" gorm:"not null;default:false"`
	Bio                string    `json:"bio" db:"bio" gorm:"type:text;default:''"`
	Active             bool      `json:"active" db:"active" gorm:"not null;default:true"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`

	Posts          []Post `json:"posts,omitempty" gorm:"foreignKey:UserID;references:ID"`
	FavoritedPosts []Post `json:"favoritedPosts,omitempty" gorm:"many2many:favorited_posts;constraint:OnDelete:CASCADE"`
}
