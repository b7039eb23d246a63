package models

import "time"

// Flag is a user report against a post, reviewed by admins.
type Flag struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement;not null"`
	PostID    uint      `json:"postId" db:"post_id" gorm:"not null;index:idx_flag_post_id"`
	UserID    uint      `json:"userId" db:"user_id" gorm:"not null"`
	Reason    string    `json:"reason" db:"reason" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Post *Post `json:"post,omitempty" gorm:"foreignKey:PostID;references:ID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}
