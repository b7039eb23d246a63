package models

import "time"

// Post represents an uploaded image with its derived metadata. Width, height
// and the two storage locators are set once by the ingestion pipeline and
// never updated. Posts are soft-deleted by clearing Active; the row stays
// addressable by id.
type Post struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement;not null"`
	UserID    uint      `json:"userId" db:"user_id" gorm:"not null;index:idx_post_user_id"`
	Active    bool      `json:"active" db:"active" gorm:"not null;default:true"`
	Width     int       `json:"width" db:"width" gorm:"type:integer;not null"`
	Height    int       `json:"height" db:"height" gorm:"type:integer;not null"`
	Source    string    `json:"source" db:"source" gorm:"type:text"`
	URL       string    `json:"url" db:"url" gorm:"type:text;not null"`
	ThumbURL  string    `json:"thumbUrl" db:"thumb_url" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null;index:idx_post_created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Tags []Tag `json:"tags,omitempty" gorm:"many2many:tagged_posts;constraint:OnDelete:CASCADE"`
}
