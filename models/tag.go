package models

import "time"

// Tag is a canonical, case-sensitive tag name. Tags are created lazily the
// first time an ingestion references the name and are only removed by explicit
// administrative deletion, which cascades to their post associations.
type Tag struct {
	ID          uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement;not null"`
	Name        string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex:idx_tag_name"`
	Description string    `json:"description" db:"description" gorm:"type:text"`
	Active      bool      `json:"active" db:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	Posts []Post `json:"posts,omitempty" gorm:"many2many:tagged_posts;constraint:OnDelete:CASCADE"`
}
