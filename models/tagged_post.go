package models

// TaggedPost is the join row between a post and a tag. TagName is copied from
// the tag at association time for query convenience and is deliberately not
// re-synced if the tag is later renamed.
type TaggedPost struct {
	PostID  uint   `json:"postId" db:"post_id" gorm:"primaryKey;not null;uniqueIndex:idx_tagged_post_unique"`
	TagID   uint   `json:"tagId" db:"tag_id" gorm:"primaryKey;not null;uniqueIndex:idx_tagged_post_unique"`
	TagName string `json:"tagName" db:"tag_name" gorm:"type:text;not null;index:idx_tagged_post_tag_name"`
}
