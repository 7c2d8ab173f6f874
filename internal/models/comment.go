package models

import "gorm.io/gorm"

// Comment belongs to exactly one post. Comments are only created through the
// add-comment operation and only deleted as part of a post deletion cascade.
type Comment struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Text       string `json:"text" gorm:"type:varchar(1000)" validate:"required,max=1000"`
	UserID     string `json:"userId" gorm:"type:varchar(36);index"`
	User       *User  `json:"user,omitempty"`
	PostID     string `json:"postId" gorm:"type:varchar(36);index"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
