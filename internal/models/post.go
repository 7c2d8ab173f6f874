package models

import "gorm.io/gorm"

// Post is an image post on the feed. The image itself lives on the external
// host; ImagePublicID is the host-assigned key needed to delete it later.
type Post struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID        string    `json:"userId" gorm:"type:varchar(36);index"`
	User          *User     `json:"user,omitempty"`
	Caption       string    `json:"caption" gorm:"type:varchar(2200)" validate:"omitempty,max=2200"`
	ImageURL      string    `json:"imageUrl"`
	ImagePublicID string    `json:"-" gorm:"type:varchar(255)"`
	Likes         []*User   `json:"likes,omitempty" gorm:"many2many:post_likes"`
	Comments      []Comment `json:"comments,omitempty" gorm:"foreignKey:PostID"`
	gorm.Model              // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
