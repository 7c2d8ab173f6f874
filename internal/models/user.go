package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account on the platform. Secret fields (password hash
// and the one-time codes) carry `json:"-"` so every response is sanitized
// structurally instead of by hand.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `json:"-" gorm:"type:varchar(255)"`
	IsVerified bool   `json:"isVerified"`

	// Email verification OTP, set at signup and on resend.
	Otp        string     `json:"-" gorm:"type:varchar(8)"`
	OtpExpires *time.Time `json:"-"`

	// Password reset OTP, valid for five minutes.
	ResetPasswordOtp        string     `json:"-" gorm:"type:varchar(8)"`
	ResetPasswordOtpExpires *time.Time `json:"-"`

	Bio            string `json:"bio" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	ProfilePicture string `json:"profilePicture"`

	Posts      []Post  `json:"posts,omitempty" gorm:"foreignKey:UserID"`
	SavedPosts []*Post `json:"savedPosts,omitempty" gorm:"many2many:saved_posts"`
	Followers  []*User `json:"followers,omitempty" gorm:"many2many:user_follows;joinForeignKey:UserID;joinReferences:FollowerID"`
	Following  []*User `json:"following,omitempty" gorm:"many2many:user_follows;joinForeignKey:FollowerID;joinReferences:UserID"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
