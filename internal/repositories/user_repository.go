package repositories

import "snapgram/internal/models"

// UserRepository defines the interface for user data access, including the
// saved-posts list and the follow graph hanging off each user.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(id string) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	// GetProfile loads a user with owned and saved posts, newest first.
	GetProfile(id string) (*models.User, error)
	GetAllExcept(id string) ([]models.User, error)

	IsPostSaved(userID, postID string) (bool, error)
	SavePost(userID, postID string) error
	UnsavePost(userID, postID string) error
	// RemovePostFromAllSaved pulls a post out of every user's saved list.
	RemovePostFromAllSaved(postID string) error

	IsFollowing(followerID, targetID string) (bool, error)
	Follow(followerID, targetID string) error
	Unfollow(followerID, targetID string) error
}
