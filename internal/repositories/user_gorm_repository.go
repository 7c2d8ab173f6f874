package repositories

import (
	"fmt"
	"snapgram/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update persists every field of the user, including cleared OTP state.
func (r *GORMUserRepository) Update(user *models.User) error {
	if err := r.db.Omit("Posts", "SavedPosts", "Followers", "Following").Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return nil
}

// Delete removes a user record for good. Only used to roll back a signup
// whose verification email could not be sent, so the hard delete keeps the
// unique email index free for a retry.
func (r *GORMUserRepository) Delete(id string) error {
	res := r.db.Unscoped().Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for deletion: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// GetProfile loads a user with owned and saved posts preloaded, newest first,
// plus the follow graph.
func (r *GORMUserRepository) GetProfile(id string) (*models.User, error) {
	newestFirst := func(db *gorm.DB) *gorm.DB {
		return db.Order("posts.created_at DESC")
	}

	var user models.User
	err := r.db.
		Preload("Posts", newestFirst).
		Preload("Posts.Comments").
		Preload("SavedPosts", newestFirst).
		Preload("Followers").
		Preload("Following").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get profile for user %s: %w", id, err)
	}
	return &user, nil
}

// GetAllExcept returns every user other than the given one.
func (r *GORMUserRepository) GetAllExcept(id string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("id <> ?", id).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// IsPostSaved reports whether the post is in the user's saved list.
func (r *GORMUserRepository) IsPostSaved(userID, postID string) (bool, error) {
	var count int64
	err := r.db.Table("saved_posts").
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check saved post: %w", err)
	}
	return count > 0, nil
}

// SavePost appends the post to the user's saved list.
func (r *GORMUserRepository) SavePost(userID, postID string) error {
	err := r.db.Model(&models.User{ID: userID}).
		Association("SavedPosts").
		Append(&models.Post{ID: postID})
	if err != nil {
		return fmt.Errorf("failed to save post %s for user %s: %w", postID, userID, err)
	}
	return nil
}

// UnsavePost removes the post from the user's saved list.
func (r *GORMUserRepository) UnsavePost(userID, postID string) error {
	err := r.db.Model(&models.User{ID: userID}).
		Association("SavedPosts").
		Delete(&models.Post{ID: postID})
	if err != nil {
		return fmt.Errorf("failed to unsave post %s for user %s: %w", postID, userID, err)
	}
	return nil
}

// RemovePostFromAllSaved pulls the post out of every user's saved list.
func (r *GORMUserRepository) RemovePostFromAllSaved(postID string) error {
	if err := r.db.Exec("DELETE FROM saved_posts WHERE post_id = ?", postID).Error; err != nil {
		return fmt.Errorf("failed to remove post %s from saved lists: %w", postID, err)
	}
	return nil
}

// IsFollowing reports whether followerID is in the target's follower set.
func (r *GORMUserRepository) IsFollowing(followerID, targetID string) (bool, error) {
	var count int64
	err := r.db.Table("user_follows").
		Where("user_id = ? AND follower_id = ?", targetID, followerID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check follow state: %w", err)
	}
	return count > 0, nil
}

// Follow records the relationship. A single join row backs both the target's
// follower set and the follower's following set, so the update is symmetric.
func (r *GORMUserRepository) Follow(followerID, targetID string) error {
	err := r.db.Model(&models.User{ID: targetID}).
		Association("Followers").
		Append(&models.User{ID: followerID})
	if err != nil {
		return fmt.Errorf("failed to follow user %s: %w", targetID, err)
	}
	return nil
}

// Unfollow removes the relationship recorded by Follow.
func (r *GORMUserRepository) Unfollow(followerID, targetID string) error {
	err := r.db.Model(&models.User{ID: targetID}).
		Association("Followers").
		Delete(&models.User{ID: followerID})
	if err != nil {
		return fmt.Errorf("failed to unfollow user %s: %w", targetID, err)
	}
	return nil
}
