package repositories

import (
	"fmt"
	"snapgram/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create creates a new post in the database.
func (r *GORMPostRepository) Create(post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post with its owner, like set and comments populated.
func (r *GORMPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post
	err := r.db.
		Preload("User").
		Preload("Likes").
		Preload("Comments").
		Preload("Comments.User").
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get post by ID %s: %w", id, err)
	}
	return &post, nil
}

// GetFeed returns all posts newest first, with owners and comment authors.
func (r *GORMPostRepository) GetFeed() ([]models.Post, error) {
	var posts []models.Post
	err := r.db.
		Preload("User").
		Preload("Likes").
		Preload("Comments").
		Preload("Comments.User").
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}
	return posts, nil
}

// GetByUser returns one user's posts newest first.
func (r *GORMPostRepository) GetByUser(userID string) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.
		Preload("User").
		Preload("Likes").
		Preload("Comments").
		Preload("Comments.User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get posts for user %s: %w", userID, err)
	}
	return posts, nil
}

// Delete removes the post record and its like rows for good. Saved-list and
// comment cleanup happen before this in the deletion sequence.
func (r *GORMPostRepository) Delete(id string) error {
	if err := r.db.Exec("DELETE FROM post_likes WHERE post_id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to clear likes for post %s: %w", id, err)
	}
	res := r.db.Unscoped().Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post with ID %s not found for deletion: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// IsLiked reports whether the user is in the post's like set.
func (r *GORMPostRepository) IsLiked(postID, userID string) (bool, error) {
	var count int64
	err := r.db.Table("post_likes").
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check like state: %w", err)
	}
	return count > 0, nil
}

// Like adds the user to the post's like set.
func (r *GORMPostRepository) Like(postID, userID string) error {
	err := r.db.Model(&models.Post{ID: postID}).
		Association("Likes").
		Append(&models.User{ID: userID})
	if err != nil {
		return fmt.Errorf("failed to like post %s: %w", postID, err)
	}
	return nil
}

// Unlike removes the user from the post's like set.
func (r *GORMPostRepository) Unlike(postID, userID string) error {
	err := r.db.Model(&models.Post{ID: postID}).
		Association("Likes").
		Delete(&models.User{ID: userID})
	if err != nil {
		return fmt.Errorf("failed to unlike post %s: %w", postID, err)
	}
	return nil
}
