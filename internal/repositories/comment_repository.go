package repositories

import "snapgram/internal/models"

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Create(comment *models.Comment) error
	// GetByID loads a comment with its author populated.
	GetByID(id string) (*models.Comment, error)
	// DeleteByPost removes every comment on a post (post deletion cascade).
	DeleteByPost(postID string) error
}
