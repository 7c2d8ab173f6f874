package repositories

import "snapgram/internal/models"

// PostRepository defines the interface for post data access, including the
// like set stored alongside each post.
type PostRepository interface {
	Create(post *models.Post) error
	// GetByID loads a post with owner, likes and comments (with authors).
	GetByID(id string) (*models.Post, error)
	// GetFeed returns every post, newest first.
	GetFeed() ([]models.Post, error)
	// GetByUser returns one user's posts, newest first.
	GetByUser(userID string) ([]models.Post, error)
	Delete(id string) error

	IsLiked(postID, userID string) (bool, error)
	Like(postID, userID string) error
	Unlike(postID, userID string) error
}
