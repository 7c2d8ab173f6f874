package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"snapgram/internal/images"
	"snapgram/internal/models"
	"snapgram/internal/repositories"
	"snapgram/pkg/apperr"

	"gorm.io/gorm"
)

// PostService handles post creation, the feed, likes, comments, saves and
// deletion with its cleanup cascade.
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	userRepo    repositories.UserRepository
	store       ImageStore
	events      EventPublisher
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, userRepo repositories.UserRepository, store ImageStore, events EventPublisher) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		store:       store,
		events:      events,
	}
}

// CreatePost optimizes the uploaded image, stores it on the external host and
// persists the post. The returned post has its owner populated.
func (s *PostService) CreatePost(ctx context.Context, userID, caption string, imageData []byte) (*models.Post, error) {
	if len(imageData) == 0 {
		return nil, apperr.Validation("No image provided")
	}

	optimized, err := images.Optimize(imageData)
	if err != nil {
		return nil, apperr.Validation("Invalid or unsupported image")
	}

	url, publicID, err := s.store.Upload(ctx, optimized)
	if err != nil {
		log.Printf("Failed to upload post image for user %s: %v", userID, err)
		return nil, apperr.Internal("Failed to upload the image")
	}

	post := &models.Post{
		UserID:        userID,
		Caption:       caption,
		ImageURL:      url,
		ImagePublicID: publicID,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	created, err := s.postRepo.GetByID(post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload post %s: %w", post.ID, err)
	}

	publishEvent(s.events, "post.created", map[string]interface{}{
		"postID": created.ID,
		"userID": created.UserID,
	})

	return created, nil
}

// GetAllPosts returns the whole feed, newest first.
func (s *PostService) GetAllPosts() ([]models.Post, error) {
	return s.postRepo.GetFeed()
}

// GetUserPosts returns one user's posts, newest first.
func (s *PostService) GetUserPosts(userID string) ([]models.Post, error) {
	return s.postRepo.GetByUser(userID)
}

// SaveOrUnsave toggles the post in the user's saved list and reports the
// resulting state.
func (s *PostService) SaveOrUnsave(userID, postID string) (*models.User, bool, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, false, apperr.NotFound("User not found")
	}
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return nil, false, apperr.NotFound("No such post found")
	}

	saved, err := s.userRepo.IsPostSaved(userID, postID)
	if err != nil {
		return nil, false, err
	}
	if saved {
		err = s.userRepo.UnsavePost(userID, postID)
	} else {
		err = s.userRepo.SavePost(userID, postID)
	}
	if err != nil {
		return nil, false, err
	}
	return user, !saved, nil
}

// DeletePost removes an owned post and everything hanging off it, in a fixed
// order: saved-list references, comments, the hosted image (best effort),
// then the record itself. Graph cleanup runs first so a failed step never
// leaves references to a missing post.
func (s *PostService) DeletePost(ctx context.Context, userID, postID string) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("No such post found")
		}
		return err
	}
	if post.UserID != userID {
		return apperr.Forbidden("You are not authorized to delete this post")
	}

	if err := s.userRepo.RemovePostFromAllSaved(postID); err != nil {
		return fmt.Errorf("failed to clean saved lists for post %s: %w", postID, err)
	}
	if err := s.commentRepo.DeleteByPost(postID); err != nil {
		return fmt.Errorf("failed to delete comments for post %s: %w", postID, err)
	}
	if post.ImagePublicID != "" {
		if err := s.store.Delete(ctx, post.ImagePublicID); err != nil {
			log.Printf("Warning: failed to delete hosted image %s: %v", post.ImagePublicID, err)
		}
	}
	if err := s.postRepo.Delete(postID); err != nil {
		return fmt.Errorf("failed to delete post %s: %w", postID, err)
	}

	publishEvent(s.events, "post.deleted", map[string]interface{}{
		"postID": postID,
		"userID": userID,
	})

	return nil
}

// LikeOrDislike toggles the user in the post's like set and reports the
// resulting state.
func (s *PostService) LikeOrDislike(userID, postID string) (bool, error) {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return false, apperr.NotFound("No such post found")
	}

	liked, err := s.postRepo.IsLiked(postID, userID)
	if err != nil {
		return false, err
	}
	if liked {
		err = s.postRepo.Unlike(postID, userID)
	} else {
		err = s.postRepo.Like(postID, userID)
	}
	if err != nil {
		return false, err
	}
	return !liked, nil
}

// AddComment creates a comment on an existing post and returns it with the
// author populated.
func (s *PostService) AddComment(userID, postID, text string) (*models.Comment, error) {
	if text == "" {
		return nil, apperr.Validation("Comment text is required")
	}
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return nil, apperr.NotFound("No such post found")
	}

	comment := &models.Comment{
		Text:   text,
		UserID: userID,
		PostID: postID,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	created, err := s.commentRepo.GetByID(comment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload comment %s: %w", comment.ID, err)
	}
	return created, nil
}
