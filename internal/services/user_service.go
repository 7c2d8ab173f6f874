package services

import (
	"context"
	"fmt"
	"log"

	"snapgram/internal/models"
	"snapgram/internal/repositories"
	"snapgram/pkg/apperr"
)

// UserService handles profiles, suggestions and the follow graph.
type UserService struct {
	userRepo repositories.UserRepository
	store    ImageStore
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, store ImageStore) *UserService {
	return &UserService{
		userRepo: userRepo,
		store:    store,
	}
}

// GetProfile returns a user with owned and saved posts populated, newest
// first. Secret fields never serialize.
func (s *UserService) GetProfile(id string) (*models.User, error) {
	user, err := s.userRepo.GetProfile(id)
	if err != nil {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}

// EditProfile updates the bio and/or uploads a new profile picture. Either
// field may be absent.
func (s *UserService) EditProfile(ctx context.Context, userID, bio string, pictureData []byte) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, apperr.NotFound("User not found")
	}

	if len(pictureData) > 0 {
		url, _, err := s.store.Upload(ctx, pictureData)
		if err != nil {
			log.Printf("Failed to upload profile picture for user %s: %v", userID, err)
			return nil, apperr.Internal("Failed to upload the image")
		}
		user.ProfilePicture = url
	}
	if bio != "" {
		user.Bio = bio
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile for user %s: %w", userID, err)
	}
	return user, nil
}

// SuggestedUsers returns every user except the caller. No ranking.
func (s *UserService) SuggestedUsers(excludeUserID string) ([]models.User, error) {
	return s.userRepo.GetAllExcept(excludeUserID)
}

// FollowUnfollow toggles the follow relationship between the caller and the
// target, updating both sides symmetrically, and returns the caller's
// refreshed record.
func (s *UserService) FollowUnfollow(loginUserID, targetUserID string) (*models.User, bool, error) {
	if loginUserID == targetUserID {
		return nil, false, apperr.Validation("You cannot follow/unfollow yourself")
	}
	if _, err := s.userRepo.GetByID(targetUserID); err != nil {
		return nil, false, apperr.NotFound("User not found")
	}

	following, err := s.userRepo.IsFollowing(loginUserID, targetUserID)
	if err != nil {
		return nil, false, err
	}
	if following {
		err = s.userRepo.Unfollow(loginUserID, targetUserID)
	} else {
		err = s.userRepo.Follow(loginUserID, targetUserID)
	}
	if err != nil {
		return nil, false, err
	}

	updated, err := s.userRepo.GetProfile(loginUserID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to reload user %s: %w", loginUserID, err)
	}
	return updated, !following, nil
}
