package services_test

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"testing"

	"snapgram/internal/models"
	"snapgram/internal/services"
	"snapgram/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil)
	assert.NoError(t, err)
	return buf.Bytes()
}

func TestCreatePost_Success(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockStore := new(MockImageStore)
	postService := services.NewPostService(mockPosts, new(MockCommentRepository), new(MockUserRepository), mockStore, nil)

	mockStore.On("Upload", mock.Anything, mock.AnythingOfType("[]uint8")).Return("https://img.example.com/images/p1.jpg", "images/p1.jpg", nil)
	mockPosts.On("Create", mock.AnythingOfType("*models.Post")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Post).ID = "post-1"
	}).Return(nil)
	created := &models.Post{ID: "post-1", UserID: "user-1", Caption: "hello", ImageURL: "https://img.example.com/images/p1.jpg"}
	mockPosts.On("GetByID", "post-1").Return(created, nil)

	post, err := postService.CreatePost(context.Background(), "user-1", "hello", jpegBytes(t, 100, 100))

	assert.NoError(t, err)
	assert.Equal(t, "post-1", post.ID)
	assert.Equal(t, "https://img.example.com/images/p1.jpg", post.ImageURL)
	mockPosts.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestCreatePost_NoImage(t *testing.T) {
	mockStore := new(MockImageStore)
	postService := services.NewPostService(new(MockPostRepository), new(MockCommentRepository), new(MockUserRepository), mockStore, nil)

	_, err := postService.CreatePost(context.Background(), "user-1", "hello", nil)

	var appErr *apperr.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "No image provided", appErr.Message)
	mockStore.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestCreatePost_InvalidImage(t *testing.T) {
	mockStore := new(MockImageStore)
	postService := services.NewPostService(new(MockPostRepository), new(MockCommentRepository), new(MockUserRepository), mockStore, nil)

	_, err := postService.CreatePost(context.Background(), "user-1", "hello", []byte("not an image"))

	var appErr *apperr.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Invalid or unsupported image", appErr.Message)
	mockStore.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestCreatePost_UploadFailure(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockStore := new(MockImageStore)
	postService := services.NewPostService(mockPosts, new(MockCommentRepository), new(MockUserRepository), mockStore, nil)

	mockStore.On("Upload", mock.Anything, mock.Anything).Return("", "", assert.AnError)

	_, err := postService.CreatePost(context.Background(), "user-1", "hello", jpegBytes(t, 100, 100))

	var appErr *apperr.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.Code)
	mockPosts.AssertNotCalled(t, "Create", mock.Anything)
}

func TestLikeOrDislike_Toggles(t *testing.T) {
	mockPosts := new(MockPostRepository)
	postService := services.NewPostService(mockPosts, new(MockCommentRepository), new(MockUserRepository), new(MockImageStore), nil)

	mockPosts.On("GetByID", "post-1").Return(&models.Post{ID: "post-1"}, nil)
	mockPosts.On("IsLiked", "post-1", "user-1").Return(false, nil).Once()
	mockPosts.On("Like", "post-1", "user-1").Return(nil).Once()

	liked, err := postService.LikeOrDislike("user-1", "post-1")
	assert.NoError(t, err)
	assert.True(t, liked)

	mockPosts.On("IsLiked", "post-1", "user-1").Return(true, nil).Once()
	mockPosts.On("Unlike", "post-1", "user-1").Return(nil).Once()

	liked, err = postService.LikeOrDislike("user-1", "post-1")
	assert.NoError(t, err)
	assert.False(t, liked)
	mockPosts.AssertExpectations(t)
}

func TestLikeOrDislike_MissingPost(t *testing.T) {
	mockPosts := new(MockPostRepository)
	postService := services.NewPostService(mockPosts, new(MockCommentRepository), new(MockUserRepository), new(MockImageStore), nil)

	mockPosts.On("GetByID", "gone").Return(nil, gorm.ErrRecordNotFound)

	_, err := postService.LikeOrDislike("user-1", "gone")

	var appErr *apperr.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
	assert.Equal(t, "No such post found", appErr.Message)
}

func TestSaveOrUnsave_Toggles(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockUsers := new(MockUserRepository)
	postService := services.NewPostService(mockPosts, new(MockCommentRepository), mockUsers, new(MockImageStore), nil)

	user := &models.User{ID: "user-1"}
	mockUsers.On("GetByID", "user-1").Return(user, nil)
	mockPosts.On("GetByID", "post-1").Return(&models.Post{ID: "post-1"}, nil)
	mockUsers.On("IsPostSaved", "user-1", "post-1").Return(false, nil).Once()
	mockUsers.On("SavePost", "user-1", "post-1").Return(nil).Once()

	_, saved, err := postService.SaveOrUnsave("user-1", "post-1")
	assert.NoError(t, err)
	assert.True(t, saved)

	mockUsers.On("IsPostSaved", "user-1", "post-1").Return(true, nil).Once()
	mockUsers.On("UnsavePost", "user-1", "post-1").Return(nil).Once()

	_, saved, err = postService.SaveOrUnsave("user-1", "post-1")
	assert.NoError(t, err)
	assert.False(t, saved)
	mockUsers.AssertExpectations(t)
}

func TestSaveOrUnsave_MissingPost(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockUsers := new(MockUserRepository)
	postService := services.NewPostService(mockPosts, new(MockCommentRepository), mockUsers, new(MockImageStore), nil)

	mockUsers.On("GetByID", "user-1").Return(&models.User{ID: "user-1"}, nil)
	mockPosts.On("GetByID", "gone").Return(nil, gorm.ErrRecordNotFound)

	_, _, err := postService.SaveOrUnsave("user-1", "gone")

	var appErr *apperr.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "No such post found", appErr.Message)
	mockUsers.AssertNotCalled(t, "SavePost", mock.Anything, mock.Anything)
}

func TestDeletePost_CleanupOrder(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockComments := new(MockCommentRepository)
	mockUsers := new(MockUserRepository)
	mockStore := new(MockImageStore)
	postService := services.NewPostService(mockPosts, mockComments, mockUsers, mockStore, nil)

	post := &models.Post{ID: "post-1", UserID: "user-1", ImagePublicID: "images/p1.jpg"}
	mockPosts.On("GetByID", "post-1").Return(post, nil)

	var order []string
	mockUsers.On("RemovePostFromAllSaved", "post-1").Run(func(mock.Arguments) {
		order = append(order, "saved")
	}).Return(nil)
	mockComments.On("DeleteByPost", "post-1").Run(func(mock.Arguments) {
		order = append(order, "comments")
	}).Return(nil)
	mockStore.On("Delete", mock.Anything, "images/p1.jpg").Run(func(mock.Arguments) {
		order = append(order, "image")
	}).Return(nil)
	mockPosts.On("Delete", "post-1").Run(func(mock.Arguments) {
		order = append(order, "post")
	}).Return(nil)

	err := postService.DeletePost(context.Background(), "user-1", "post-1")

	assert.NoError(t, err)
	assert.Equal(t, []string{"saved", "comments", "image", "post"}, order)
}

func TestDeletePost_ImageFailureStillDeletesPost(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockComments := new(MockCommentRepository)
	mockUsers := new(MockUserRepository)
	mockStore := new(MockImageStore)
	postService := services.NewPostService(mockPosts, mockComments, mockUsers, mockStore, nil)

	post := &models.Post{ID: "post-1", UserID: "user-1", ImagePublicID: "images/p1.jpg"}
	mockPosts.On("GetByID", "post-1").Return(post, nil)
	mockUsers.On("RemovePostFromAllSaved", "post-1").Return(nil)
	mockComments.On("DeleteByPost", "post-1").Return(nil)
	mockStore.On("Delete", mock.Anything, "images/p1.jpg").Return(assert.AnError)
	mockPosts.On("Delete", "post-1").Return(nil)

	err := postService.DeletePost(context.Background(), "user-1", "post-1")

	assert.NoError(t, err)
	mockPosts.AssertCalled(t, "Delete", "post-1")
}

func TestDeletePost_NotOwner(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockUsers := new(MockUserRepository)
	postService := services.NewPostService(mockPosts, new(MockCommentRepository), mockUsers, new(MockImageStore), nil)

	post := &models.Post{ID: "post-1", UserID: "user-1"}
	mockPosts.On("GetByID", "post-1").Return(post, nil)

	err := postService.DeletePost(context.Background(), "user-2", "post-1")

	var appErr *apperr.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Code)
	assert.Equal(t, "You are not authorized to delete this post", appErr.Message)
	mockUsers.AssertNotCalled(t, "RemovePostFromAllSaved", mock.Anything)
	mockPosts.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestDeletePost_MissingPost(t *testing.T) {
	mockPosts := new(MockPostRepository)
	postService := services.NewPostService(mockPosts, new(MockCommentRepository), new(MockUserRepository), new(MockImageStore), nil)

	mockPosts.On("GetByID", "gone").Return(nil, gorm.ErrRecordNotFound)

	err := postService.DeletePost(context.Background(), "user-1", "gone")

	var appErr *apperr.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestAddComment_Success(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockComments := new(MockCommentRepository)
	postService := services.NewPostService(mockPosts, mockComments, new(MockUserRepository), new(MockImageStore), nil)

	mockPosts.On("GetByID", "post-1").Return(&models.Post{ID: "post-1"}, nil)
	mockComments.On("Create", mock.AnythingOfType("*models.Comment")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Comment).ID = "comment-1"
	}).Return(nil)
	created := &models.Comment{ID: "comment-1", Text: "nice", UserID: "user-1", PostID: "post-1", User: &models.User{ID: "user-1", Username: "alice"}}
	mockComments.On("GetByID", "comment-1").Return(created, nil)

	comment, err := postService.AddComment("user-1", "post-1", "nice")

	assert.NoError(t, err)
	assert.Equal(t, "nice", comment.Text)
	assert.Equal(t, "alice", comment.User.Username)
}

func TestAddComment_EmptyText(t *testing.T) {
	mockComments := new(MockCommentRepository)
	postService := services.NewPostService(new(MockPostRepository), mockComments, new(MockUserRepository), new(MockImageStore), nil)

	_, err := postService.AddComment("user-1", "post-1", "")

	var appErr *apperr.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Comment text is required", appErr.Message)
	mockComments.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAddComment_MissingPost(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockComments := new(MockCommentRepository)
	postService := services.NewPostService(mockPosts, mockComments, new(MockUserRepository), new(MockImageStore), nil)

	mockPosts.On("GetByID", "gone").Return(nil, gorm.ErrRecordNotFound)

	_, err := postService.AddComment("user-1", "gone", "nice")

	var appErr *apperr.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}
