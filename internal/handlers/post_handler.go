package handlers

import (
	"snapgram/internal/middleware"
	"snapgram/internal/services"
	"snapgram/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for posts, likes, saves and comments.
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// RegisterRoutes registers the post routes, all behind protect.
func (h *PostHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	posts := router.Group("/posts", protect)
	posts.Post("/", h.HandleCreatePost)
	posts.Get("/", h.HandleGetAllPosts)
	posts.Get("/mine", h.HandleGetMyPosts)
	posts.Patch("/:id/save", h.HandleSaveOrUnsave)
	posts.Patch("/:id/like", h.HandleLikeOrDislike)
	posts.Delete("/:id", h.HandleDeletePost)
	posts.Post("/:id/comments", h.HandleAddComment)
}

// HandleCreatePost accepts a multipart body with a required image field and
// an optional caption.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	caption := c.FormValue("caption")

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return apperr.Validation("No image provided")
	}
	imageData, err := readFileHeader(fileHeader)
	if err != nil {
		return err
	}

	post, err := h.postService.CreatePost(c.UserContext(), user.ID, caption, imageData)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusCreated, "Post created successfully", fiber.Map{"post": post})
}

// HandleGetAllPosts returns the feed, newest first.
func (h *PostHandler) HandleGetAllPosts(c *fiber.Ctx) error {
	posts, err := h.postService.GetAllPosts()
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "", fiber.Map{
		"results": len(posts),
		"posts":   posts,
	})
}

// HandleGetMyPosts returns the caller's posts, newest first.
func (h *PostHandler) HandleGetMyPosts(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	posts, err := h.postService.GetUserPosts(user.ID)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "", fiber.Map{
		"results": len(posts),
		"posts":   posts,
	})
}

// HandleSaveOrUnsave toggles the post in the caller's saved list.
func (h *PostHandler) HandleSaveOrUnsave(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	updated, saved, err := h.postService.SaveOrUnsave(user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	message := "Post unsaved successfully"
	if saved {
		message = "Post saved successfully"
	}
	return jsonSuccess(c, fiber.StatusOK, message, fiber.Map{"user": updated})
}

// HandleLikeOrDislike toggles the caller in the post's like set.
func (h *PostHandler) HandleLikeOrDislike(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	liked, err := h.postService.LikeOrDislike(user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	message := "Post disliked successfully"
	if liked {
		message = "Post liked successfully"
	}
	return jsonSuccess(c, fiber.StatusOK, message, nil)
}

// HandleDeletePost deletes an owned post and its dependents.
func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	if err := h.postService.DeletePost(c.UserContext(), user.ID, c.Params("id")); err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "Post deleted successfully", nil)
}

// CommentRequest represents the request body for adding a comment.
type CommentRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

// HandleAddComment creates a comment on a post.
func (h *PostHandler) HandleAddComment(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	comment, err := h.postService.AddComment(user.ID, c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusCreated, "Comment added successfully", fiber.Map{"comment": comment})
}
