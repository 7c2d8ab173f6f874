package handlers

import (
	"snapgram/internal/middleware"
	"snapgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for profiles, suggestions and follows.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterRoutes registers the profile and social routes behind protect.
// The static paths go first so "/:id" never shadows them.
func (h *UserHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	users := router.Group("/users", protect)
	users.Get("/me", h.HandleGetMe)
	users.Get("/suggested", h.HandleSuggested)
	users.Patch("/editProfile", h.HandleEditProfile)
	users.Patch("/follow/:id", h.HandleFollowUnfollow)
	users.Get("/:id", h.HandleGetProfile)
}

// HandleGetMe returns the authenticated caller's own record.
func (h *UserHandler) HandleGetMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return jsonSuccess(c, fiber.StatusOK, "Authenticated successfully", fiber.Map{"user": user})
}

// HandleGetProfile returns any user's profile with posts populated.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.userService.GetProfile(c.Params("id"))
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "", fiber.Map{"user": user})
}

// HandleSuggested returns every user except the caller.
func (h *UserHandler) HandleSuggested(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	users, err := h.userService.SuggestedUsers(user.ID)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "", fiber.Map{"users": users})
}

// HandleEditProfile accepts a multipart body with optional bio and
// profilePicture fields.
func (h *UserHandler) HandleEditProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	bio := c.FormValue("bio")

	pictureData, err := readFormFile(c, "profilePicture")
	if err != nil {
		return err
	}

	updated, err := h.userService.EditProfile(c.UserContext(), user.ID, bio, pictureData)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "Profile successfully updated", fiber.Map{"user": updated})
}

// HandleFollowUnfollow toggles the follow relationship with the target user.
func (h *UserHandler) HandleFollowUnfollow(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	updated, followed, err := h.userService.FollowUnfollow(user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	message := "Unfollowed successfully"
	if followed {
		message = "Followed successfully"
	}
	return jsonSuccess(c, fiber.StatusOK, message, fiber.Map{"user": updated})
}
