package middleware

import (
	"snapgram/internal/models"
	"snapgram/internal/repositories"
	"snapgram/internal/services"
	"snapgram/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "jwt"

// Protect gates a route behind the session cookie: it verifies the token's
// signature and expiry, loads the account it names and stores it in
// c.Locals("user") for the handlers.
func Protect(authService *services.AuthService, userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(SessionCookie)
		if tokenString == "" {
			return apperr.Unauthorized("You are not logged in")
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			return apperr.Unauthorized("Invalid or expired token")
		}
		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			return apperr.Unauthorized("Invalid or expired token")
		}

		user, err := userRepo.GetByID(userID)
		if err != nil {
			return apperr.Unauthorized("The user belonging to this token no longer exists")
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// CurrentUser returns the account loaded by Protect, or nil on an
// unprotected route.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}
