package handlers

import (
	"time"

	"snapgram/internal/middleware"
	"snapgram/internal/services"
	"snapgram/pkg/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for the authentication lifecycle.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	production  bool
}

// NewAuthHandler creates a new AuthHandler. production tightens the session
// cookie flags.
func NewAuthHandler(authService *services.AuthService, production bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		production:  production,
	}
}

// RegisterRoutes registers the authentication routes. protect gates the
// routes that need an authenticated caller (verified or not).
func (h *AuthHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	users := router.Group("/users")
	users.Post("/signup", h.HandleSignup)
	users.Post("/login", h.HandleLogin)
	users.Post("/logout", h.HandleLogout)
	users.Post("/forgetPassword", h.HandleForgetPassword)
	users.Post("/resetPassword", h.HandleResetPassword)
	users.Patch("/verify", protect, h.HandleVerify)
	users.Patch("/resendOtp", protect, h.HandleResendOtp)
	users.Patch("/changePassword", protect, h.HandleChangePassword)
}

// SignupRequest represents the request body for signup.
type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required,min=3,max=100"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// HandleSignup creates an unverified account and emails it an OTP.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err)
	}

	user, token, err := h.authService.Signup(req.Email, req.Username, req.Password, req.PasswordConfirm)
	if err != nil {
		return err
	}
	return sendToken(c, h.production, fiber.StatusCreated, "OTP sent successfully", token, user)
}

// VerifyRequest represents the request body for account verification.
type VerifyRequest struct {
	Otp string `json:"otp" validate:"required"`
}

// HandleVerify checks the OTP for the authenticated caller.
func (h *AuthHandler) HandleVerify(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Please enter the OTP")
	}

	token, err := h.authService.VerifyAccount(user, req.Otp)
	if err != nil {
		return err
	}
	return sendToken(c, h.production, fiber.StatusOK, "Account verified successfully", token, user)
}

// HandleResendOtp regenerates and re-sends the verification OTP.
func (h *AuthHandler) HandleResendOtp(c *fiber.Ctx) error {
	if err := h.authService.ResendOtp(middleware.CurrentUser(c)); err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "OTP sent successfully", nil)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates by email and password.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return err
	}
	return sendToken(c, h.production, fiber.StatusOK, "Logged in successfully", token, user)
}

// HandleLogout overwrites the session cookie with an expiring sentinel.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "loggedOut",
		Expires:  time.Now().Add(10 * time.Second),
		HTTPOnly: true,
		Secure:   h.production,
	})
	return jsonSuccess(c, fiber.StatusOK, "Logged out", nil)
}

// ForgetPasswordRequest represents the request body for forgetPassword.
type ForgetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleForgetPassword emails a short-lived reset OTP.
func (h *AuthHandler) HandleForgetPassword(c *fiber.Ctx) error {
	var req ForgetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err)
	}

	if err := h.authService.ForgetPassword(req.Email); err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "Reset password OTP sent successfully", nil)
}

// ResetPasswordRequest represents the request body for resetPassword.
type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Otp             string `json:"otp" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// HandleResetPassword sets a new password against a valid reset OTP.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err)
	}

	user, token, err := h.authService.ResetPassword(req.Email, req.Otp, req.Password, req.PasswordConfirm)
	if err != nil {
		return err
	}
	return sendToken(c, h.production, fiber.StatusOK, "Password reset successfully", token, user)
}

// ChangePasswordRequest represents the request body for changePassword.
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required,min=8"`
	NewPasswordConfirm string `json:"newPasswordConfirm" validate:"required,eqfield=NewPassword"`
}

// HandleChangePassword rotates the authenticated caller's password.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err)
	}

	token, err := h.authService.ChangePassword(user, req.CurrentPassword, req.NewPassword, req.NewPasswordConfirm)
	if err != nil {
		return err
	}
	return sendToken(c, h.production, fiber.StatusOK, "Password changed successfully", token, user)
}
