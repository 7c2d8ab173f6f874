package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"snapgram/internal/middleware"
	"snapgram/internal/models"
	"snapgram/pkg/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// cookieTTL matches the session token lifetime.
const cookieTTL = 24 * time.Hour

// jsonSuccess writes the shared {status, message?, data?} envelope.
func jsonSuccess(c *fiber.Ctx, status int, message string, data fiber.Map) error {
	body := fiber.Map{"status": "success"}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// sendToken sets the session cookie and writes the auth envelope, which also
// carries the token in the body for non-browser clients. Production tightens
// the cookie to Secure + SameSite=None for the cross-site frontend.
func sendToken(c *fiber.Ctx, production bool, status int, message, token string, user *models.User) error {
	sameSite := "Lax"
	if production {
		sameSite = "None"
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(cookieTTL),
		HTTPOnly: true,
		Secure:   production,
		SameSite: sameSite,
	})

	body := fiber.Map{
		"status": "success",
		"token":  token,
		"data":   fiber.Map{"user": user},
	}
	if message != "" {
		body["message"] = message
	}
	return c.Status(status).JSON(body)
}

// validationError turns the first validator failure into a client message.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		return apperr.Validation(fmt.Sprintf("Field '%s' failed on the '%s' rule", e.Field(), e.Tag()))
	}
	return apperr.Validation("Validation failed")
}

// readFormFile reads an optional multipart file field. A missing field
// returns nil bytes and no error.
func readFormFile(c *fiber.Ctx, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	return readFileHeader(fileHeader)
}

func readFileHeader(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, apperr.Validation("Could not read the uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperr.Validation("Could not read the uploaded file")
	}
	return data, nil
}
