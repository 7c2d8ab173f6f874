// Package apperr defines the error kinds the service layer reports and the
// single translation point that maps them onto HTTP responses.
package apperr

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Error carries a client-safe message and the HTTP status it maps to.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an Error with an explicit status code.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Validation reports missing or malformed input.
func Validation(message string) *Error {
	return New(fiber.StatusBadRequest, message)
}

// Unauthorized reports bad or missing credentials.
func Unauthorized(message string) *Error {
	return New(fiber.StatusUnauthorized, message)
}

// Forbidden reports an action on a resource the caller does not own.
func Forbidden(message string) *Error {
	return New(fiber.StatusForbidden, message)
}

// NotFound reports a missing resource.
func NotFound(message string) *Error {
	return New(fiber.StatusNotFound, message)
}

// Internal reports an infrastructure failure (database, email, image host).
func Internal(message string) *Error {
	return New(fiber.StatusInternalServerError, message)
}

// ErrorHandler is the Fiber error handler every route funnels through. It maps
// an *Error onto its status and the {status, message} envelope; anything else
// is logged and reported generically so internals never leak to clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went very wrong"

	var appErr *Error
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	default:
		log.Printf("Unexpected error: %v", err)
	}

	status := "error"
	if code < fiber.StatusInternalServerError {
		status = "fail"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  status,
		"message": message,
	})
}
