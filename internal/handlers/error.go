package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/makerlink/server/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler maps the service error taxonomy onto HTTP statuses.
// An empty result set is a valid 200, never an error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation failed",
			Details: verr.Error(),
		})
	}

	var uerr *services.UpstreamError
	if errors.As(err, &uerr) {
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: uerr.Dependency + " unavailable",
		})
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "not found",
		})
	}

	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error: message,
	})
}
