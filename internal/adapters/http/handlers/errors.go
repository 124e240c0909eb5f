package handlers

import (
	"errors"
	"log"
	"strconv"

	"payments-api/internal/core/domain"
	"payments-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// writeError maps a domain error to its HTTP response. Anything
// unrecognised becomes an opaque 500.
func writeError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return response.BadRequest(c, verr.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Invalid input")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return response.Unauthorized(c, "Invalid username or password")
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrUserNotFound):
		return response.Unauthorized(c, "Unauthorized")
	case errors.Is(err, domain.ErrPaymentNotFound):
		return response.NotFound(c, "Payment not found")
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Resource not found")
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return response.Conflict(c, "Username or email already exists")
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, "Conflict")
	case errors.Is(err, domain.ErrUpstream):
		log.Printf("❌ Upstream failure on %s %s: %v", c.Method(), c.Path(), err)
		return response.BadGateway(c, "Payment gateway unavailable")
	default:
		log.Printf("❌ Internal error on %s %s: %v", c.Method(), c.Path(), err)
		return response.InternalServerError(c, "Internal server error")
	}
}

// paramID parses the :id route parameter
func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return uint(id), nil
}
