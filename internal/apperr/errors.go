package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrValidation    = errors.New("invalid request")
	ErrAuthorization = errors.New("not allowed")
	ErrNotFound      = errors.New("not found")
	ErrOTPExpired    = errors.New("otp expired or not requested")
	ErrInvalidOTP    = errors.New("invalid otp")
	ErrRateLimited   = errors.New("rate limited")
	ErrInternal      = errors.New("internal error")
)

// StatusCode maps a service error to an HTTP status. Unrecognized errors
// are treated as internal.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidOTP):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrAuthorization), errors.Is(err, ErrOTPExpired):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrRateLimited):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// Respond writes the standard error body for err.
func Respond(c *fiber.Ctx, err error) error {
	return c.Status(StatusCode(err)).JSON(fiber.Map{"error": err.Error()})
}
