package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	apperr "github.com/sakhrm410f/secure-bank-system/internal/errors"
)

// statusFor maps engine rejection reasons onto HTTP status codes. Unknown
// errors are persistence-level and surface as 500 without leaking detail.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidAmount),
		errors.Is(err, apperr.ErrInvalidAccountNumber),
		errors.Is(err, apperr.ErrInvalidDescription),
		errors.Is(err, apperr.ErrInvalidAccountType):
		return fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrSourceNotFound),
		errors.Is(err, apperr.ErrDestinationNotFound),
		errors.Is(err, apperr.ErrAccountNotFound),
		errors.Is(err, apperr.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrInsufficientFunds),
		errors.Is(err, apperr.ErrSameAccount),
		errors.Is(err, apperr.ErrDuplicateAccountType),
		errors.Is(err, apperr.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, apperr.ErrForbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "internal error"
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}
