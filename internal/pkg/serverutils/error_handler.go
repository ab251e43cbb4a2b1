package serverutils

import (
	"errors"

	"podbot-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns handler errors into the JSON envelope.
// Store and upstream failures never leak past this point: they become a generic 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := classify(err)
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

func classify(err error) (int, string) {
	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, apperror.ErrInvalidArgument):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, apperror.ErrSessionBusy):
		return fiber.StatusConflict, "Session is busy, retry shortly"
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	default:
		return fiber.StatusInternalServerError, "Operation failed"
	}
}
