package serverutils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware renders errors returned by downstream handlers as the
// JSON envelope. Unknown errors become a 500 without leaking their text.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, err)
	}
}

// ErrorHandler is the fiber.Config variant of the middleware.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	return WriteError(ctx, err)
}

func WriteError(ctx *fiber.Ctx, err error) error {
	if appErr, ok := AsAppError(err); ok {
		return ctx.Status(appErr.Code).JSON(ErrorResponse(appErr.Code, appErr.Message, appErr.Errors...))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
	}

	log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), err)
	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
}
