package serverutils

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// AppError is a client-facing failure with an HTTP status.
type AppError struct {
	Code    int
	Message string
	Errors  []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewBadRequest(message string, errs ...string) *AppError {
	return &AppError{Code: fiber.StatusBadRequest, Message: message, Errors: errs}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: fiber.StatusNotFound, Message: message}
}

func NewForbidden(message string) *AppError {
	return &AppError{Code: fiber.StatusForbidden, Message: message}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Code: fiber.StatusUnauthorized, Message: message}
}

// AsAppError extracts an AppError from err, if any.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ParamID parses a positive integer route parameter.
func ParamID(ctx *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, NewBadRequest(fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}
