package rest

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("rest: chat service is required")

// Error is a JSON error reply.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// NewError creates an error reply.
func NewError(code int, msg string) Error {
	return Error{Code: code, Message: msg}
}

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return "validation failed"
}

// NewValidationError creates a 422 reply.
func NewValidationError(errs map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errs,
	}
}

// ErrBadRequest is returned for bodies that are not valid JSON.
func ErrBadRequest() Error {
	return NewError(fiber.StatusBadRequest, "invalid JSON request")
}

// ErrorHandler maps handler errors to JSON replies.
// Domain errors are translated; anything unrecognised is a 500 whose
// detail is logged, not returned.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Code).JSON(apiErr)
	}

	var valErr ValidationError
	if errors.As(err, &valErr) {
		return c.Status(valErr.Status).JSON(valErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(NewError(fiberErr.Code, fiberErr.Message))
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(NewError(fiber.StatusNotFound, "Session not found or expired"))
	case errors.Is(err, domain.ErrUnknownCategory), errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(NewError(fiber.StatusBadRequest, err.Error()))
	}

	logger.Error("%s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).
		JSON(NewError(fiber.StatusInternalServerError, "an internal server error occurred"))
}
