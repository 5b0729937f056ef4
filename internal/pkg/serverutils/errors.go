package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind classifies failures for HTTP mapping.
type ErrorKind string

const (
	// KindInput: the request itself is malformed or violates a precondition.
	KindInput ErrorKind = "INPUT_ERROR"
	// KindNotFound: the referenced session does not exist or has expired.
	KindNotFound ErrorKind = "SESSION_NOT_FOUND"
	// KindCollaborator: an external provider failed; retrying later may help.
	KindCollaborator ErrorKind = "COLLABORATOR_ERROR"
)

// ApiError is a typed failure a service returns to the controller layer.
type ApiError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ApiError) Error() string {
	return e.Message
}

func (e *ApiError) Unwrap() error {
	return e.Cause
}

func NewInputError(message string) *ApiError {
	return &ApiError{Kind: KindInput, Message: message}
}

func NewNotFoundError(message string) *ApiError {
	return &ApiError{Kind: KindNotFound, Message: message}
}

func NewCollaboratorError(message string, cause error) *ApiError {
	return &ApiError{Kind: KindCollaborator, Message: message, Cause: cause}
}

func (e *ApiError) statusCode() int {
	switch e.Kind {
	case KindInput:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware converts errors escaping a handler into the
// envelope shape. Typed ApiErrors keep their status mapping; fiber errors
// keep their code; anything else is a 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var apiErr *ApiError
		if errors.As(err, &apiErr) {
			code := apiErr.statusCode()
			return ctx.Status(code).JSON(ErrorResponse(code, apiErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}
