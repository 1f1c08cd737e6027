package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/poiesic/vocalis/core"
	"github.com/poiesic/vocalis/interaction"
)

// Error is a failed request with a status code and a user-facing message.
type Error struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

func (e Error) Error() string {
	return e.Message
}

func NewError(code int, msg string) Error {
	return Error{Code: code, Message: msg}
}

func ErrBadRequest() Error {
	return NewError(fiber.StatusBadRequest, "invalid request body")
}

// ValidationError reports per-field request problems.
type ValidationError struct {
	Errors map[string]string
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(errs map[string]string) ValidationError {
	return ValidationError{Errors: errs}
}

type failureResponse struct {
	Success       bool              `json:"success"`
	Error         string            `json:"error"`
	Stage         string            `json:"stage,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
	Transcription string            `json:"transcription,omitempty"`
	Response      string            `json:"response,omitempty"`
}

const internalErrorMessage = "Request failed. Please try again."

// NewErrorHandler returns a fiber error handler that renders every error
// as a failureResponse. Provider details are logged, never returned.
func NewErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			apiErr   Error
			valErr   ValidationError
			coreErr  *core.ValidationError
			fiberErr *fiber.Error
		)

		if failure, ok := interaction.IsStageFailure(err); ok {
			return c.Status(fiber.StatusInternalServerError).JSON(failureResponse{
				Error:         failure.Message,
				Stage:         string(failure.Stage),
				Transcription: failure.Transcript,
				Response:      failure.Answer,
			})
		}

		switch {
		case errors.As(err, &valErr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(failureResponse{
				Error:  valErr.Error(),
				Errors: valErr.Errors,
			})
		case errors.As(err, &coreErr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(failureResponse{
				Error:  "validation failed",
				Errors: map[string]string{coreErr.Field: coreErr.Reason.Error()},
			})
		case errors.As(err, &apiErr):
			return c.Status(apiErr.Code).JSON(failureResponse{Error: apiErr.Message})
		case errors.As(err, &fiberErr):
			return c.Status(fiberErr.Code).JSON(failureResponse{Error: fiberErr.Message})
		}

		logger.Error("request failed", "method", c.Method(), "path", c.Path(), "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(failureResponse{Error: internalErrorMessage})
	}
}
