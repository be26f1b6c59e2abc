package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeReference        = "REFERENCE_ERROR"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInternal         = "INTERNAL_ERROR"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError is a failure classified by Code. Message is safe to show to
// clients; Err is the underlying cause.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

// Response renders e for a client. The cause is attached only with
// withDetails.
func (e *AppError) Response(withDetails bool) ErrorResponse {
	out := ErrorResponse{Error: e.Message, Code: e.Code}
	if withDetails && e.Err != nil {
		out.Details = e.Err.Error()
	}
	return out
}

func newAppError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Err: cause}
}

// NewNotFoundError reports that no resource matches id.
func NewNotFoundError(resource string, id any) *AppError {
	return newAppError(CodeNotFound, fmt.Sprintf("%s %v not found", resource, id), nil)
}

func NewValidationError(message string) *AppError {
	return newAppError(CodeValidation, message, nil)
}

func NewConflictError(message string, err error) *AppError {
	return newAppError(CodeConflict, message, err)
}

func NewReferenceError(message string, err error) *AppError {
	return newAppError(CodeReference, message, err)
}

func NewStoreUnavailableError(err error) *AppError {
	return newAppError(CodeStoreUnavailable, "Data store unavailable", err)
}

func NewInternalError(err error) *AppError {
	return newAppError(CodeInternal, "Internal server error", err)
}

// RespondWithError writes err with status. Errors that are not AppErrors are
// sent as their plain message.
func RespondWithError(c *fiber.Ctx, status int, err error, withDetails bool) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
	}
	return c.Status(status).JSON(appErr.Response(withDetails))
}
