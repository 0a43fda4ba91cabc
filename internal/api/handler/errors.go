package handler

import (
	"net/http"

	"github.com/christophe-asselin/7-differences/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest   = apierr.CodeInvalidRequest
	CodeInvalidImage     = apierr.CodeInvalidImage
	CodeGameNotFound     = apierr.CodeGameNotFound
	CodeSessionNotFound  = apierr.CodeSessionNotFound
	CodeNoWaitingSession = apierr.CodeNoWaitingSession
	CodeSessionFull      = apierr.CodeSessionFull
	CodeNotInSession     = apierr.CodeNotInSession
	CodeUserNotFound     = apierr.CodeUserNotFound
	CodeUsernameTaken    = apierr.CodeUsernameTaken
	CodeWrongRegionCount = apierr.CodeWrongRegionCount
	CodeInternalError    = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
