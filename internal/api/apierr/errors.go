package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/christophe-asselin/7-differences/internal/bitmap"
	"github.com/christophe-asselin/7-differences/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidImage     = "INVALID_IMAGE"
	CodeGameNotFound     = "GAME_NOT_FOUND"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeNoWaitingSession = "NO_WAITING_SESSION"
	CodeSessionFull      = "SESSION_FULL"
	CodeNotInSession     = "NOT_IN_SESSION"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeUsernameTaken    = "USERNAME_TAKEN"
	CodeWrongRegionCount = "WRONG_REGION_COUNT"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Duo session not found"}}
	case errors.Is(err, model.ErrNoWaitingSession):
		return &httpError{http.StatusNotFound, APIError{CodeNoWaitingSession, "No waiting duo session for this game"}}
	case errors.Is(err, model.ErrSessionFull):
		return &httpError{http.StatusConflict, APIError{CodeSessionFull, "Duo session already has two players"}}
	case errors.Is(err, model.ErrNotInSession):
		return &httpError{http.StatusForbidden, APIError{CodeNotInSession, "Player is not in this duo session"}}
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrUsernameTaken):
		return &httpError{http.StatusConflict, APIError{CodeUsernameTaken, "Username is already taken"}}
	case errors.Is(err, model.ErrInvalidRegionCount):
		return &httpError{http.StatusBadRequest, APIError{CodeWrongRegionCount, err.Error()}}
	case errors.Is(err, bitmap.ErrFormat):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidImage, err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
