package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mcoot/farklestats/internal/model"
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
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidResult   = "INVALID_RESULT"
	CodeDuplicatePlayer = "DUPLICATE_PLAYER"
	CodeInvalidSort     = "INVALID_SORT"
	CodeInvalidLimit    = "INVALID_LIMIT"
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodePlayerNotFound  = "PLAYER_NOT_FOUND"
	CodeGameNotFound    = "GAME_NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
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

// Status returns the HTTP status code err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var playerErr *model.PlayerNotFoundError
	if errors.As(err, &playerErr) {
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, fmt.Sprintf("Player %s not found", playerErr.PlayerID)}}
	}

	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}

	// Validation errors carry the offending detail in their message
	case errors.Is(err, model.ErrInvalidResult):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidResult, err.Error()}}
	case errors.Is(err, model.ErrDuplicatePlayer):
		return &httpError{http.StatusBadRequest, APIError{CodeDuplicatePlayer, err.Error()}}
	case errors.Is(err, model.ErrInvalidSortKey):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSort, "sort must be one of avg_score, wins, total_points"}}
	case errors.Is(err, model.ErrInvalidLimit):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidLimit, fmt.Sprintf("limit must be between 1 and %d", model.MaxLeaderboardLimit)}}

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
