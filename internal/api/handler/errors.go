package handler

import (
	"net/http"

	"github.com/mcoot/farklestats/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest  = apierr.CodeInvalidRequest
	CodeInvalidResult   = apierr.CodeInvalidResult
	CodeDuplicatePlayer = apierr.CodeDuplicatePlayer
	CodeInvalidSort     = apierr.CodeInvalidSort
	CodeInvalidLimit    = apierr.CodeInvalidLimit
	CodeUserNotFound    = apierr.CodeUserNotFound
	CodePlayerNotFound  = apierr.CodePlayerNotFound
	CodeGameNotFound    = apierr.CodeGameNotFound
	CodeInternalError   = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}
