// Package apperr defines client-facing errors returned by services.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes exposed to clients.
const (
	CodeMissingData        = "missing_data"
	CodeInvalidValue       = "invalid_value"
	CodeNotFound           = "not_found"
	CodeLevelLocked        = "level_locked"
	CodeConflict           = "conflict"
	CodeUnauthenticated    = "unauthenticated"
	CodeForbidden          = "forbidden"
	CodeInternal           = "internal"
	CodeInvalidCredentials = "invalid_credentials"
)

// APIError is an error whose message is safe to show to clients.
type APIError struct {
	Code    string
	Message string
	Field   string
	Status  int
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// As returns the APIError carried by err, if any.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an APIError with the given code.
func HasCode(err error, code string) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Code == code
}

func NewErrMissingData(field string) *APIError {
	return &APIError{
		Code:    CodeMissingData,
		Message: fmt.Sprintf("missing data: %s is required", field),
		Field:   field,
		Status:  http.StatusBadRequest,
	}
}

func NewErrInvalidValue(field string, reason string) *APIError {
	return &APIError{
		Code:    CodeInvalidValue,
		Message: fmt.Sprintf("invalid value for %s: %s", field, reason),
		Field:   field,
		Status:  http.StatusBadRequest,
	}
}

func NewErrUserNotFound(userID int64) *APIError {
	return &APIError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("user %d not found", userID),
		Field:   "userId",
		Status:  http.StatusNotFound,
	}
}

func NewErrLevelLocked(level int) *APIError {
	return &APIError{
		Code:    CodeLevelLocked,
		Message: fmt.Sprintf("level %d is locked: previous level not completed", level),
		Field:   "levelNumber",
		Status:  http.StatusConflict,
	}
}

func NewErrEmailIsTaken(email string) *APIError {
	return &APIError{
		Code:    CodeConflict,
		Message: fmt.Sprintf("email %s is already registered", email),
		Field:   "email",
		Status:  http.StatusConflict,
	}
}

func NewErrInvalidCredentials() *APIError {
	return &APIError{
		Code:    CodeInvalidCredentials,
		Message: "invalid email or password",
		Status:  http.StatusUnauthorized,
	}
}

func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{
		Code:    CodeUnauthenticated,
		Message: "missing authorization token",
		Status:  http.StatusUnauthorized,
	}
}

func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{
		Code:    CodeUnauthenticated,
		Message: "invalid authorization token",
		Status:  http.StatusUnauthorized,
	}
}

func NewErrForbidden(userID int64) *APIError {
	return &APIError{
		Code:    CodeForbidden,
		Message: fmt.Sprintf("token does not grant access to user %d", userID),
		Field:   "userId",
		Status:  http.StatusForbidden,
	}
}
