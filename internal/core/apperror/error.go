// Package apperror provides the structured error type shared by every layer.
// Services return *AppError for anything the client should see; the HTTP
// error middleware renders it.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes.
const (
	CodeInternal    = "INTERNAL_ERROR"
	CodePersistence = "PERSISTENCE_ERROR"

	CodeValidation = "VALIDATION_ERROR"

	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"

	CodeUnauthorized        = "UNAUTHORIZED"
	CodeAuth                = "AUTH_ERROR"
	CodeAuthorizationDenied = "AUTHORIZATION_DENIED"

	CodeNotFound = "NOT_FOUND"
)

// AuthKind classifies failures reported by the identity provider.
type AuthKind string

const (
	AuthInvalidCredential  AuthKind = "invalid-credential"
	AuthUserNotFound       AuthKind = "user-not-found"
	AuthWrongPassword      AuthKind = "wrong-password"
	AuthInvalidEmail       AuthKind = "invalid-email"
	AuthEmailAlreadyInUse  AuthKind = "email-already-in-use"
	AuthWeakPassword       AuthKind = "weak-password"
	AuthUnauthorizedDomain AuthKind = "unauthorized-domain"
	AuthGeneric            AuthKind = "generic"
)

// AppError is the standard error type of the application.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, quantities, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// NewValidation creates a validation error (400).
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404).
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewItemNotFound reports a reference to an inventory item that does not exist.
func NewItemNotFound(itemID int64) *AppError {
	return NewNotFound("inventory item", itemID)
}

// NewInsufficientStock creates a stock shortage error. Available is the
// quantity the request could have consumed.
func NewInsufficientStock(itemID int64, requested, available int) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    fmt.Sprintf("Not enough stock, available: %d", available),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"item_id":   itemID,
			"requested": requested,
			"available": available,
		},
	}
}

// NewConcurrentModification creates an optimistic locking error (409).
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "Record was modified by another session. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewPersistence wraps a storage failure (503).
func NewPersistence(err error) *AppError {
	return &AppError{
		Code:       CodePersistence,
		Message:    "Failed to save data",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewInternal creates an internal server error (hides details from client).
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401).
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewAuth maps an identity provider failure onto the fixed taxonomy.
func NewAuth(kind AuthKind, message string) *AppError {
	status := http.StatusUnauthorized
	switch kind {
	case AuthInvalidEmail, AuthWeakPassword:
		status = http.StatusBadRequest
	case AuthEmailAlreadyInUse:
		status = http.StatusConflict
	case AuthUnauthorizedDomain:
		status = http.StatusForbidden
	case AuthGeneric:
		status = http.StatusBadGateway
	}
	return &AppError{
		Code:       CodeAuth,
		Message:    message,
		HTTPStatus: status,
		Details:    map[string]any{"kind": string(kind)},
	}
}

// NewAuthorizationDenied is returned when a shared-secret prompt fails (403).
func NewAuthorizationDenied(action string) *AppError {
	return &AppError{
		Code:       CodeAuthorizationDenied,
		Message:    "Incorrect password",
		HTTPStatus: http.StatusForbidden,
		Details:    map[string]any{"action": action},
	}
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// IsInsufficientStock checks if error is CodeInsufficientStock
func IsInsufficientStock(err error) bool {
	return HasCode(err, CodeInsufficientStock)
}

// AuthKindOf returns the identity failure kind carried by err, if any.
func AuthKindOf(err error) (AuthKind, bool) {
	appErr, ok := AsAppError(err)
	if !ok || appErr.Code != CodeAuth {
		return "", false
	}
	kind, ok := appErr.Details["kind"].(string)
	return AuthKind(kind), ok
}
