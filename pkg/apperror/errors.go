package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
	ErrPharmacyNotActive  = &AppError{Code: http.StatusForbidden, Message: "Pharmacy is not approved yet"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewCrossTenantError signals access to a record owned by a different pharmacy.
// The record is never described beyond its resource name.
func NewCrossTenantError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Message: "Not authorized to access this " + resource,
	}
}

// NewInsufficientStockError names the item and how much is actually available
func NewInsufficientStockError(item string, available int) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("Insufficient stock for %s. Available: %d", item, available),
	}
}

// NewExpiredLotError names the item and its expiry date
func NewExpiredLotError(item string, expiry time.Time) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("Cannot sell %s: lot expired on %s", item, expiry.Format("2006-01-02")),
	}
}

// NewInvalidAmountError reports a zero or negative money amount
func NewInvalidAmountError(what string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: what + " must be greater than zero",
	}
}

// NewAlreadySettledError reports a settlement attempt on a fully paid bill
func NewAlreadySettledError() *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: "Bill is already fully paid",
	}
}

// NewEmptyInputError reports a request missing its payload
func NewEmptyInputError(what string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: what,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
