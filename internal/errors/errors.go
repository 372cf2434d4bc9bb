// Package errors provides custom error types for the MindfulPay API.
// All service-layer errors should use AppError so that validation failures,
// storage failures and dispatch failures stay distinguishable for callers
// and never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so that
// wrapped copies still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Validation errors raised before any state is touched.
var (
	ErrInvalidPayee  = &AppError{Code: "INVALID_PAYEE", Message: "UPI ID should be in format username@upi", StatusCode: http.StatusBadRequest}
	ErrInvalidAmount = &AppError{Code: "INVALID_AMOUNT", Message: "Please enter a valid amount", StatusCode: http.StatusBadRequest}
	ErrInvalidQRCode = &AppError{Code: "INVALID_QR_CODE", Message: "Invalid payment code", StatusCode: http.StatusBadRequest}
)

// Persistence and dispatch errors.
var (
	ErrStorage        = &AppError{Code: "STORAGE_ERROR", Message: "Could not access stored data", StatusCode: http.StatusInternalServerError}
	ErrDispatchFailed = &AppError{Code: "DISPATCH_FAILED", Message: "Could not launch UPI payment", StatusCode: http.StatusBadGateway}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
)

// Goal errors.
var (
	ErrGoalNotFound = &AppError{Code: "GOAL_NOT_FOUND", Message: "Goal not found", StatusCode: http.StatusNotFound}
)

// Spending limit errors.
var (
	ErrLimitNotFound  = &AppError{Code: "LIMIT_NOT_FOUND", Message: "Spending limit not found", StatusCode: http.StatusNotFound}
	ErrDuplicateLimit = &AppError{Code: "DUPLICATE_LIMIT", Message: "A spending limit for this category and period already exists", StatusCode: http.StatusConflict}
)

// Payment errors.
var (
	ErrPaymentNotFound     = &AppError{Code: "PAYMENT_NOT_FOUND", Message: "Payment not found", StatusCode: http.StatusNotFound}
	ErrInvalidPaymentState = &AppError{Code: "INVALID_PAYMENT_STATE", Message: "Payment cannot move to the requested state", StatusCode: http.StatusConflict}
	ErrOverrideRefused     = &AppError{Code: "OVERRIDE_REFUSED", Message: "Emergency override is not allowed for blocked vendors", StatusCode: http.StatusForbidden}
)
