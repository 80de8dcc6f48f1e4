package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// ---- Invoices (INV) ----

func ErrInvoiceNotFound() *AppError {
	return New("INV_001", "Invoice not found", http.StatusNotFound)
}

// ErrInvoiceNotPayable reports the invoice's current status.
func ErrInvoiceNotPayable(status string) *AppError {
	return New("INV_002", fmt.Sprintf("Invoice is not payable (status: %s)", status), http.StatusBadRequest)
}

// ErrInvoiceNotPending rejects administrative transitions out of a terminal state.
func ErrInvoiceNotPending(status string) *AppError {
	return New("INV_002", fmt.Sprintf("Invoice is no longer pending (status: %s)", status), http.StatusBadRequest)
}

func ErrInvoiceExpired() *AppError {
	return New("INV_003", "Invoice has expired", http.StatusBadRequest)
}

// ---- Devices (DEV) ----

func ErrDeviceNotFound() *AppError {
	return New("DEV_001", "Device not found", http.StatusNotFound)
}

func ErrCommandNotFound() *AppError {
	return New("DEV_002", "Command not found", http.StatusNotFound)
}

func ErrCommandNotDelivered() *AppError {
	return New("DEV_003", "Command has not been delivered yet", http.StatusBadRequest)
}

// ---- Wallets (WAL) ----

func ErrWalletNotFound() *AppError {
	return New("WAL_001", "Wallet not found", http.StatusNotFound)
}

func ErrInsufficientFunds() *AppError {
	return New("WAL_002", "Insufficient balance in wallet", http.StatusBadRequest)
}

// ---- Security & Authentication (SEC, AUTH) ----

func ErrInvalidToken() *AppError {
	return New("SEC_001", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrInvalidDeviceCredentials() *AppError {
	return New("SEC_002", "Invalid device credentials", http.StatusUnauthorized)
}

func ErrUnauthenticated() *AppError {
	return New("AUTH_001", "Missing or invalid bearer token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New("AUTH_002", "Insufficient permissions", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- Validation (VAL) ----

// Validation returns a field-scoped validation error.
func Validation(field, message string) *AppError {
	return New("VAL_001", fmt.Sprintf("%s: %s", field, message), http.StatusBadRequest)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrReferenceExhausted(err error) *AppError {
	return Wrap("SYS_002", "Could not allocate a unique reference", http.StatusServiceUnavailable, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
