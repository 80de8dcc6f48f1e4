package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("WAL_002", "Insufficient funds", http.StatusBadRequest),
			expected: "[WAL_002] Insufficient funds",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
	assert.Nil(t, New("INV_001", "test", http.StatusNotFound).Unwrap())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "INV_003", CodeOf(fmt.Errorf("settle: %w", ErrInvoiceExpired())))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}

func TestTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvoiceNotFound", ErrInvoiceNotFound(), "INV_001", 404},
		{"InvoiceNotPayable", ErrInvoiceNotPayable("PAID"), "INV_002", 400},
		{"InvoiceNotPending", ErrInvoiceNotPending("PAID"), "INV_002", 400},
		{"InvoiceExpired", ErrInvoiceExpired(), "INV_003", 400},
		{"DeviceNotFound", ErrDeviceNotFound(), "DEV_001", 404},
		{"CommandNotFound", ErrCommandNotFound(), "DEV_002", 404},
		{"CommandNotDelivered", ErrCommandNotDelivered(), "DEV_003", 400},
		{"WalletNotFound", ErrWalletNotFound(), "WAL_001", 404},
		{"InsufficientFunds", ErrInsufficientFunds(), "WAL_002", 400},
		{"InvalidToken", ErrInvalidToken(), "SEC_001", 401},
		{"InvalidDeviceCredentials", ErrInvalidDeviceCredentials(), "SEC_002", 401},
		{"Unauthenticated", ErrUnauthenticated(), "AUTH_001", 401},
		{"Forbidden", ErrForbidden(), "AUTH_002", 403},
		{"RateLimit", ErrRateLimitExceeded(), "RATE_001", 429},
		{"Validation", Validation("amount", "must be positive"), "VAL_001", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestInvoiceNotPayable_NamesStatus(t *testing.T) {
	assert.Contains(t, ErrInvoiceNotPayable("CANCELLED").Message, "CANCELLED")
}

func TestValidation_NamesField(t *testing.T) {
	err := Validation("duration_sec", "must be between 1 and 86400")
	assert.Equal(t, "duration_sec: must be between 1 and 86400", err.Message)
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	dbErr := ErrDatabaseError(inner)
	assert.Equal(t, "SYS_001", dbErr.Code)
	assert.Equal(t, 500, dbErr.HTTPStatus)
	assert.True(t, errors.Is(dbErr, inner))

	refErr := ErrReferenceExhausted(inner)
	assert.Equal(t, "SYS_002", refErr.Code)
	assert.Equal(t, 503, refErr.HTTPStatus)

	internal := InternalError(inner)
	assert.Equal(t, "SYS_001", internal.Code)
	assert.True(t, errors.Is(internal, inner))
}
