package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusExpired   InvoiceStatus = "EXPIRED"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// MaxDurationSec bounds the activation duration an invoice may request (24h).
const MaxDurationSec = 24 * 60 * 60

// Invoice is a payable request for a fixed amount tied to a device activation.
// Amount, DeviceID and DurationSec never change after creation.
type Invoice struct {
	PublicID      string          `json:"public_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	DeviceID      string          `json:"device_id"`
	DurationSec   int             `json:"duration_sec"`
	Status        InvoiceStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	ExpiresAt     time.Time       `json:"expires_at"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	PaidReference string          `json:"paid_reference"`
}

// EffectiveStatus derives the status an invoice has at now. A PENDING invoice
// whose expiry has been reached is EXPIRED even if storage still says PENDING.
func EffectiveStatus(inv *Invoice, now time.Time) InvoiceStatus {
	if inv.Status == InvoiceStatusPending && !now.Before(inv.ExpiresAt) {
		return InvoiceStatusExpired
	}
	return inv.Status
}

// IsTerminal returns true once the invoice has left PENDING.
func (i *Invoice) IsTerminal() bool {
	return i.Status != InvoiceStatusPending
}

// IsExpiredAt returns true if the invoice expiry has been reached at now.
func (i *Invoice) IsExpiredAt(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// HasDevice returns true if paying the invoice should activate a device.
func (i *Invoice) HasDevice() bool {
	return i.DeviceID != ""
}

// CanTransitionTo enforces PENDING -> {PAID, EXPIRED, CANCELLED}; nothing
// leaves a terminal state and nothing returns to PENDING.
func (i *Invoice) CanTransitionTo(next InvoiceStatus) bool {
	if i.Status != InvoiceStatusPending {
		return false
	}
	switch next {
	case InvoiceStatusPaid, InvoiceStatusExpired, InvoiceStatusCancelled:
		return true
	}
	return false
}
