package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how an invoice was paid.
type PaymentMethod string

const (
	PaymentMethodWallet PaymentMethod = "WALLET"
	PaymentMethodGuest  PaymentMethod = "GUEST"
)

// SettlementOutcome is the result of one payment attempt.
type SettlementOutcome string

const (
	SettlementSuccess SettlementOutcome = "SUCCESS"
	SettlementFailed  SettlementOutcome = "FAILED"
)

// SettlementRecord is the immutable audit entry of a payment attempt.
// PayerID is nil for anonymous guest payments.
type SettlementRecord struct {
	ID              int64             `json:"id"`
	InvoicePublicID string            `json:"invoice_public_id"`
	PayerID         *string           `json:"payer_id,omitempty"`
	Method          PaymentMethod     `json:"method"`
	Outcome         SettlementOutcome `json:"outcome"`
	Amount          decimal.Decimal   `json:"amount"`
	Reference       string            `json:"reference"`
	GuestName       string            `json:"guest_name,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// SettlementReceipt is returned to the payer after a successful settlement.
type SettlementReceipt struct {
	InvoicePublicID string           `json:"invoice_public_id"`
	Status          InvoiceStatus    `json:"status"`
	PaidReference   string           `json:"paid_reference"`
	PaidAt          time.Time        `json:"paid_at"`
	Method          PaymentMethod    `json:"method"`
	Amount          decimal.Decimal  `json:"amount"`
	NewBalance      *decimal.Decimal `json:"new_balance,omitempty"`
	CommandID       *int64           `json:"command_id,omitempty"`
}
