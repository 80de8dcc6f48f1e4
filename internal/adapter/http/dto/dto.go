package dto

import (
	"time"

	"kiosk-settlement/internal/core/domain"
	"kiosk-settlement/internal/core/ports"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest is the request body for invoice creation.
type CreateInvoiceRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"max=200" sanitize:"trim"`
	DeviceID    string          `json:"device_id" binding:"required,device_id"`
	DurationSec int             `json:"duration_sec" binding:"required"`
}

// TopupRequest is the request body for wallet top-up. Exactly one of
// Preset or Amount must be set.
type TopupRequest struct {
	Preset *int             `json:"preset,omitempty" binding:"omitempty,gt=0"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// WalletPayRequest is the request body for paying from the caller's wallet.
type WalletPayRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required,public_id"`
}

// GuestPayRequest is the request body for an anonymous payment.
type GuestPayRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required,public_id"`
	GuestName string `json:"guest_name" binding:"max=100" sanitize:"trim"`
	Token     string `json:"token"`
}

// AckRequest is sent by a device once it has executed a command.
type AckRequest struct {
	CommandID int64  `json:"command_id" binding:"required,gt=0"`
	Secret    string `json:"secret"`
}

// InvoiceResponse is the public view of an invoice.
type InvoiceResponse struct {
	PublicID      string  `json:"public_id"`
	Amount        string  `json:"amount"`
	Description   string  `json:"description,omitempty"`
	DeviceID      string  `json:"device_id"`
	DurationSec   int     `json:"duration_sec"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
	ExpiresAt     string  `json:"expires_at"`
	PaidAt        *string `json:"paid_at,omitempty"`
	PaidReference string  `json:"paid_reference,omitempty"`
}

// CreatedInvoiceResponse carries the read token and pay link with the invoice.
type CreatedInvoiceResponse struct {
	Invoice InvoiceResponse `json:"invoice"`
	Token   string          `json:"token"`
	PayURL  string          `json:"pay_url"`
}

// InvoiceStatusResponse is the token-free status view.
type InvoiceStatusResponse struct {
	PublicID      string `json:"public_id"`
	Status        string `json:"status"`
	PaidReference string `json:"paid_reference,omitempty"`
	DeviceID      string `json:"device_id"`
	DurationSec   int    `json:"duration_sec"`
}

// WalletTransactionResponse is one ledger entry.
type WalletTransactionResponse struct {
	Type            string `json:"tx_type"`
	Amount          string `json:"amount"`
	Reference       string `json:"reference"`
	InvoicePublicID string `json:"invoice_public_id,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// WalletResponse is the caller's balance with recent history.
type WalletResponse struct {
	AccountID    string                      `json:"account_id"`
	Balance      string                      `json:"balance"`
	Transactions []WalletTransactionResponse `json:"transactions"`
}

// TopupResponse reports a committed top-up.
type TopupResponse struct {
	Balance   string `json:"balance"`
	Amount    string `json:"topup_amount"`
	Reference string `json:"reference"`
	CreatedAt string `json:"created_at"`
}

// ReceiptResponse is returned after a successful settlement.
type ReceiptResponse struct {
	InvoiceID     string  `json:"invoice_id"`
	Status        string  `json:"status"`
	PaidReference string  `json:"paid_reference"`
	PaidAt        string  `json:"paid_at"`
	Method        string  `json:"method"`
	Amount        string  `json:"amount"`
	NewBalance    *string `json:"new_balance,omitempty"`
	CommandID     *int64  `json:"command_id,omitempty"`
}

// PollResponse is the flat body read by kiosk firmware.
type PollResponse struct {
	HasCommand  bool   `json:"hasCommand"`
	CommandID   *int64 `json:"commandId,omitempty"`
	Action      *int   `json:"action,omitempty"`
	DurationSec *int   `json:"durationSec,omitempty"`
}

// AckResponse is the flat acknowledgement body.
type AckResponse struct {
	OK bool `json:"ok"`
}

// LatestInvoiceResponse tells a device which invoice to display.
type LatestInvoiceResponse struct {
	HasInvoice bool             `json:"has_invoice"`
	Invoice    *InvoiceResponse `json:"invoice,omitempty"`
	PayURL     string           `json:"pay_url,omitempty"`
	Token      string           `json:"token,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ToInvoiceResponse converts a domain invoice.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		PublicID:      inv.PublicID,
		Amount:        domain.FormatMoney(inv.Amount),
		Description:   inv.Description,
		DeviceID:      inv.DeviceID,
		DurationSec:   inv.DurationSec,
		Status:        string(inv.Status),
		CreatedAt:     formatTime(inv.CreatedAt),
		ExpiresAt:     formatTime(inv.ExpiresAt),
		PaidReference: inv.PaidReference,
	}
	if inv.PaidAt != nil {
		s := formatTime(*inv.PaidAt)
		resp.PaidAt = &s
	}
	return resp
}

// ToCreatedInvoiceResponse converts a freshly created invoice.
func ToCreatedInvoiceResponse(created *ports.CreatedInvoice) CreatedInvoiceResponse {
	return CreatedInvoiceResponse{
		Invoice: ToInvoiceResponse(created.Invoice),
		Token:   created.Token,
		PayURL:  created.PayURL,
	}
}

// ToInvoiceStatusResponse converts an invoice to its status view.
func ToInvoiceStatusResponse(inv *domain.Invoice) InvoiceStatusResponse {
	return InvoiceStatusResponse{
		PublicID:      inv.PublicID,
		Status:        string(inv.Status),
		PaidReference: inv.PaidReference,
		DeviceID:      inv.DeviceID,
		DurationSec:   inv.DurationSec,
	}
}

// ToWalletResponse converts a wallet overview.
func ToWalletResponse(o *ports.WalletOverview) WalletResponse {
	resp := WalletResponse{
		AccountID:    o.Wallet.AccountID,
		Balance:      domain.FormatMoney(o.Wallet.Balance),
		Transactions: make([]WalletTransactionResponse, 0, len(o.Transactions)),
	}
	for _, tx := range o.Transactions {
		resp.Transactions = append(resp.Transactions, WalletTransactionResponse{
			Type:            string(tx.Type),
			Amount:          domain.FormatMoney(tx.Amount),
			Reference:       tx.Reference,
			InvoicePublicID: tx.InvoicePublicID,
			CreatedAt:       formatTime(tx.CreatedAt),
		})
	}
	return resp
}

// ToTopupResponse converts a top-up result.
func ToTopupResponse(r *ports.TopupResult) TopupResponse {
	return TopupResponse{
		Balance:   domain.FormatMoney(r.Balance),
		Amount:    domain.FormatMoney(r.Amount),
		Reference: r.Reference,
		CreatedAt: formatTime(r.CreatedAt),
	}
}

// ToReceiptResponse converts a settlement receipt.
func ToReceiptResponse(r *domain.SettlementReceipt) ReceiptResponse {
	resp := ReceiptResponse{
		InvoiceID:     r.InvoicePublicID,
		Status:        string(r.Status),
		PaidReference: r.PaidReference,
		PaidAt:        formatTime(r.PaidAt),
		Method:        string(r.Method),
		Amount:        domain.FormatMoney(r.Amount),
		CommandID:     r.CommandID,
	}
	if r.NewBalance != nil {
		s := domain.FormatMoney(*r.NewBalance)
		resp.NewBalance = &s
	}
	return resp
}

// ToPollResponse converts the polled command; nil means an empty queue.
func ToPollResponse(cmd *domain.DeviceCommand) PollResponse {
	if cmd == nil {
		return PollResponse{HasCommand: false}
	}
	id := cmd.ID
	action := int(cmd.Action)
	duration := cmd.DurationSec
	return PollResponse{
		HasCommand:  true,
		CommandID:   &id,
		Action:      &action,
		DurationSec: &duration,
	}
}
