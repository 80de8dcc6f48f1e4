package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		status    InvoiceStatus
		expiresAt time.Time
		want      InvoiceStatus
	}{
		{"pending before expiry", InvoiceStatusPending, now.Add(time.Second), InvoiceStatusPending},
		{"pending at expiry", InvoiceStatusPending, now, InvoiceStatusExpired},
		{"pending after expiry", InvoiceStatusPending, now.Add(-time.Minute), InvoiceStatusExpired},
		{"paid after expiry stays paid", InvoiceStatusPaid, now.Add(-time.Minute), InvoiceStatusPaid},
		{"cancelled stays cancelled", InvoiceStatusCancelled, now.Add(-time.Minute), InvoiceStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invoice{Status: tt.status, ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, EffectiveStatus(inv, now))
		})
	}
}

func TestInvoice_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from InvoiceStatus
		to   InvoiceStatus
		want bool
	}{
		{"pending to paid", InvoiceStatusPending, InvoiceStatusPaid, true},
		{"pending to expired", InvoiceStatusPending, InvoiceStatusExpired, true},
		{"pending to cancelled", InvoiceStatusPending, InvoiceStatusCancelled, true},
		{"pending to pending", InvoiceStatusPending, InvoiceStatusPending, false},
		{"paid to pending", InvoiceStatusPaid, InvoiceStatusPending, false},
		{"expired to paid", InvoiceStatusExpired, InvoiceStatusPaid, false},
		{"cancelled to paid", InvoiceStatusCancelled, InvoiceStatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invoice{Status: tt.from}
			assert.Equal(t, tt.want, inv.CanTransitionTo(tt.to))
		})
	}
}

func TestInvoice_HasDevice(t *testing.T) {
	assert.True(t, (&Invoice{DeviceID: "DEV1"}).HasDevice())
	assert.False(t, (&Invoice{}).HasDevice())
}

func TestIsValidAmount(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"5.00", true},
		{"0.01", true},
		{"500", true},
		{"0", false},
		{"-1.00", false},
		{"1.005", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidAmount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "5.00", FormatMoney(decimal.NewFromInt(5)))
	assert.Equal(t, "3.10", FormatMoney(decimal.RequireFromString("3.1")))
}

func TestWallet_CanDebit(t *testing.T) {
	w := &Wallet{Balance: decimal.RequireFromString("3.00")}
	assert.True(t, w.CanDebit(decimal.RequireFromString("3.00")))
	assert.False(t, w.CanDebit(decimal.RequireFromString("5.00")))
}

func TestLedgerBalance(t *testing.T) {
	txs := []WalletTransaction{
		{Type: WalletTxCredit, Amount: decimal.RequireFromString("10.00")},
		{Type: WalletTxDebit, Amount: decimal.RequireFromString("2.50")},
		{Type: WalletTxCredit, Amount: decimal.RequireFromString("1.00")},
	}
	assert.True(t, decimal.RequireFromString("8.50").Equal(LedgerBalance(txs)))
	assert.True(t, decimal.Zero.Equal(LedgerBalance(nil)))
}

func TestDevice_SecretMatches(t *testing.T) {
	d := &Device{Secret: "s3cret"}
	assert.True(t, d.SecretMatches("s3cret"))
	assert.False(t, d.SecretMatches("S3CRET"))
	assert.False(t, d.SecretMatches(""))
}

func TestCommandAction_Values(t *testing.T) {
	assert.Equal(t, 0, int(ActionStop))
	assert.Equal(t, 1, int(ActionStart))
}

func TestInvoiceStatus_Constants(t *testing.T) {
	assert.Equal(t, InvoiceStatus("PENDING"), InvoiceStatusPending)
	assert.Equal(t, InvoiceStatus("PAID"), InvoiceStatusPaid)
	assert.Equal(t, InvoiceStatus("EXPIRED"), InvoiceStatusExpired)
	assert.Equal(t, InvoiceStatus("CANCELLED"), InvoiceStatusCancelled)
}
