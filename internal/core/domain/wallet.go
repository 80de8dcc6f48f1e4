package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds the non-negative balance of one account.
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CanDebit returns true if amount can be taken without going negative.
func (w *Wallet) CanDebit(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

// WalletTxType is the direction of a ledger entry.
type WalletTxType string

const (
	WalletTxCredit WalletTxType = "CREDIT"
	WalletTxDebit  WalletTxType = "DEBIT"
)

// WalletTransaction is an immutable, append-only ledger entry.
type WalletTransaction struct {
	ID              uuid.UUID       `json:"id"`
	WalletID        uuid.UUID       `json:"wallet_id"`
	Type            WalletTxType    `json:"tx_type"`
	Amount          decimal.Decimal `json:"amount"` // always positive
	Reference       string          `json:"reference"`
	InvoicePublicID string          `json:"invoice_public_id"`
	CreatedAt       time.Time       `json:"created_at"`
}

// LedgerBalance folds a transaction log into the balance it implies.
func LedgerBalance(txs []WalletTransaction) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case WalletTxCredit:
			sum = sum.Add(tx.Amount)
		case WalletTxDebit:
			sum = sum.Sub(tx.Amount)
		}
	}
	return sum
}
