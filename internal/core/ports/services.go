package ports

import (
	"context"
	"time"

	"kiosk-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CapabilityTokenService signs and verifies invoice read tokens.
type CapabilityTokenService interface {
	Sign(subjectID string, ttl time.Duration) string
	// Verify never errors: any decode, signature, subject or expiry failure is false.
	Verify(token string, expectedSubjectID string) bool
}

// IdentityTokenService validates bearer tokens issued by the identity service.
type IdentityTokenService interface {
	Validate(tokenString string) (*IdentityClaims, error)
}

// RoleAdmin marks operator tokens allowed to run administrative actions.
const RoleAdmin = "admin"

// IdentityClaims holds the authenticated payer identity.
type IdentityClaims struct {
	AccountID string
	Username  string
	Role      string // "" for payers
}

// IdempotencyCache is the Redis-layer idempotency check for top-ups.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// EventPublisher ships settlement events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// SettlementNotifier is told about every committed settlement.
type SettlementNotifier interface {
	NotifySettled(ctx context.Context, receipt *domain.SettlementReceipt, invoice *domain.Invoice)
}

// --- Service Ports (Business Logic) ---

// LedgerService owns wallet balances and their transaction log.
type LedgerService interface {
	GetWallet(ctx context.Context, accountID string) (*WalletOverview, error)
	TopUp(ctx context.Context, req TopupRequest) (*TopupResult, error)
	// Credit and Debit lock the wallet row inside tx and append one ledger entry.
	Credit(ctx context.Context, tx pgx.Tx, accountID string, amount decimal.Decimal, invoicePublicID string) (*LedgerMutation, error)
	Debit(ctx context.Context, tx pgx.Tx, accountID string, amount decimal.Decimal, invoicePublicID string) (*LedgerMutation, error)
}

// WalletOverview is a wallet with its most recent ledger entries.
type WalletOverview struct {
	Wallet       *domain.Wallet
	Transactions []domain.WalletTransaction
}

// TopupRequest holds validated input for wallet top-up. Exactly one of
// Preset or Amount is expected.
type TopupRequest struct {
	AccountID      string
	Preset         *int
	Amount         *decimal.Decimal
	IdempotencyKey string
}

// TopupResult is returned after a committed top-up.
type TopupResult struct {
	Balance   decimal.Decimal `json:"balance"`
	Amount    decimal.Decimal `json:"topup_amount"`
	Reference string          `json:"reference"`
	CreatedAt time.Time       `json:"created_at"`
}

// LedgerMutation reports the outcome of a credit or debit.
type LedgerMutation struct {
	Wallet      *domain.Wallet
	Transaction *domain.WalletTransaction
}

// CommandQueueService manages per-device FIFO command queues.
type CommandQueueService interface {
	// Enqueue appends a QUEUED command inside tx and returns its id.
	Enqueue(ctx context.Context, tx pgx.Tx, deviceID string, action domain.CommandAction, durationSec int, invoicePublicID *string) (int64, error)
	// EnsureDevice lazily registers an unknown device inside tx.
	EnsureDevice(ctx context.Context, tx pgx.Tx, deviceID string) error
	AuthenticateDevice(ctx context.Context, deviceID, secret string) (*domain.Device, error)
	// PollNext returns nil when the queue is empty.
	PollNext(ctx context.Context, deviceID, secret string) (*domain.DeviceCommand, error)
	Acknowledge(ctx context.Context, deviceID, secret string, commandID int64) error
}

// InvoiceService drives the invoice state machine.
type InvoiceService interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (*CreatedInvoice, error)
	GetWithToken(ctx context.Context, publicID, token string) (*domain.Invoice, error)
	GetStatus(ctx context.Context, publicID string) (*domain.Invoice, error)
	Cancel(ctx context.Context, publicID string) (*domain.Invoice, error)
	// LatestForDevice returns nil when the device has no matching invoice.
	LatestForDevice(ctx context.Context, deviceID string, onlyPending bool) (*CreatedInvoice, error)
}

// CreateInvoiceRequest holds validated input for invoice creation.
type CreateInvoiceRequest struct {
	Amount      decimal.Decimal
	Description string
	DeviceID    string
	DurationSec int
}

// CreatedInvoice is an invoice together with a freshly signed read token.
type CreatedInvoice struct {
	Invoice *domain.Invoice
	Token   string
	PayURL  string
}

// SettlementService is the atomic settle operation.
type SettlementService interface {
	Settle(ctx context.Context, req SettleRequest) (*domain.SettlementReceipt, error)
	PayWithWallet(ctx context.Context, publicID, payerID string) (*domain.SettlementReceipt, error)
	PayAsGuest(ctx context.Context, publicID, guestName, token string) (*domain.SettlementReceipt, error)
}

// SettleRequest describes one payment attempt. PayerID is required for
// WALLET and ignored for GUEST.
type SettleRequest struct {
	InvoicePublicID string
	Method          domain.PaymentMethod
	PayerID         string
	GuestName       string
	Token           string
}

// AuditService records audit entries.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
