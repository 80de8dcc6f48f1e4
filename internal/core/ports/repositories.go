package ports

import (
	"context"
	"time"

	"kiosk-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type WalletRepository interface {
	// Create inserts the wallet unless the account already has one.
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByAccountID(ctx context.Context, accountID string) (*domain.Wallet, error)
	GetByAccountIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error
}

// WalletTransactionRepository is the append-only ledger log.
type WalletTransactionRepository interface {
	// Create returns domain.ErrDuplicateReference when the reference is taken.
	Create(ctx context.Context, tx pgx.Tx, wtx *domain.WalletTransaction) error
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.WalletTransaction, error)
	SumByWallet(ctx context.Context, walletID uuid.UUID) (*LedgerTotals, error)
}

// LedgerTotals holds the aggregated credits and debits of one wallet.
type LedgerTotals struct {
	Credits decimal.Decimal
	Debits  decimal.Decimal
}

// Net returns credits minus debits.
func (t *LedgerTotals) Net() decimal.Decimal {
	return t.Credits.Sub(t.Debits)
}

// InvoiceRepository defines persistence operations for invoices.
type InvoiceRepository interface {
	// Create returns domain.ErrDuplicateReference when the public id is taken.
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByPublicID(ctx context.Context, publicID string) (*domain.Invoice, error)
	GetByPublicIDForUpdate(ctx context.Context, tx pgx.Tx, publicID string) (*domain.Invoice, error)
	// UpdateStatus persists status, paid_at and paid_reference of a locked invoice.
	UpdateStatus(ctx context.Context, tx pgx.Tx, invoice *domain.Invoice) error
	// MarkExpired conditionally flips a PENDING invoice whose expiry is <= now.
	// Returns false when nothing changed.
	MarkExpired(ctx context.Context, publicID string, now time.Time) (bool, error)
	GetLatestByDevice(ctx context.Context, deviceID string, onlyPending bool) (*domain.Invoice, error)
}

// SettlementRepository stores settlement records.
type SettlementRepository interface {
	// Create assigns record.ID; returns domain.ErrDuplicateReference on a reference clash.
	Create(ctx context.Context, tx pgx.Tx, record *domain.SettlementRecord) error
	ListByInvoice(ctx context.Context, invoicePublicID string) ([]domain.SettlementRecord, error)
}

// DeviceRepository is the core's view of the device registry.
type DeviceRepository interface {
	GetByID(ctx context.Context, deviceID string) (*domain.Device, error)
	// GetByIDForUpdate serialises pollers of one device.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, deviceID string) (*domain.Device, error)
	// CreateIfNotExists inserts the device unless it is already registered.
	CreateIfNotExists(ctx context.Context, tx pgx.Tx, device *domain.Device) error
	TouchLastSeen(ctx context.Context, tx pgx.Tx, deviceID string, at time.Time) error
}

// CommandRepository stores the per-device command queues.
type CommandRepository interface {
	// Create assigns cmd.ID.
	Create(ctx context.Context, tx pgx.Tx, cmd *domain.DeviceCommand) error
	// ClaimNextQueued flips the oldest QUEUED command of the device to SENT and
	// returns it, or nil when the queue is empty.
	ClaimNextQueued(ctx context.Context, tx pgx.Tx, deviceID string, sentAt time.Time) (*domain.DeviceCommand, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, deviceID string, commandID int64) (*domain.DeviceCommand, error)
	MarkAcked(ctx context.Context, tx pgx.Tx, commandID int64, at time.Time) error
	ListByDevice(ctx context.Context, deviceID string) ([]domain.DeviceCommand, error)
}

// IdempotencyRepository is the durable idempotency layer for top-ups.
type IdempotencyRepository interface {
	// Reserve claims key inside tx. A concurrent claimer waits for the holder
	// to finish; domain.ErrDuplicateIdempotencyKey means the key was committed.
	Reserve(ctx context.Context, tx pgx.Tx, key string, createdAt time.Time) error
	// SaveResponse stores the result under a key reserved by tx.
	SaveResponse(ctx context.Context, tx pgx.Tx, key string, response []byte) error
	Get(ctx context.Context, key string) (*domain.IdempotencyLog, error)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
