package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kiosk-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const invoiceColumns = `public_id, amount, description, device_id, duration_sec, status,
	created_at, expires_at, paid_at, paid_reference`

// InvoiceRepo implements ports.InvoiceRepository.
type InvoiceRepo struct {
	pool Pool
}

// NewInvoiceRepo creates a new InvoiceRepo.
func NewInvoiceRepo(pool Pool) *InvoiceRepo {
	return &InvoiceRepo{pool: pool}
}

// Create inserts a new PENDING invoice.
func (r *InvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (public_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		inv.PublicID, inv.Amount, inv.Description, inv.DeviceID, inv.DurationSec, inv.Status,
		inv.CreatedAt, inv.ExpiresAt, inv.PaidAt, inv.PaidReference,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicateReference
	}
	return nil
}

// GetByPublicID fetches an invoice without locking.
func (r *InvoiceRepo) GetByPublicID(ctx context.Context, publicID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE public_id = $1`

	inv, err := scanInvoice(r.pool.QueryRow(ctx, query, publicID))
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetByPublicIDForUpdate fetches an invoice with pessimistic locking.
// This MUST be called within a transaction.
func (r *InvoiceRepo) GetByPublicIDForUpdate(ctx context.Context, tx pgx.Tx, publicID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE public_id = $1 FOR UPDATE`

	inv, err := scanInvoice(tx.QueryRow(ctx, query, publicID))
	if err != nil {
		return nil, fmt.Errorf("get invoice for update: %w", err)
	}
	return inv, nil
}

// UpdateStatus writes the mutable fields of a locked invoice.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, inv *domain.Invoice) error {
	query := `UPDATE invoices SET status = $1, paid_at = $2, paid_reference = $3 WHERE public_id = $4`

	tag, err := tx.Exec(ctx, query, inv.Status, inv.PaidAt, inv.PaidReference, inv.PublicID)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice not found: %s", inv.PublicID)
	}
	return nil
}

// MarkExpired flips a PENDING invoice past its expiry to EXPIRED. The
// status predicate keeps it from overwriting a concurrent settlement.
func (r *InvoiceRepo) MarkExpired(ctx context.Context, publicID string, now time.Time) (bool, error) {
	query := `UPDATE invoices SET status = 'EXPIRED'
		WHERE public_id = $1 AND status = 'PENDING' AND expires_at <= $2`

	tag, err := r.pool.Exec(ctx, query, publicID, now)
	if err != nil {
		return false, fmt.Errorf("mark invoice expired: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetLatestByDevice returns the newest invoice targeting the device.
func (r *InvoiceRepo) GetLatestByDevice(ctx context.Context, deviceID string, onlyPending bool) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE device_id = $1`
	if onlyPending {
		query += ` AND status = 'PENDING'`
	}
	query += ` ORDER BY created_at DESC LIMIT 1`

	inv, err := scanInvoice(r.pool.QueryRow(ctx, query, deviceID))
	if err != nil {
		return nil, fmt.Errorf("get latest invoice by device: %w", err)
	}
	return inv, nil
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	inv := &domain.Invoice{}
	err := row.Scan(
		&inv.PublicID, &inv.Amount, &inv.Description, &inv.DeviceID, &inv.DurationSec, &inv.Status,
		&inv.CreatedAt, &inv.ExpiresAt, &inv.PaidAt, &inv.PaidReference,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return inv, nil
}
