package postgres

import (
	"context"
	"errors"
	"fmt"

	"kiosk-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// SettlementRepo implements ports.SettlementRepository.
type SettlementRepo struct {
	pool Pool
}

// NewSettlementRepo creates a new SettlementRepo.
func NewSettlementRepo(pool Pool) *SettlementRepo {
	return &SettlementRepo{pool: pool}
}

// Create inserts a settlement record and assigns its ID.
func (r *SettlementRepo) Create(ctx context.Context, tx pgx.Tx, rec *domain.SettlementRecord) error {
	query := `INSERT INTO settlement_records
		(invoice_public_id, payer_id, method, outcome, amount, reference, guest_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (reference) DO NOTHING
		RETURNING id`

	err := tx.QueryRow(ctx, query,
		rec.InvoicePublicID, rec.PayerID, rec.Method, rec.Outcome,
		rec.Amount, rec.Reference, rec.GuestName, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrDuplicateReference
		}
		return fmt.Errorf("insert settlement record: %w", err)
	}
	return nil
}

// ListByInvoice returns every settlement attempt recorded for the invoice.
func (r *SettlementRepo) ListByInvoice(ctx context.Context, invoicePublicID string) ([]domain.SettlementRecord, error) {
	query := `SELECT id, invoice_public_id, payer_id, method, outcome, amount, reference, guest_name, created_at
		FROM settlement_records WHERE invoice_public_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, invoicePublicID)
	if err != nil {
		return nil, fmt.Errorf("list settlement records: %w", err)
	}
	defer rows.Close()

	var records []domain.SettlementRecord
	for rows.Next() {
		rec := domain.SettlementRecord{}
		err := rows.Scan(
			&rec.ID, &rec.InvoicePublicID, &rec.PayerID, &rec.Method, &rec.Outcome,
			&rec.Amount, &rec.Reference, &rec.GuestName, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan settlement record row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settlement record rows: %w", err)
	}
	return records, nil
}
