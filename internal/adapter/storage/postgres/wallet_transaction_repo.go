package postgres

import (
	"context"
	"errors"
	"fmt"

	"kiosk-settlement/internal/core/domain"
	"kiosk-settlement/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletTransactionRepo implements ports.WalletTransactionRepository.
type WalletTransactionRepo struct {
	pool Pool
}

// NewWalletTransactionRepo creates a new WalletTransactionRepo.
func NewWalletTransactionRepo(pool Pool) *WalletTransactionRepo {
	return &WalletTransactionRepo{pool: pool}
}

// Create appends a ledger entry within a database transaction.
func (r *WalletTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.WalletTransaction) error {
	query := `INSERT INTO wallet_transactions (id, wallet_id, tx_type, amount, reference, invoice_public_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (reference) DO NOTHING`

	tag, err := tx.Exec(ctx, query,
		t.ID, t.WalletID, t.Type, t.Amount, t.Reference, t.InvoicePublicID, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicateReference
	}
	return nil
}

// ListByWallet returns the newest entries first.
func (r *WalletTransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.WalletTransaction, error) {
	query := `SELECT id, wallet_id, tx_type, amount, reference, invoice_public_id, created_at
		FROM wallet_transactions WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, walletID, limit)
	if err != nil {
		return nil, fmt.Errorf("list wallet transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.WalletTransaction
	for rows.Next() {
		t := domain.WalletTransaction{}
		if err := rows.Scan(&t.ID, &t.WalletID, &t.Type, &t.Amount, &t.Reference, &t.InvoicePublicID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet transaction rows: %w", err)
	}
	return txns, nil
}

// SumByWallet aggregates the full ledger of one wallet.
func (r *WalletTransactionRepo) SumByWallet(ctx context.Context, walletID uuid.UUID) (*ports.LedgerTotals, error) {
	query := `SELECT
		COALESCE(SUM(amount) FILTER (WHERE tx_type = 'CREDIT'), 0) AS credits,
		COALESCE(SUM(amount) FILTER (WHERE tx_type = 'DEBIT'), 0) AS debits
		FROM wallet_transactions WHERE wallet_id = $1`

	totals := &ports.LedgerTotals{}
	err := r.pool.QueryRow(ctx, query, walletID).Scan(&totals.Credits, &totals.Debits)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return totals, nil
		}
		return nil, fmt.Errorf("sum wallet transactions: %w", err)
	}
	return totals, nil
}
