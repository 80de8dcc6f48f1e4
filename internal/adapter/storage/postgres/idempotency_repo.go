package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kiosk-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// IdempotencyRepo implements ports.IdempotencyRepository.
type IdempotencyRepo struct {
	pool Pool
}

// NewIdempotencyRepo creates a new IdempotencyRepo.
func NewIdempotencyRepo(pool Pool) *IdempotencyRepo {
	return &IdempotencyRepo{pool: pool}
}

// Reserve inserts the key within a database transaction. The primary key
// makes a second inserter wait for the first transaction; if that one
// commits nothing is inserted and the duplicate error is returned.
func (r *IdempotencyRepo) Reserve(ctx context.Context, tx pgx.Tx, key string, createdAt time.Time) error {
	query := `INSERT INTO idempotency_logs (key, created_at) VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING`

	tag, err := tx.Exec(ctx, query, key, createdAt)
	if err != nil {
		return fmt.Errorf("insert idempotency log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicateIdempotencyKey
	}
	return nil
}

// SaveResponse attaches the cached response to a reserved key.
func (r *IdempotencyRepo) SaveResponse(ctx context.Context, tx pgx.Tx, key string, response []byte) error {
	query := `UPDATE idempotency_logs SET response_json = $2 WHERE key = $1`

	tag, err := tx.Exec(ctx, query, key, response)
	if err != nil {
		return fmt.Errorf("update idempotency log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("idempotency key %q not reserved", key)
	}
	return nil
}

// Get fetches an idempotency log by key.
func (r *IdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyLog, error) {
	query := `SELECT key, response_json, created_at FROM idempotency_logs WHERE key = $1`

	log := &domain.IdempotencyLog{}
	err := r.pool.QueryRow(ctx, query, key).Scan(&log.Key, &log.ResponseJSON, &log.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get idempotency log: %w", err)
	}
	return log, nil
}
