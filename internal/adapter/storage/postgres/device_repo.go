package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kiosk-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const deviceColumns = `device_id, secret, is_active, last_seen, created_at`

// DeviceRepo implements ports.DeviceRepository.
type DeviceRepo struct {
	pool Pool
}

// NewDeviceRepo creates a new DeviceRepo.
func NewDeviceRepo(pool Pool) *DeviceRepo {
	return &DeviceRepo{pool: pool}
}

// GetByID fetches a device without locking.
func (r *DeviceRepo) GetByID(ctx context.Context, deviceID string) (*domain.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE device_id = $1`

	d, err := scanDevice(r.pool.QueryRow(ctx, query, deviceID))
	if err != nil {
		return nil, fmt.Errorf("get device: %w", err)
	}
	return d, nil
}

// GetByIDForUpdate locks the device row. FOR NO KEY UPDATE serialises
// pollers without blocking the foreign-key checks of concurrent enqueues.
func (r *DeviceRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, deviceID string) (*domain.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE device_id = $1 FOR NO KEY UPDATE`

	d, err := scanDevice(tx.QueryRow(ctx, query, deviceID))
	if err != nil {
		return nil, fmt.Errorf("get device for update: %w", err)
	}
	return d, nil
}

// CreateIfNotExists registers the device unless it already exists.
func (r *DeviceRepo) CreateIfNotExists(ctx context.Context, tx pgx.Tx, d *domain.Device) error {
	query := `INSERT INTO devices (` + deviceColumns + `)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (device_id) DO NOTHING`

	_, err := tx.Exec(ctx, query, d.ID, d.Secret, d.IsActive, d.LastSeen, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert device: %w", err)
	}
	return nil
}

// TouchLastSeen records a poll.
func (r *DeviceRepo) TouchLastSeen(ctx context.Context, tx pgx.Tx, deviceID string, at time.Time) error {
	query := `UPDATE devices SET last_seen = $1 WHERE device_id = $2`

	if _, err := tx.Exec(ctx, query, at, deviceID); err != nil {
		return fmt.Errorf("touch device last seen: %w", err)
	}
	return nil
}

func scanDevice(row pgx.Row) (*domain.Device, error) {
	d := &domain.Device{}
	err := row.Scan(&d.ID, &d.Secret, &d.IsActive, &d.LastSeen, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}
