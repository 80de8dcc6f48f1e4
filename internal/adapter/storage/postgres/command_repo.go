package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kiosk-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const commandColumns = `id, device_id, invoice_public_id, action, duration_sec, state, created_at, sent_at, acked_at`

// CommandRepo implements ports.CommandRepository.
type CommandRepo struct {
	pool Pool
}

// NewCommandRepo creates a new CommandRepo.
func NewCommandRepo(pool Pool) *CommandRepo {
	return &CommandRepo{pool: pool}
}

// Create enqueues a command and assigns its ID.
func (r *CommandRepo) Create(ctx context.Context, tx pgx.Tx, cmd *domain.DeviceCommand) error {
	query := `INSERT INTO device_commands (device_id, invoice_public_id, action, duration_sec, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := tx.QueryRow(ctx, query,
		cmd.DeviceID, cmd.InvoicePublicID, int16(cmd.Action), cmd.DurationSec, cmd.State, cmd.CreatedAt,
	).Scan(&cmd.ID)
	if err != nil {
		return fmt.Errorf("insert device command: %w", err)
	}
	return nil
}

// ClaimNextQueued moves the oldest QUEUED command of the device to SENT in a
// single statement. SKIP LOCKED lets a claim proceed past rows held by
// another transaction instead of waiting on them.
func (r *CommandRepo) ClaimNextQueued(ctx context.Context, tx pgx.Tx, deviceID string, sentAt time.Time) (*domain.DeviceCommand, error) {
	query := `UPDATE device_commands SET state = 'SENT', sent_at = $2
		WHERE id = (
			SELECT id FROM device_commands
			WHERE device_id = $1 AND state = 'QUEUED'
			ORDER BY created_at, id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + commandColumns

	cmd, err := scanCommand(tx.QueryRow(ctx, query, deviceID, sentAt))
	if err != nil {
		return nil, fmt.Errorf("claim next command: %w", err)
	}
	return cmd, nil
}

// GetForUpdate locks one command of the device.
func (r *CommandRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, deviceID string, commandID int64) (*domain.DeviceCommand, error) {
	query := `SELECT ` + commandColumns + ` FROM device_commands
		WHERE id = $1 AND device_id = $2 FOR UPDATE`

	cmd, err := scanCommand(tx.QueryRow(ctx, query, commandID, deviceID))
	if err != nil {
		return nil, fmt.Errorf("get command for update: %w", err)
	}
	return cmd, nil
}

// MarkAcked records execution of a SENT command.
func (r *CommandRepo) MarkAcked(ctx context.Context, tx pgx.Tx, commandID int64, at time.Time) error {
	query := `UPDATE device_commands SET state = 'ACKED', acked_at = $1 WHERE id = $2 AND state = 'SENT'`

	tag, err := tx.Exec(ctx, query, at, commandID)
	if err != nil {
		return fmt.Errorf("ack command: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("command %d is not in SENT state", commandID)
	}
	return nil
}

// ListByDevice returns the device's queue in delivery order.
func (r *CommandRepo) ListByDevice(ctx context.Context, deviceID string) ([]domain.DeviceCommand, error) {
	query := `SELECT ` + commandColumns + ` FROM device_commands
		WHERE device_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, deviceID)
	if err != nil {
		return nil, fmt.Errorf("list device commands: %w", err)
	}
	defer rows.Close()

	var cmds []domain.DeviceCommand
	for rows.Next() {
		cmd, err := scanCommandRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device command row: %w", err)
		}
		cmds = append(cmds, *cmd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate device command rows: %w", err)
	}
	return cmds, nil
}

func scanCommand(row pgx.Row) (*domain.DeviceCommand, error) {
	cmd, err := scanCommandRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return cmd, nil
}

func scanCommandRow(row pgx.Row) (*domain.DeviceCommand, error) {
	cmd := &domain.DeviceCommand{}
	var action int16
	err := row.Scan(
		&cmd.ID, &cmd.DeviceID, &cmd.InvoicePublicID, &action, &cmd.DurationSec,
		&cmd.State, &cmd.CreatedAt, &cmd.SentAt, &cmd.AckedAt,
	)
	if err != nil {
		return nil, err
	}
	cmd.Action = domain.CommandAction(action)
	return cmd, nil
}
