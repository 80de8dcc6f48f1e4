package postgres

import (
	"context"
	"testing"
	"time"

	"kiosk-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commandCols = []string{"id", "device_id", "invoice_public_id", "action", "duration_sec", "state", "created_at", "sent_at", "acked_at"}

func TestCommandRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCommandRepo(mock)
	pid := "pay_0123456789AB"
	cmd := &domain.DeviceCommand{
		DeviceID:        "DEV1",
		InvoicePublicID: &pid,
		Action:          domain.ActionStart,
		DurationSec:     120,
		State:           domain.CommandStateQueued,
		CreatedAt:       time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO device_commands .+ RETURNING id").
		WithArgs("DEV1", &pid, int16(1), 120, domain.CommandStateQueued, cmd.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(9)))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, repo.Create(context.Background(), tx, cmd))
	assert.Equal(t, int64(9), cmd.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommandRepo_ClaimNextQueued(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCommandRepo(mock)
	created := time.Now().UTC().Add(-time.Minute).Truncate(time.Microsecond)
	sentAt := time.Now().UTC().Truncate(time.Microsecond)
	pid := "pay_0123456789AB"

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE device_commands SET state = 'SENT'.+ORDER BY created_at, id.+FOR UPDATE SKIP LOCKED").
		WithArgs("DEV1", sentAt).
		WillReturnRows(pgxmock.NewRows(commandCols).AddRow(
			int64(3), "DEV1", &pid, int16(1), 120, domain.CommandStateSent, created, &sentAt, nil,
		))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	cmd, err := repo.ClaimNextQueued(context.Background(), tx, "DEV1", sentAt)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, int64(3), cmd.ID)
	assert.Equal(t, domain.ActionStart, cmd.Action)
	assert.Equal(t, domain.CommandStateSent, cmd.State)
	require.NotNil(t, cmd.SentAt)
	assert.Nil(t, cmd.AckedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommandRepo_ClaimNextQueued_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCommandRepo(mock)
	sentAt := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE device_commands SET state = 'SENT'").
		WithArgs("DEV1", sentAt).
		WillReturnError(pgx.ErrNoRows)

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	cmd, err := repo.ClaimNextQueued(context.Background(), tx, "DEV1", sentAt)
	assert.NoError(t, err)
	assert.Nil(t, cmd)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommandRepo_GetForUpdate_ScopedToDevice(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCommandRepo(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM device_commands\\s+WHERE id = \\$1 AND device_id = \\$2 FOR UPDATE").
		WithArgs(int64(3), "DEV2").
		WillReturnError(pgx.ErrNoRows)

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	cmd, err := repo.GetForUpdate(context.Background(), tx, "DEV2", 3)
	assert.NoError(t, err)
	assert.Nil(t, cmd)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommandRepo_MarkAcked(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCommandRepo(mock)
	at := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE device_commands SET state = 'ACKED'").
		WithArgs(at, int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE device_commands SET state = 'ACKED'").
		WithArgs(at, int64(4)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	assert.NoError(t, repo.MarkAcked(context.Background(), tx, 3, at))
	assert.Error(t, repo.MarkAcked(context.Background(), tx, 4, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommandRepo_ListByDevice(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCommandRepo(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)
	var noInvoice *string

	mock.ExpectQuery("SELECT .+ FROM device_commands\\s+WHERE device_id = \\$1 ORDER BY created_at, id").
		WithArgs("DEV1").
		WillReturnRows(pgxmock.NewRows(commandCols).
			AddRow(int64(1), "DEV1", noInvoice, int16(1), 60, domain.CommandStateAcked, now, &now, &now).
			AddRow(int64(2), "DEV1", noInvoice, int16(0), 0, domain.CommandStateQueued, now, nil, nil))

	cmds, err := repo.ListByDevice(context.Background(), "DEV1")
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, domain.ActionStop, cmds[1].Action)
	assert.Equal(t, domain.CommandStateQueued, cmds[1].State)
	assert.NoError(t, mock.ExpectationsWereMet())
}
