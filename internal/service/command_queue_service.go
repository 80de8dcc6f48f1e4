package service

import (
	"context"
	"fmt"
	"time"

	"kiosk-settlement/internal/core/domain"
	"kiosk-settlement/internal/core/ports"
	"kiosk-settlement/pkg/apperror"
	"kiosk-settlement/pkg/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// CommandQueueConfig controls device authentication.
type CommandQueueConfig struct {
	// RequireSecret rejects polls and acks whose secret does not match.
	RequireSecret bool
}

// CommandQueueServiceImpl implements ports.CommandQueueService.
type CommandQueueServiceImpl struct {
	deviceRepo ports.DeviceRepository
	cmdRepo    ports.CommandRepository
	transactor ports.DBTransactor
	metrics    *metrics.SettlementMetrics
	cfg        CommandQueueConfig
	log        zerolog.Logger
	now        func() time.Time
}

// NewCommandQueueService creates a new CommandQueueServiceImpl.
func NewCommandQueueService(
	deviceRepo ports.DeviceRepository,
	cmdRepo ports.CommandRepository,
	transactor ports.DBTransactor,
	m *metrics.SettlementMetrics,
	cfg CommandQueueConfig,
	log zerolog.Logger,
) *CommandQueueServiceImpl {
	return &CommandQueueServiceImpl{
		deviceRepo: deviceRepo,
		cmdRepo:    cmdRepo,
		transactor: transactor,
		metrics:    m,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// Enqueue appends a QUEUED command. The device row is not locked, so
// enqueueing never waits on a poller of the same device.
func (s *CommandQueueServiceImpl) Enqueue(
	ctx context.Context,
	tx pgx.Tx,
	deviceID string,
	action domain.CommandAction,
	durationSec int,
	invoicePublicID *string,
) (int64, error) {
	if deviceID == "" {
		return 0, apperror.Validation("device_id", "is required")
	}
	switch action {
	case domain.ActionStart:
		if durationSec < 1 || durationSec > domain.MaxDurationSec {
			return 0, apperror.Validation("duration_sec", fmt.Sprintf("must be between 1 and %d", domain.MaxDurationSec))
		}
	case domain.ActionStop:
		durationSec = 0
	default:
		return 0, apperror.Validation("action", "must be 0 (stop) or 1 (start)")
	}

	cmd := &domain.DeviceCommand{
		DeviceID:        deviceID,
		InvoicePublicID: invoicePublicID,
		Action:          action,
		DurationSec:     durationSec,
		State:           domain.CommandStateQueued,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.cmdRepo.Create(ctx, tx, cmd); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("enqueue command: %w", err))
	}

	s.metrics.IncCommand(string(domain.CommandStateQueued))
	return cmd.ID, nil
}

// EnsureDevice registers deviceID with a random secret unless it exists.
func (s *CommandQueueServiceImpl) EnsureDevice(ctx context.Context, tx pgx.Tx, deviceID string) error {
	err := s.deviceRepo.CreateIfNotExists(ctx, tx, &domain.Device{
		ID:        deviceID,
		Secret:    newDeviceSecret(),
		IsActive:  true,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return apperror.InternalError(fmt.Errorf("ensure device: %w", err))
	}
	return nil
}

// AuthenticateDevice checks that the device exists, is active and, when
// configured, that the secret matches.
func (s *CommandQueueServiceImpl) AuthenticateDevice(ctx context.Context, deviceID, secret string) (*domain.Device, error) {
	device, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get device: %w", err))
	}
	if err := s.checkDevice(device, secret); err != nil {
		return nil, err
	}
	return device, nil
}

// PollNext hands the oldest QUEUED command to the caller and flips it to
// SENT in the same transaction. Pollers of one device serialise on the
// device row, so a command is delivered at most once.
func (s *CommandQueueServiceImpl) PollNext(ctx context.Context, deviceID, secret string) (*domain.DeviceCommand, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	device, err := s.deviceRepo.GetByIDForUpdate(ctx, dbTx, deviceID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock device: %w", err))
	}
	if err := s.checkDevice(device, secret); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.deviceRepo.TouchLastSeen(ctx, dbTx, deviceID, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("touch last seen: %w", err))
	}

	cmd, err := s.cmdRepo.ClaimNextQueued(ctx, dbTx, deviceID, now)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("claim command: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	if cmd == nil {
		return nil, nil
	}

	s.metrics.IncCommand(string(domain.CommandStateSent))
	s.log.Info().
		Str("device_id", deviceID).
		Int64("command_id", cmd.ID).
		Int("action", int(cmd.Action)).
		Int("duration_sec", cmd.DurationSec).
		Msg("command delivered")

	return cmd, nil
}

// Acknowledge moves a SENT command to ACKED. Re-acknowledging an ACKED
// command succeeds without change so device retries are safe.
func (s *CommandQueueServiceImpl) Acknowledge(ctx context.Context, deviceID, secret string, commandID int64) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	device, err := s.deviceRepo.GetByIDForUpdate(ctx, dbTx, deviceID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock device: %w", err))
	}
	if err := s.checkDevice(device, secret); err != nil {
		return err
	}

	cmd, err := s.cmdRepo.GetForUpdate(ctx, dbTx, deviceID, commandID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock command: %w", err))
	}
	if cmd == nil {
		return apperror.ErrCommandNotFound()
	}

	switch cmd.State {
	case domain.CommandStateAcked:
		s.log.Debug().Str("device_id", deviceID).Int64("command_id", commandID).Msg("duplicate ack ignored")
		return nil
	case domain.CommandStateQueued:
		return apperror.ErrCommandNotDelivered()
	}

	if err := s.cmdRepo.MarkAcked(ctx, dbTx, commandID, s.now().UTC()); err != nil {
		return apperror.InternalError(fmt.Errorf("mark acked: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.metrics.IncCommand(string(domain.CommandStateAcked))
	s.log.Info().Str("device_id", deviceID).Int64("command_id", commandID).Msg("command acknowledged")
	return nil
}

func (s *CommandQueueServiceImpl) checkDevice(device *domain.Device, secret string) error {
	if device == nil {
		return apperror.ErrDeviceNotFound()
	}
	if !device.IsActive {
		return apperror.ErrInvalidDeviceCredentials()
	}
	if s.cfg.RequireSecret && !device.SecretMatches(secret) {
		return apperror.ErrInvalidDeviceCredentials()
	}
	return nil
}
