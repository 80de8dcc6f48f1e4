package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"kiosk-settlement/internal/core/domain"
	"kiosk-settlement/internal/core/ports"
	"kiosk-settlement/pkg/apperror"

	"github.com/rs/zerolog"
)

const (
	maxDescriptionLen = 200
	maxDeviceIDLen    = 64
)

// InvoiceConfig configures invoice lifetimes and the pay link.
type InvoiceConfig struct {
	TTL        time.Duration
	TokenTTL   time.Duration
	PayURLBase string
	// AutoCreateDevices allows invoices for devices the registry has not seen.
	AutoCreateDevices bool
}

// InvoiceServiceImpl implements ports.InvoiceService.
type InvoiceServiceImpl struct {
	invoiceRepo ports.InvoiceRepository
	deviceRepo  ports.DeviceRepository
	transactor  ports.DBTransactor
	tokens      ports.CapabilityTokenService
	cfg         InvoiceConfig
	log         zerolog.Logger
	now         func() time.Time
}

// NewInvoiceService creates a new InvoiceServiceImpl.
func NewInvoiceService(
	invoiceRepo ports.InvoiceRepository,
	deviceRepo ports.DeviceRepository,
	transactor ports.DBTransactor,
	tokens ports.CapabilityTokenService,
	cfg InvoiceConfig,
	log zerolog.Logger,
) *InvoiceServiceImpl {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultCapabilityTTL
	}
	return &InvoiceServiceImpl{
		invoiceRepo: invoiceRepo,
		deviceRepo:  deviceRepo,
		transactor:  transactor,
		tokens:      tokens,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// Create validates the request, stores a PENDING invoice under a fresh
// public id and returns it with a signed read token.
func (s *InvoiceServiceImpl) Create(ctx context.Context, req ports.CreateInvoiceRequest) (*ports.CreatedInvoice, error) {
	if err := validateCreateInvoice(req); err != nil {
		return nil, err
	}

	if !s.cfg.AutoCreateDevices {
		device, err := s.deviceRepo.GetByID(ctx, req.DeviceID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("get device: %w", err))
		}
		if device == nil {
			return nil, apperror.ErrDeviceNotFound()
		}
	}

	now := s.now().UTC()
	inv := &domain.Invoice{
		Amount:      req.Amount,
		Description: req.Description,
		DeviceID:    req.DeviceID,
		DurationSec: req.DurationSec,
		Status:      domain.InvoiceStatusPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.cfg.TTL),
	}

	created := false
	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		inv.PublicID = newPublicID()
		err := s.invoiceRepo.Create(ctx, inv)
		if err == nil {
			created = true
			break
		}
		if !errors.Is(err, domain.ErrDuplicateReference) {
			return nil, apperror.InternalError(fmt.Errorf("create invoice: %w", err))
		}
		s.log.Warn().Str("invoice_id", inv.PublicID).Int("attempt", attempt).Msg("public id collision, regenerating")
	}
	if !created {
		return nil, apperror.ErrReferenceExhausted(fmt.Errorf("invoice public id: %d attempts", maxReferenceAttempts))
	}

	s.log.Info().
		Str("invoice_id", inv.PublicID).
		Str("amount", domain.FormatMoney(inv.Amount)).
		Str("device_id", inv.DeviceID).
		Int("duration_sec", inv.DurationSec).
		Msg("invoice created")

	return s.withToken(inv), nil
}

// GetWithToken grants read access to holders of a valid capability token.
// Access is independent of status: a paid invoice stays readable until the
// token itself expires.
func (s *InvoiceServiceImpl) GetWithToken(ctx context.Context, publicID, token string) (*domain.Invoice, error) {
	if !s.tokens.Verify(token, publicID) {
		return nil, apperror.ErrInvalidToken()
	}
	return s.GetStatus(ctx, publicID)
}

// GetStatus loads an invoice and persists a pending expiry before returning it.
func (s *InvoiceServiceImpl) GetStatus(ctx context.Context, publicID string) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get invoice: %w", err))
	}
	if inv == nil {
		return nil, apperror.ErrInvoiceNotFound()
	}
	s.applyExpiry(ctx, inv)
	return inv, nil
}

// Cancel moves a PENDING invoice to CANCELLED. An invoice found past its
// expiry is persisted as EXPIRED instead and reported as such.
func (s *InvoiceServiceImpl) Cancel(ctx context.Context, publicID string) (*domain.Invoice, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	inv, err := s.invoiceRepo.GetByPublicIDForUpdate(ctx, dbTx, publicID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock invoice: %w", err))
	}
	if inv == nil {
		return nil, apperror.ErrInvoiceNotFound()
	}

	now := s.now().UTC()
	if inv.Status == domain.InvoiceStatusPending && domain.EffectiveStatus(inv, now) == domain.InvoiceStatusExpired {
		inv.Status = domain.InvoiceStatusExpired
		if err := s.invoiceRepo.UpdateStatus(ctx, dbTx, inv); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("persist expiry: %w", err))
		}
		if err := dbTx.Commit(ctx); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}
		return nil, apperror.ErrInvoiceExpired()
	}

	if !inv.CanTransitionTo(domain.InvoiceStatusCancelled) {
		return nil, apperror.ErrInvoiceNotPending(string(inv.Status))
	}

	inv.Status = domain.InvoiceStatusCancelled
	if err := s.invoiceRepo.UpdateStatus(ctx, dbTx, inv); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("cancel invoice: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Str("invoice_id", publicID).Msg("invoice cancelled")
	return inv, nil
}

// LatestForDevice returns the newest invoice targeting the device with a
// freshly signed token, or nil when there is none (or none pending).
func (s *InvoiceServiceImpl) LatestForDevice(ctx context.Context, deviceID string, onlyPending bool) (*ports.CreatedInvoice, error) {
	inv, err := s.invoiceRepo.GetLatestByDevice(ctx, deviceID, onlyPending)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("latest invoice: %w", err))
	}
	if inv == nil {
		return nil, nil
	}
	s.applyExpiry(ctx, inv)
	if onlyPending && inv.Status != domain.InvoiceStatusPending {
		return nil, nil
	}
	return s.withToken(inv), nil
}

// applyExpiry derives the effective status and, when it differs from storage,
// persists the EXPIRED transition with a conditional update. A failed write
// is logged; the next access retries it.
func (s *InvoiceServiceImpl) applyExpiry(ctx context.Context, inv *domain.Invoice) {
	now := s.now().UTC()
	if inv.Status != domain.InvoiceStatusPending || domain.EffectiveStatus(inv, now) != domain.InvoiceStatusExpired {
		return
	}
	inv.Status = domain.InvoiceStatusExpired
	if _, err := s.invoiceRepo.MarkExpired(ctx, inv.PublicID, now); err != nil {
		s.log.Warn().Err(err).Str("invoice_id", inv.PublicID).Msg("failed to persist invoice expiry")
	}
}

func (s *InvoiceServiceImpl) withToken(inv *domain.Invoice) *ports.CreatedInvoice {
	token := s.tokens.Sign(inv.PublicID, s.cfg.TokenTTL)
	return &ports.CreatedInvoice{
		Invoice: inv,
		Token:   token,
		PayURL:  BuildPayURL(s.cfg.PayURLBase, inv.PublicID, token),
	}
}

// BuildPayURL renders base/<public id>?t=<token>.
func BuildPayURL(base, publicID, token string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(publicID) + "?t=" + url.QueryEscape(token)
}

func validateCreateInvoice(req ports.CreateInvoiceRequest) error {
	if !domain.IsValidAmount(req.Amount) {
		return apperror.Validation("amount", "must be positive with at most two decimal places")
	}
	if req.DeviceID == "" {
		return apperror.Validation("device_id", "is required")
	}
	if len(req.DeviceID) > maxDeviceIDLen {
		return apperror.Validation("device_id", fmt.Sprintf("must be at most %d characters", maxDeviceIDLen))
	}
	if req.DurationSec < 1 || req.DurationSec > domain.MaxDurationSec {
		return apperror.Validation("duration_sec", fmt.Sprintf("must be between 1 and %d", domain.MaxDurationSec))
	}
	if utf8.RuneCountInString(req.Description) > maxDescriptionLen {
		return apperror.Validation("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLen))
	}
	return nil
}
