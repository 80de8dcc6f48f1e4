package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"kiosk-settlement/internal/core/domain"
	"kiosk-settlement/internal/core/ports"
	"kiosk-settlement/pkg/apperror"
	"kiosk-settlement/pkg/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const maxGuestNameLen = 100

// SettlementConfig toggles the optional checks of the settle operation.
type SettlementConfig struct {
	AutoCreateDevices  bool
	GuestRequiresToken bool
}

// SettlementServiceImpl implements ports.SettlementService.
type SettlementServiceImpl struct {
	invoiceRepo    ports.InvoiceRepository
	settlementRepo ports.SettlementRepository
	deviceRepo     ports.DeviceRepository
	ledger         ports.LedgerService
	queue          ports.CommandQueueService
	tokens         ports.CapabilityTokenService
	transactor     ports.DBTransactor
	notifier       ports.SettlementNotifier
	metrics        *metrics.SettlementMetrics
	cfg            SettlementConfig
	log            zerolog.Logger
	now            func() time.Time
}

// NewSettlementService creates a new SettlementServiceImpl. notifier and m may be nil.
func NewSettlementService(
	invoiceRepo ports.InvoiceRepository,
	settlementRepo ports.SettlementRepository,
	deviceRepo ports.DeviceRepository,
	ledger ports.LedgerService,
	queue ports.CommandQueueService,
	tokens ports.CapabilityTokenService,
	transactor ports.DBTransactor,
	notifier ports.SettlementNotifier,
	m *metrics.SettlementMetrics,
	cfg SettlementConfig,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		invoiceRepo:    invoiceRepo,
		settlementRepo: settlementRepo,
		deviceRepo:     deviceRepo,
		ledger:         ledger,
		queue:          queue,
		tokens:         tokens,
		transactor:     transactor,
		notifier:       notifier,
		metrics:        m,
		cfg:            cfg,
		log:            log,
		now:            time.Now,
	}
}

// PayWithWallet settles an invoice from the payer's wallet.
func (s *SettlementServiceImpl) PayWithWallet(ctx context.Context, publicID, payerID string) (*domain.SettlementReceipt, error) {
	return s.Settle(ctx, ports.SettleRequest{
		InvoicePublicID: publicID,
		Method:          domain.PaymentMethodWallet,
		PayerID:         payerID,
	})
}

// PayAsGuest settles an invoice without touching any wallet.
func (s *SettlementServiceImpl) PayAsGuest(ctx context.Context, publicID, guestName, token string) (*domain.SettlementReceipt, error) {
	return s.Settle(ctx, ports.SettleRequest{
		InvoicePublicID: publicID,
		Method:          domain.PaymentMethodGuest,
		GuestName:       guestName,
		Token:           token,
	})
}

// Settle pays a PENDING invoice in a single transaction. Locks are taken in
// the order invoice, wallet, device so concurrent settlements cannot
// deadlock. Either every effect commits (debit, PAID transition, settlement
// record, START command) or none does.
func (s *SettlementServiceImpl) Settle(ctx context.Context, req ports.SettleRequest) (*domain.SettlementReceipt, error) {
	start := s.now()
	receipt, inv, err := s.settle(ctx, req)
	if err != nil {
		s.metrics.ObserveSettlement(string(req.Method), string(domain.SettlementFailed), s.now().Sub(start))
		s.log.Warn().
			Err(err).
			Str("invoice_id", req.InvoicePublicID).
			Str("method", string(req.Method)).
			Msg("settlement rejected")
		return nil, err
	}

	s.metrics.ObserveSettlement(string(req.Method), string(domain.SettlementSuccess), s.now().Sub(start))
	s.log.Info().
		Str("invoice_id", receipt.InvoicePublicID).
		Str("method", string(receipt.Method)).
		Str("reference", receipt.PaidReference).
		Str("amount", domain.FormatMoney(receipt.Amount)).
		Msg("invoice settled")

	if s.notifier != nil {
		s.notifier.NotifySettled(ctx, receipt, inv)
	}
	return receipt, nil
}

func (s *SettlementServiceImpl) settle(ctx context.Context, req ports.SettleRequest) (*domain.SettlementReceipt, *domain.Invoice, error) {
	if err := s.validate(req); err != nil {
		return nil, nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// 1. Lock invoice
	inv, err := s.invoiceRepo.GetByPublicIDForUpdate(ctx, dbTx, req.InvoicePublicID)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("lock invoice: %w", err))
	}
	if inv == nil {
		return nil, nil, apperror.ErrInvoiceNotFound()
	}
	if inv.Status != domain.InvoiceStatusPending {
		return nil, nil, apperror.ErrInvoiceNotPayable(string(inv.Status))
	}

	now := s.now().UTC()
	if inv.IsExpiredAt(now) {
		inv.Status = domain.InvoiceStatusExpired
		if err := s.invoiceRepo.UpdateStatus(ctx, dbTx, inv); err != nil {
			return nil, nil, apperror.InternalError(fmt.Errorf("persist expiry: %w", err))
		}
		if err := dbTx.Commit(ctx); err != nil {
			return nil, nil, apperror.InternalError(fmt.Errorf("commit expiry: %w", err))
		}
		return nil, nil, apperror.ErrInvoiceExpired()
	}

	receipt := &domain.SettlementReceipt{
		InvoicePublicID: inv.PublicID,
		Method:          req.Method,
		Amount:          inv.Amount,
	}

	// 2. Debit wallet
	if req.Method == domain.PaymentMethodWallet {
		mutation, err := s.ledger.Debit(ctx, dbTx, req.PayerID, inv.Amount, inv.PublicID)
		if err != nil {
			return nil, nil, err
		}
		balance := mutation.Wallet.Balance
		receipt.NewBalance = &balance
	}

	// 3. Settlement record, then the PAID transition under the same reference
	record, err := s.recordSettlement(ctx, dbTx, inv, req, now)
	if err != nil {
		return nil, nil, err
	}

	paidAt := now
	inv.Status = domain.InvoiceStatusPaid
	inv.PaidAt = &paidAt
	inv.PaidReference = record.Reference
	if err := s.invoiceRepo.UpdateStatus(ctx, dbTx, inv); err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("mark invoice paid: %w", err))
	}

	// 4. Queue activation
	if inv.HasDevice() {
		if err := s.resolveDevice(ctx, dbTx, inv.DeviceID); err != nil {
			return nil, nil, err
		}
		pid := inv.PublicID
		cmdID, err := s.queue.Enqueue(ctx, dbTx, inv.DeviceID, domain.ActionStart, inv.DurationSec, &pid)
		if err != nil {
			return nil, nil, err
		}
		receipt.CommandID = &cmdID
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	receipt.Status = inv.Status
	receipt.PaidReference = inv.PaidReference
	receipt.PaidAt = paidAt
	return receipt, inv, nil
}

func (s *SettlementServiceImpl) validate(req ports.SettleRequest) error {
	switch req.Method {
	case domain.PaymentMethodWallet:
		if req.PayerID == "" {
			return apperror.ErrUnauthenticated()
		}
	case domain.PaymentMethodGuest:
		if utf8.RuneCountInString(req.GuestName) > maxGuestNameLen {
			return apperror.Validation("guest_name", fmt.Sprintf("must be at most %d characters", maxGuestNameLen))
		}
		if s.cfg.GuestRequiresToken && !s.tokens.Verify(req.Token, req.InvoicePublicID) {
			return apperror.ErrInvalidToken()
		}
	default:
		return apperror.Validation("method", "must be WALLET or GUEST")
	}
	return nil
}

func (s *SettlementServiceImpl) recordSettlement(
	ctx context.Context, tx pgx.Tx, inv *domain.Invoice, req ports.SettleRequest, now time.Time,
) (*domain.SettlementRecord, error) {
	record := &domain.SettlementRecord{
		InvoicePublicID: inv.PublicID,
		Method:          req.Method,
		Outcome:         domain.SettlementSuccess,
		Amount:          inv.Amount,
		CreatedAt:       now,
	}
	if req.Method == domain.PaymentMethodWallet {
		payer := req.PayerID
		record.PayerID = &payer
	} else {
		record.GuestName = req.GuestName
	}

	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		record.Reference = newReference(RefPrefixReceipt)
		err := s.settlementRepo.Create(ctx, tx, record)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, domain.ErrDuplicateReference) {
			return nil, apperror.InternalError(fmt.Errorf("create settlement record: %w", err))
		}
		s.log.Warn().Str("reference", record.Reference).Int("attempt", attempt).Msg("receipt reference collision, regenerating")
	}
	return nil, apperror.ErrReferenceExhausted(fmt.Errorf("receipt reference: %d attempts", maxReferenceAttempts))
}

// resolveDevice makes sure the invoice's device is registered before a
// command is queued for it.
func (s *SettlementServiceImpl) resolveDevice(ctx context.Context, tx pgx.Tx, deviceID string) error {
	if s.cfg.AutoCreateDevices {
		return s.queue.EnsureDevice(ctx, tx, deviceID)
	}
	device, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get device: %w", err))
	}
	if device == nil {
		return apperror.ErrDeviceNotFound()
	}
	return nil
}
