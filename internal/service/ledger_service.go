package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kiosk-settlement/internal/core/domain"
	"kiosk-settlement/internal/core/ports"
	"kiosk-settlement/pkg/apperror"
	"kiosk-settlement/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	topupIdempotencyTTL = 24 * time.Hour
	walletHistoryLimit  = 20

	// MaxIdempotencyKeyLength bounds the client supplied Idempotency-Key.
	MaxIdempotencyKeyLength = 128
)

// LedgerConfig bounds top-ups.
type LedgerConfig struct {
	MinTopup decimal.Decimal
	MaxTopup decimal.Decimal
	Presets  []int
}

// LedgerServiceImpl implements ports.LedgerService.
type LedgerServiceImpl struct {
	walletRepo ports.WalletRepository
	wtxRepo    ports.WalletTransactionRepository
	transactor ports.DBTransactor
	idempRepo  ports.IdempotencyRepository
	idempCache ports.IdempotencyCache
	metrics    *metrics.SettlementMetrics
	cfg        LedgerConfig
	log        zerolog.Logger
	now        func() time.Time
}

// NewLedgerService creates a new LedgerServiceImpl. idempCache may be nil.
func NewLedgerService(
	walletRepo ports.WalletRepository,
	wtxRepo ports.WalletTransactionRepository,
	transactor ports.DBTransactor,
	idempRepo ports.IdempotencyRepository,
	idempCache ports.IdempotencyCache,
	m *metrics.SettlementMetrics,
	cfg LedgerConfig,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		walletRepo: walletRepo,
		wtxRepo:    wtxRepo,
		transactor: transactor,
		idempRepo:  idempRepo,
		idempCache: idempCache,
		metrics:    m,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// GetWallet returns the account's wallet and its most recent ledger entries,
// creating an empty wallet on first access.
func (s *LedgerServiceImpl) GetWallet(ctx context.Context, accountID string) (*ports.WalletOverview, error) {
	wallet, err := s.ensureWallet(ctx, accountID)
	if err != nil {
		return nil, err
	}

	txs, err := s.wtxRepo.ListByWallet(ctx, wallet.ID, walletHistoryLimit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list wallet transactions: %w", err))
	}

	totals, err := s.wtxRepo.SumByWallet(ctx, wallet.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("wallet_id", wallet.ID.String()).Msg("ledger reconciliation query failed")
	} else if !totals.Net().Equal(wallet.Balance) {
		s.log.Error().
			Str("wallet_id", wallet.ID.String()).
			Str("balance", domain.FormatMoney(wallet.Balance)).
			Str("ledger_net", domain.FormatMoney(totals.Net())).
			Msg("wallet balance does not match ledger")
	}

	return &ports.WalletOverview{Wallet: wallet, Transactions: txs}, nil
}

// TopUp credits a preset or explicit amount in its own transaction. A keyed
// top-up is applied at most once: Redis answers retries fast and the
// idempotency_logs row, reserved in the crediting transaction, settles races.
func (s *LedgerServiceImpl) TopUp(ctx context.Context, req ports.TopupRequest) (*ports.TopupResult, error) {
	amount, err := s.resolveTopupAmount(req)
	if err != nil {
		return nil, err
	}
	if len(req.IdempotencyKey) > MaxIdempotencyKeyLength {
		return nil, apperror.Validation("Idempotency-Key", fmt.Sprintf("must be at most %d characters", MaxIdempotencyKeyLength))
	}

	idempKey := ""
	if req.IdempotencyKey != "" {
		idempKey = domain.BuildTopupIdempotencyKey(req.AccountID, req.IdempotencyKey)
	}

	// Layer 1: Redis idempotency check
	if idempKey != "" && s.idempCache != nil {
		cached, err := s.idempCache.Get(ctx, idempKey)
		if err != nil {
			s.log.Warn().Err(err).Str("key", idempKey).Msg("redis idempotency check failed, falling through to DB")
		}
		if cached != nil {
			return unmarshalTopupResult(cached)
		}
	}

	// Layer 2: DB idempotency check
	if idempKey != "" {
		idempLog, err := s.idempRepo.Get(ctx, idempKey)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("db idempotency check: %w", err))
		}
		if idempLog != nil && idempLog.ResponseJSON != nil {
			return unmarshalTopupResult(idempLog.ResponseJSON)
		}
	}

	if _, err := s.ensureWallet(ctx, req.AccountID); err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	now := s.now().UTC()
	if idempKey != "" {
		if err := s.idempRepo.Reserve(ctx, dbTx, idempKey, now); err != nil {
			if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
				// A concurrent request with the same key committed first.
				_ = dbTx.Rollback(ctx)
				return s.replayTopup(ctx, idempKey)
			}
			return nil, apperror.InternalError(fmt.Errorf("reserve idempotency key: %w", err))
		}
	}

	mutation, err := s.Credit(ctx, dbTx, req.AccountID, amount, "")
	if err != nil {
		return nil, err
	}

	result := &ports.TopupResult{
		Balance:   mutation.Wallet.Balance,
		Amount:    amount,
		Reference: mutation.Transaction.Reference,
		CreatedAt: mutation.Transaction.CreatedAt,
	}

	var respJSON []byte
	if idempKey != "" {
		respJSON, err = json.Marshal(result)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("marshal response: %w", err))
		}
		if err := s.idempRepo.SaveResponse(ctx, dbTx, idempKey, respJSON); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("save idempotency log: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// Post-process: cache in Redis (best-effort)
	if respJSON != nil && s.idempCache != nil {
		if err := s.idempCache.Set(ctx, idempKey, respJSON, topupIdempotencyTTL); err != nil {
			s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotency in redis")
		}
	}

	s.metrics.IncTopup()
	s.log.Info().
		Str("account_id", req.AccountID).
		Str("amount", domain.FormatMoney(amount)).
		Str("reference", result.Reference).
		Msg("wallet topped up")

	return result, nil
}

func (s *LedgerServiceImpl) replayTopup(ctx context.Context, idempKey string) (*ports.TopupResult, error) {
	idempLog, err := s.idempRepo.Get(ctx, idempKey)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("db idempotency check: %w", err))
	}
	if idempLog == nil || idempLog.ResponseJSON == nil {
		return nil, apperror.InternalError(fmt.Errorf("idempotency key %q committed without a response", idempKey))
	}
	s.log.Info().Str("key", idempKey).Msg("replaying top-up for duplicate idempotency key")
	return unmarshalTopupResult(idempLog.ResponseJSON)
}

func unmarshalTopupResult(data []byte) (*ports.TopupResult, error) {
	var result ports.TopupResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached top-up: %w", err))
	}
	return &result, nil
}

// Credit adds amount to the locked wallet and appends a CREDIT entry.
func (s *LedgerServiceImpl) Credit(ctx context.Context, tx pgx.Tx, accountID string, amount decimal.Decimal, invoicePublicID string) (*ports.LedgerMutation, error) {
	return s.mutate(ctx, tx, accountID, amount, domain.WalletTxCredit, invoicePublicID)
}

// Debit takes amount from the locked wallet and appends a DEBIT entry. The
// balance check happens under the row lock, so concurrent debits serialise.
func (s *LedgerServiceImpl) Debit(ctx context.Context, tx pgx.Tx, accountID string, amount decimal.Decimal, invoicePublicID string) (*ports.LedgerMutation, error) {
	return s.mutate(ctx, tx, accountID, amount, domain.WalletTxDebit, invoicePublicID)
}

func (s *LedgerServiceImpl) mutate(
	ctx context.Context,
	tx pgx.Tx,
	accountID string,
	amount decimal.Decimal,
	txType domain.WalletTxType,
	invoicePublicID string,
) (*ports.LedgerMutation, error) {
	if !domain.IsValidAmount(amount) {
		return nil, apperror.Validation("amount", "must be positive with at most two decimal places")
	}

	wallet, err := s.walletRepo.GetByAccountIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	var newBalance decimal.Decimal
	prefix := RefPrefixTopup
	switch txType {
	case domain.WalletTxCredit:
		newBalance = wallet.Balance.Add(amount)
	case domain.WalletTxDebit:
		if !wallet.CanDebit(amount) {
			return nil, apperror.ErrInsufficientFunds()
		}
		newBalance = wallet.Balance.Sub(amount)
		prefix = RefPrefixPayment
	default:
		return nil, apperror.InternalError(fmt.Errorf("unknown wallet tx type %q", txType))
	}

	if err := s.walletRepo.UpdateBalance(ctx, tx, wallet.ID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	now := s.now().UTC()
	entry := &domain.WalletTransaction{
		ID:              uuid.New(),
		WalletID:        wallet.ID,
		Type:            txType,
		Amount:          amount,
		InvoicePublicID: invoicePublicID,
		CreatedAt:       now,
	}
	if err := s.appendEntry(ctx, tx, entry, prefix); err != nil {
		return nil, err
	}

	wallet.Balance = newBalance
	wallet.UpdatedAt = now
	return &ports.LedgerMutation{Wallet: wallet, Transaction: entry}, nil
}

// appendEntry inserts the entry, drawing a fresh reference on each clash.
func (s *LedgerServiceImpl) appendEntry(ctx context.Context, tx pgx.Tx, entry *domain.WalletTransaction, prefix string) error {
	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		entry.Reference = newReference(prefix)
		err := s.wtxRepo.Create(ctx, tx, entry)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicateReference) {
			return apperror.InternalError(fmt.Errorf("create wallet transaction: %w", err))
		}
		s.log.Warn().Str("reference", entry.Reference).Int("attempt", attempt).Msg("wallet reference collision, regenerating")
	}
	return apperror.ErrReferenceExhausted(fmt.Errorf("wallet transaction: %d attempts", maxReferenceAttempts))
}

func (s *LedgerServiceImpl) ensureWallet(ctx context.Context, accountID string) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet != nil {
		return wallet, nil
	}

	now := s.now().UTC()
	if err := s.walletRepo.Create(ctx, &domain.Wallet{
		ID:        uuid.New(),
		AccountID: accountID,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	// Re-read: a concurrent first access may have won the insert.
	wallet, err = s.walletRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return wallet, nil
}

func (s *LedgerServiceImpl) resolveTopupAmount(req ports.TopupRequest) (decimal.Decimal, error) {
	switch {
	case req.Preset != nil && req.Amount != nil:
		return decimal.Zero, apperror.Validation("amount", "provide either preset or amount, not both")
	case req.Preset != nil:
		for _, p := range s.cfg.Presets {
			if p == *req.Preset {
				return decimal.NewFromInt(int64(p)), nil
			}
		}
		return decimal.Zero, apperror.Validation("preset", fmt.Sprintf("must be one of %v", s.cfg.Presets))
	case req.Amount != nil:
		amount := *req.Amount
		if !domain.IsValidAmount(amount) {
			return decimal.Zero, apperror.Validation("amount", "must be positive with at most two decimal places")
		}
		if amount.LessThan(s.cfg.MinTopup) || amount.GreaterThan(s.cfg.MaxTopup) {
			return decimal.Zero, apperror.Validation("amount", fmt.Sprintf("must be between %s and %s",
				domain.FormatMoney(s.cfg.MinTopup), domain.FormatMoney(s.cfg.MaxTopup)))
		}
		return amount, nil
	default:
		return decimal.Zero, apperror.Validation("amount", "preset or amount is required")
	}
}
