package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"kiosk-settlement/internal/core/domain"
	"kiosk-settlement/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func invoiceLockKey(publicID string) string { return "invoice:" + publicID }
func walletLockKey(accountID string) string { return "wallet:" + accountID }
func deviceLockKey(deviceID string) string  { return "device:" + deviceID }
func commandLockKey(id int64) string        { return "command:" + strconv.FormatInt(id, 10) }
func idempotencyLockKey(key string) string  { return "idempotency:" + key }

// ==================== Wallets ====================

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct{ s *Store }

// NewWalletRepo creates a WalletRepo over s.
func NewWalletRepo(s *Store) *WalletRepo { return &WalletRepo{s: s} }

// Create inserts the wallet unless the account already has one.
func (r *WalletRepo) Create(_ context.Context, w *domain.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.wallets[w.AccountID]; ok {
		return nil
	}
	r.s.wallets[w.AccountID] = *w
	r.s.walletAccounts[w.ID] = w.AccountID
	return nil
}

func (r *WalletRepo) GetByAccountID(_ context.Context, accountID string) (*domain.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.wallets[accountID]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WalletRepo) GetByAccountIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Wallet, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := t.lock(ctx, walletLockKey(accountID)); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := t.walletLocked(accountID)
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WalletRepo) UpdateBalance(_ context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	accountID, ok := r.s.walletAccounts[walletID]
	if !ok {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	if _, held := t.held[walletLockKey(accountID)]; !held {
		return fmt.Errorf("wallet %s updated without holding its lock", walletID)
	}
	w, _ := t.walletLocked(accountID)
	w.Balance = balance
	w.UpdatedAt = time.Now().UTC()
	t.wallets[accountID] = w
	return nil
}

// WalletTransactionRepo implements ports.WalletTransactionRepository.
type WalletTransactionRepo struct{ s *Store }

// NewWalletTransactionRepo creates a WalletTransactionRepo over s.
func NewWalletTransactionRepo(s *Store) *WalletTransactionRepo { return &WalletTransactionRepo{s: s} }

func (r *WalletTransactionRepo) Create(_ context.Context, tx pgx.Tx, wtx *domain.WalletTransaction) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.reserveLocked(t, "wtx:"+wtx.Reference); err != nil {
		return err
	}
	t.walletTxs = append(t.walletTxs, *wtx)
	return nil
}

// ListByWallet returns committed entries, newest first.
func (r *WalletTransactionRepo) ListByWallet(_ context.Context, walletID uuid.UUID, limit int) ([]domain.WalletTransaction, error) {
	r.s.mu.Lock()
	var txns []domain.WalletTransaction
	for _, wtx := range r.s.walletTxs {
		if wtx.WalletID == walletID {
			txns = append(txns, wtx)
		}
	}
	r.s.mu.Unlock()

	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})
	if limit > 0 && len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}

func (r *WalletTransactionRepo) SumByWallet(_ context.Context, walletID uuid.UUID) (*ports.LedgerTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	totals := &ports.LedgerTotals{Credits: decimal.Zero, Debits: decimal.Zero}
	for _, wtx := range r.s.walletTxs {
		if wtx.WalletID != walletID {
			continue
		}
		switch wtx.Type {
		case domain.WalletTxCredit:
			totals.Credits = totals.Credits.Add(wtx.Amount)
		case domain.WalletTxDebit:
			totals.Debits = totals.Debits.Add(wtx.Amount)
		}
	}
	return totals, nil
}

// ==================== Invoices ====================

// InvoiceRepo implements ports.InvoiceRepository.
type InvoiceRepo struct{ s *Store }

// NewInvoiceRepo creates an InvoiceRepo over s.
func NewInvoiceRepo(s *Store) *InvoiceRepo { return &InvoiceRepo{s: s} }

func (r *InvoiceRepo) Create(_ context.Context, inv *domain.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[inv.PublicID]; ok {
		return domain.ErrDuplicateReference
	}
	r.s.invoices[inv.PublicID] = *inv
	return nil
}

func (r *InvoiceRepo) GetByPublicID(_ context.Context, publicID string) (*domain.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[publicID]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *InvoiceRepo) GetByPublicIDForUpdate(ctx context.Context, tx pgx.Tx, publicID string) (*domain.Invoice, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := t.lock(ctx, invoiceLockKey(publicID)); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := t.invoiceLocked(publicID)
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *InvoiceRepo) UpdateStatus(_ context.Context, tx pgx.Tx, inv *domain.Invoice) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if _, held := t.held[invoiceLockKey(inv.PublicID)]; !held {
		return fmt.Errorf("invoice %s updated without holding its lock", inv.PublicID)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := t.invoiceLocked(inv.PublicID)
	if !ok {
		return fmt.Errorf("invoice not found: %s", inv.PublicID)
	}
	current.Status = inv.Status
	current.PaidAt = inv.PaidAt
	current.PaidReference = inv.PaidReference
	t.invoices[inv.PublicID] = current
	return nil
}

// MarkExpired waits for the invoice lock like a row-level UPDATE would, so
// it never overwrites a settlement committed in the meantime.
func (r *InvoiceRepo) MarkExpired(ctx context.Context, publicID string, now time.Time) (bool, error) {
	changed := false
	err := r.s.withTx(ctx, func(t *Tx) error {
		if err := t.lock(ctx, invoiceLockKey(publicID)); err != nil {
			return err
		}
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		inv, ok := t.invoiceLocked(publicID)
		if !ok || inv.Status != domain.InvoiceStatusPending || now.Before(inv.ExpiresAt) {
			return nil
		}
		inv.Status = domain.InvoiceStatusExpired
		t.invoices[publicID] = inv
		changed = true
		return nil
	})
	return changed, err
}

func (r *InvoiceRepo) GetLatestByDevice(_ context.Context, deviceID string, onlyPending bool) (*domain.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *domain.Invoice
	for _, inv := range r.s.invoices {
		if inv.DeviceID != deviceID {
			continue
		}
		if onlyPending && inv.Status != domain.InvoiceStatusPending {
			continue
		}
		if latest == nil || inv.CreatedAt.After(latest.CreatedAt) ||
			(inv.CreatedAt.Equal(latest.CreatedAt) && inv.PublicID > latest.PublicID) {
			candidate := inv
			latest = &candidate
		}
	}
	return latest, nil
}

// ==================== Settlements ====================

// SettlementRepo implements ports.SettlementRepository.
type SettlementRepo struct{ s *Store }

// NewSettlementRepo creates a SettlementRepo over s.
func NewSettlementRepo(s *Store) *SettlementRepo { return &SettlementRepo{s: s} }

func (r *SettlementRepo) Create(_ context.Context, tx pgx.Tx, rec *domain.SettlementRecord) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	settledKey := "settled:" + rec.InvoicePublicID
	if rec.Outcome == domain.SettlementSuccess {
		if _, taken := r.s.uniques[settledKey]; taken {
			return fmt.Errorf("invoice %s already settled", rec.InvoicePublicID)
		}
	}
	if err := r.s.reserveLocked(t, "rcpt:"+rec.Reference); err != nil {
		return err
	}
	if rec.Outcome == domain.SettlementSuccess {
		if err := r.s.reserveLocked(t, settledKey); err != nil {
			return fmt.Errorf("invoice %s already settled: %v", rec.InvoicePublicID, err)
		}
	}
	r.s.nextSettlementID++
	rec.ID = r.s.nextSettlementID
	t.settlements = append(t.settlements, *rec)
	return nil
}

func (r *SettlementRepo) ListByInvoice(_ context.Context, invoicePublicID string) ([]domain.SettlementRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var records []domain.SettlementRecord
	for _, rec := range r.s.settlements {
		if rec.InvoicePublicID == invoicePublicID {
			records = append(records, rec)
		}
	}
	return records, nil
}

// ==================== Devices ====================

// DeviceRepo implements ports.DeviceRepository.
type DeviceRepo struct{ s *Store }

// NewDeviceRepo creates a DeviceRepo over s.
func NewDeviceRepo(s *Store) *DeviceRepo { return &DeviceRepo{s: s} }

// Register adds or replaces a device outside any transaction.
func (r *DeviceRepo) Register(d *domain.Device) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.devices[d.ID] = *d
}

func (r *DeviceRepo) GetByID(_ context.Context, deviceID string) (*domain.Device, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.devices[deviceID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *DeviceRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, deviceID string) (*domain.Device, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := t.lock(ctx, deviceLockKey(deviceID)); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := t.deviceLocked(deviceID)
	if !ok {
		return nil, nil
	}
	return &d, nil
}

// CreateIfNotExists waits on the device lock so two first-time registrations
// of one device cannot both insert.
func (r *DeviceRepo) CreateIfNotExists(ctx context.Context, tx pgx.Tx, d *domain.Device) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if err := t.lock(ctx, deviceLockKey(d.ID)); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := t.deviceLocked(d.ID); ok {
		return nil
	}
	t.devices[d.ID] = *d
	return nil
}

func (r *DeviceRepo) TouchLastSeen(_ context.Context, tx pgx.Tx, deviceID string, at time.Time) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := t.deviceLocked(deviceID)
	if !ok {
		return nil
	}
	seen := at
	d.LastSeen = &seen
	t.devices[deviceID] = d
	return nil
}

// ==================== Commands ====================

// CommandRepo implements ports.CommandRepository.
type CommandRepo struct{ s *Store }

// NewCommandRepo creates a CommandRepo over s.
func NewCommandRepo(s *Store) *CommandRepo { return &CommandRepo{s: s} }

// Create stages a command. It stays invisible to other transactions until
// commit, so a poller never sees a command whose settlement rolls back.
func (r *CommandRepo) Create(_ context.Context, tx pgx.Tx, cmd *domain.DeviceCommand) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextCommandID++
	cmd.ID = r.s.nextCommandID
	t.commands[cmd.ID] = *cmd
	t.newCommands = append(t.newCommands, cmd.ID)
	return nil
}

// ClaimNextQueued skips commands locked by other transactions instead of
// waiting on them.
func (r *CommandRepo) ClaimNextQueued(_ context.Context, tx pgx.Tx, deviceID string, sentAt time.Time) (*domain.DeviceCommand, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var queued []domain.DeviceCommand
	for _, id := range t.visibleCommandIDsLocked() {
		cmd, ok := t.commandLocked(id)
		if ok && cmd.DeviceID == deviceID && cmd.State == domain.CommandStateQueued {
			queued = append(queued, cmd)
		}
	}
	sortCommands(queued)

	for _, cmd := range queued {
		if !t.tryLockLocked(commandLockKey(cmd.ID)) {
			continue
		}
		sent := sentAt
		cmd.State = domain.CommandStateSent
		cmd.SentAt = &sent
		t.commands[cmd.ID] = cmd
		return &cmd, nil
	}
	return nil, nil
}

func (r *CommandRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, deviceID string, commandID int64) (*domain.DeviceCommand, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := t.lock(ctx, commandLockKey(commandID)); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cmd, ok := t.commandLocked(commandID)
	if !ok || cmd.DeviceID != deviceID {
		return nil, nil
	}
	return &cmd, nil
}

func (r *CommandRepo) MarkAcked(_ context.Context, tx pgx.Tx, commandID int64, at time.Time) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cmd, ok := t.commandLocked(commandID)
	if !ok || cmd.State != domain.CommandStateSent {
		return fmt.Errorf("command %d is not in SENT state", commandID)
	}
	acked := at
	cmd.State = domain.CommandStateAcked
	cmd.AckedAt = &acked
	t.commands[commandID] = cmd
	return nil
}

// ListByDevice returns the committed queue in delivery order.
func (r *CommandRepo) ListByDevice(_ context.Context, deviceID string) ([]domain.DeviceCommand, error) {
	r.s.mu.Lock()
	var cmds []domain.DeviceCommand
	for _, id := range r.s.commandOrder {
		if cmd := r.s.commands[id]; cmd.DeviceID == deviceID {
			cmds = append(cmds, cmd)
		}
	}
	r.s.mu.Unlock()
	sortCommands(cmds)
	return cmds, nil
}

// ==================== Idempotency ====================

// IdempotencyRepo implements ports.IdempotencyRepository.
type IdempotencyRepo struct{ s *Store }

// NewIdempotencyRepo creates an IdempotencyRepo over s.
func NewIdempotencyRepo(s *Store) *IdempotencyRepo { return &IdempotencyRepo{s: s} }

// Reserve waits on the key lock the way a unique index makes a second
// inserter wait, then claims the key unless a committed transaction has it.
func (r *IdempotencyRepo) Reserve(ctx context.Context, tx pgx.Tx, key string, createdAt time.Time) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if err := t.lock(ctx, idempotencyLockKey(key)); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.reserveLocked(t, idempotencyLockKey(key)); err != nil {
		return domain.ErrDuplicateIdempotencyKey
	}
	t.idempotency[key] = domain.IdempotencyLog{Key: key, CreatedAt: createdAt}
	return nil
}

func (r *IdempotencyRepo) SaveResponse(_ context.Context, tx pgx.Tx, key string, response []byte) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	log, ok := t.idempotency[key]
	if !ok {
		return fmt.Errorf("idempotency key %q not reserved", key)
	}
	log.ResponseJSON = append([]byte(nil), response...)
	t.idempotency[key] = log
	return nil
}

func (r *IdempotencyRepo) Get(_ context.Context, key string) (*domain.IdempotencyLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	log, ok := r.s.idempotency[key]
	if !ok {
		return nil, nil
	}
	return &log, nil
}

// ==================== Audit ====================

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct{ s *Store }

// NewAuditRepo creates an AuditRepo over s.
func NewAuditRepo(s *Store) *AuditRepo { return &AuditRepo{s: s} }

func (r *AuditRepo) Create(_ context.Context, log *domain.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audits = append(r.s.audits, *log)
	return nil
}

// Entries returns a copy of every recorded audit entry.
func (r *AuditRepo) Entries() []domain.AuditLog {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.AuditLog(nil), r.s.audits...)
}
