// Package memory is a single-process implementation of the repository
// ports. Transactions take per-row locks that are held until commit or
// rollback, stage their writes privately and publish them atomically on
// commit, so the services behave the same way they do against PostgreSQL.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"kiosk-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var errForeignTx = errors.New("memory: transaction was not started by this store")

// Store holds the committed state of every table.
type Store struct {
	mu sync.Mutex

	wallets        map[string]domain.Wallet // by account id
	walletAccounts map[uuid.UUID]string
	walletTxs      []domain.WalletTransaction
	invoices       map[string]domain.Invoice
	settlements    []domain.SettlementRecord
	devices        map[string]domain.Device
	commands       map[int64]domain.DeviceCommand
	commandOrder   []int64
	audits         []domain.AuditLog
	idempotency    map[string]domain.IdempotencyLog

	// unique keys, committed or reserved by a live transaction
	uniques map[string]struct{}

	nextSettlementID int64
	nextCommandID    int64

	locks map[string]chan struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		wallets:        make(map[string]domain.Wallet),
		walletAccounts: make(map[uuid.UUID]string),
		invoices:       make(map[string]domain.Invoice),
		devices:        make(map[string]domain.Device),
		commands:       make(map[int64]domain.DeviceCommand),
		idempotency:    make(map[string]domain.IdempotencyLog),
		uniques:        make(map[string]struct{}),
		locks:          make(map[string]chan struct{}),
	}
}

// Begin implements ports.DBTransactor.
func (s *Store) Begin(_ context.Context) (pgx.Tx, error) {
	return s.begin(), nil
}

// Ping implements ports.HealthChecker.
func (s *Store) Ping(_ context.Context) error { return nil }

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "memory" }

func (s *Store) begin() *Tx {
	return &Tx{
		store:    s,
		held:     make(map[string]chan struct{}),
		wallets:  make(map[string]domain.Wallet),
		invoices: make(map[string]domain.Invoice),
		devices:  make(map[string]domain.Device),
		commands: make(map[int64]domain.DeviceCommand),

		idempotency: make(map[string]domain.IdempotencyLog),
	}
}

func (s *Store) lockChanLocked(key string) chan struct{} {
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	return ch
}

func (s *Store) lockChan(key string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockChanLocked(key)
}

// reserveLocked claims a unique key for tx. Caller holds s.mu.
func (s *Store) reserveLocked(tx *Tx, key string) error {
	if _, taken := s.uniques[key]; taken {
		return domain.ErrDuplicateReference
	}
	s.uniques[key] = struct{}{}
	tx.reserved = append(tx.reserved, key)
	return nil
}

// Tx is a store transaction. Only Commit and Rollback of pgx.Tx are
// implemented; the repositories of this package are its only callers.
type Tx struct {
	pgx.Tx

	store    *Store
	held     map[string]chan struct{}
	reserved []string
	done     bool

	wallets     map[string]domain.Wallet
	invoices    map[string]domain.Invoice
	devices     map[string]domain.Device
	commands    map[int64]domain.DeviceCommand
	newCommands []int64
	walletTxs   []domain.WalletTransaction
	settlements []domain.SettlementRecord
	idempotency map[string]domain.IdempotencyLog
}

func asTx(tx pgx.Tx) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, errForeignTx
	}
	if t.done {
		return nil, pgx.ErrTxClosed
	}
	return t, nil
}

// lock blocks until the row lock is held by t or ctx is done.
func (t *Tx) lock(ctx context.Context, key string) error {
	if _, ok := t.held[key]; ok {
		return nil
	}
	ch := t.store.lockChan(key)
	select {
	case ch <- struct{}{}:
		t.held[key] = ch
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for lock %s: %w", key, ctx.Err())
	}
}

// tryLockLocked takes the row lock without waiting. Caller holds store.mu.
func (t *Tx) tryLockLocked(key string) bool {
	if _, ok := t.held[key]; ok {
		return true
	}
	ch := t.store.lockChanLocked(key)
	select {
	case ch <- struct{}{}:
		t.held[key] = ch
		return true
	default:
		return false
	}
}

func (t *Tx) release() {
	for key, ch := range t.held {
		<-ch
		delete(t.held, key)
	}
	t.done = true
}

// Commit publishes every staged write and releases the row locks.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	s := t.store
	s.mu.Lock()
	for acct, w := range t.wallets {
		s.wallets[acct] = w
		s.walletAccounts[w.ID] = acct
	}
	for pid, inv := range t.invoices {
		s.invoices[pid] = inv
	}
	for id, d := range t.devices {
		s.devices[id] = d
	}
	for id, cmd := range t.commands {
		s.commands[id] = cmd
	}
	s.commandOrder = append(s.commandOrder, t.newCommands...)
	s.walletTxs = append(s.walletTxs, t.walletTxs...)
	s.settlements = append(s.settlements, t.settlements...)
	for key, log := range t.idempotency {
		s.idempotency[key] = log
	}
	s.mu.Unlock()

	t.release()
	return nil
}

// Rollback discards staged writes, frees reserved keys and releases the row
// locks. It is a no-op after Commit.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	s := t.store
	s.mu.Lock()
	for _, key := range t.reserved {
		delete(s.uniques, key)
	}
	s.mu.Unlock()

	t.release()
	return nil
}

// ---- overlay reads; caller holds store.mu ----

func (t *Tx) walletLocked(accountID string) (domain.Wallet, bool) {
	if w, ok := t.wallets[accountID]; ok {
		return w, true
	}
	w, ok := t.store.wallets[accountID]
	return w, ok
}

func (t *Tx) invoiceLocked(publicID string) (domain.Invoice, bool) {
	if inv, ok := t.invoices[publicID]; ok {
		return inv, true
	}
	inv, ok := t.store.invoices[publicID]
	return inv, ok
}

func (t *Tx) deviceLocked(deviceID string) (domain.Device, bool) {
	if d, ok := t.devices[deviceID]; ok {
		return d, true
	}
	d, ok := t.store.devices[deviceID]
	return d, ok
}

func (t *Tx) commandLocked(id int64) (domain.DeviceCommand, bool) {
	if cmd, ok := t.commands[id]; ok {
		return cmd, true
	}
	cmd, ok := t.store.commands[id]
	return cmd, ok
}

// visibleCommandIDsLocked returns committed command ids followed by the ids
// this transaction inserted, in insertion order.
func (t *Tx) visibleCommandIDsLocked() []int64 {
	ids := make([]int64, 0, len(t.store.commandOrder)+len(t.newCommands))
	ids = append(ids, t.store.commandOrder...)
	ids = append(ids, t.newCommands...)
	return ids
}

func sortCommands(cmds []domain.DeviceCommand) {
	sort.SliceStable(cmds, func(i, j int) bool {
		if !cmds[i].CreatedAt.Equal(cmds[j].CreatedAt) {
			return cmds[i].CreatedAt.Before(cmds[j].CreatedAt)
		}
		return cmds[i].ID < cmds[j].ID
	})
}

// withTx runs fn in a short transaction for writes issued outside one.
func (s *Store) withTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx := s.begin()
	defer tx.Rollback(ctx) //nolint:errcheck
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
