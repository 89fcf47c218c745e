// Package engine posts transactions to the store and keeps the derived balances.
//
// Every mutation (posting, reconciliation, provisioning, rebuilds) runs under a
// single writer lock, so the projection cache always equals a full replay of the
// store. Reads share a reader lock and see a consistent snapshot.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/ledger"
	"github.com/simonvc/swipeledger/internal/store"
)

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock replaces time.Now for transaction and record timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRetainedEarnings names the equity account that carries current profit on
// the balance sheet.
func WithRetainedEarnings(accountID string) Option {
	return func(e *Engine) { e.retainedEarnings = accountID }
}

type Engine struct {
	mu    sync.RWMutex
	store store.Store
	proj  *ledger.Projection

	log              *slog.Logger
	now              func() time.Time
	retainedEarnings string
}

// New wraps a seeded store and builds the balance projection from it.
func New(ctx context.Context, s store.Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:            s,
		log:              slog.Default(),
		now:              time.Now,
		retainedEarnings: ledger.AccountRetainedEarnings,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.Rebuild(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) Store() store.Store { return e.store }

func newID(prefix string) string {
	return prefix + "-" + uuid.Must(uuid.NewV7()).String()
}

// PostRequest is a transaction to be validated and appended. A zero Date means now.
type PostRequest struct {
	Description string
	Type        ledger.TxnType
	Entries     []ledger.Entry
	Metadata    ledger.Metadata
	Date        time.Time
}

// Post validates and appends a transaction. Rejected requests change nothing.
func (e *Engine) Post(ctx context.Context, req PostRequest) (*ledger.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.post(ctx, req)
}

// post runs with the writer lock held.
func (e *Engine) post(ctx context.Context, req PostRequest) (*ledger.Transaction, error) {
	if err := e.validate(req); err != nil {
		e.log.Debug("transaction rejected", "type", req.Type, "description", req.Description, "error", err)
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		date = e.now()
	}
	txn := ledger.Transaction{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Date:        date.UTC(),
		Description: req.Description,
		Type:        req.Type,
		Entries:     append([]ledger.Entry(nil), req.Entries...),
		Status:      ledger.StatusCompleted,
		Metadata:    req.Metadata,
	}

	if err := e.store.AppendTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("append transaction: %w", err)
	}
	e.proj.Apply(&txn)

	debit, _ := ledger.Totals(txn.Entries)
	e.log.Info("transaction posted",
		"id", txn.ID, "type", txn.Type, "entries", len(txn.Entries), "amount", debit.StringFixed(2))
	return &txn, nil
}

// validate checks, in order: entry count, balance, account references, type, then card.
func (e *Engine) validate(req PostRequest) error {
	if err := ledger.ValidateEntries(req.Entries); err != nil {
		return err
	}

	var unknown []string
	seen := make(map[string]bool)
	for _, en := range req.Entries {
		if seen[en.AccountID] {
			continue
		}
		seen[en.AccountID] = true
		if !e.proj.Known(en.AccountID) {
			unknown = append(unknown, en.AccountID)
		}
	}
	if len(unknown) > 0 {
		return &ledger.InvalidAccountError{IDs: unknown}
	}

	if !ledger.ValidTxnType(req.Type) {
		return fmt.Errorf("%w: %q", ledger.ErrInvalidTxnType, req.Type)
	}
	if c := req.Metadata.CardType; c != "" && !ledger.ValidCardType(c) {
		return fmt.Errorf("%w: %q", ledger.ErrInvalidCardType, c)
	}
	return nil
}

// AccountBalance returns the derived balance of an account, or zero if it does not exist.
func (e *Engine) AccountBalance(ctx context.Context, id string) decimal.Decimal {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.proj.Balance(id)
}

// Balances returns a snapshot of every account balance.
func (e *Engine) Balances(ctx context.Context) ledger.Balances {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.proj.Snapshot()
}

// Rebuild replays the whole store into a fresh projection and swaps it in.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	accounts, txns, err := e.loadAll(ctx)
	if err != nil {
		return err
	}
	p := ledger.NewProjection(accounts)
	for i := len(txns) - 1; i >= 0; i-- {
		p.Apply(&txns[i])
	}
	e.proj = p
	e.log.Debug("balances rebuilt", "accounts", len(accounts), "transactions", p.Applied())
	return nil
}

func (e *Engine) loadAll(ctx context.Context) ([]ledger.Account, []ledger.Transaction, error) {
	accounts, err := e.store.ListAccounts(ctx, store.AccountFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("load accounts: %w", err)
	}
	txns, err := e.store.ListTransactions(ctx, store.TxnFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("load transactions: %w", err)
	}
	return accounts, txns, nil
}

// Verification compares the cached balances with two independent derivations.
type Verification struct {
	CacheMatchesReplay bool     `json:"cache_matches_replay"`
	StoreMatchesReplay bool     `json:"store_matches_replay"`
	Mismatched         []string `json:"mismatched,omitempty"`
}

func (v Verification) OK() bool { return v.CacheMatchesReplay && v.StoreMatchesReplay }

// VerifyProjection replays the store and checks the cache against it, and checks
// the replay against per-account totals aggregated by the store itself.
func (e *Engine) VerifyProjection(ctx context.Context) (*Verification, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	accounts, txns, err := e.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	replay := ledger.Replay(accounts, txns)
	totals, err := e.store.EntryTotals(ctx)
	if err != nil {
		return nil, err
	}

	v := &Verification{CacheMatchesReplay: e.proj.Snapshot().Equal(replay), StoreMatchesReplay: true}
	for _, a := range accounts {
		want := a.SeedBalance
		if t, ok := totals[a.ID]; ok {
			want = want.Add(ledger.Effect(a.Type, ledger.Entry{AccountID: a.ID, Debit: t.Debit, Credit: t.Credit}))
		}
		if !want.Equal(replay.Get(a.ID)) || !e.proj.Balance(a.ID).Equal(replay.Get(a.ID)) {
			v.Mismatched = append(v.Mismatched, a.ID)
		}
		if !want.Equal(replay.Get(a.ID)) {
			v.StoreMatchesReplay = false
		}
	}
	if !v.OK() {
		e.log.Error("balance projection mismatch", "accounts", v.Mismatched)
	}
	return v, nil
}

// Ledger lists the transactions that touch an account, most recent first.
func (e *Engine) Ledger(ctx context.Context, accountID string) ([]ledger.Transaction, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.ListTransactions(ctx, store.TxnFilter{AccountID: accountID})
}

// Statement lists an account's postings oldest first with a running balance.
func (e *Engine) Statement(ctx context.Context, accountID string) (*ledger.Statement, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	acct, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	txns, err := e.store.ListTransactions(ctx, store.TxnFilter{AccountID: accountID})
	if err != nil {
		return nil, err
	}
	return ledger.BuildStatement(*acct, txns), nil
}

func (e *Engine) Transactions(ctx context.Context, filter store.TxnFilter) ([]ledger.Transaction, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.ListTransactions(ctx, filter)
}

func (e *Engine) GetTransaction(ctx context.Context, id string) (*ledger.Transaction, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.GetTransaction(ctx, id)
}
