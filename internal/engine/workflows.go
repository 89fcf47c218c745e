package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/ledger"
)

// Run builds a workflow's entries and posts them.
func (e *Engine) Run(ctx context.Context, wf ledger.Workflow) (*ledger.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run(ctx, wf, time.Time{})
}

func (e *Engine) run(ctx context.Context, wf ledger.Workflow, date time.Time) (*ledger.Transaction, error) {
	entries, err := wf.Build()
	if err != nil {
		return nil, err
	}
	return e.post(ctx, PostRequest{
		Description: wf.Describe(),
		Type:        wf.TxnType(),
		Entries:     entries,
		Metadata:    wf.Metadata(),
		Date:        date,
	})
}

// pickPG returns the named gateway, or the wallet's first one when name is empty.
func pickPG(w *ledger.Wallet, name string) (ledger.PGConfig, error) {
	if name == "" {
		if len(w.PGs) == 0 {
			return ledger.PGConfig{}, fmt.Errorf("wallet %s: %w", w.ID, ledger.ErrWalletWithoutPG)
		}
		return w.PGs[0], nil
	}
	pg, ok := w.PG(name)
	if !ok {
		return ledger.PGConfig{}, fmt.Errorf("%w: %s on wallet %s", ledger.ErrPGNotFound, name, w.ID)
	}
	return pg, nil
}

// persistRate stores an edited commission rate back on the customer, as the
// counter staff would expect the next swipe to default to it. It runs only
// after the transaction is posted; a failure here is logged, not returned,
// since the posting already stands.
func (e *Engine) persistRate(ctx context.Context, cust *ledger.Customer, card ledger.CardType, rate decimal.Decimal, txnID string) {
	if cust.CommissionRates.Rate(card).Equal(rate) {
		return
	}
	rates := cust.CommissionRates.With(card, rate)
	if _, err := e.updateCustomer(ctx, cust.ID, ledger.CustomerUpdate{CommissionRates: &rates}); err != nil {
		e.log.Error("save commission rate", "customer", cust.ID, "card", card, "transaction", txnID, "error", err)
	}
}

type SwipeInflowRequest struct {
	CustomerID string
	WalletID   string
	// PGName selects the wallet's gateway; empty means the first one.
	PGName string
	Card   ledger.CardType
	Amount decimal.Decimal
	// ServiceRate overrides the customer's commission for this card and is saved on the customer.
	ServiceRate *decimal.Decimal
	Date        time.Time
}

func (e *Engine) swipeInflow(ctx context.Context, req SwipeInflowRequest) (ledger.SwipeInflow, *ledger.Customer, error) {
	if !ledger.ValidCardType(req.Card) {
		return ledger.SwipeInflow{}, nil, fmt.Errorf("%w: %q", ledger.ErrInvalidCardType, req.Card)
	}
	cust, err := e.store.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return ledger.SwipeInflow{}, nil, err
	}
	wallet, err := e.store.GetWallet(ctx, req.WalletID)
	if err != nil {
		return ledger.SwipeInflow{}, nil, err
	}
	pg, err := pickPG(wallet, req.PGName)
	if err != nil {
		return ledger.SwipeInflow{}, nil, err
	}
	rate := cust.CommissionRates.Rate(req.Card)
	if req.ServiceRate != nil {
		rate = *req.ServiceRate
	}
	return ledger.SwipeInflow{
		CustomerID:       cust.ID,
		CustomerName:     cust.Name,
		PayableAccountID: cust.LedgerAccountID,
		WalletID:         wallet.ID,
		WalletAccountID:  wallet.LedgerAccountID,
		Card:             req.Card,
		Amount:           req.Amount,
		ServiceRate:      rate,
		MDRRate:          pg.Charges.Rate(req.Card),
	}, cust, nil
}

// QuoteSwipe prices a swipe without posting it.
func (e *Engine) QuoteSwipe(ctx context.Context, req SwipeInflowRequest) (*ledger.SwipeQuote, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	wf, _, err := e.swipeInflow(ctx, req)
	if err != nil {
		return nil, err
	}
	if _, err := wf.Build(); err != nil {
		return nil, err
	}
	q := wf.Quote()
	return &q, nil
}

// SwipeInflow posts a card swipe through a wallet's gateway and returns the
// posted transaction with its fee breakdown.
func (e *Engine) SwipeInflow(ctx context.Context, req SwipeInflowRequest) (*ledger.Transaction, *ledger.SwipeQuote, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	wf, cust, err := e.swipeInflow(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	txn, err := e.run(ctx, wf, req.Date)
	if err != nil {
		return nil, nil, err
	}
	if req.ServiceRate != nil {
		e.persistRate(ctx, cust, req.Card, *req.ServiceRate, txn.ID)
	}
	q := wf.Quote()
	return txn, &q, nil
}

type SwipePayoutRequest struct {
	CustomerID string
	// PayoutAccountID defaults to the main bank account.
	PayoutAccountID string
	Amount          decimal.Decimal
	TransferFee     decimal.Decimal
	Date            time.Time
}

// SwipePayout settles an amount owed to a customer.
func (e *Engine) SwipePayout(ctx context.Context, req SwipePayoutRequest) (*ledger.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cust, err := e.store.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	payout := req.PayoutAccountID
	if payout == "" {
		payout = ledger.AccountBankMain
	}
	return e.run(ctx, ledger.SwipePayout{
		CustomerID:       cust.ID,
		CustomerName:     cust.Name,
		PayableAccountID: cust.LedgerAccountID,
		PayoutAccountID:  payout,
		Amount:           req.Amount,
		TransferFee:      req.TransferFee,
	}, req.Date)
}

type AdvanceRequest struct {
	CustomerID string
	// SourceAccountID defaults to the main bank account.
	SourceAccountID string
	Amount          decimal.Decimal
	Date            time.Time
}

// AdvancePay lends a customer money ahead of a recovery swipe.
func (e *Engine) AdvancePay(ctx context.Context, req AdvanceRequest) (*ledger.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cust, err := e.store.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	source := req.SourceAccountID
	if source == "" {
		source = ledger.AccountBankMain
	}
	return e.run(ctx, ledger.AdvancePay{
		CustomerID:      cust.ID,
		CustomerName:    cust.Name,
		SourceAccountID: source,
		Amount:          req.Amount,
	}, req.Date)
}

type RecoveryRequest struct {
	CustomerID string
	WalletID   string
	PGName     string
	Card       ledger.CardType
	Amount     decimal.Decimal
	// Charges are collected on top of the recovered amount.
	Charges decimal.Decimal
	// CollectAccountID defaults to cash on hand.
	CollectAccountID string
	// MDRRate overrides the gateway's rate for this swipe only.
	MDRRate *decimal.Decimal
	// CommissionRate is saved on the customer for this card when set.
	CommissionRate *decimal.Decimal
	Date           time.Time
}

// Recover collects an advance by swiping the customer's card.
func (e *Engine) Recover(ctx context.Context, req RecoveryRequest) (*ledger.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !ledger.ValidCardType(req.Card) {
		return nil, fmt.Errorf("%w: %q", ledger.ErrInvalidCardType, req.Card)
	}
	cust, err := e.store.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	wallet, err := e.store.GetWallet(ctx, req.WalletID)
	if err != nil {
		return nil, err
	}
	pg, err := pickPG(wallet, req.PGName)
	if err != nil {
		return nil, err
	}
	mdr := pg.Charges.Rate(req.Card)
	if req.MDRRate != nil {
		mdr = *req.MDRRate
	}
	collect := req.CollectAccountID
	if collect == "" {
		collect = ledger.AccountCash
	}

	wf := ledger.Recovery{
		CustomerID:       cust.ID,
		CustomerName:     cust.Name,
		WalletID:         wallet.ID,
		WalletAccountID:  wallet.LedgerAccountID,
		CollectAccountID: collect,
		Card:             req.Card,
		Amount:           req.Amount,
		Charges:          req.Charges,
		MDRRate:          mdr,
	}
	if req.CommissionRate != nil && req.CommissionRate.IsNegative() {
		return nil, ledger.ErrNegativeRate
	}
	txn, err := e.run(ctx, wf, req.Date)
	if err != nil {
		return nil, err
	}
	if req.CommissionRate != nil {
		e.persistRate(ctx, cust, req.Card, *req.CommissionRate, txn.ID)
	}
	return txn, nil
}

type TransferRequest struct {
	// CustomerID is optional; walk-in transfers carry only a name.
	CustomerID   string
	CustomerName string
	WalletID     string
	// InflowAccountID defaults to cash on hand.
	InflowAccountID string
	Amount          decimal.Decimal
	Charge          decimal.Decimal
	Date            time.Time
}

// MoneyTransfer records cash taken at the counter and sent out of a wallet.
func (e *Engine) MoneyTransfer(ctx context.Context, req TransferRequest) (*ledger.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	name := req.CustomerName
	if req.CustomerID != "" {
		cust, err := e.store.GetCustomer(ctx, req.CustomerID)
		if err != nil {
			return nil, err
		}
		name = cust.Name
	}
	if name == "" {
		name = "Walk-in"
	}
	wallet, err := e.store.GetWallet(ctx, req.WalletID)
	if err != nil {
		return nil, err
	}
	inflow := req.InflowAccountID
	if inflow == "" {
		inflow = ledger.AccountCash
	}
	return e.run(ctx, ledger.MoneyTransfer{
		CustomerID:      req.CustomerID,
		CustomerName:    name,
		WalletID:        wallet.ID,
		WalletAccountID: wallet.LedgerAccountID,
		InflowAccountID: inflow,
		Amount:          req.Amount,
		Charge:          req.Charge,
	}, req.Date)
}

// Reconcile books the difference between a wallet's ledger balance and the
// balance the provider reports. It returns nil when the wallet is unknown or
// already agrees to the paisa.
func (e *Engine) Reconcile(ctx context.Context, walletID string, actual decimal.Decimal) (*ledger.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	wallet, err := e.store.GetWallet(ctx, walletID)
	if errors.Is(err, ledger.ErrWalletNotFound) {
		e.log.Debug("reconcile skipped: unknown wallet", "wallet", walletID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	wf := ledger.Reconciliation{
		WalletID:        wallet.ID,
		WalletName:      wallet.Name,
		WalletAccountID: wallet.LedgerAccountID,
		SystemBalance:   e.proj.Balance(wallet.LedgerAccountID),
		ActualBalance:   actual,
	}
	if !wf.NeedsPosting() {
		e.log.Info("wallet reconciled", "wallet", walletID, "difference", "0.00")
		return nil, nil
	}
	txn, err := e.run(ctx, wf, time.Time{})
	if err != nil {
		return nil, err
	}
	e.log.Info("wallet reconciled", "wallet", walletID, "difference", wf.Difference().StringFixed(2), "transaction", txn.ID)
	return txn, nil
}
