package engine

import (
	"context"

	"github.com/simonvc/swipeledger/internal/ledger"
	"github.com/simonvc/swipeledger/internal/store"
)

func (e *Engine) accounts(ctx context.Context) ([]ledger.Account, error) {
	return e.store.ListAccounts(ctx, store.AccountFilter{})
}

func (e *Engine) ProfitAndLoss(ctx context.Context) (*ledger.ProfitAndLoss, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	accounts, err := e.accounts(ctx)
	if err != nil {
		return nil, err
	}
	pl := ledger.BuildProfitAndLoss(accounts, e.proj.Snapshot())
	pl.GeneratedAt = e.now().UTC()
	return pl, nil
}

// BalanceSheet reports the position with current profit shown under retained
// earnings. An unbalanced sheet is returned as is and logged.
func (e *Engine) BalanceSheet(ctx context.Context) (*ledger.BalanceSheet, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	accounts, err := e.accounts(ctx)
	if err != nil {
		return nil, err
	}
	bs := ledger.BuildBalanceSheet(accounts, e.proj.Snapshot(), e.retainedEarnings)
	bs.GeneratedAt = e.now().UTC()
	if !bs.Balanced {
		e.log.Warn("balance sheet does not balance",
			"assets", bs.TotalAssets.StringFixed(2),
			"liabilities", bs.TotalLiabilities.StringFixed(2),
			"equity", bs.TotalEquity.StringFixed(2),
			"difference", bs.Difference.StringFixed(2))
	}
	return bs, nil
}

func (e *Engine) TrialBalance(ctx context.Context) (*ledger.TrialBalance, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	accounts, err := e.accounts(ctx)
	if err != nil {
		return nil, err
	}
	tb := ledger.BuildTrialBalance(accounts, e.proj.Snapshot())
	tb.GeneratedAt = e.now().UTC()
	return tb, nil
}

func (e *Engine) Segments(ctx context.Context) (*ledger.Segments, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	accounts, err := e.accounts(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := e.store.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	wallets, err := e.store.ListWallets(ctx)
	if err != nil {
		return nil, err
	}
	txns, err := e.store.ListTransactions(ctx, store.TxnFilter{})
	if err != nil {
		return nil, err
	}
	return ledger.BuildSegments(accounts, customers, wallets, txns), nil
}

func (e *Engine) Dashboard(ctx context.Context) (*ledger.Dashboard, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	accounts, err := e.accounts(ctx)
	if err != nil {
		return nil, err
	}
	wallets, err := e.store.ListWallets(ctx)
	if err != nil {
		return nil, err
	}
	txns, err := e.store.ListTransactions(ctx, store.TxnFilter{})
	if err != nil {
		return nil, err
	}
	return ledger.BuildDashboard(accounts, wallets, e.proj.Snapshot(), txns), nil
}
