package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/ledger"
	"github.com/simonvc/swipeledger/internal/store"
)

type AccountRequest struct {
	Name        string
	Type        ledger.AccountType
	Category    ledger.Category
	SeedBalance decimal.Decimal
}

// CreateAccount adds an account to the chart under a fresh id.
func (e *Engine) CreateAccount(ctx context.Context, req AccountRequest) (*ledger.Account, error) {
	acct := ledger.Account{
		ID:          newID(ledger.IDPrefix(req.Type, req.Category)),
		Name:        strings.TrimSpace(req.Name),
		Type:        req.Type,
		Category:    req.Category,
		SeedBalance: req.SeedBalance,
		CreatedAt:   e.now().UTC(),
	}
	if err := acct.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.InsertAccount(ctx, acct); err != nil {
		return nil, err
	}
	e.proj.Seed(acct)
	e.log.Info("account created", "id", acct.ID, "name", acct.Name, "type", acct.Type)
	return &acct, nil
}

func (e *Engine) GetAccount(ctx context.Context, id string) (*ledger.Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.GetAccount(ctx, id)
}

func (e *Engine) ListAccounts(ctx context.Context, filter store.AccountFilter) ([]ledger.Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.ListAccounts(ctx, filter)
}

type CustomerRequest struct {
	Name  string
	Phone string
	// Rates defaults to ledger.DefaultCommissionRates.
	Rates *ledger.Rates
}

// CreateCustomer opens a payable account for the customer and registers both
// atomically.
func (e *Engine) CreateCustomer(ctx context.Context, req CustomerRequest) (*ledger.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: customer name is required", ledger.ErrInvalidInput)
	}
	rates := ledger.DefaultCommissionRates
	if req.Rates != nil {
		rates = *req.Rates
	}
	if err := rates.Validate(); err != nil {
		return nil, err
	}

	now := e.now().UTC()
	acct := ledger.Account{
		ID:          newID("L"),
		Name:        name + " Payable",
		Type:        ledger.TypeLiability,
		Category:    ledger.CategoryCustomer,
		SeedBalance: decimal.Zero,
		CreatedAt:   now,
	}
	cust := ledger.Customer{
		ID:              newID("C"),
		Name:            name,
		Phone:           strings.TrimSpace(req.Phone),
		CommissionRates: rates,
		LedgerAccountID: acct.ID,
		JoinedAt:        now,
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.CreateCustomer(ctx, acct, cust); err != nil {
		return nil, err
	}
	e.proj.Seed(acct)
	e.log.Info("customer created", "id", cust.ID, "name", cust.Name, "account", acct.ID)
	return &cust, nil
}

func (e *Engine) UpdateCustomer(ctx context.Context, id string, upd ledger.CustomerUpdate) (*ledger.Customer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.updateCustomer(ctx, id, upd)
}

func (e *Engine) updateCustomer(ctx context.Context, id string, upd ledger.CustomerUpdate) (*ledger.Customer, error) {
	cur, err := e.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := upd.Apply(*cur)
	if err != nil {
		return nil, err
	}
	if err := e.store.UpdateCustomer(ctx, next); err != nil {
		return nil, err
	}
	e.log.Info("customer updated", "id", id)
	return &next, nil
}

func (e *Engine) GetCustomer(ctx context.Context, id string) (*ledger.Customer, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.GetCustomer(ctx, id)
}

func (e *Engine) FindCustomerByPhone(ctx context.Context, phone string) (*ledger.Customer, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.FindCustomerByPhone(ctx, phone)
}

func (e *Engine) ListCustomers(ctx context.Context) ([]ledger.Customer, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.ListCustomers(ctx)
}

type WalletRequest struct {
	Name string
	PG   ledger.PGConfig
}

// CreateWallet opens an asset account for the wallet and registers it with its
// first payment gateway.
func (e *Engine) CreateWallet(ctx context.Context, req WalletRequest) (*ledger.Wallet, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: wallet name is required", ledger.ErrInvalidInput)
	}
	if err := req.PG.Validate(); err != nil {
		return nil, err
	}

	acct := ledger.Account{
		ID:          newID("A"),
		Name:        name,
		Type:        ledger.TypeAsset,
		Category:    ledger.CategoryWallet,
		SeedBalance: decimal.Zero,
		CreatedAt:   e.now().UTC(),
	}
	wallet := ledger.Wallet{
		ID:              newID("W"),
		Name:            name,
		LedgerAccountID: acct.ID,
		PGs:             []ledger.PGConfig{req.PG},
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.CreateWallet(ctx, acct, wallet); err != nil {
		return nil, err
	}
	e.proj.Seed(acct)
	e.log.Info("wallet created", "id", wallet.ID, "name", wallet.Name, "account", acct.ID)
	return &wallet, nil
}

// AddWalletPG appends a payment gateway to a wallet.
func (e *Engine) AddWalletPG(ctx context.Context, walletID string, pg ledger.PGConfig) (*ledger.Wallet, error) {
	return e.editWallet(ctx, walletID, func(w ledger.Wallet) (ledger.Wallet, error) {
		return w.WithPG(pg)
	})
}

// UpdateWalletPG replaces the gateway named oldName.
func (e *Engine) UpdateWalletPG(ctx context.Context, walletID, oldName string, pg ledger.PGConfig) (*ledger.Wallet, error) {
	return e.editWallet(ctx, walletID, func(w ledger.Wallet) (ledger.Wallet, error) {
		return w.ReplacePG(oldName, pg)
	})
}

func (e *Engine) editWallet(ctx context.Context, walletID string, edit func(ledger.Wallet) (ledger.Wallet, error)) (*ledger.Wallet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur, err := e.store.GetWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}
	next, err := edit(*cur)
	if err != nil {
		return nil, err
	}
	if err := e.store.UpdateWallet(ctx, next); err != nil {
		return nil, err
	}
	e.log.Info("wallet gateways updated", "id", walletID, "gateways", len(next.PGs))
	return &next, nil
}

func (e *Engine) GetWallet(ctx context.Context, id string) (*ledger.Wallet, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.GetWallet(ctx, id)
}

func (e *Engine) ListWallets(ctx context.Context) ([]ledger.Wallet, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.ListWallets(ctx)
}
