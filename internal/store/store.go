package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/ledger"
)

type AccountFilter struct {
	Type     ledger.AccountType
	Category ledger.Category
}

func (f AccountFilter) match(a *ledger.Account) bool {
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	return true
}

type TxnFilter struct {
	AccountID  string
	CustomerID string
	WalletID   string
	Type       ledger.TxnType
	Limit      int
	Offset     int
}

func (f TxnFilter) match(t *ledger.Transaction) bool {
	if f.AccountID != "" && !t.Touches(f.AccountID) {
		return false
	}
	if f.CustomerID != "" && t.Metadata.CustomerID != f.CustomerID {
		return false
	}
	if f.WalletID != "" && t.Metadata.WalletID != f.WalletID {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	return true
}

// Totals is the sum of the debit and credit columns posted to one account.
type Totals struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// Store holds the chart of accounts, the customer and wallet masters and the
// append-only transaction log. Implementations only persist: they do not check
// that transactions balance or that entry accounts exist.
type Store interface {
	// Seed loads the construction data into an empty store. A store that already
	// holds accounts is left as it is.
	Seed(ctx context.Context, seed ledger.Seed) error

	InsertAccount(ctx context.Context, acct ledger.Account) error
	GetAccount(ctx context.Context, id string) (*ledger.Account, error)
	// ListAccounts returns accounts in the order they were added.
	ListAccounts(ctx context.Context, filter AccountFilter) ([]ledger.Account, error)

	// CreateCustomer adds the customer and its ledger account together, or neither.
	CreateCustomer(ctx context.Context, acct ledger.Account, cust ledger.Customer) error
	GetCustomer(ctx context.Context, id string) (*ledger.Customer, error)
	FindCustomerByPhone(ctx context.Context, phone string) (*ledger.Customer, error)
	ListCustomers(ctx context.Context) ([]ledger.Customer, error)
	UpdateCustomer(ctx context.Context, cust ledger.Customer) error

	// CreateWallet adds the wallet and its ledger account together, or neither.
	CreateWallet(ctx context.Context, acct ledger.Account, wallet ledger.Wallet) error
	GetWallet(ctx context.Context, id string) (*ledger.Wallet, error)
	ListWallets(ctx context.Context) ([]ledger.Wallet, error)
	UpdateWallet(ctx context.Context, wallet ledger.Wallet) error

	AppendTransaction(ctx context.Context, txn ledger.Transaction) error
	GetTransaction(ctx context.Context, id string) (*ledger.Transaction, error)
	// ListTransactions returns matching transactions, most recently appended first.
	ListTransactions(ctx context.Context, filter TxnFilter) ([]ledger.Transaction, error)
	// EntryTotals sums completed entries per account.
	EntryTotals(ctx context.Context) (map[string]Totals, error)

	Close() error
}

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Open builds a store of the given driver and loads seed into it.
func Open(ctx context.Context, driver, dsn string, seed ledger.Seed) (Store, error) {
	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}

	var s Store
	switch driver {
	case DriverMemory, "":
		s = NewMemory()
	case DriverSQLite:
		db, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		s = db
	default:
		return nil, fmt.Errorf("unknown store driver %q (want memory or sqlite)", driver)
	}

	if err := s.Seed(ctx, seed); err != nil {
		s.Close()
		return nil, fmt.Errorf("seed store: %w", err)
	}
	return s, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
