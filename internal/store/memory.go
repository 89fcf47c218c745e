package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/ledger"
)

// Memory is the process-local store. Every read returns copies, so callers can
// never mutate stored records.
type Memory struct {
	mu sync.RWMutex

	accounts     []ledger.Account
	accountIndex map[string]int

	customers     []ledger.Customer
	customerIndex map[string]int

	wallets     []ledger.Wallet
	walletIndex map[string]int

	txns     []ledger.Transaction
	txnIndex map[string]int
}

func NewMemory() *Memory {
	return &Memory{
		accountIndex:  make(map[string]int),
		customerIndex: make(map[string]int),
		walletIndex:   make(map[string]int),
		txnIndex:      make(map[string]int),
	}
}

func (m *Memory) Seed(ctx context.Context, seed ledger.Seed) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.accounts) > 0 {
		return nil
	}
	for _, a := range seed.Accounts {
		if err := m.insertAccount(a); err != nil {
			return err
		}
	}
	for _, c := range seed.Customers {
		if err := m.insertCustomer(c); err != nil {
			return err
		}
	}
	for _, w := range seed.Wallets {
		if err := m.insertWallet(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) insertAccount(a ledger.Account) error {
	if _, dup := m.accountIndex[a.ID]; dup {
		return fmt.Errorf("%w: %s", ledger.ErrDuplicateAccount, a.ID)
	}
	m.accountIndex[a.ID] = len(m.accounts)
	m.accounts = append(m.accounts, a)
	return nil
}

func (m *Memory) insertCustomer(c ledger.Customer) error {
	if _, dup := m.customerIndex[c.ID]; dup {
		return fmt.Errorf("%w: %s", ledger.ErrDuplicateCustomer, c.ID)
	}
	m.customerIndex[c.ID] = len(m.customers)
	m.customers = append(m.customers, c)
	return nil
}

func (m *Memory) insertWallet(w ledger.Wallet) error {
	if _, dup := m.walletIndex[w.ID]; dup {
		return fmt.Errorf("%w: %s", ledger.ErrDuplicateWallet, w.ID)
	}
	m.walletIndex[w.ID] = len(m.wallets)
	m.wallets = append(m.wallets, w.Clone())
	return nil
}

func (m *Memory) InsertAccount(ctx context.Context, acct ledger.Account) error {
	if err := acct.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertAccount(acct)
}

func (m *Memory) GetAccount(ctx context.Context, id string) (*ledger.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.accountIndex[id]
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}
	acct := m.accounts[i]
	return &acct, nil
}

func (m *Memory) ListAccounts(ctx context.Context, filter AccountFilter) ([]ledger.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.Account, 0, len(m.accounts))
	for i := range m.accounts {
		if filter.match(&m.accounts[i]) {
			out = append(out, m.accounts[i])
		}
	}
	return out, nil
}

// CreateCustomer checks both records before touching either, so a rejected
// customer never leaves an orphan account behind.
func (m *Memory) CreateCustomer(ctx context.Context, acct ledger.Account, cust ledger.Customer) error {
	if err := acct.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, dup := m.accountIndex[acct.ID]; dup {
		return fmt.Errorf("%w: %s", ledger.ErrDuplicateAccount, acct.ID)
	}
	if _, dup := m.customerIndex[cust.ID]; dup {
		return fmt.Errorf("%w: %s", ledger.ErrDuplicateCustomer, cust.ID)
	}
	m.insertAccount(acct)
	m.insertCustomer(cust)
	return nil
}

func (m *Memory) GetCustomer(ctx context.Context, id string) (*ledger.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.customerIndex[id]
	if !ok {
		return nil, ledger.ErrCustomerNotFound
	}
	c := m.customers[i]
	return &c, nil
}

func (m *Memory) FindCustomerByPhone(ctx context.Context, phone string) (*ledger.Customer, error) {
	phone = strings.TrimSpace(phone)
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.customers {
		if phone != "" && c.Phone == phone {
			return &c, nil
		}
	}
	return nil, ledger.ErrCustomerNotFound
}

func (m *Memory) ListCustomers(ctx context.Context) ([]ledger.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ledger.Customer{}, m.customers...), nil
}

func (m *Memory) UpdateCustomer(ctx context.Context, cust ledger.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.customerIndex[cust.ID]
	if !ok {
		return ledger.ErrCustomerNotFound
	}
	m.customers[i] = cust
	return nil
}

func (m *Memory) CreateWallet(ctx context.Context, acct ledger.Account, wallet ledger.Wallet) error {
	if err := acct.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, dup := m.accountIndex[acct.ID]; dup {
		return fmt.Errorf("%w: %s", ledger.ErrDuplicateAccount, acct.ID)
	}
	if _, dup := m.walletIndex[wallet.ID]; dup {
		return fmt.Errorf("%w: %s", ledger.ErrDuplicateWallet, wallet.ID)
	}
	m.insertAccount(acct)
	m.insertWallet(wallet)
	return nil
}

func (m *Memory) GetWallet(ctx context.Context, id string) (*ledger.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.walletIndex[id]
	if !ok {
		return nil, ledger.ErrWalletNotFound
	}
	w := m.wallets[i].Clone()
	return &w, nil
}

func (m *Memory) ListWallets(ctx context.Context) ([]ledger.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.Wallet, len(m.wallets))
	for i, w := range m.wallets {
		out[i] = w.Clone()
	}
	return out, nil
}

func (m *Memory) UpdateWallet(ctx context.Context, wallet ledger.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.walletIndex[wallet.ID]
	if !ok {
		return ledger.ErrWalletNotFound
	}
	m.wallets[i] = wallet.Clone()
	return nil
}

func (m *Memory) AppendTransaction(ctx context.Context, txn ledger.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, dup := m.txnIndex[txn.ID]; dup {
		return fmt.Errorf("%w: %s", ledger.ErrDuplicateTransaction, txn.ID)
	}
	m.txnIndex[txn.ID] = len(m.txns)
	m.txns = append(m.txns, txn.Clone())
	return nil
}

func (m *Memory) GetTransaction(ctx context.Context, id string) (*ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.txnIndex[id]
	if !ok {
		return nil, ledger.ErrTransactionNotFound
	}
	t := m.txns[i].Clone()
	return &t, nil
}

func (m *Memory) ListTransactions(ctx context.Context, filter TxnFilter) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.Transaction, 0, len(m.txns))
	for i := len(m.txns) - 1; i >= 0; i-- {
		if filter.match(&m.txns[i]) {
			out = append(out, m.txns[i].Clone())
		}
	}
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (m *Memory) EntryTotals(ctx context.Context) (map[string]Totals, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Totals)
	for _, t := range m.txns {
		if t.Status != ledger.StatusCompleted {
			continue
		}
		for _, e := range t.Entries {
			tot, ok := out[e.AccountID]
			if !ok {
				tot = Totals{Debit: decimal.Zero, Credit: decimal.Zero}
			}
			tot.Debit = tot.Debit.Add(e.Debit)
			tot.Credit = tot.Credit.Add(e.Credit)
			out[e.AccountID] = tot
		}
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
