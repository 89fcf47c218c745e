package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Well-known accounts of the reference chart. Workflows and reports address them by id.
const (
	AccountCash             = "A001"
	AccountBankMain         = "A002"
	AccountReceivables      = "A006"
	AccountCustomerPayables = "L001"
	AccountRetainedEarnings = "Q002"
	AccountServiceCharges   = "I001"
	AccountWalletSurplus    = "I002"
	AccountMDRCharges       = "E001"
	AccountWalletDeficit    = "E002"
)

// roleAccounts are the well-known accounts workflows post to directly. A seed
// must carry each with the given type.
var roleAccounts = map[string]AccountType{
	AccountReceivables:      TypeAsset,
	AccountRetainedEarnings: TypeLiability,
	AccountServiceCharges:   TypeIncome,
	AccountWalletSurplus:    TypeIncome,
	AccountMDRCharges:       TypeExpense,
	AccountWalletDeficit:    TypeExpense,
}

// Seed is the construction data of a store: the chart plus the master records.
type Seed struct {
	Accounts  []Account  `json:"accounts" yaml:"accounts"`
	Customers []Customer `json:"customers" yaml:"customers"`
	Wallets   []Wallet   `json:"wallets" yaml:"wallets"`
}

func seedAccount(id, name string, t AccountType, cat Category, balance int64) Account {
	return Account{ID: id, Name: name, Type: t, Category: cat, SeedBalance: decimal.NewFromInt(balance)}
}

// DefaultSeed returns the reference chart of accounts with its opening balances,
// the sample customers and the sample wallets.
func DefaultSeed() Seed {
	return Seed{
		Accounts: []Account{
			seedAccount("A001", "Cash on Hand", TypeAsset, CategoryCash, 500000),
			seedAccount("A002", "HDFC Bank Main", TypeAsset, CategoryBank, 1200000),
			seedAccount("A003", "ICICI Bank Ops", TypeAsset, CategoryBank, 800000),
			seedAccount("A004", "Wallet A (Razorpay)", TypeAsset, CategoryWallet, 0),
			seedAccount("A005", "Wallet B (Paytm)", TypeAsset, CategoryWallet, 0),
			seedAccount("A006", "Customer Receivables", TypeAsset, CategoryCustomer, 0),

			seedAccount("L001", "Customer Payables", TypeLiability, CategoryCustomer, 0),
			seedAccount("L002", "Duties & Taxes", TypeLiability, CategoryRevenue, 0),

			seedAccount("Q001", "Owner's Equity", TypeLiability, CategoryEquity, 1000000),
			seedAccount("Q002", "Retained Earnings", TypeLiability, CategoryEquity, 1500000),

			seedAccount("I001", "Service Charges", TypeIncome, CategoryRevenue, 0),
			seedAccount("I002", "Wallet Surplus", TypeIncome, CategoryRevenue, 0),

			seedAccount("E001", "Wallet MDR Charges", TypeExpense, CategoryExpense, 0),
			seedAccount("E002", "Wallet Deficit", TypeExpense, CategoryExpense, 0),
			seedAccount("E003", "Office Rent", TypeExpense, CategoryExpense, 0),
		},
		Customers: []Customer{
			{ID: "C001", Name: "Rahul Sharma", Phone: "9876543210", CommissionRates: NewRates(2.0, 2.0, 3.0, 1.5), LedgerAccountID: AccountCustomerPayables},
			{ID: "C002", Name: "Priya Verma", Phone: "9988776655", CommissionRates: NewRates(1.8, 1.8, 2.8, 1.2), LedgerAccountID: AccountCustomerPayables},
			{ID: "C003", Name: "Enterprises Ltd", Phone: "8877665544", CommissionRates: NewRates(1.5, 1.5, 2.5, 1.0), LedgerAccountID: AccountCustomerPayables},
		},
		Wallets: []Wallet{
			{
				ID: "W001", Name: "Wallet A (Razorpay)", LedgerAccountID: "A004",
				PGs: []PGConfig{
					{Name: "Standard", Charges: NewRates(1.2, 1.2, 2.5, 0.5)},
					{Name: "Premium", Charges: NewRates(1.5, 1.5, 2.8, 0.8)},
				},
			},
			{
				ID: "W002", Name: "Wallet B (Paytm)", LedgerAccountID: "A005",
				PGs: []PGConfig{
					{Name: "Business", Charges: NewRates(1.1, 1.1, 2.4, 0.0)},
				},
			},
		},
	}
}

// Validate checks the seed for duplicate ids and dangling ledger references.
func (s *Seed) Validate() error {
	accounts := make(map[string]Account, len(s.Accounts))
	for i := range s.Accounts {
		a := &s.Accounts[i]
		if err := a.Validate(); err != nil {
			return fmt.Errorf("seed account %q: %w", a.ID, err)
		}
		if _, dup := accounts[a.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateAccount, a.ID)
		}
		accounts[a.ID] = *a
	}

	customers := make(map[string]bool, len(s.Customers))
	for _, c := range s.Customers {
		if c.ID == "" || customers[c.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateCustomer, c.ID)
		}
		customers[c.ID] = true
		acct, ok := accounts[c.LedgerAccountID]
		if !ok {
			return fmt.Errorf("seed customer %s: %w: %s", c.ID, ErrAccountNotFound, c.LedgerAccountID)
		}
		if acct.Type != TypeLiability {
			return fmt.Errorf("seed customer %s: ledger account %s must be a liability", c.ID, acct.ID)
		}
		if err := c.CommissionRates.Validate(); err != nil {
			return fmt.Errorf("seed customer %s: %w", c.ID, err)
		}
	}

	wallets := make(map[string]bool, len(s.Wallets))
	for _, w := range s.Wallets {
		if w.ID == "" || wallets[w.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateWallet, w.ID)
		}
		wallets[w.ID] = true
		acct, ok := accounts[w.LedgerAccountID]
		if !ok {
			return fmt.Errorf("seed wallet %s: %w: %s", w.ID, ErrAccountNotFound, w.LedgerAccountID)
		}
		if acct.Type != TypeAsset {
			return fmt.Errorf("seed wallet %s: ledger account %s must be an asset", w.ID, acct.ID)
		}
		if len(w.PGs) == 0 {
			return fmt.Errorf("seed wallet %s: %w", w.ID, ErrWalletWithoutPG)
		}
		names := make(map[string]bool, len(w.PGs))
		for _, pg := range w.PGs {
			if err := pg.Validate(); err != nil {
				return fmt.Errorf("seed wallet %s: %w", w.ID, err)
			}
			if names[pg.Name] {
				return fmt.Errorf("seed wallet %s: %w: %s", w.ID, ErrDuplicatePG, pg.Name)
			}
			names[pg.Name] = true
		}
	}

	for id, typ := range roleAccounts {
		acct, ok := accounts[id]
		if !ok {
			return fmt.Errorf("seed chart: %w: %s is required", ErrAccountNotFound, id)
		}
		if acct.Type != typ {
			return fmt.Errorf("seed chart: %w: %s must be %s", ErrInvalidAccountType, id, typ)
		}
	}
	return nil
}
