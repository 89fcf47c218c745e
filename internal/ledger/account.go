package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	TypeAsset     AccountType = "ASSET"
	TypeLiability AccountType = "LIABILITY"
	TypeIncome    AccountType = "INCOME"
	TypeExpense   AccountType = "EXPENSE"
)

var AllAccountTypes = []AccountType{
	TypeAsset,
	TypeLiability,
	TypeIncome,
	TypeExpense,
}

type Category string

const (
	CategoryCash     Category = "Cash"
	CategoryBank     Category = "Bank"
	CategoryWallet   Category = "Wallet"
	CategoryCustomer Category = "Customer"
	CategoryRevenue  Category = "Revenue"
	CategoryExpense  Category = "Expense"
	CategoryEquity   Category = "Equity"
)

var AllCategories = []Category{
	CategoryCash,
	CategoryBank,
	CategoryWallet,
	CategoryCustomer,
	CategoryRevenue,
	CategoryExpense,
	CategoryEquity,
}

type Account struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Type        AccountType     `json:"type" yaml:"type"`
	Category    Category        `json:"category" yaml:"category"`
	SeedBalance decimal.Decimal `json:"seed_balance" yaml:"seed_balance"`
	CreatedAt   time.Time       `json:"created_at" yaml:"-"`
}

// Validate checks the account invariants that do not depend on the rest of the chart.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return ErrInvalidAccountID
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: account name is required", ErrInvalidInput)
	}
	if !ValidAccountType(a.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidAccountType, a.Type)
	}
	if !ValidCategory(a.Category) {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, a.Category)
	}
	if a.Category == CategoryEquity && a.Type != TypeLiability {
		return fmt.Errorf("%w: equity accounts must be LIABILITY, got %s", ErrInvalidCategory, a.Type)
	}
	return nil
}

// IsEquity reports whether the account belongs on the equity side of the balance sheet.
// Equity is a category, not a type: equity accounts are credit-normal LIABILITY accounts.
func (a *Account) IsEquity() bool {
	return a.Category == CategoryEquity
}

// DebitNormal reports whether balances of this type grow with debits.
// Assets and Expenses are debit-normal; Liabilities (including equity) and Income are credit-normal.
func DebitNormal(t AccountType) bool {
	return t == TypeAsset || t == TypeExpense
}

// NormalBalance returns "Debit" or "Credit" for the account type.
func NormalBalance(t AccountType) string {
	if DebitNormal(t) {
		return "Debit"
	}
	return "Credit"
}

// TypeLabel returns a human-readable label for an account type.
func TypeLabel(t AccountType) string {
	switch t {
	case TypeAsset:
		return "Asset"
	case TypeLiability:
		return "Liability"
	case TypeIncome:
		return "Income"
	case TypeExpense:
		return "Expense"
	default:
		return string(t)
	}
}

// IDPrefix returns the letter that prefixes generated account ids of the given type.
func IDPrefix(t AccountType, cat Category) string {
	if cat == CategoryEquity {
		return "Q"
	}
	switch t {
	case TypeAsset:
		return "A"
	case TypeLiability:
		return "L"
	case TypeIncome:
		return "I"
	case TypeExpense:
		return "E"
	default:
		return "X"
	}
}

func ValidAccountType(t AccountType) bool {
	for _, v := range AllAccountTypes {
		if v == t {
			return true
		}
	}
	return false
}

func ValidCategory(cat Category) bool {
	for _, c := range AllCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// ParseAccountType accepts the canonical upper-case name in any case.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	if !ValidAccountType(t) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAccountType, s)
	}
	return t, nil
}

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range AllCategories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}
