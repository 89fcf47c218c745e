package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidAccountID      = errors.New("invalid account id")
	ErrInvalidAccountType    = errors.New("invalid account type")
	ErrInvalidCategory       = errors.New("invalid account category")
	ErrInvalidCardType       = errors.New("invalid card type")
	ErrInvalidTxnType        = errors.New("invalid transaction type")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrNegativeAmount        = errors.New("entry amounts cannot be negative")
	ErrNegativeRate          = errors.New("rates cannot be negative")
	ErrUnbalancedTransaction = errors.New("transaction entries do not balance")
	ErrTooFewEntries         = errors.New("transaction must have at least 2 entries")
	ErrInvalidAccount        = errors.New("transaction references unknown accounts")
	ErrAccountNotFound       = errors.New("account not found")
	ErrDuplicateAccount      = errors.New("account already exists")
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrDuplicateCustomer     = errors.New("customer already exists")
	ErrWalletNotFound        = errors.New("wallet not found")
	ErrDuplicateWallet       = errors.New("wallet already exists")
	ErrPGNotFound            = errors.New("payment gateway not found")
	ErrDuplicatePG           = errors.New("payment gateway already exists")
	ErrWalletWithoutPG       = errors.New("wallet must have at least one payment gateway")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrDuplicateTransaction  = errors.New("transaction already exists")
)

// UnbalancedError is returned when total debits and credits differ by more than Epsilon.
type UnbalancedError struct {
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("%s: Dr %s, Cr %s", ErrUnbalancedTransaction,
		e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2))
}

func (e *UnbalancedError) Unwrap() error { return ErrUnbalancedTransaction }

// InvalidAccountError lists the entry account ids that do not resolve in the chart.
type InvalidAccountError struct {
	IDs []string `json:"ids"`
}

func (e *InvalidAccountError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidAccount, strings.Join(e.IDs, ", "))
}

func (e *InvalidAccountError) Unwrap() error { return ErrInvalidAccount }
