package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TxnType string

const (
	TxnSwipePay       TxnType = "SWIPE_PAY"
	TxnPaySwipe       TxnType = "PAY_SWIPE"
	TxnMoneyTransfer  TxnType = "MONEY_TRANSFER"
	TxnJournal        TxnType = "JOURNAL"
	TxnReconciliation TxnType = "RECONCILIATION"
)

var AllTxnTypes = []TxnType{TxnSwipePay, TxnPaySwipe, TxnMoneyTransfer, TxnJournal, TxnReconciliation}

func ValidTxnType(t TxnType) bool {
	for _, v := range AllTxnTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Status of a posted transaction. Only COMPLETED transactions affect balances;
// PENDING and FAILED are reserved and never produced by the engine.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusPending   Status = "PENDING"
	StatusFailed    Status = "FAILED"
)

// Entry is one line of a transaction. By convention exactly one of Debit/Credit is non-zero.
type Entry struct {
	AccountID string          `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// Dr is shorthand for a debit line.
func Dr(accountID string, amount decimal.Decimal) Entry {
	return Entry{AccountID: accountID, Debit: amount, Credit: decimal.Zero}
}

// Cr is shorthand for a credit line.
func Cr(accountID string, amount decimal.Decimal) Entry {
	return Entry{AccountID: accountID, Debit: decimal.Zero, Credit: amount}
}

type Metadata struct {
	CustomerID           string   `json:"customer_id,omitempty"`
	WalletID             string   `json:"wallet_id,omitempty"`
	CardType             CardType `json:"card_type,omitempty"`
	RelatedTransactionID string   `json:"related_transaction_id,omitempty"`
}

type Transaction struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Type        TxnType   `json:"type"`
	Entries     []Entry   `json:"entries"`
	Status      Status    `json:"status"`
	Metadata    Metadata  `json:"metadata"`
}

// Totals sums the debit and credit columns.
func Totals(entries []Entry) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	return debit, credit
}

// ValidateEntries checks the double-entry invariants that need no chart lookup:
// at least 2 entries, no negative amounts, debits equal credits within Epsilon.
func ValidateEntries(entries []Entry) error {
	if len(entries) < 2 {
		return ErrTooFewEntries
	}
	for i, e := range entries {
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return fmt.Errorf("%w: entry %d (%s)", ErrNegativeAmount, i, e.AccountID)
		}
	}
	debit, credit := Totals(entries)
	if !NearlyEqual(debit, credit) {
		return &UnbalancedError{TotalDebit: debit, TotalCredit: credit}
	}
	return nil
}

// Validate checks the transaction's own invariants.
func (t *Transaction) Validate() error {
	if !ValidTxnType(t.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidTxnType, t.Type)
	}
	return ValidateEntries(t.Entries)
}

// Touches reports whether any entry references the account.
func (t *Transaction) Touches(accountID string) bool {
	for _, e := range t.Entries {
		if e.AccountID == accountID {
			return true
		}
	}
	return false
}

// Clone returns a copy that does not share the entries slice.
func (t Transaction) Clone() Transaction {
	t.Entries = append([]Entry(nil), t.Entries...)
	return t
}
