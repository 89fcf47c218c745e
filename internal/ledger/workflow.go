package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Workflow turns a business event into the entries of one transaction. Workflows
// are pure: they read nothing but their own fields and never post. Build rounds
// every amount to the paisa before deriving legs, so entries balance exactly.
type Workflow interface {
	TxnType() TxnType
	Describe() string
	Metadata() Metadata
	Build() ([]Entry, error)
}

// legs collects entries, dropping zero-valued pairs.
type legs []Entry

func (l *legs) pair(debitID, creditID string, amount decimal.Decimal) {
	if amount.IsZero() {
		return
	}
	*l = append(*l, Dr(debitID, amount), Cr(creditID, amount))
}

func requirePositive(what string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidAmount, what, amount)
	}
	return nil
}

func requireNonNegative(what string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s must not be negative, got %s", ErrNegativeAmount, what, amount)
	}
	return nil
}

func requireAccount(what, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s account is required", ErrInvalidInput, what)
	}
	return nil
}

func cardLabel(c CardType) string { return strings.ToUpper(string(c)) }

// SwipeQuote is the fee breakdown shown before a swipe is posted.
type SwipeQuote struct {
	Amount          decimal.Decimal `json:"amount"`
	ServiceRate     decimal.Decimal `json:"service_rate"`
	MDRRate         decimal.Decimal `json:"mdr_rate"`
	ServiceFee      decimal.Decimal `json:"service_fee"`
	MDR             decimal.Decimal `json:"mdr"`
	NetPayable      decimal.Decimal `json:"net_payable"`
	EstimatedProfit decimal.Decimal `json:"estimated_profit"`
}

// SwipeInflow records a customer's card swiped through a wallet's gateway. The
// full amount lands in the wallet and is owed to the customer; the gateway's MDR
// comes out of the wallet and the service fee comes out of what is owed.
type SwipeInflow struct {
	CustomerID       string
	CustomerName     string
	PayableAccountID string
	WalletID         string
	WalletAccountID  string
	Card             CardType
	Amount           decimal.Decimal
	ServiceRate      decimal.Decimal
	MDRRate          decimal.Decimal
}

func (w SwipeInflow) TxnType() TxnType { return TxnSwipePay }

func (w SwipeInflow) Describe() string {
	return fmt.Sprintf("Swipe Inflow: %s (%s)", w.CustomerName, cardLabel(w.Card))
}

func (w SwipeInflow) Metadata() Metadata {
	return Metadata{CustomerID: w.CustomerID, WalletID: w.WalletID, CardType: w.Card}
}

func (w SwipeInflow) Quote() SwipeQuote {
	w.Amount = Round(w.Amount)
	fee := Percent(w.Amount, w.ServiceRate)
	mdr := Percent(w.Amount, w.MDRRate)
	return SwipeQuote{
		Amount:          w.Amount,
		ServiceRate:     w.ServiceRate,
		MDRRate:         w.MDRRate,
		ServiceFee:      fee,
		MDR:             mdr,
		NetPayable:      Round(w.Amount.Sub(fee)),
		EstimatedProfit: Round(fee.Sub(mdr)),
	}
}

func (w SwipeInflow) Build() ([]Entry, error) {
	w.Amount = Round(w.Amount)
	if err := requirePositive("swipe amount", w.Amount); err != nil {
		return nil, err
	}
	if !ValidCardType(w.Card) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCardType, w.Card)
	}
	if w.ServiceRate.IsNegative() || w.MDRRate.IsNegative() {
		return nil, ErrNegativeRate
	}
	if err := requireAccount("wallet", w.WalletAccountID); err != nil {
		return nil, err
	}
	if err := requireAccount("payable", w.PayableAccountID); err != nil {
		return nil, err
	}
	q := w.Quote()
	var l legs
	l.pair(w.WalletAccountID, w.PayableAccountID, w.Amount)
	l.pair(AccountMDRCharges, w.WalletAccountID, q.MDR)
	l.pair(w.PayableAccountID, AccountServiceCharges, q.ServiceFee)
	return l, nil
}

// SwipePayout settles what is owed to a customer from a cash or bank account. A
// transfer fee paid on top of the payout is booked as MDR expense.
type SwipePayout struct {
	CustomerID       string
	CustomerName     string
	PayableAccountID string
	PayoutAccountID  string
	Amount           decimal.Decimal
	TransferFee      decimal.Decimal
}

func (w SwipePayout) TxnType() TxnType { return TxnSwipePay }

func (w SwipePayout) Describe() string { return "Payout Outflow: " + w.CustomerName }

func (w SwipePayout) Metadata() Metadata { return Metadata{CustomerID: w.CustomerID} }

func (w SwipePayout) Build() ([]Entry, error) {
	w.Amount, w.TransferFee = Round(w.Amount), Round(w.TransferFee)
	if err := requirePositive("payout amount", w.Amount); err != nil {
		return nil, err
	}
	if err := requireNonNegative("transfer fee", w.TransferFee); err != nil {
		return nil, err
	}
	if err := requireAccount("payable", w.PayableAccountID); err != nil {
		return nil, err
	}
	if err := requireAccount("payout", w.PayoutAccountID); err != nil {
		return nil, err
	}
	entries := []Entry{
		Dr(w.PayableAccountID, w.Amount),
		Cr(w.PayoutAccountID, w.Amount.Add(w.TransferFee)),
	}
	if w.TransferFee.IsPositive() {
		entries = append(entries, Dr(AccountMDRCharges, w.TransferFee))
	}
	return entries, nil
}

// AdvancePay lends a customer money ahead of a swipe. The advance sits in
// receivables until Recovery collects it.
type AdvancePay struct {
	CustomerID      string
	CustomerName    string
	SourceAccountID string
	Amount          decimal.Decimal
}

func (w AdvancePay) TxnType() TxnType { return TxnPaySwipe }

func (w AdvancePay) Describe() string { return "Advance Pay: " + w.CustomerName }

func (w AdvancePay) Metadata() Metadata { return Metadata{CustomerID: w.CustomerID} }

func (w AdvancePay) Build() ([]Entry, error) {
	w.Amount = Round(w.Amount)
	if err := requirePositive("advance amount", w.Amount); err != nil {
		return nil, err
	}
	if err := requireAccount("source", w.SourceAccountID); err != nil {
		return nil, err
	}
	return []Entry{
		Dr(AccountReceivables, w.Amount),
		Cr(w.SourceAccountID, w.Amount),
	}, nil
}

// Recovery swipes the customer's card to repay an advance. Charges collected
// separately are income; the gateway's MDR comes out of the wallet.
type Recovery struct {
	CustomerID       string
	CustomerName     string
	WalletID         string
	WalletAccountID  string
	CollectAccountID string
	Card             CardType
	Amount           decimal.Decimal
	Charges          decimal.Decimal
	MDRRate          decimal.Decimal
}

func (w Recovery) TxnType() TxnType { return TxnPaySwipe }

func (w Recovery) Describe() string {
	return fmt.Sprintf("Recovery: %s (%s)", w.CustomerName, cardLabel(w.Card))
}

func (w Recovery) Metadata() Metadata {
	return Metadata{CustomerID: w.CustomerID, WalletID: w.WalletID, CardType: w.Card}
}

// MDR is the gateway charge on the recovered amount.
func (w Recovery) MDR() decimal.Decimal { return Percent(Round(w.Amount), w.MDRRate) }

func (w Recovery) Build() ([]Entry, error) {
	w.Amount, w.Charges = Round(w.Amount), Round(w.Charges)
	if err := requirePositive("recovery amount", w.Amount); err != nil {
		return nil, err
	}
	if err := requireNonNegative("charges", w.Charges); err != nil {
		return nil, err
	}
	if !ValidCardType(w.Card) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCardType, w.Card)
	}
	if w.MDRRate.IsNegative() {
		return nil, ErrNegativeRate
	}
	if err := requireAccount("wallet", w.WalletAccountID); err != nil {
		return nil, err
	}
	if err := requireAccount("collection", w.CollectAccountID); err != nil {
		return nil, err
	}
	var l legs
	l.pair(w.WalletAccountID, AccountReceivables, w.Amount)
	l.pair(w.CollectAccountID, AccountServiceCharges, w.Charges)
	l.pair(AccountMDRCharges, w.WalletAccountID, w.MDR())
	return l, nil
}

// MoneyTransfer takes cash (amount plus charge) at the counter and sends the
// amount out of a wallet. The charge is income.
type MoneyTransfer struct {
	CustomerID      string
	CustomerName    string
	WalletID        string
	WalletAccountID string
	InflowAccountID string
	Amount          decimal.Decimal
	Charge          decimal.Decimal
}

func (w MoneyTransfer) TxnType() TxnType { return TxnMoneyTransfer }

func (w MoneyTransfer) Describe() string { return "DMT: " + w.CustomerName }

func (w MoneyTransfer) Metadata() Metadata {
	return Metadata{CustomerID: w.CustomerID, WalletID: w.WalletID}
}

func (w MoneyTransfer) Build() ([]Entry, error) {
	w.Amount, w.Charge = Round(w.Amount), Round(w.Charge)
	if err := requirePositive("transfer amount", w.Amount); err != nil {
		return nil, err
	}
	if err := requireNonNegative("service charge", w.Charge); err != nil {
		return nil, err
	}
	if err := requireAccount("wallet", w.WalletAccountID); err != nil {
		return nil, err
	}
	if err := requireAccount("inflow", w.InflowAccountID); err != nil {
		return nil, err
	}
	entries := []Entry{
		Dr(w.InflowAccountID, w.Amount.Add(w.Charge)),
		Cr(w.WalletAccountID, w.Amount),
	}
	if !w.Charge.IsZero() {
		entries = append(entries, Cr(AccountServiceCharges, w.Charge))
	}
	return entries, nil
}

// Reconciliation books the gap between a wallet's ledger balance and the balance
// reported by the provider. A shortage is an expense and a surplus is income.
type Reconciliation struct {
	WalletID        string
	WalletName      string
	WalletAccountID string
	SystemBalance   decimal.Decimal
	ActualBalance   decimal.Decimal
}

// Difference is actual minus system, rounded.
func (w Reconciliation) Difference() decimal.Decimal {
	return Round(w.ActualBalance.Sub(w.SystemBalance))
}

// NeedsPosting reports whether the unrounded gap is at least one paisa.
func (w Reconciliation) NeedsPosting() bool {
	return w.ActualBalance.Sub(w.SystemBalance).Abs().GreaterThanOrEqual(Epsilon)
}

func (w Reconciliation) TxnType() TxnType { return TxnReconciliation }

func (w Reconciliation) Describe() string {
	if w.Difference().IsNegative() {
		return "Reconciliation: Shortage - " + w.WalletName
	}
	return "Reconciliation: Surplus - " + w.WalletName
}

func (w Reconciliation) Metadata() Metadata { return Metadata{WalletID: w.WalletID} }

func (w Reconciliation) Build() ([]Entry, error) {
	if err := requireAccount("wallet", w.WalletAccountID); err != nil {
		return nil, err
	}
	diff := w.Difference()
	if !w.NeedsPosting() {
		return nil, fmt.Errorf("%w: wallet %s is already reconciled", ErrInvalidAmount, w.WalletID)
	}
	if diff.IsNegative() {
		return []Entry{Dr(AccountWalletDeficit, diff.Abs()), Cr(w.WalletAccountID, diff.Abs())}, nil
	}
	return []Entry{Dr(w.WalletAccountID, diff), Cr(AccountWalletSurplus, diff)}, nil
}
