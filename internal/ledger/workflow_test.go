package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sideTotal(entries []Entry, id string) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range entries {
		if e.AccountID == id {
			debit = debit.Add(e.Debit)
			credit = credit.Add(e.Credit)
		}
	}
	return debit, credit
}

// assertEntries compares entries by account and rendered amount, since equal
// decimals may differ in exponent.
func assertEntries(t *testing.T, want, got []Entry) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].AccountID, got[i].AccountID, "entry %d", i)
		assert.Equal(t, want[i].Debit.StringFixed(2), got[i].Debit.StringFixed(2), "entry %d debit", i)
		assert.Equal(t, want[i].Credit.StringFixed(2), got[i].Credit.StringFixed(2), "entry %d credit", i)
	}
}

func TestSwipeInflow(t *testing.T) {
	w := SwipeInflow{
		CustomerID: "C001", CustomerName: "Rahul Sharma", PayableAccountID: AccountCustomerPayables,
		WalletID: "W001", WalletAccountID: "A004",
		Card: CardVisa, Amount: d("1000"), ServiceRate: d("2"), MDRRate: d("1.2"),
	}

	q := w.Quote()
	assert.Equal(t, "20.00", q.ServiceFee.StringFixed(2))
	assert.Equal(t, "12.00", q.MDR.StringFixed(2))
	assert.Equal(t, "980.00", q.NetPayable.StringFixed(2))
	assert.Equal(t, "8.00", q.EstimatedProfit.StringFixed(2))

	entries, err := w.Build()
	require.NoError(t, err)
	require.NoError(t, ValidateEntries(entries))
	assert.Len(t, entries, 6)
	assert.Equal(t, TxnSwipePay, w.TxnType())
	assert.Equal(t, "Swipe Inflow: Rahul Sharma (VISA)", w.Describe())
	assert.Equal(t, CardVisa, w.Metadata().CardType)

	dr, cr := sideTotal(entries, AccountCustomerPayables)
	assert.Equal(t, "20.00", dr.StringFixed(2))
	assert.Equal(t, "1000.00", cr.StringFixed(2))
	dr, cr = sideTotal(entries, "A004")
	assert.Equal(t, "1000.00", dr.StringFixed(2))
	assert.Equal(t, "12.00", cr.StringFixed(2))
}

func TestSwipeInflowOmitsZeroLegs(t *testing.T) {
	w := SwipeInflow{
		PayableAccountID: AccountCustomerPayables, WalletAccountID: "A005",
		Card: CardRupay, Amount: d("500"), ServiceRate: d("1"), MDRRate: decimal.Zero,
	}
	entries, err := w.Build()
	require.NoError(t, err)
	assert.Len(t, entries, 4)
	for _, e := range entries {
		assert.NotEqual(t, AccountMDRCharges, e.AccountID)
	}
}

func TestSwipeInflowRejectsBadInput(t *testing.T) {
	base := SwipeInflow{
		PayableAccountID: AccountCustomerPayables, WalletAccountID: "A004",
		Card: CardVisa, Amount: d("100"), ServiceRate: d("2"), MDRRate: d("1"),
	}

	zero := base
	zero.Amount = decimal.Zero
	_, err := zero.Build()
	assert.ErrorIs(t, err, ErrInvalidAmount)

	card := base
	card.Card = "diners"
	_, err = card.Build()
	assert.ErrorIs(t, err, ErrInvalidCardType)

	rate := base
	rate.MDRRate = d("-1")
	_, err = rate.Build()
	assert.ErrorIs(t, err, ErrNegativeRate)

	acct := base
	acct.WalletAccountID = ""
	_, err = acct.Build()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSwipePayout(t *testing.T) {
	w := SwipePayout{PayableAccountID: AccountCustomerPayables, PayoutAccountID: AccountBankMain, Amount: d("980"), TransferFee: d("5")}
	entries, err := w.Build()
	require.NoError(t, err)
	require.NoError(t, ValidateEntries(entries))
	assertEntries(t, []Entry{
		Dr(AccountCustomerPayables, d("980")),
		Cr(AccountBankMain, d("985")),
		Dr(AccountMDRCharges, d("5")),
	}, entries)

	w.TransferFee = decimal.Zero
	entries, err = w.Build()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	w.TransferFee = d("-1")
	_, err = w.Build()
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestAdvanceAndRecovery(t *testing.T) {
	adv := AdvancePay{CustomerName: "Priya", SourceAccountID: AccountBankMain, Amount: d("5000")}
	entries, err := adv.Build()
	require.NoError(t, err)
	assertEntries(t, []Entry{Dr(AccountReceivables, d("5000")), Cr(AccountBankMain, d("5000"))}, entries)
	assert.Equal(t, TxnPaySwipe, adv.TxnType())

	rec := Recovery{
		CustomerName: "Priya", WalletID: "W001", WalletAccountID: "A004", CollectAccountID: AccountCash,
		Card: CardAmex, Amount: d("5000"), Charges: d("150"), MDRRate: d("2.5"),
	}
	entries, err = rec.Build()
	require.NoError(t, err)
	require.NoError(t, ValidateEntries(entries))
	assert.Len(t, entries, 6)
	assert.Equal(t, "125.00", rec.MDR().StringFixed(2))
	assert.Equal(t, "Recovery: Priya (AMEX)", rec.Describe())

	dr, cr := sideTotal(entries, AccountReceivables)
	assert.True(t, dr.IsZero())
	assert.Equal(t, "5000.00", cr.StringFixed(2))

	rec.Charges = decimal.Zero
	entries, err = rec.Build()
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestMoneyTransfer(t *testing.T) {
	w := MoneyTransfer{CustomerName: "Walk-in", WalletID: "W002", WalletAccountID: "A005", InflowAccountID: AccountCash, Amount: d("2000"), Charge: d("20")}
	entries, err := w.Build()
	require.NoError(t, err)
	require.NoError(t, ValidateEntries(entries))
	assertEntries(t, []Entry{
		Dr(AccountCash, d("2020")),
		Cr("A005", d("2000")),
		Cr(AccountServiceCharges, d("20")),
	}, entries)
	assert.Equal(t, "DMT: Walk-in", w.Describe())

	w.Charge = decimal.Zero
	entries, err = w.Build()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestReconciliation(t *testing.T) {
	short := Reconciliation{WalletID: "W001", WalletName: "Wallet A", WalletAccountID: "A004", SystemBalance: d("10000"), ActualBalance: d("9000")}
	entries, err := short.Build()
	require.NoError(t, err)
	assertEntries(t, []Entry{Dr(AccountWalletDeficit, d("1000")), Cr("A004", d("1000"))}, entries)
	assert.Equal(t, "Reconciliation: Shortage - Wallet A", short.Describe())

	surplus := short
	surplus.ActualBalance = d("10250.50")
	entries, err = surplus.Build()
	require.NoError(t, err)
	assertEntries(t, []Entry{Dr("A004", d("250.50")), Cr(AccountWalletSurplus, d("250.50"))}, entries)
	assert.Equal(t, "Reconciliation: Surplus - Wallet A", surplus.Describe())

	even := short
	even.ActualBalance = d("10000.004")
	assert.False(t, even.NeedsPosting())
	_, err = even.Build()
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// Half a paisa rounds up to 0.01 but is still under the threshold.
	even.ActualBalance = d("10000.005")
	assert.False(t, even.NeedsPosting())

	over := short
	over.ActualBalance = d("10000.012")
	assert.True(t, over.NeedsPosting())
	entries, err = over.Build()
	require.NoError(t, err)
	assertEntries(t, []Entry{Dr("A004", d("0.01")), Cr(AccountWalletSurplus, d("0.01"))}, entries)
}

func TestWorkflowsRoundInputsBeforeBuilding(t *testing.T) {
	exact := func(t *testing.T, entries []Entry) {
		t.Helper()
		debit, credit := Totals(entries)
		assert.True(t, debit.Equal(credit), "debit %s credit %s", debit, credit)
		for _, e := range entries {
			assert.True(t, e.Debit.Equal(Round(e.Debit)) && e.Credit.Equal(Round(e.Credit)), "entry %s has sub-paisa amount", e.AccountID)
		}
	}

	entries, err := MoneyTransfer{WalletAccountID: "A004", InflowAccountID: AccountCash, Amount: d("100.004")}.Build()
	require.NoError(t, err)
	exact(t, entries)
	assertEntries(t, []Entry{Dr(AccountCash, d("100")), Cr("A004", d("100"))}, entries)

	entries, err = MoneyTransfer{WalletAccountID: "A004", InflowAccountID: AccountCash, Amount: d("100.004"), Charge: d("10.006")}.Build()
	require.NoError(t, err)
	exact(t, entries)

	entries, err = SwipePayout{PayableAccountID: AccountCustomerPayables, PayoutAccountID: AccountBankMain, Amount: d("100"), TransferFee: d("0.004")}.Build()
	require.NoError(t, err)
	exact(t, entries)
	assert.Len(t, entries, 2)

	entries, err = SwipeInflow{
		PayableAccountID: AccountCustomerPayables, WalletAccountID: "A004",
		Card: CardVisa, Amount: d("999.999"), ServiceRate: d("2"), MDRRate: d("1.2"),
	}.Build()
	require.NoError(t, err)
	exact(t, entries)

	entries, err = Recovery{
		WalletAccountID: "A004", CollectAccountID: AccountCash,
		Card: CardAmex, Amount: d("333.335"), Charges: d("9.999"), MDRRate: d("2.5"),
	}.Build()
	require.NoError(t, err)
	exact(t, entries)

	entries, err = AdvancePay{SourceAccountID: AccountBankMain, Amount: d("50.005")}.Build()
	require.NoError(t, err)
	exact(t, entries)

	_, err = AdvancePay{SourceAccountID: AccountBankMain, Amount: d("0.004")}.Build()
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
