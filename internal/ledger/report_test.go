package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceSheetSeedIsBalanced(t *testing.T) {
	seed := DefaultSeed()
	bs := BuildBalanceSheet(seed.Accounts, Replay(seed.Accounts, nil), AccountRetainedEarnings)

	assert.Equal(t, "2500000.00", bs.TotalAssets.StringFixed(2))
	assert.True(t, bs.TotalLiabilities.IsZero())
	assert.Equal(t, "2500000.00", bs.TotalEquity.StringFixed(2))
	assert.True(t, bs.Balanced)
	assert.True(t, bs.Difference.IsZero())
	assert.Len(t, bs.Equity, 2)
	assert.Len(t, bs.Liabilities, 2, "equity accounts are not listed as liabilities")
}

func TestBalanceSheetFoldsNetProfitIntoRetainedEarnings(t *testing.T) {
	seed := DefaultSeed()
	txns := []Transaction{
		completed("t1", Dr("A001", d("1000")), Cr("I001", d("1000"))),
		completed("t2", Dr("E003", d("300")), Cr("A001", d("300"))),
	}
	balances := Replay(seed.Accounts, txns)
	bs := BuildBalanceSheet(seed.Accounts, balances, AccountRetainedEarnings)

	assert.Equal(t, "700.00", bs.NetProfit.StringFixed(2))
	for _, l := range bs.Equity {
		if l.AccountID == AccountRetainedEarnings {
			assert.Equal(t, "1500700.00", l.Balance.StringFixed(2))
		}
	}
	assert.True(t, bs.Balanced)

	// The fold is display only.
	assert.Equal(t, "1500000.00", balances.Get(AccountRetainedEarnings).StringFixed(2))
}

func TestBalanceSheetWithoutRetainedEarningsAccount(t *testing.T) {
	accounts := []Account{
		{ID: "A1", Name: "Cash", Type: TypeAsset, Category: CategoryCash},
		{ID: "I1", Name: "Sales", Type: TypeIncome, Category: CategoryRevenue},
	}
	balances := Replay(accounts, []Transaction{completed("t", Dr("A1", d("50")), Cr("I1", d("50")))})
	bs := BuildBalanceSheet(accounts, balances, AccountRetainedEarnings)

	require.Len(t, bs.Equity, 1)
	assert.Equal(t, CurrentEarningsID, bs.Equity[0].AccountID)
	assert.True(t, bs.Balanced)
}

func TestBalanceSheetSurfacesImbalance(t *testing.T) {
	accounts := []Account{
		{ID: "A1", Name: "Cash", Type: TypeAsset, Category: CategoryCash, SeedBalance: d("100")},
	}
	bs := BuildBalanceSheet(accounts, Replay(accounts, nil), AccountRetainedEarnings)
	assert.False(t, bs.Balanced)
	assert.Equal(t, "100.00", bs.Difference.StringFixed(2))
}

func TestProfitAndLoss(t *testing.T) {
	seed := DefaultSeed()
	txns := []Transaction{
		completed("t1", Dr("A001", d("120")), Cr("I001", d("100")), Cr("I002", d("20"))),
		completed("t2", Dr("E001", d("45.50")), Cr("A004", d("45.50"))),
	}
	pl := BuildProfitAndLoss(seed.Accounts, Replay(seed.Accounts, txns))
	assert.Len(t, pl.Income, 2)
	assert.Len(t, pl.Expenses, 3)
	assert.Equal(t, "120.00", pl.TotalIncome.StringFixed(2))
	assert.Equal(t, "45.50", pl.TotalExpenses.StringFixed(2))
	assert.Equal(t, "74.50", pl.NetProfit.StringFixed(2))
}

func TestTrialBalance(t *testing.T) {
	seed := DefaultSeed()
	txns := []Transaction{
		completed("t1", Dr("A004", d("1000")), Cr("L001", d("1000"))),
		completed("t2", Dr("E002", d("10")), Cr("A005", d("10"))),
	}
	tb := BuildTrialBalance(seed.Accounts, Replay(seed.Accounts, txns))
	assert.True(t, tb.Balanced)
	assert.Equal(t, tb.TotalDebit.StringFixed(2), tb.TotalCredit.StringFixed(2))

	for _, l := range tb.Lines {
		if l.AccountID == "A005" {
			assert.True(t, l.Debit.IsZero())
			assert.Equal(t, "10.00", l.Credit.StringFixed(2), "overdrawn asset sits on the credit side")
		}
	}
}

func TestStatementRunningBalance(t *testing.T) {
	seed := DefaultSeed()
	cash := seed.Accounts[0]
	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t1 := completed("t1", Dr("A001", d("100")), Cr("I001", d("100")))
	t1.Date = day
	t2 := completed("t2", Dr("E003", d("30")), Cr("A001", d("30")))
	t2.Date = day.Add(time.Hour)
	other := completed("t3", Dr("A002", d("5")), Cr("I001", d("5")))
	other.Date = day.Add(2 * time.Hour)

	// ledger order: most recent first
	st := BuildStatement(cash, []Transaction{other, t2, t1})
	require.Len(t, st.Lines, 2)
	assert.Equal(t, "t1", st.Lines[0].TransactionID)
	assert.Equal(t, "500100.00", st.Lines[0].Balance.StringFixed(2))
	assert.Equal(t, "t2", st.Lines[1].TransactionID)
	assert.Equal(t, "30.00", st.Lines[1].Credit.StringFixed(2))
	assert.Equal(t, "500070.00", st.ClosingBalance.StringFixed(2))
	assert.Equal(t, "500000.00", st.OpeningBalance.StringFixed(2))
}
