package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSegments(t *testing.T) {
	seed := DefaultSeed()

	inflow := SwipeInflow{
		CustomerID: "C001", CustomerName: "Rahul Sharma", PayableAccountID: AccountCustomerPayables,
		WalletID: "W001", WalletAccountID: "A004",
		Card: CardVisa, Amount: d("1000"), ServiceRate: d("2"), MDRRate: d("1.2"),
	}
	entries, err := inflow.Build()
	require.NoError(t, err)
	swipe := completed("s1", entries...)
	swipe.Type = TxnSwipePay
	swipe.Metadata = inflow.Metadata()

	dmt := MoneyTransfer{CustomerID: "C002", WalletID: "W002", WalletAccountID: "A005", InflowAccountID: AccountCash, Amount: d("500"), Charge: d("15")}
	entries, err = dmt.Build()
	require.NoError(t, err)
	transfer := completed("m1", entries...)
	transfer.Type = TxnMoneyTransfer
	transfer.Metadata = dmt.Metadata()

	s := BuildSegments(seed.Accounts, seed.Customers, seed.Wallets, []Transaction{transfer, swipe})

	assert.Equal(t, "35.00", s.Total.Income.StringFixed(2))
	assert.Equal(t, "12.00", s.Total.Expense.StringFixed(2))
	assert.Equal(t, "23.00", s.Total.Profit.StringFixed(2))
	assert.Equal(t, 2, s.Total.Count)

	require.Len(t, s.ByCard, 4)
	assert.Equal(t, "VISA", s.ByCard[0].Name)
	assert.Equal(t, "8.00", s.ByCard[0].Profit.StringFixed(2))
	assert.Equal(t, 0, s.ByCard[2].Count)

	require.Len(t, s.ByWallet, 2)
	assert.Equal(t, "15.00", s.ByWallet[1].Income.StringFixed(2))

	require.Len(t, s.TopCustomers, 3)
	assert.Equal(t, "C002", s.TopCustomers[0].Key)
	assert.Equal(t, 0, s.TopCustomers[0].Count, "only swipes are counted per customer")
	assert.Equal(t, "C001", s.TopCustomers[1].Key)
	assert.Equal(t, 1, s.TopCustomers[1].Count)

	require.Len(t, s.Swipes, 1)
	assert.Equal(t, "Rahul Sharma", s.Swipes[0].Customer)
	assert.Equal(t, "VISA", s.Swipes[0].Card)
	assert.Equal(t, "20.00", s.Swipes[0].Revenue.StringFixed(2))
}

func TestBuildDashboard(t *testing.T) {
	seed := DefaultSeed()
	txns := []Transaction{
		completed("t2", Dr("A004", d("1000")), Cr("L001", d("1000"))),
		completed("t1", Dr("A001", d("25")), Cr("I001", d("25"))),
	}
	dash := BuildDashboard(seed.Accounts, seed.Wallets, Replay(seed.Accounts, txns), txns)

	assert.Equal(t, "500025.00", dash.Cash.StringFixed(2))
	assert.Equal(t, "2000000.00", dash.Bank.StringFixed(2))
	assert.Equal(t, "1000.00", dash.Wallets.StringFixed(2))
	assert.Equal(t, "25.00", dash.Revenue.StringFixed(2))
	assert.Len(t, dash.WalletLines, 2)
	assert.Equal(t, 2, dash.Transactions)
	require.Len(t, dash.Recent, 2)
	assert.Equal(t, "t2", dash.Recent[0].ID)
}
