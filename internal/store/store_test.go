package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// backends runs fn against every Store implementation, each freshly seeded.
func backends(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) {
		s, err := Open(context.Background(), DriverMemory, "", ledger.DefaultSeed())
		require.NoError(t, err)
		defer s.Close()
		fn(t, s)
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := Open(context.Background(), DriverSQLite, MemoryDSN(uuid.NewString()), ledger.DefaultSeed())
		require.NoError(t, err)
		defer s.Close()
		fn(t, s)
	})
}

func swipe(id string, customerID, walletID string) ledger.Transaction {
	return ledger.Transaction{
		ID:          id,
		Date:        time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC),
		Description: "Swipe Inflow: test",
		Type:        ledger.TxnSwipePay,
		Status:      ledger.StatusCompleted,
		Entries: []ledger.Entry{
			ledger.Dr("A004", amt("1000")),
			ledger.Cr("L001", amt("1000")),
			ledger.Dr("E001", amt("12.50")),
			ledger.Cr("A004", amt("12.50")),
		},
		Metadata: ledger.Metadata{CustomerID: customerID, WalletID: walletID, CardType: ledger.CardVisa},
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "postgres", "", ledger.DefaultSeed())
	assert.Error(t, err)
}

func TestOpenRejectsInvalidSeed(t *testing.T) {
	seed := ledger.DefaultSeed()
	seed.Wallets[0].PGs = nil
	_, err := Open(context.Background(), DriverMemory, "", seed)
	assert.ErrorIs(t, err, ledger.ErrWalletWithoutPG)
}

func TestSeededChart(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		accounts, err := s.ListAccounts(ctx, AccountFilter{})
		require.NoError(t, err)
		require.Len(t, accounts, 15)
		assert.Equal(t, "A001", accounts[0].ID)
		assert.Equal(t, "1200000", accounts[1].SeedBalance.String())

		equity, err := s.ListAccounts(ctx, AccountFilter{Category: ledger.CategoryEquity})
		require.NoError(t, err)
		assert.Len(t, equity, 2)

		income, err := s.ListAccounts(ctx, AccountFilter{Type: ledger.TypeIncome})
		require.NoError(t, err)
		assert.Len(t, income, 2)

		_, err = s.GetAccount(ctx, "Z999")
		assert.ErrorIs(t, err, ledger.ErrAccountNotFound)

		w, err := s.GetWallet(ctx, "W001")
		require.NoError(t, err)
		require.Len(t, w.PGs, 2)
		assert.Equal(t, "Standard", w.PGs[0].Name)
		assert.Equal(t, "2.5", w.PGs[0].Charges.Amex.String())

		c, err := s.FindCustomerByPhone(ctx, " 9988776655 ")
		require.NoError(t, err)
		assert.Equal(t, "C002", c.ID)
		assert.Equal(t, "1.8", c.CommissionRates.Visa.String())
	})
}

func TestSeedIsIdempotent(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Seed(ctx, ledger.DefaultSeed()))
		accounts, err := s.ListAccounts(ctx, AccountFilter{})
		require.NoError(t, err)
		assert.Len(t, accounts, 15)
	})
}

func TestInsertAccount(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		acct := ledger.Account{ID: "A-new", Name: "Petty Cash", Type: ledger.TypeAsset, Category: ledger.CategoryCash, SeedBalance: decimal.Zero}
		require.NoError(t, s.InsertAccount(ctx, acct))

		got, err := s.GetAccount(ctx, "A-new")
		require.NoError(t, err)
		assert.Equal(t, "Petty Cash", got.Name)
		assert.True(t, got.SeedBalance.IsZero())

		assert.ErrorIs(t, s.InsertAccount(ctx, acct), ledger.ErrDuplicateAccount)

		bad := acct
		bad.ID = "A-bad"
		bad.Type = "EQUITY"
		assert.ErrorIs(t, s.InsertAccount(ctx, bad), ledger.ErrInvalidAccountType)
	})
}

func TestCreateCustomerIsAtomic(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		acct := ledger.Account{ID: "L-new", Name: "Asha Payable", Type: ledger.TypeLiability, Category: ledger.CategoryCustomer}
		cust := ledger.Customer{ID: "C-new", Name: "Asha", Phone: "9000000001", CommissionRates: ledger.DefaultCommissionRates, LedgerAccountID: "L-new"}
		require.NoError(t, s.CreateCustomer(ctx, acct, cust))

		got, err := s.GetCustomer(ctx, "C-new")
		require.NoError(t, err)
		assert.Equal(t, "L-new", got.LedgerAccountID)
		assert.Equal(t, "3.5", got.CommissionRates.Amex.String())

		// Reusing the customer id must not leave the second account behind.
		acct2 := acct
		acct2.ID = "L-orphan"
		err = s.CreateCustomer(ctx, acct2, cust)
		assert.ErrorIs(t, err, ledger.ErrDuplicateCustomer)
		_, err = s.GetAccount(ctx, "L-orphan")
		assert.ErrorIs(t, err, ledger.ErrAccountNotFound)

		customers, err := s.ListCustomers(ctx)
		require.NoError(t, err)
		assert.Len(t, customers, 4)
	})
}

func TestUpdateCustomer(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		c, err := s.GetCustomer(ctx, "C001")
		require.NoError(t, err)

		c.CommissionRates = c.CommissionRates.With(ledger.CardRupay, amt("1.75"))
		require.NoError(t, s.UpdateCustomer(ctx, *c))

		got, err := s.GetCustomer(ctx, "C001")
		require.NoError(t, err)
		assert.Equal(t, "1.75", got.CommissionRates.Rupay.String())

		missing := *c
		missing.ID = "C404"
		assert.ErrorIs(t, s.UpdateCustomer(ctx, missing), ledger.ErrCustomerNotFound)
	})
}

func TestWallets(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		acct := ledger.Account{ID: "A-w", Name: "Wallet C", Type: ledger.TypeAsset, Category: ledger.CategoryWallet}
		w := ledger.Wallet{ID: "W-new", Name: "Wallet C", LedgerAccountID: "A-w",
			PGs: []ledger.PGConfig{{Name: "Basic", Charges: ledger.NewRates(1, 1, 2, 0.25)}}}
		require.NoError(t, s.CreateWallet(ctx, acct, w))

		w2, err := w.WithPG(ledger.PGConfig{Name: "Pro", Charges: ledger.NewRates(1.1, 1.1, 2.1, 0.3)})
		require.NoError(t, err)
		require.NoError(t, s.UpdateWallet(ctx, w2))

		got, err := s.GetWallet(ctx, "W-new")
		require.NoError(t, err)
		require.Len(t, got.PGs, 2)
		assert.Equal(t, "Pro", got.PGs[1].Name)
		assert.Equal(t, "0.3", got.PGs[1].Charges.Rupay.String())

		wallets, err := s.ListWallets(ctx)
		require.NoError(t, err)
		require.Len(t, wallets, 3)
		assert.Equal(t, "W-new", wallets[2].ID)
		assert.Len(t, wallets[0].PGs, 2)

		_, err = s.GetWallet(ctx, "W404")
		assert.ErrorIs(t, err, ledger.ErrWalletNotFound)
		assert.ErrorIs(t, s.UpdateWallet(ctx, ledger.Wallet{ID: "W404"}), ledger.ErrWalletNotFound)
		assert.ErrorIs(t, s.CreateWallet(ctx, ledger.Account{ID: "A-w2", Name: "x", Type: ledger.TypeAsset, Category: ledger.CategoryWallet}, w), ledger.ErrDuplicateWallet)
	})
}

func TestTransactions(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.AppendTransaction(ctx, swipe("t1", "C001", "W001")))
		require.NoError(t, s.AppendTransaction(ctx, swipe("t2", "C002", "W001")))
		transfer := swipe("t3", "C001", "W002")
		transfer.Type = ledger.TxnMoneyTransfer
		transfer.Entries = []ledger.Entry{ledger.Dr("A001", amt("505")), ledger.Cr("A005", amt("500")), ledger.Cr("I001", amt("5"))}
		require.NoError(t, s.AppendTransaction(ctx, transfer))

		assert.ErrorIs(t, s.AppendTransaction(ctx, swipe("t1", "", "")), ledger.ErrDuplicateTransaction)

		all, err := s.ListTransactions(ctx, TxnFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"t3", "t2", "t1"}, []string{all[0].ID, all[1].ID, all[2].ID})

		got, err := s.GetTransaction(ctx, "t1")
		require.NoError(t, err)
		require.Len(t, got.Entries, 4)
		assert.Equal(t, "12.5", got.Entries[2].Debit.String())
		assert.Equal(t, ledger.CardVisa, got.Metadata.CardType)
		assert.True(t, got.Date.Equal(time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)))

		byAccount, err := s.ListTransactions(ctx, TxnFilter{AccountID: "A001"})
		require.NoError(t, err)
		require.Len(t, byAccount, 1)
		assert.Len(t, byAccount[0].Entries, 3, "all entries of a matching transaction are returned")

		byCustomer, err := s.ListTransactions(ctx, TxnFilter{CustomerID: "C001"})
		require.NoError(t, err)
		assert.Len(t, byCustomer, 2)

		byType, err := s.ListTransactions(ctx, TxnFilter{Type: ledger.TxnSwipePay, WalletID: "W001"})
		require.NoError(t, err)
		assert.Len(t, byType, 2)

		page, err := s.ListTransactions(ctx, TxnFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "t2", page[0].ID)

		_, err = s.GetTransaction(ctx, "nope")
		assert.ErrorIs(t, err, ledger.ErrTransactionNotFound)

		totals, err := s.EntryTotals(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2000.00", totals["A004"].Debit.StringFixed(2))
		assert.Equal(t, "25.00", totals["A004"].Credit.StringFixed(2))
		assert.Equal(t, "5.00", totals["I001"].Credit.StringFixed(2))
	})
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.AppendTransaction(ctx, swipe("t1", "C001", "W001")))

		got, err := s.GetTransaction(ctx, "t1")
		require.NoError(t, err)
		got.Entries[0].AccountID = "X"

		again, err := s.GetTransaction(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, "A004", again.Entries[0].AccountID)

		w, err := s.GetWallet(ctx, "W001")
		require.NoError(t, err)
		w.PGs[0].Name = "X"
		w2, err := s.GetWallet(ctx, "W001")
		require.NoError(t, err)
		assert.Equal(t, "Standard", w2.PGs[0].Name)
	})
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4}
	assert.Equal(t, []int{1, 2, 3, 4}, paginate(items, 0, 0))
	assert.Equal(t, []int{2, 3}, paginate(items, 2, 1))
	assert.Empty(t, paginate(items, 2, 10))
}
