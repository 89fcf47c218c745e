package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/simonvc/swipeledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*SQLite, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteFromDB(db, db), mock
}

func TestSQLiteCreateCustomerRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	acct := ledger.Account{ID: "L-x", Name: "Asha Payable", Type: ledger.TypeLiability, Category: ledger.CategoryCustomer}
	cust := ledger.Customer{ID: "C-x", Name: "Asha", CommissionRates: ledger.DefaultCommissionRates, LedgerAccountID: "L-x"}

	t.Run("customer insert fails", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO accounts").
			WithArgs("L-x", "Asha Payable", "LIABILITY", "Customer", "0", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO customers").
			WillReturnError(errors.New("disk I/O error"))
		mock.ExpectRollback()

		err := s.CreateCustomer(context.Background(), acct, cust)
		assert.ErrorContains(t, err, "insert customer")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate customer", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO accounts").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO customers").
			WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: customers.id (2067)"))
		mock.ExpectRollback()

		err := s.CreateCustomer(context.Background(), acct, cust)
		assert.ErrorIs(t, err, ledger.ErrDuplicateCustomer)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit fails", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO accounts").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO customers").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit().WillReturnError(errors.New("database is locked"))

		err := s.CreateCustomer(context.Background(), acct, cust)
		assert.ErrorContains(t, err, "commit")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLiteCreateWalletRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	acct := ledger.Account{ID: "A-x", Name: "Wallet X", Type: ledger.TypeAsset, Category: ledger.CategoryWallet}
	w := ledger.Wallet{ID: "W-x", Name: "Wallet X", LedgerAccountID: "A-x",
		PGs: []ledger.PGConfig{{Name: "Basic", Charges: ledger.NewRates(1, 1, 2, 0)}}}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO wallets").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO wallet_pgs").
		WithArgs("W-x", 0, "Basic", "1", "1", "2", "0").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.CreateWallet(context.Background(), acct, w)
	assert.ErrorContains(t, err, "insert payment gateway 0")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteAppendTransactionRollsBackOnFinalize(t *testing.T) {
	s, mock := newMockStore(t)
	txn := swipe("t-x", "C001", "W001")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(1, 1))
	for range txn.Entries {
		mock.ExpectExec("INSERT INTO entries").WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectExec("UPDATE transactions SET finalized = 1").
		WithArgs("t-x").
		WillReturnError(errors.New("transaction entries do not balance"))
	mock.ExpectRollback()

	err := s.AppendTransaction(context.Background(), txn)
	assert.ErrorContains(t, err, "finalize transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteGetAccountNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, name, type, category, seed_balance, created_at FROM accounts WHERE id = \\?").
		WithArgs("Z1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "category", "seed_balance", "created_at"}))

	_, err := s.GetAccount(context.Background(), "Z1")
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
