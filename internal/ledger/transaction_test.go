package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEntries(t *testing.T) {
	t.Run("balanced", func(t *testing.T) {
		assert.NoError(t, ValidateEntries([]Entry{Dr("A001", d("100")), Cr("I001", d("100"))}))
	})

	t.Run("within epsilon", func(t *testing.T) {
		assert.NoError(t, ValidateEntries([]Entry{Dr("A001", d("100.01")), Cr("I001", d("100"))}))
	})

	t.Run("single entry", func(t *testing.T) {
		assert.ErrorIs(t, ValidateEntries([]Entry{Dr("A001", d("100"))}), ErrTooFewEntries)
	})

	t.Run("unbalanced", func(t *testing.T) {
		err := ValidateEntries([]Entry{Dr("A001", d("100")), Cr("I001", d("90"))})
		require.ErrorIs(t, err, ErrUnbalancedTransaction)

		var ue *UnbalancedError
		require.True(t, errors.As(err, &ue))
		assert.Equal(t, "100.00", ue.TotalDebit.StringFixed(2))
		assert.Equal(t, "90.00", ue.TotalCredit.StringFixed(2))
		assert.Contains(t, err.Error(), "Dr 100.00, Cr 90.00")
	})

	t.Run("negative amount", func(t *testing.T) {
		err := ValidateEntries([]Entry{Dr("A001", d("-100")), Cr("I001", d("-100"))})
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})
}

func TestTransactionValidate(t *testing.T) {
	txn := Transaction{Type: "REFUND", Entries: []Entry{Dr("A001", d("1")), Cr("I001", d("1"))}}
	assert.ErrorIs(t, txn.Validate(), ErrInvalidTxnType)

	txn.Type = TxnJournal
	assert.NoError(t, txn.Validate())
}

func TestTransactionCloneAndTouches(t *testing.T) {
	txn := Transaction{ID: "t1", Entries: []Entry{Dr("A001", d("1")), Cr("I001", d("1"))}}
	clone := txn.Clone()
	clone.Entries[0].AccountID = "A002"

	assert.Equal(t, "A001", txn.Entries[0].AccountID)
	assert.True(t, txn.Touches("I001"))
	assert.False(t, txn.Touches("A002"))
}

func TestInvalidAccountError(t *testing.T) {
	err := error(&InvalidAccountError{IDs: []string{"X1", "X2"}})
	assert.ErrorIs(t, err, ErrInvalidAccount)
	assert.Equal(t, "transaction references unknown accounts: X1, X2", err.Error())
}
