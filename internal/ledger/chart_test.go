package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeedIsValid(t *testing.T) {
	seed := DefaultSeed()
	require.NoError(t, seed.Validate())
	assert.Len(t, seed.Accounts, 15)
	assert.Len(t, seed.Customers, 3)
	assert.Len(t, seed.Wallets, 2)
}

func TestDefaultSeedIsFresh(t *testing.T) {
	a := DefaultSeed()
	a.Wallets[0].PGs[0].Name = "changed"
	b := DefaultSeed()
	assert.Equal(t, "Standard", b.Wallets[0].PGs[0].Name)
}

func TestSeedValidate(t *testing.T) {
	t.Run("duplicate account", func(t *testing.T) {
		s := DefaultSeed()
		s.Accounts = append(s.Accounts, s.Accounts[0])
		assert.ErrorIs(t, s.Validate(), ErrDuplicateAccount)
	})

	t.Run("customer on unknown account", func(t *testing.T) {
		s := DefaultSeed()
		s.Customers[0].LedgerAccountID = "L999"
		assert.ErrorIs(t, s.Validate(), ErrAccountNotFound)
	})

	t.Run("wallet on liability", func(t *testing.T) {
		s := DefaultSeed()
		s.Wallets[0].LedgerAccountID = AccountCustomerPayables
		assert.Error(t, s.Validate())
	})

	t.Run("wallet without gateway", func(t *testing.T) {
		s := DefaultSeed()
		s.Wallets[1].PGs = nil
		assert.ErrorIs(t, s.Validate(), ErrWalletWithoutPG)
	})

	t.Run("missing role account", func(t *testing.T) {
		s := DefaultSeed()
		kept := s.Accounts[:0]
		for _, a := range s.Accounts {
			if a.ID != AccountServiceCharges {
				kept = append(kept, a)
			}
		}
		s.Accounts = kept
		err := s.Validate()
		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.ErrorContains(t, err, AccountServiceCharges)
	})

	t.Run("role account with wrong type", func(t *testing.T) {
		s := DefaultSeed()
		for i := range s.Accounts {
			if s.Accounts[i].ID == AccountWalletDeficit {
				s.Accounts[i].Type = TypeIncome
			}
		}
		assert.ErrorIs(t, s.Validate(), ErrInvalidAccountType)
	})

	t.Run("equity category on a debit-normal account", func(t *testing.T) {
		s := DefaultSeed()
		s.Accounts = append(s.Accounts, Account{ID: "Q003", Name: "Drawings", Type: TypeAsset, Category: CategoryEquity})
		assert.ErrorIs(t, s.Validate(), ErrInvalidCategory)
	})

	t.Run("bad account type", func(t *testing.T) {
		s := DefaultSeed()
		s.Accounts[0].Type = "EQUITY"
		assert.ErrorIs(t, s.Validate(), ErrInvalidAccountType)
	})
}

func TestAccountHelpers(t *testing.T) {
	assert.True(t, DebitNormal(TypeAsset))
	assert.True(t, DebitNormal(TypeExpense))
	assert.False(t, DebitNormal(TypeLiability))
	assert.False(t, DebitNormal(TypeIncome))

	assert.Equal(t, "Q", IDPrefix(TypeLiability, CategoryEquity))
	assert.Equal(t, "L", IDPrefix(TypeLiability, CategoryCustomer))

	typ, err := ParseAccountType("income")
	require.NoError(t, err)
	assert.Equal(t, TypeIncome, typ)
	_, err = ParseAccountType("equity")
	assert.ErrorIs(t, err, ErrInvalidAccountType)

	cat, err := ParseCategory("wallet")
	require.NoError(t, err)
	assert.Equal(t, CategoryWallet, cat)
}

func TestWalletPGEdits(t *testing.T) {
	w := DefaultSeed().Wallets[0]

	added, err := w.WithPG(PGConfig{Name: "Gold", Charges: NewRates(1, 1, 2, 0)})
	require.NoError(t, err)
	assert.Len(t, added.PGs, 3)
	assert.Len(t, w.PGs, 2)

	_, err = w.WithPG(PGConfig{Name: "Standard", Charges: NewRates(1, 1, 2, 0)})
	assert.ErrorIs(t, err, ErrDuplicatePG)

	replaced, err := w.ReplacePG("Premium", PGConfig{Name: "Premium+", Charges: NewRates(1.6, 1.6, 2.9, 0.9)})
	require.NoError(t, err)
	_, ok := replaced.PG("Premium+")
	assert.True(t, ok)
	_, ok = w.PG("Premium+")
	assert.False(t, ok)

	_, err = w.ReplacePG("Missing", PGConfig{Name: "X", Charges: NewRates(0, 0, 0, 0)})
	assert.ErrorIs(t, err, ErrPGNotFound)

	_, err = w.ReplacePG("Premium", PGConfig{Name: "Standard", Charges: NewRates(0, 0, 0, 0)})
	assert.ErrorIs(t, err, ErrDuplicatePG)
}

func TestCustomerUpdateApply(t *testing.T) {
	c := DefaultSeed().Customers[0]
	rates := c.CommissionRates.With(CardVisa, d("2.2"))
	name := "Rahul S."

	updated, err := CustomerUpdate{Name: &name, CommissionRates: &rates}.Apply(c)
	require.NoError(t, err)
	assert.Equal(t, "Rahul S.", updated.Name)
	assert.Equal(t, c.Phone, updated.Phone)
	assert.Equal(t, "2.2", updated.CommissionRates.Visa.String())

	blank := " "
	_, err = CustomerUpdate{Name: &blank}.Apply(c)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
