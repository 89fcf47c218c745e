package ledger

import (
	"github.com/shopspring/decimal"
)

// Balances maps account id to its current balance, signed by the account's normal side.
type Balances map[string]decimal.Decimal

// Get returns the balance of an account, or zero when it is unknown.
func (b Balances) Get(id string) decimal.Decimal {
	if v, ok := b[id]; ok {
		return v
	}
	return decimal.Zero
}

// Equal reports whether both maps hold the same accounts with equal balances.
func (b Balances) Equal(other Balances) bool {
	if len(b) != len(other) {
		return false
	}
	for id, v := range b {
		o, ok := other[id]
		if !ok || !v.Equal(o) {
			return false
		}
	}
	return true
}

// Effect returns the signed change an entry makes to an account of type t.
func Effect(t AccountType, e Entry) decimal.Decimal {
	if DebitNormal(t) {
		return e.Debit.Sub(e.Credit)
	}
	return e.Credit.Sub(e.Debit)
}

// Projection is the balance of every account derived from seed balances and the
// completed transactions applied to it. It is not safe for concurrent use.
type Projection struct {
	types    map[string]AccountType
	balances Balances
	applied  int
}

func NewProjection(accounts []Account) *Projection {
	p := &Projection{
		types:    make(map[string]AccountType, len(accounts)),
		balances: make(Balances, len(accounts)),
	}
	for i := range accounts {
		p.Seed(accounts[i])
	}
	return p
}

// Seed registers an account at its seed balance. Re-seeding a known account is a no-op.
func (p *Projection) Seed(a Account) {
	if _, ok := p.types[a.ID]; ok {
		return
	}
	p.types[a.ID] = a.Type
	p.balances[a.ID] = a.SeedBalance
}

// Apply folds one transaction into the projection. Non-completed transactions and
// entries for unknown accounts are ignored.
func (p *Projection) Apply(t *Transaction) {
	if t.Status != StatusCompleted {
		return
	}
	for _, e := range t.Entries {
		typ, ok := p.types[e.AccountID]
		if !ok {
			continue
		}
		p.balances[e.AccountID] = p.balances[e.AccountID].Add(Effect(typ, e))
	}
	p.applied++
}

// Known reports whether the account has been seeded into the projection.
func (p *Projection) Known(id string) bool {
	_, ok := p.types[id]
	return ok
}

// Balance returns the current balance of an account, zero when unknown.
func (p *Projection) Balance(id string) decimal.Decimal {
	return p.balances.Get(id)
}

// Applied returns the number of completed transactions folded in so far.
func (p *Projection) Applied() int { return p.applied }

// Snapshot returns a copy of all balances.
func (p *Projection) Snapshot() Balances {
	out := make(Balances, len(p.balances))
	for id, v := range p.balances {
		out[id] = v
	}
	return out
}

// Replay derives every balance from scratch. Transaction order does not matter.
func Replay(accounts []Account, txns []Transaction) Balances {
	p := NewProjection(accounts)
	for i := range txns {
		p.Apply(&txns[i])
	}
	return p.balances
}
