package ledger

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completed(id string, entries ...Entry) Transaction {
	return Transaction{ID: id, Type: TxnJournal, Status: StatusCompleted, Entries: entries}
}

func TestReplayNormalSides(t *testing.T) {
	accounts := DefaultSeed().Accounts
	txns := []Transaction{
		completed("t1", Dr("A001", d("1000")), Cr("I001", d("1000"))),
		completed("t2", Dr("E003", d("250")), Cr("A002", d("250"))),
		completed("t3", Dr("A004", d("500")), Cr("L001", d("500"))),
	}

	b := Replay(accounts, txns)
	assert.Equal(t, "501000.00", b.Get("A001").StringFixed(2))
	assert.Equal(t, "1199750.00", b.Get("A002").StringFixed(2))
	assert.Equal(t, "1000.00", b.Get("I001").StringFixed(2))
	assert.Equal(t, "250.00", b.Get("E003").StringFixed(2))
	assert.Equal(t, "500.00", b.Get("L001").StringFixed(2))
	assert.True(t, b.Get("Q001").Equal(d("1000000")))
	assert.True(t, b.Get("nope").IsZero())
}

func TestReplayIgnoresNonCompletedAndUnknownAccounts(t *testing.T) {
	accounts := DefaultSeed().Accounts
	pending := completed("t1", Dr("A001", d("1000")), Cr("I001", d("1000")))
	pending.Status = StatusPending
	failed := pending
	failed.Status = StatusFailed
	orphan := completed("t3", Dr("A001", d("10")), Cr("ZZZ", d("10")))

	b := Replay(accounts, []Transaction{pending, failed, orphan})
	assert.Equal(t, "500010.00", b.Get("A001").StringFixed(2))
	assert.True(t, b.Get("I001").IsZero())
	_, ok := b["ZZZ"]
	assert.False(t, ok)
}

func TestReplayIsOrderIndependent(t *testing.T) {
	accounts := DefaultSeed().Accounts
	var txns []Transaction
	for i := 0; i < 50; i++ {
		amt := d("10.25").Mul(d("1").Add(d("0.5").Mul(d("1").Shift(int32(i % 3)))))
		txns = append(txns, completed("t", Dr("A001", amt), Cr("I001", amt)))
		txns = append(txns, completed("t", Dr("E001", amt), Cr("A004", amt)))
	}

	first := Replay(accounts, txns)
	again := Replay(accounts, txns)
	assert.True(t, first.Equal(again))

	rng := rand.New(rand.NewSource(7))
	shuffled := append([]Transaction(nil), txns...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	assert.True(t, first.Equal(Replay(accounts, shuffled)))
}

func TestProjectionMatchesReplay(t *testing.T) {
	accounts := DefaultSeed().Accounts
	p := NewProjection(accounts)
	var txns []Transaction
	for i := 0; i < 20; i++ {
		txn := completed("t", Dr("A002", d("99.99")), Cr("L001", d("99.99")))
		txns = append(txns, txn)
		p.Apply(&txn)
	}
	assert.Equal(t, 20, p.Applied())
	assert.True(t, p.Snapshot().Equal(Replay(accounts, txns)))

	// A re-seed of a known account must not reset its balance.
	p.Seed(accounts[1])
	assert.Equal(t, "1201999.80", p.Balance("A002").StringFixed(2))
}

func TestProjectionSnapshotIsACopy(t *testing.T) {
	p := NewProjection(DefaultSeed().Accounts)
	snap := p.Snapshot()
	snap["A001"] = d("0")
	require.Equal(t, "500000.00", p.Balance("A001").StringFixed(2))
}
