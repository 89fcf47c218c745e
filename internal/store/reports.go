package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/ledger"
)

// EntryTotals sums every completed entry per account. Amounts are summed in Go
// rather than SQL because the columns hold decimal text.
func (s *SQLite) EntryTotals(ctx context.Context) (map[string]Totals, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT e.account_id, e.debit, e.credit
		FROM entries e
		JOIN transactions t ON t.id = e.transaction_id
		WHERE t.finalized = 1 AND t.status = ?`, string(ledger.StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("entry totals: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Totals)
	for rows.Next() {
		var id string
		var debit, credit decimal.Decimal
		if err := rows.Scan(&id, &debit, &credit); err != nil {
			return nil, fmt.Errorf("scan entry totals: %w", err)
		}
		tot, ok := out[id]
		if !ok {
			tot = Totals{Debit: decimal.Zero, Credit: decimal.Zero}
		}
		tot.Debit = tot.Debit.Add(debit)
		tot.Credit = tot.Credit.Add(credit)
		out[id] = tot
	}
	return out, rows.Err()
}
