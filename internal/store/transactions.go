package store

import (
	"context"
	"fmt"

	"github.com/simonvc/swipeledger/internal/ledger"
)

const txnColumns = `t.id, t.date, t.description, t.type, t.status, t.customer_id, t.wallet_id, t.card_type, t.related_transaction_id`

// AppendTransaction inserts the header unfinalized, adds the entries, then
// finalizes it. The finalize trigger refuses unbalanced transactions, and once
// finalized neither the header nor its entries can change.
func (s *SQLite) AppendTransaction(ctx context.Context, txn ledger.Transaction) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	m := txn.Metadata
	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, date, description, type, status, customer_id, wallet_id, card_type, related_transaction_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, formatTime(txn.Date), txn.Description, string(txn.Type), string(txn.Status),
		m.CustomerID, m.WalletID, string(m.CardType), m.RelatedTransactionID,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", uniqueViolation(err, ledger.ErrDuplicateTransaction, txn.ID))
	}

	for i, e := range txn.Entries {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO entries (transaction_id, account_id, debit, credit) VALUES (?, ?, ?, ?)`,
			txn.ID, e.AccountID, e.Debit.String(), e.Credit.String(),
		)
		if err != nil {
			return fmt.Errorf("insert entry %d: %w", i, err)
		}
	}

	_, err = tx.ExecContext(ctx, `UPDATE transactions SET finalized = 1 WHERE id = ?`, txn.ID)
	if err != nil {
		return fmt.Errorf("finalize transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLite) GetTransaction(ctx context.Context, id string) (*ledger.Transaction, error) {
	txns, err := s.queryTransactions(ctx, `t.id = ?`, []any{id}, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, ledger.ErrTransactionNotFound
	}
	return &txns[0], nil
}

func (s *SQLite) ListTransactions(ctx context.Context, filter TxnFilter) ([]ledger.Transaction, error) {
	where := `1=1`
	args := []any{}

	if filter.AccountID != "" {
		where += ` AND EXISTS (SELECT 1 FROM entries e WHERE e.transaction_id = t.id AND e.account_id = ?)`
		args = append(args, filter.AccountID)
	}
	if filter.CustomerID != "" {
		where += ` AND t.customer_id = ?`
		args = append(args, filter.CustomerID)
	}
	if filter.WalletID != "" {
		where += ` AND t.wallet_id = ?`
		args = append(args, filter.WalletID)
	}
	if filter.Type != "" {
		where += ` AND t.type = ?`
		args = append(args, string(filter.Type))
	}
	return s.queryTransactions(ctx, where, args, filter.Limit, filter.Offset)
}

// queryTransactions loads matching headers newest first, then their entries in
// a second query once the first result set is closed.
func (s *SQLite) queryTransactions(ctx context.Context, where string, args []any, limit, offset int) ([]ledger.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions t WHERE t.finalized = 1 AND ` + where + ` ORDER BY t.seq DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
		if offset > 0 {
			query += fmt.Sprintf(` OFFSET %d`, offset)
		}
	}

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	txns := []ledger.Transaction{}
	index := make(map[string]int)
	for rows.Next() {
		var txn ledger.Transaction
		var date, typ, status, card string
		m := &txn.Metadata
		if err := rows.Scan(&txn.ID, &date, &txn.Description, &typ, &status, &m.CustomerID, &m.WalletID, &card, &m.RelatedTransactionID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txn.Date = parseTime(date)
		txn.Type = ledger.TxnType(typ)
		txn.Status = ledger.Status(status)
		m.CardType = ledger.CardType(card)
		index[txn.ID] = len(txns)
		txns = append(txns, txn)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return txns, nil
	}

	entryQuery := `SELECT e.transaction_id, e.account_id, e.debit, e.credit
		FROM entries e JOIN transactions t ON t.id = e.transaction_id
		WHERE t.finalized = 1 AND ` + where + ` ORDER BY e.id`
	entryRows, err := s.reader.QueryContext(ctx, entryQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var txnID string
		var e ledger.Entry
		if err := entryRows.Scan(&txnID, &e.AccountID, &e.Debit, &e.Credit); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if i, ok := index[txnID]; ok {
			txns[i].Entries = append(txns[i].Entries, e)
		}
	}
	return txns, entryRows.Err()
}
