package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/simonvc/swipeledger/internal/ledger"
)

const accountColumns = `id, name, type, category, seed_balance, created_at`

func insertAccount(ctx context.Context, db execer, acct ledger.Account) error {
	if err := acct.Validate(); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, type, category, seed_balance, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		acct.ID, acct.Name, string(acct.Type), string(acct.Category), acct.SeedBalance.String(), formatTime(acct.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", uniqueViolation(err, ledger.ErrDuplicateAccount, acct.ID))
	}
	return nil
}

func (s *SQLite) InsertAccount(ctx context.Context, acct ledger.Account) error {
	return insertAccount(ctx, s.writer, acct)
}

func (s *SQLite) GetAccount(ctx context.Context, id string) (*ledger.Account, error) {
	row := s.reader.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	acct, err := scanAccount(row)
	if err != nil {
		return nil, notFound(err, ledger.ErrAccountNotFound)
	}
	return acct, nil
}

func (s *SQLite) ListAccounts(ctx context.Context, filter AccountFilter) ([]ledger.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE 1=1`
	args := []any{}

	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(filter.Type))
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, string(filter.Category))
	}
	query += ` ORDER BY seq`

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []ledger.Account{}
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acct)
	}
	return accounts, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*ledger.Account, error) {
	var acct ledger.Account
	var typ, category, createdAt string
	err := row.Scan(&acct.ID, &acct.Name, &typ, &category, &acct.SeedBalance, &createdAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	acct.Type = ledger.AccountType(typ)
	acct.Category = ledger.Category(category)
	acct.CreatedAt = parseTime(createdAt)
	return &acct, nil
}
