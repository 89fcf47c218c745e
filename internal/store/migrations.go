package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *SQLite) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return tx.Commit()
}

// Amounts are stored as decimal TEXT so they round-trip exactly.
func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			seq          INTEGER PRIMARY KEY AUTOINCREMENT,
			id           TEXT NOT NULL UNIQUE,
			name         TEXT NOT NULL,
			type         TEXT NOT NULL CHECK (type IN ('ASSET','LIABILITY','INCOME','EXPENSE')),
			category     TEXT NOT NULL CHECK (category IN ('Cash','Bank','Wallet','Customer','Revenue','Expense','Equity')),
			seed_balance TEXT NOT NULL DEFAULT '0',
			created_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_type ON accounts(type)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_category ON accounts(category)`,

		`CREATE TABLE IF NOT EXISTS customers (
			seq               INTEGER PRIMARY KEY AUTOINCREMENT,
			id                TEXT NOT NULL UNIQUE,
			name              TEXT NOT NULL,
			phone             TEXT NOT NULL DEFAULT '',
			rate_visa         TEXT NOT NULL,
			rate_master       TEXT NOT NULL,
			rate_amex         TEXT NOT NULL,
			rate_rupay        TEXT NOT NULL,
			ledger_account_id TEXT NOT NULL REFERENCES accounts(id),
			joined_at         TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_customers_phone ON customers(phone)`,

		`CREATE TABLE IF NOT EXISTS wallets (
			seq               INTEGER PRIMARY KEY AUTOINCREMENT,
			id                TEXT NOT NULL UNIQUE,
			name              TEXT NOT NULL,
			ledger_account_id TEXT NOT NULL REFERENCES accounts(id)
		)`,

		`CREATE TABLE IF NOT EXISTS wallet_pgs (
			wallet_id TEXT NOT NULL REFERENCES wallets(id),
			position  INTEGER NOT NULL,
			name      TEXT NOT NULL,
			visa      TEXT NOT NULL,
			master    TEXT NOT NULL,
			amex      TEXT NOT NULL,
			rupay     TEXT NOT NULL,
			PRIMARY KEY (wallet_id, name)
		)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			seq                    INTEGER PRIMARY KEY AUTOINCREMENT,
			id                     TEXT NOT NULL UNIQUE,
			date                   TEXT NOT NULL,
			description            TEXT NOT NULL DEFAULT '',
			type                   TEXT NOT NULL CHECK (type IN ('SWIPE_PAY','PAY_SWIPE','MONEY_TRANSFER','JOURNAL','RECONCILIATION')),
			status                 TEXT NOT NULL CHECK (status IN ('COMPLETED','PENDING','FAILED')),
			customer_id            TEXT NOT NULL DEFAULT '',
			wallet_id              TEXT NOT NULL DEFAULT '',
			card_type              TEXT NOT NULL DEFAULT '',
			related_transaction_id TEXT NOT NULL DEFAULT '',
			finalized              INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_customer ON transactions(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_wallet ON transactions(wallet_id)`,

		`CREATE TABLE IF NOT EXISTS entries (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			transaction_id TEXT NOT NULL REFERENCES transactions(id),
			account_id     TEXT NOT NULL,
			debit          TEXT NOT NULL,
			credit         TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_txn ON entries(transaction_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_account ON entries(account_id)`,

		// A transaction can only be finalized with at least 2 entries that balance within 0.01.
		`CREATE TRIGGER IF NOT EXISTS trg_check_balance
		BEFORE UPDATE OF finalized ON transactions
		WHEN NEW.finalized = 1
		BEGIN
			SELECT CASE
				WHEN (SELECT COUNT(*) FROM entries WHERE transaction_id = NEW.id) < 2
				THEN RAISE(ABORT, 'transaction must have at least 2 entries')
				WHEN (SELECT ABS(SUM(CAST(debit AS REAL)) - SUM(CAST(credit AS REAL)))
					FROM entries WHERE transaction_id = NEW.id) > 0.0100001
				THEN RAISE(ABORT, 'transaction entries do not balance')
			END;
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_immutable_transactions_update
		BEFORE UPDATE ON transactions
		WHEN OLD.finalized = 1
		BEGIN
			SELECT RAISE(ABORT, 'cannot modify a finalized transaction');
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_immutable_transactions_delete
		BEFORE DELETE ON transactions
		BEGIN
			SELECT RAISE(ABORT, 'transactions are append-only');
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_immutable_entries_insert
		BEFORE INSERT ON entries
		WHEN (SELECT finalized FROM transactions WHERE id = NEW.transaction_id) = 1
		BEGIN
			SELECT RAISE(ABORT, 'cannot add entries to a finalized transaction');
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_immutable_entries_delete
		BEFORE DELETE ON entries
		WHEN (SELECT finalized FROM transactions WHERE id = OLD.transaction_id) = 1
		BEGIN
			SELECT RAISE(ABORT, 'cannot remove entries from a finalized transaction');
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_immutable_entries_update
		BEFORE UPDATE ON entries
		WHEN (SELECT finalized FROM transactions WHERE id = OLD.transaction_id) = 1
		BEGIN
			SELECT RAISE(ABORT, 'cannot modify entries of a finalized transaction');
		END`,

		// Accounts are never removed and their identity never changes.
		`CREATE TRIGGER IF NOT EXISTS trg_accounts_no_delete
		BEFORE DELETE ON accounts
		BEGIN
			SELECT RAISE(ABORT, 'accounts cannot be deleted');
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_accounts_immutable
		BEFORE UPDATE ON accounts
		BEGIN
			SELECT RAISE(ABORT, 'accounts cannot be modified');
		END`,

		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}
