package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/simonvc/swipeledger/internal/ledger"
)

const customerColumns = `id, name, phone, rate_visa, rate_master, rate_amex, rate_rupay, ledger_account_id, joined_at`

func insertCustomer(ctx context.Context, db execer, c ledger.Customer) error {
	r := c.CommissionRates
	_, err := db.ExecContext(ctx,
		`INSERT INTO customers (`+customerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Phone, r.Visa.String(), r.Master.String(), r.Amex.String(), r.Rupay.String(),
		c.LedgerAccountID, formatTime(c.JoinedAt),
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", uniqueViolation(err, ledger.ErrDuplicateCustomer, c.ID))
	}
	return nil
}

// CreateCustomer writes the account and the customer in one SQL transaction.
func (s *SQLite) CreateCustomer(ctx context.Context, acct ledger.Account, cust ledger.Customer) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := insertAccount(ctx, tx, acct); err != nil {
		return err
	}
	if err := insertCustomer(ctx, tx, cust); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLite) GetCustomer(ctx context.Context, id string) (*ledger.Customer, error) {
	row := s.reader.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	c, err := scanCustomer(row)
	if err != nil {
		return nil, notFound(err, ledger.ErrCustomerNotFound)
	}
	return c, nil
}

func (s *SQLite) FindCustomerByPhone(ctx context.Context, phone string) (*ledger.Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ledger.ErrCustomerNotFound
	}
	row := s.reader.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE phone = ? ORDER BY seq LIMIT 1`, phone)
	c, err := scanCustomer(row)
	if err != nil {
		return nil, notFound(err, ledger.ErrCustomerNotFound)
	}
	return c, nil
}

func (s *SQLite) ListCustomers(ctx context.Context) ([]ledger.Customer, error) {
	rows, err := s.reader.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []ledger.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (s *SQLite) UpdateCustomer(ctx context.Context, c ledger.Customer) error {
	r := c.CommissionRates
	res, err := s.writer.ExecContext(ctx,
		`UPDATE customers SET name = ?, phone = ?, rate_visa = ?, rate_master = ?, rate_amex = ?, rate_rupay = ? WHERE id = ?`,
		c.Name, c.Phone, r.Visa.String(), r.Master.String(), r.Amex.String(), r.Rupay.String(), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrCustomerNotFound
	}
	return nil
}

func scanCustomer(row scanner) (*ledger.Customer, error) {
	var c ledger.Customer
	var joinedAt string
	r := &c.CommissionRates
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &r.Visa, &r.Master, &r.Amex, &r.Rupay, &c.LedgerAccountID, &joinedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	c.JoinedAt = parseTime(joinedAt)
	return &c, nil
}

func insertWallet(ctx context.Context, db execer, w ledger.Wallet) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO wallets (id, name, ledger_account_id) VALUES (?, ?, ?)`,
		w.ID, w.Name, w.LedgerAccountID,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", uniqueViolation(err, ledger.ErrDuplicateWallet, w.ID))
	}
	return insertPGs(ctx, db, w)
}

func insertPGs(ctx context.Context, db execer, w ledger.Wallet) error {
	for i, pg := range w.PGs {
		c := pg.Charges
		_, err := db.ExecContext(ctx,
			`INSERT INTO wallet_pgs (wallet_id, position, name, visa, master, amex, rupay) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			w.ID, i, pg.Name, c.Visa.String(), c.Master.String(), c.Amex.String(), c.Rupay.String(),
		)
		if err != nil {
			return fmt.Errorf("insert payment gateway %d: %w", i, uniqueViolation(err, ledger.ErrDuplicatePG, pg.Name))
		}
	}
	return nil
}

// CreateWallet writes the account, the wallet and its gateways in one SQL transaction.
func (s *SQLite) CreateWallet(ctx context.Context, acct ledger.Account, wallet ledger.Wallet) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := insertAccount(ctx, tx, acct); err != nil {
		return err
	}
	if err := insertWallet(ctx, tx, wallet); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLite) GetWallet(ctx context.Context, id string) (*ledger.Wallet, error) {
	var w ledger.Wallet
	err := s.reader.QueryRowContext(ctx,
		`SELECT id, name, ledger_account_id FROM wallets WHERE id = ?`, id,
	).Scan(&w.ID, &w.Name, &w.LedgerAccountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrWalletNotFound
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}

	pgs, err := s.listPGs(ctx, id)
	if err != nil {
		return nil, err
	}
	w.PGs = pgs[id]
	return &w, nil
}

func (s *SQLite) ListWallets(ctx context.Context) ([]ledger.Wallet, error) {
	rows, err := s.reader.QueryContext(ctx, `SELECT id, name, ledger_account_id FROM wallets ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	wallets := []ledger.Wallet{}
	for rows.Next() {
		var w ledger.Wallet
		if err := rows.Scan(&w.ID, &w.Name, &w.LedgerAccountID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pgs, err := s.listPGs(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range wallets {
		wallets[i].PGs = pgs[wallets[i].ID]
	}
	return wallets, nil
}

// listPGs loads gateways grouped by wallet, for one wallet or all of them.
func (s *SQLite) listPGs(ctx context.Context, walletID string) (map[string][]ledger.PGConfig, error) {
	query := `SELECT wallet_id, name, visa, master, amex, rupay FROM wallet_pgs`
	args := []any{}
	if walletID != "" {
		query += ` WHERE wallet_id = ?`
		args = append(args, walletID)
	}
	query += ` ORDER BY wallet_id, position`

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payment gateways: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]ledger.PGConfig)
	for rows.Next() {
		var id string
		var pg ledger.PGConfig
		c := &pg.Charges
		if err := rows.Scan(&id, &pg.Name, &c.Visa, &c.Master, &c.Amex, &c.Rupay); err != nil {
			return nil, fmt.Errorf("scan payment gateway: %w", err)
		}
		out[id] = append(out[id], pg)
	}
	return out, rows.Err()
}

// UpdateWallet rewrites the wallet's name and its gateway list.
func (s *SQLite) UpdateWallet(ctx context.Context, w ledger.Wallet) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE wallets SET name = ? WHERE id = ?`, w.Name, w.ID)
	if err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrWalletNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM wallet_pgs WHERE wallet_id = ?`, w.ID); err != nil {
		return fmt.Errorf("clear payment gateways: %w", err)
	}
	if err := insertPGs(ctx, tx, w); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
