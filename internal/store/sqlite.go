package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/simonvc/swipeledger/internal/ledger"
	_ "modernc.org/sqlite"
)

// MemoryDSN names a shared-cache in-memory database. Every connection opened with
// the same name sees the same data, for as long as one connection stays open.
func MemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

// DefaultDSN is used when the sqlite driver is selected without a DSN.
var DefaultDSN = MemoryDSN("swipeledger")

// SQLite keeps the books in a SQLite database through a single-connection writer
// and a pool of readers.
type SQLite struct {
	writer *sql.DB
	reader *sql.DB
}

func withPragmas(dsn string) string {
	if dsn == "" {
		dsn = DefaultDSN
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
}

// OpenSQLite opens (or creates) the database and brings its schema up to date.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	dsn = withPragmas(dsn)

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(runtime.NumCPU())

	s := &SQLite{writer: writer, reader: reader}

	if err := s.migrate(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// NewSQLiteFromDB wraps already opened handles without migrating them.
func NewSQLiteFromDB(writer, reader *sql.DB) *SQLite {
	return &SQLite{writer: writer, reader: reader}
}

func (s *SQLite) Close() error {
	err1 := s.writer.Close()
	err2 := s.reader.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// Seed loads the whole seed in one transaction.
func (s *SQLite) Seed(ctx context.Context, seed ledger.Seed) error {
	var n int
	if err := s.reader.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if n > 0 {
		return nil
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, a := range seed.Accounts {
		if err := insertAccount(ctx, tx, a); err != nil {
			return err
		}
	}
	for _, c := range seed.Customers {
		if err := insertCustomer(ctx, tx, c); err != nil {
			return err
		}
	}
	for _, w := range seed.Wallets {
		if err := insertWallet(ctx, tx, w); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// uniqueViolation maps a UNIQUE constraint failure to the given sentinel.
func uniqueViolation(err error, sentinel error, id string) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %s", sentinel, id)
	}
	return err
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}
