// Package history keeps an append-only sqlite record of every transaction
// the ledger accepts. The ledger itself prunes archived days after three
// days; the history database is the durable trace left behind for dispute
// checks, outside the snapshot's retention window.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/charmbracelet/log"

	"github.com/onasu66/totalcash/internal/types"
)

// DB is the sqlite-backed history store.
type DB struct {
	db     *sql.DB
	logger *log.Logger
}

// Entry is one recorded transaction with the business date it was appended
// under.
type Entry struct {
	BusinessDate string
	types.Transaction
}

// New opens (creating if needed) the history database under dataDir.
func New(dataDir string, logger *log.Logger) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	d := &DB{db: db, logger: logger}
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return d, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			business_date TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			operator TEXT NOT NULL,
			store TEXT NOT NULL,
			content TEXT NOT NULL,
			amount INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create entries table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_entries_business_date ON entries(business_date)",
		"CREATE INDEX IF NOT EXISTS idx_entries_store ON entries(store)",
		"CREATE INDEX IF NOT EXISTS idx_entries_operator ON entries(operator)",
	}
	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// Record appends one transaction under its business date.
func (d *DB) Record(ctx context.Context, businessDate string, tx types.Transaction) error {
	d.logger.Debug("recording history entry",
		"date", businessDate, "operator", tx.Operator, "store", tx.Store, "amount", tx.Amount)

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO entries (business_date, recorded_at, operator, store, content, amount)
		VALUES (?, ?, ?, ?, ?, ?)
	`, businessDate, tx.Time, tx.Operator, tx.Store, tx.Content, tx.Amount)
	if err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}
	return nil
}

// Since returns all entries recorded on or after the given business date,
// newest first.
func (d *DB) Since(ctx context.Context, date string) ([]Entry, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT business_date, recorded_at, operator, store, content, amount
		FROM entries
		WHERE business_date >= ?
		ORDER BY business_date DESC, id DESC
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.BusinessDate, &e.Time, &e.Operator, &e.Store, &e.Content, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history entries: %w", err)
	}
	return entries, nil
}

// Count returns the number of recorded entries.
func (d *DB) Count() (int, error) {
	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count history entries: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}
