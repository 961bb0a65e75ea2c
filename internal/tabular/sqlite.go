package tabular

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// sqliteSchema stores every table as numbered rows of JSON-encoded cells.
// Row 0 is the header row; data rows start at 1. Keeping the row model in
// a single relation preserves the additive, header-driven schema: adding a
// column is a header rewrite, not a migration.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sheet_rows (
	sheet TEXT    NOT NULL,
	n     INTEGER NOT NULL,
	cells TEXT    NOT NULL,
	PRIMARY KEY (sheet, n)
);
`

// SQLiteStore is a Store backed by an embedded SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	lock *chanLock
}

// OpenSQLite opens (creating if needed) a SQLite-backed store at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNotConfigured
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	// modernc.org/sqlite serializes at the driver level; a single
	// connection avoids SQLITE_BUSY on concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db, lock: newChanLock()}, nil
}

// Table implements Store.
func (s *SQLiteStore) Table(_ context.Context, name string) (Table, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNotConfigured
	}
	return &sqliteTable{name: name, db: s.db}, nil
}

// Locker implements Store.
func (s *SQLiteStore) Locker() Locker { return s.lock }

// Close implements Store.
func (s *SQLiteStore) Close() error { return s.db.Close() }

type sqliteTable struct {
	name string
	db   *sql.DB
}

func (t *sqliteTable) Name() string { return t.name }

func (t *sqliteTable) readRow(ctx context.Context, n int) ([]string, error) {
	var raw string
	err := t.db.QueryRowContext(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = ? AND n = ?`, t.name, n).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s row %d: %w", t.name, n, err)
	}
	var cells []string
	if err := json.Unmarshal([]byte(raw), &cells); err != nil {
		return nil, fmt.Errorf("decode %s row %d: %w", t.name, n, err)
	}
	return cells, nil
}

func (t *sqliteTable) writeRow(ctx context.Context, n int, values []string) error {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode %s row %d: %w", t.name, n, err)
	}
	_, err = t.db.ExecContext(ctx,
		`INSERT INTO sheet_rows (sheet, n, cells) VALUES (?, ?, ?)
		 ON CONFLICT (sheet, n) DO UPDATE SET cells = excluded.cells`,
		t.name, n, string(raw))
	if err != nil {
		return fmt.Errorf("write %s row %d: %w", t.name, n, err)
	}
	return nil
}

func (t *sqliteTable) Header(ctx context.Context) ([]string, error) {
	cells, err := t.readRow(ctx, 0)
	if err != nil {
		return nil, err
	}
	for i, h := range cells {
		cells[i] = strings.TrimSpace(h)
	}
	return cells, nil
}

func (t *sqliteTable) SetHeader(ctx context.Context, header []string) error {
	return t.writeRow(ctx, 0, header)
}

func (t *sqliteTable) RowCount(ctx context.Context) (int, error) {
	var count int
	err := t.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(n), 0) FROM sheet_rows WHERE sheet = ? AND n >= 1`, t.name).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count %s rows: %w", t.name, err)
	}
	return count, nil
}

func (t *sqliteTable) Row(ctx context.Context, n, width int) ([]string, error) {
	out := make([]string, width)
	if n < 1 {
		return out, nil
	}
	cells, err := t.readRow(ctx, n)
	if err != nil {
		return nil, err
	}
	copy(out, cells)
	return out, nil
}

func (t *sqliteTable) WriteRow(ctx context.Context, n int, values []string) error {
	if n < 1 {
		return ErrNotConfigured
	}
	return t.writeRow(ctx, n, values)
}

func (t *sqliteTable) Rows(ctx context.Context) ([][]string, error) {
	header, err := t.Header(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := t.db.QueryContext(ctx,
		`SELECT n, cells FROM sheet_rows WHERE sheet = ? AND n >= 1 ORDER BY n`, t.name)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", t.name, err)
	}
	defer rows.Close()

	byPos := make(map[int][]string)
	maxN, width := 0, len(header)
	for rows.Next() {
		var n int
		var raw string
		if err := rows.Scan(&n, &raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("decode %s row %d: %w", t.name, n, err)
		}
		byPos[n] = cells
		if n > maxN {
			maxN = n
		}
		if len(cells) > width {
			width = len(cells)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", t.name, err)
	}

	out := make([][]string, maxN)
	for i := 1; i <= maxN; i++ {
		row := make([]string, width)
		copy(row, byPos[i])
		out[i-1] = row
	}
	return out, nil
}
