package tabular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS sheet_rows (
	sheet TEXT    NOT NULL,
	n     INTEGER NOT NULL,
	cells JSONB   NOT NULL,
	PRIMARY KEY (sheet, n)
)
`

// advisoryKey namespaces this store's advisory lock so unrelated
// applications sharing the database do not collide.
const advisoryKeyName = "trackhub.workbook"

// PostgresStore is a Store backed by PostgreSQL via pgx.
type PostgresStore struct {
	pool    *pgxpool.Pool
	lockKey int64
}

// OpenPostgres connects to PostgreSQL and prepares the row schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrNotConfigured
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres store: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init postgres schema: %w", err)
	}

	h := fnv.New64a()
	h.Write([]byte(advisoryKeyName))
	return &PostgresStore{pool: pool, lockKey: int64(h.Sum64())}, nil
}

// Table implements Store.
func (s *PostgresStore) Table(_ context.Context, name string) (Table, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNotConfigured
	}
	return &pgTable{name: name, pool: s.pool}, nil
}

// Locker implements Store. The lock is a session-scoped advisory lock,
// so exclusion holds across processes sharing the database.
func (s *PostgresStore) Locker() Locker {
	return &pgLock{pool: s.pool, key: s.lockKey}
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

type pgLock struct {
	pool *pgxpool.Pool
	key  int64
}

// TryLock implements Locker by polling pg_try_advisory_lock until the
// wait deadline. The connection is pinned for the lock's lifetime since
// advisory locks are session-scoped.
func (l *pgLock) TryLock(ctx context.Context, wait time.Duration) (func(), bool) {
	deadline := time.Now().Add(wait)

	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return func() {}, false
	}

	for {
		var got bool
		if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, l.key).Scan(&got); err != nil {
			conn.Release()
			return func() {}, false
		}
		if got {
			return func() {
				_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, l.key)
				conn.Release()
			}, true
		}
		if time.Now().After(deadline) || ctx.Err() != nil {
			conn.Release()
			return func() {}, false
		}
		time.Sleep(100 * time.Millisecond)
	}
}

type pgTable struct {
	name string
	pool *pgxpool.Pool
}

func (t *pgTable) Name() string { return t.name }

func (t *pgTable) readRow(ctx context.Context, n int) ([]string, error) {
	var raw []byte
	err := t.pool.QueryRow(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = $1 AND n = $2`, t.name, n).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s row %d: %w", t.name, n, err)
	}
	var cells []string
	if err := json.Unmarshal(raw, &cells); err != nil {
		return nil, fmt.Errorf("decode %s row %d: %w", t.name, n, err)
	}
	return cells, nil
}

func (t *pgTable) writeRow(ctx context.Context, n int, values []string) error {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode %s row %d: %w", t.name, n, err)
	}
	_, err = t.pool.Exec(ctx,
		`INSERT INTO sheet_rows (sheet, n, cells) VALUES ($1, $2, $3)
		 ON CONFLICT (sheet, n) DO UPDATE SET cells = EXCLUDED.cells`,
		t.name, n, raw)
	if err != nil {
		return fmt.Errorf("write %s row %d: %w", t.name, n, err)
	}
	return nil
}

func (t *pgTable) Header(ctx context.Context) ([]string, error) {
	cells, err := t.readRow(ctx, 0)
	if err != nil {
		return nil, err
	}
	for i, h := range cells {
		cells[i] = strings.TrimSpace(h)
	}
	return cells, nil
}

func (t *pgTable) SetHeader(ctx context.Context, header []string) error {
	return t.writeRow(ctx, 0, header)
}

func (t *pgTable) RowCount(ctx context.Context) (int, error) {
	var count int
	err := t.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(n), 0) FROM sheet_rows WHERE sheet = $1 AND n >= 1`, t.name).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count %s rows: %w", t.name, err)
	}
	return count, nil
}

func (t *pgTable) Row(ctx context.Context, n, width int) ([]string, error) {
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

func (t *pgTable) WriteRow(ctx context.Context, n int, values []string) error {
	if n < 1 {
		return ErrNotConfigured
	}
	return t.writeRow(ctx, n, values)
}

func (t *pgTable) Rows(ctx context.Context) ([][]string, error) {
	header, err := t.Header(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := t.pool.Query(ctx,
		`SELECT n, cells FROM sheet_rows WHERE sheet = $1 AND n >= 1 ORDER BY n`, t.name)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", t.name, err)
	}
	defer rows.Close()

	byPos := make(map[int][]string)
	maxN, width := 0, len(header)
	for rows.Next() {
		var n int
		var raw []byte
		if err := rows.Scan(&n, &raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		var cells []string
		if err := json.Unmarshal(raw, &cells); err != nil {
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
