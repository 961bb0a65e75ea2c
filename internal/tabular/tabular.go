// Package tabular provides a generic header-mapped table store.
//
// A store holds named tables. Each table is an ordered sequence of data
// rows beneath a single header row; the header row defines a mapping from
// field name to column position. Columns are keyed by name and only ever
// appended, never reordered or removed, so schema growth is additive.
//
// Data rows are addressed by 1-based position. Position is NOT stable
// across external row deletion; callers holding a stale row number risk
// addressing the wrong record.
//
// Three backends implement the same model: an in-process map (tests and
// demos), SQLite (the default), and PostgreSQL. All cell values are
// strings; normalization and type coercion belong to the caller.
package tabular

import (
	"context"
	"errors"
	"time"
)

// ErrNotConfigured is returned when the store identifier or connection
// is unset or unusable.
var ErrNotConfigured = errors.New("tabular: store not configured")

// Store provides access to named tables over a shared backing workbook.
type Store interface {
	// Table returns the named table, creating it empty on first use.
	Table(ctx context.Context, name string) (Table, error)

	// Locker returns the store-wide write lock.
	Locker() Locker

	// Close releases backend resources.
	Close() error
}

// Table is a single named table.
//
// Row positions are 1-based: row 1 is the first data row under the header.
// Reads of positions past the last written row return empty rows rather
// than errors, mirroring how a sheet behaves.
type Table interface {
	// Name returns the table's name within the store.
	Name() string

	// Header returns the header row's field names, trimmed, in column order.
	Header(ctx context.Context) ([]string, error)

	// SetHeader replaces the header row.
	SetHeader(ctx context.Context, header []string) error

	// RowCount returns the position of the last written data row (0 when empty).
	RowCount(ctx context.Context) (int, error)

	// Row returns data row n padded or truncated to width cells.
	Row(ctx context.Context, n, width int) ([]string, error)

	// WriteRow replaces data row n with values (fixed-width row replace).
	WriteRow(ctx context.Context, n int, values []string) error

	// Rows returns all data rows in order, each padded to the widest row.
	Rows(ctx context.Context) ([][]string, error)
}

// Locker serializes read-decide-write sequences across writers of one store.
//
// The lock is best-effort: acquisition is bounded by wait, and the caller
// decides (by policy) whether to proceed unlocked when acquisition fails.
type Locker interface {
	// TryLock attempts to acquire the store-wide lock, waiting up to wait.
	// On success it returns a release func and true. On failure it returns
	// a no-op release and false.
	TryLock(ctx context.Context, wait time.Duration) (release func(), acquired bool)
}
