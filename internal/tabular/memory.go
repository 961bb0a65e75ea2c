package tabular

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-process Store. It is safe for concurrent use and
// intended for tests and single-node demos.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]*memTable
	lock   *chanLock
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string]*memTable),
		lock:   newChanLock(),
	}
}

// Table implements Store.
func (s *MemoryStore) Table(_ context.Context, name string) (Table, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNotConfigured
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[name]
	if !ok {
		t = &memTable{name: name, store: s}
		s.tables[name] = t
	}
	return t, nil
}

// Locker implements Store.
func (s *MemoryStore) Locker() Locker { return s.lock }

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

type memTable struct {
	name   string
	store  *MemoryStore
	header []string
	rows   [][]string
}

func (t *memTable) Name() string { return t.name }

func (t *memTable) Header(context.Context) ([]string, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	out := make([]string, len(t.header))
	for i, h := range t.header {
		out[i] = strings.TrimSpace(h)
	}
	return out, nil
}

func (t *memTable) SetHeader(_ context.Context, header []string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.header = append([]string(nil), header...)
	return nil
}

func (t *memTable) RowCount(context.Context) (int, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return len(t.rows), nil
}

func (t *memTable) Row(_ context.Context, n, width int) ([]string, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	out := make([]string, width)
	if n >= 1 && n <= len(t.rows) {
		copy(out, t.rows[n-1])
	}
	return out, nil
}

func (t *memTable) WriteRow(_ context.Context, n int, values []string) error {
	if n < 1 {
		return ErrNotConfigured
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for len(t.rows) < n {
		t.rows = append(t.rows, nil)
	}
	t.rows[n-1] = append([]string(nil), values...)
	return nil
}

func (t *memTable) Rows(context.Context) ([][]string, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	width := len(t.header)
	for _, r := range t.rows {
		if len(r) > width {
			width = len(r)
		}
	}
	out := make([][]string, len(t.rows))
	for i, r := range t.rows {
		row := make([]string, width)
		copy(row, r)
		out[i] = row
	}
	return out, nil
}
