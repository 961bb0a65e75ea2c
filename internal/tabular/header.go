package tabular

import (
	"context"
	"fmt"
	"strings"
)

// Index maps trimmed header names to their 0-based column positions.
// Blank header cells are absent from the index.
type Index map[string]int

// NewIndex builds an Index from a header row.
// Names are trimmed; the first occurrence of a duplicate name wins.
func NewIndex(header []string) Index {
	ix := make(Index, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, exists := ix[h]; !exists {
			ix[h] = i
		}
	}
	return ix
}

// Lookup resolves a field name to its column position.
// Exact match first, then a case/whitespace-insensitive scan.
func (ix Index) Lookup(name string) (int, bool) {
	if i, ok := ix[name]; ok {
		return i, true
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	for k, i := range ix {
		if strings.ToLower(strings.TrimSpace(k)) == needle {
			return i, true
		}
	}
	return 0, false
}

// Value returns the cell for the named field, or "" when the field is
// absent from the index or the row is too short.
func (ix Index) Value(row []string, name string) string {
	i, ok := ix.Lookup(name)
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// EnsureColumns appends any missing required field names to the end of the
// header row, never reordering existing columns. An empty table gets its
// header initialized from scratch. Returns the fresh header and index.
//
// Presence is checked case/whitespace-insensitively so a manually retitled
// column ("clientid") is not duplicated.
func EnsureColumns(ctx context.Context, t Table, required []string) ([]string, Index, error) {
	header, err := t.Header(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %s: %w", t.Name(), err)
	}

	has := func(name string) bool {
		needle := strings.ToLower(strings.TrimSpace(name))
		for _, h := range header {
			if strings.ToLower(strings.TrimSpace(h)) == needle {
				return true
			}
		}
		return false
	}

	changed := false
	for _, col := range required {
		if !has(col) {
			header = append(header, strings.TrimSpace(col))
			changed = true
		}
	}

	if changed {
		if err := t.SetHeader(ctx, header); err != nil {
			return nil, nil, fmt.Errorf("write header of %s: %w", t.Name(), err)
		}
	}
	return header, NewIndex(header), nil
}

// FirstReusableRow scans data rows top to bottom and returns the first
// position where every probe field is empty, else one past the last row.
// This reuses manually blanked rows instead of always appending.
func FirstReusableRow(ctx context.Context, t Table, ix Index, probe []string) (int, error) {
	rows, err := t.Rows(ctx)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", t.Name(), err)
	}
	for i, row := range rows {
		empty := true
		for _, name := range probe {
			if ix.Value(row, name) != "" {
				empty = false
				break
			}
		}
		if empty {
			return i + 1, nil
		}
	}
	return len(rows) + 1, nil
}
