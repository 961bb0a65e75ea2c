package core

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/pantryworks/trackhub/internal/normalize"
	"github.com/pantryworks/trackhub/internal/schema"
	"github.com/pantryworks/trackhub/internal/tabular"
)

// HygieneReport flags client rows that need staff attention: rows missing
// critical fields, and groups of rows that share a normalized phone or
// email (duplicate suspects). Read-only.
type HygieneReport struct {
	RowsScanned      int              `json:"rowsScanned"`
	MissingCriticals []HygieneRow     `json:"missingCriticals"`
	DuplicateGroups  []DuplicateGroup `json:"duplicateGroups"`
}

// HygieneRow identifies one flagged client row.
type HygieneRow struct {
	RowID    string   `json:"rowId"`
	ClientID string   `json:"clientId"`
	Missing  []string `json:"missing"`
}

// DuplicateGroup lists rows sharing one normalized contact value.
type DuplicateGroup struct {
	Field  string   `json:"field"` // "phone" or "email"
	Value  string   `json:"value"`
	RowIDs []string `json:"rowIds"`
}

// Hygiene scans the Clients table and builds the report. A row is flagged
// missing-criticals when first name, last name, or ZIP is blank, or it has
// neither a phone nor an email.
func (s *Service) Hygiene(ctx context.Context) (*HygieneReport, error) {
	tbl, err := s.table(ctx, s.cfg.Sheets.Clients)
	if err != nil {
		return nil, err
	}
	_, ix, err := tabular.EnsureColumns(ctx, tbl, schema.ClientSearchColumns)
	if err != nil {
		return nil, err
	}
	rows, err := tbl.Rows(ctx)
	if err != nil {
		return nil, err
	}

	report := &HygieneReport{
		MissingCriticals: []HygieneRow{},
		DuplicateGroups:  []DuplicateGroup{},
	}
	byPhone := map[string][]string{}
	byEmail := map[string][]string{}

	for i, row := range rows {
		rowID := strconv.Itoa(i + 1)
		get := func(col string) string { return strings.TrimSpace(ix.Value(row, col)) }

		clientID := get(schema.ClientID)
		phone := normalize.Phone(firstNonEmpty(get(schema.PhoneNormalized), get(schema.Phone)))
		email := normalize.Email(firstNonEmpty(get(schema.EmailNormalized), get(schema.Email)))

		// Fully blank rows (reusable gaps) are not data quality problems.
		if clientID == "" && get(schema.FirstName) == "" && get(schema.LastName) == "" &&
			phone == "" && email == "" {
			continue
		}
		report.RowsScanned++

		var missing []string
		if get(schema.FirstName) == "" {
			missing = append(missing, schema.FirstName)
		}
		if get(schema.LastName) == "" {
			missing = append(missing, schema.LastName)
		}
		if get(schema.ZIP) == "" {
			missing = append(missing, schema.ZIP)
		}
		if phone == "" && email == "" {
			missing = append(missing, "Phone/Email")
		}
		if len(missing) > 0 {
			report.MissingCriticals = append(report.MissingCriticals, HygieneRow{
				RowID:    rowID,
				ClientID: clientID,
				Missing:  missing,
			})
		}

		if phone != "" {
			byPhone[phone] = append(byPhone[phone], rowID)
		}
		if email != "" {
			byEmail[email] = append(byEmail[email], rowID)
		}
	}

	report.DuplicateGroups = append(report.DuplicateGroups, duplicateGroups("phone", byPhone)...)
	report.DuplicateGroups = append(report.DuplicateGroups, duplicateGroups("email", byEmail)...)
	return report, nil
}

// duplicateGroups keeps only values shared by more than one row, in a
// stable order.
func duplicateGroups(field string, byValue map[string][]string) []DuplicateGroup {
	var groups []DuplicateGroup
	for value, rowIDs := range byValue {
		if len(rowIDs) > 1 {
			groups = append(groups, DuplicateGroup{Field: field, Value: value, RowIDs: rowIDs})
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	return groups
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
