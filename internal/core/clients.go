package core

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pantryworks/trackhub/internal/logging"
	"github.com/pantryworks/trackhub/internal/normalize"
	"github.com/pantryworks/trackhub/internal/schema"
	"github.com/pantryworks/trackhub/internal/tabular"
)

var clientIDPattern = regexp.MustCompile(`^C-(\d{8})-(\d{3})$`)

// clientWritableColumns are the canonical columns a save payload may set
// directly. Identity and audit stamps are managed by the engine.
var clientWritableColumns = func() []string {
	skip := map[string]bool{
		schema.ClientID:  true,
		schema.CreatedAt: true,
		schema.CreatedBy: true,
		schema.UpdatedAt: true,
		schema.UpdatedBy: true,
	}
	cols := make([]string, 0, len(schema.ClientColumns))
	for _, c := range schema.ClientColumns {
		if !skip[c] {
			cols = append(cols, c)
		}
	}
	return cols
}()

// coerceAliases maps shorthand (camelCase) payload keys onto canonical
// headers without clobbering canonical keys already present, then derives
// the normalized phone/email fields.
func coerceAliases(p Record) Record {
	out := make(Record, len(p))
	for k, v := range p {
		out[k] = v
	}
	for alias, canonical := range schema.ClientAliases {
		if v, ok := p[alias]; ok {
			if _, taken := out[canonical]; !taken {
				out[canonical] = v
			}
		}
	}

	if v, ok := out[schema.State]; ok {
		out[schema.State] = normalize.State(v)
	}

	if v, ok := out[schema.PhoneNormalized]; ok {
		out[schema.PhoneNormalized] = normalize.Phone(v)
	} else if v, ok := out[schema.Phone]; ok {
		out[schema.PhoneNormalized] = normalize.Phone(v)
	}

	if v, ok := out[schema.EmailNormalized]; ok {
		out[schema.EmailNormalized] = normalize.Email(v)
	} else if v, ok := out[schema.Email]; ok {
		out[schema.EmailNormalized] = normalize.Email(v)
	}

	return out
}

// rowMatchesClient reports whether a data row matches any of the query
// keys: case-insensitive ClientID, normalized phone, or normalized email.
func rowMatchesClient(ix tabular.Index, row []string, clientID, phoneN, emailN string) bool {
	if clientID != "" {
		if strings.EqualFold(strings.TrimSpace(ix.Value(row, schema.ClientID)), clientID) {
			return true
		}
	}
	if phoneN != "" {
		cell := ix.Value(row, schema.PhoneNormalized)
		if cell == "" {
			cell = ix.Value(row, schema.Phone)
		}
		if normalize.Phone(cell) == phoneN {
			return true
		}
	}
	if emailN != "" {
		cell := ix.Value(row, schema.EmailNormalized)
		if cell == "" {
			cell = ix.Value(row, schema.Email)
		}
		if normalize.Email(cell) == emailN {
			return true
		}
	}
	return false
}

// findClientRow returns the 1-based row of the first match, or 0.
// Scan order is row order; the first matching row wins.
func findClientRow(ix tabular.Index, rows [][]string, clientID, phoneN, emailN string) int {
	for i, row := range rows {
		if rowMatchesClient(ix, row, clientID, phoneN, emailN) {
			return i + 1
		}
	}
	return 0
}

// clientRecord materializes a data row into the full client field set.
func clientRecord(ix tabular.Index, row []string, rowNum int) Record {
	rec := Record{"RowId": strconv.Itoa(rowNum)}
	for _, col := range schema.ClientColumns {
		rec[col] = ix.Value(row, col)
	}
	if rec[schema.PhoneNormalized] == "" {
		rec[schema.PhoneNormalized] = rec[schema.Phone]
	}
	rec[schema.PhoneNormalized] = normalize.Phone(rec[schema.PhoneNormalized])
	if rec[schema.EmailNormalized] == "" {
		rec[schema.EmailNormalized] = rec[schema.Email]
	}
	rec[schema.EmailNormalized] = normalize.Email(rec[schema.EmailNormalized])
	rec[schema.ConsentEmail] = normalize.FormatBool(normalize.Bool(rec[schema.ConsentEmail]))
	rec[schema.ConsentSMS] = normalize.FormatBool(normalize.Bool(rec[schema.ConsentSMS]))
	return rec
}

// SearchClients finds the first client row matching any of the query keys.
// An all-empty query returns not-found without scanning.
func (s *Service) SearchClients(ctx context.Context, q ClientQuery) (SearchResult, error) {
	clientID := strings.TrimSpace(q.ClientID)
	phoneN := normalize.Phone(q.PhoneRaw)
	emailN := normalize.Email(q.EmailRaw)
	if clientID == "" && phoneN == "" && emailN == "" {
		return SearchResult{}, nil
	}

	tbl, err := s.table(ctx, s.cfg.Sheets.Clients)
	if err != nil {
		return SearchResult{}, err
	}
	_, ix, err := tabular.EnsureColumns(ctx, tbl, schema.ClientSearchColumns)
	if err != nil {
		return SearchResult{}, err
	}
	rows, err := tbl.Rows(ctx)
	if err != nil {
		return SearchResult{}, err
	}

	if n := findClientRow(ix, rows, clientID, phoneN, emailN); n > 0 {
		logging.FromContext(ctx).Debug("client search hit",
			slog.Int("row", n), slog.String("client_id", ix.Value(rows[n-1], schema.ClientID)))
		return SearchResult{Found: true, Client: clientRecord(ix, rows[n-1], n)}, nil
	}
	return SearchResult{}, nil
}

// SaveClient inserts or updates a client record. The target row is the
// explicit RowId when given, else an ID match, else a phone/email match;
// with no target the record is inserted into the first reusable row under
// a freshly generated ClientID.
//
// The minimum-field invariant (first+last name, or a phone or email) is
// enforced on insert only.
func (s *Service) SaveClient(ctx context.Context, payload Record) (SaveResult, error) {
	p := coerceAliases(payload)
	phoneN := p[schema.PhoneNormalized]
	emailN := p[schema.EmailNormalized]

	tbl, err := s.table(ctx, s.cfg.Sheets.Clients)
	if err != nil {
		return SaveResult{}, err
	}
	header, ix, err := tabular.EnsureColumns(ctx, tbl, schema.ClientColumns)
	if err != nil {
		return SaveResult{}, err
	}

	// Row targeting before the lock.
	target := 0
	if n, convErr := strconv.Atoi(strings.TrimSpace(p["RowId"])); convErr == nil && n >= 1 {
		target = n
	}
	if target == 0 {
		rows, err := tbl.Rows(ctx)
		if err != nil {
			return SaveResult{}, err
		}
		if id := strings.TrimSpace(p[schema.ClientID]); id != "" {
			target = findClientRow(ix, rows, id, "", "")
		}
		if target == 0 {
			target = findClientRow(ix, rows, "", phoneN, emailN)
		}
	}

	hasName := strings.TrimSpace(p[schema.FirstName]) != "" && strings.TrimSpace(p[schema.LastName]) != ""
	if target == 0 && !hasName && phoneN == "" && emailN == "" {
		return SaveResult{}, validationErr("insufficient data to create client (provide name or phone/email)")
	}

	var result SaveResult
	err = s.withLock(ctx, func() error {
		now := s.now()
		actor := ActorFromContext(ctx)
		write := clientWriteSet(p, phoneN, emailN, now, actor)

		if target == 0 {
			// Recheck under the lock: a concurrent writer may have inserted
			// between the search above and lock acquisition.
			fresh, err := tbl.Rows(ctx)
			if err != nil {
				return err
			}
			target = findClientRow(ix, fresh, "", phoneN, emailN)
		}

		requestedID := strings.TrimSpace(p[schema.ClientID])
		if strings.EqualFold(requestedID, "dummy") {
			requestedID = ""
		}

		if target >= 1 {
			row, err := tbl.Row(ctx, target, len(header))
			if err != nil {
				return err
			}
			id := requestedID
			if id == "" {
				id = strings.TrimSpace(ix.Value(row, schema.ClientID))
			}
			write[schema.ClientID] = id
			applyWrite(row, ix, write)
			if err := tbl.WriteRow(ctx, target, row); err != nil {
				return err
			}
			result = SaveResult{Action: ActionUpdated, RowID: strconv.Itoa(target), ClientID: id}
			s.recordAudit(ctx, "client_updated", id, fmt.Sprintf("row %d", target))
			return nil
		}

		id := requestedID
		if id == "" {
			rows, err := tbl.Rows(ctx)
			if err != nil {
				return err
			}
			id = generateClientID(ix, rows, now)
		}
		write[schema.ClientID] = id
		write[schema.CreatedAt] = normalize.Timestamp(now)
		write[schema.CreatedBy] = actor

		insertRow, err := tabular.FirstReusableRow(ctx, tbl, ix, schema.ClientProbeColumns)
		if err != nil {
			return err
		}
		row := make([]string, len(header))
		applyWrite(row, ix, write)
		if err := tbl.WriteRow(ctx, insertRow, row); err != nil {
			return err
		}
		result = SaveResult{Action: ActionInserted, RowID: strconv.Itoa(insertRow), ClientID: id}
		s.recordAudit(ctx, "client_inserted", id, fmt.Sprintf("row %d", insertRow))
		return nil
	})
	if err != nil {
		return SaveResult{}, err
	}

	logging.FromContext(ctx).Info("client saved",
		slog.String("action", string(result.Action)),
		slog.String("client_id", result.ClientID),
		slog.String("row", result.RowID))
	return result, nil
}

// clientWriteSet builds the header-keyed values a save will write:
// payload fields that are present, derived normalized contact fields,
// coerced consent flags, and the update stamps.
func clientWriteSet(p Record, phoneN, emailN string, now time.Time, actor string) Record {
	write := Record{}
	for _, col := range clientWritableColumns {
		if v, ok := p[col]; ok {
			write[col] = v
		}
	}

	if _, ok := write[schema.Phone]; !ok && phoneN != "" {
		write[schema.Phone] = phoneN
	}
	if _, ok := p[schema.PhoneNormalized]; ok || phoneN != "" {
		write[schema.PhoneNormalized] = phoneN
	}
	if _, ok := write[schema.Email]; !ok && emailN != "" {
		write[schema.Email] = emailN
	}
	if _, ok := p[schema.EmailNormalized]; ok || emailN != "" {
		write[schema.EmailNormalized] = emailN
	}

	if v, ok := p[schema.ConsentEmail]; ok {
		write[schema.ConsentEmail] = normalize.FormatBool(normalize.Bool(v))
	}
	if v, ok := p[schema.ConsentSMS]; ok {
		write[schema.ConsentSMS] = normalize.FormatBool(normalize.Bool(v))
	}

	write[schema.LastSeenAt] = normalize.Timestamp(now)
	write[schema.UpdatedAt] = normalize.Timestamp(now)
	write[schema.UpdatedBy] = actor
	return write
}

// applyWrite sets header-keyed values into a fixed-width row in place.
// Unknown names are skipped, matching the header-driven schema model.
func applyWrite(row []string, ix tabular.Index, write Record) {
	for name, v := range write {
		if i, ok := ix.Lookup(name); ok && i < len(row) {
			row[i] = v
		}
	}
}

// generateClientID returns the next C-YYYYMMDD-NNN for the given day:
// one past the highest sequence already present among that day's IDs.
func generateClientID(ix tabular.Index, rows [][]string, now time.Time) string {
	dayKey := now.Format("20060102")
	seq := 1
	for _, row := range rows {
		m := clientIDPattern.FindStringSubmatch(strings.TrimSpace(ix.Value(row, schema.ClientID)))
		if m == nil || m[1] != dayKey {
			continue
		}
		if n, err := strconv.Atoi(m[2]); err == nil && n >= seq {
			seq = n + 1
		}
	}
	return fmt.Sprintf("C-%s-%03d", dayKey, seq)
}
