package core

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pantryworks/trackhub/internal/normalize"
	"github.com/pantryworks/trackhub/internal/schema"
	"github.com/pantryworks/trackhub/internal/tabular"
)

// AuditEntry is one row of the append-only audit trail.
type AuditEntry struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	EntityID  string `json:"entityId"`
	Actor     string `json:"actor"`
	Summary   string `json:"summary"`
	CreatedAt string `json:"createdAt"`
}

// recordAudit appends one entry to the audit table. Best-effort: a failed
// audit write never fails the operation it describes, it is only logged.
func (s *Service) recordAudit(ctx context.Context, action, entityID, summary string) {
	tbl, err := s.table(ctx, s.cfg.Sheets.Audit)
	if err != nil {
		s.log.Warn("audit write skipped", slog.Any("error", err))
		return
	}
	header, ix, err := tabular.EnsureColumns(ctx, tbl, schema.AuditColumns)
	if err != nil {
		s.log.Warn("audit write skipped", slog.Any("error", err))
		return
	}
	count, err := tbl.RowCount(ctx)
	if err != nil {
		s.log.Warn("audit write skipped", slog.Any("error", err))
		return
	}

	row := make([]string, len(header))
	applyWrite(row, ix, Record{
		schema.AuditID:        uuid.New().String(),
		schema.AuditAction:    action,
		schema.AuditEntityID:  entityID,
		schema.AuditActor:     ActorFromContext(ctx),
		schema.AuditSummary:   summary,
		schema.AuditCreatedAt: normalize.Timestamp(s.now()),
	})
	if err := tbl.WriteRow(ctx, count+1, row); err != nil {
		s.log.Warn("audit write failed", slog.String("action", action), slog.Any("error", err))
	}
}

// AuditTrail returns up to limit audit entries, newest first.
// A non-positive limit returns everything.
func (s *Service) AuditTrail(ctx context.Context, limit int) ([]AuditEntry, error) {
	tbl, err := s.table(ctx, s.cfg.Sheets.Audit)
	if err != nil {
		return nil, err
	}
	_, ix, err := tabular.EnsureColumns(ctx, tbl, schema.AuditColumns)
	if err != nil {
		return nil, err
	}
	rows, err := tbl.Rows(ctx)
	if err != nil {
		return nil, err
	}

	entries := []AuditEntry{}
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if ix.Value(row, schema.AuditID) == "" {
			continue
		}
		entries = append(entries, AuditEntry{
			ID:        ix.Value(row, schema.AuditID),
			Action:    ix.Value(row, schema.AuditAction),
			EntityID:  ix.Value(row, schema.AuditEntityID),
			Actor:     ix.Value(row, schema.AuditActor),
			Summary:   ix.Value(row, schema.AuditSummary),
			CreatedAt: ix.Value(row, schema.AuditCreatedAt),
		})
		if limit > 0 && len(entries) >= limit {
			break
		}
	}
	return entries, nil
}
