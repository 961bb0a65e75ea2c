package schema

// Audit trail column headers.
const (
	AuditID        = "AuditID"
	AuditAction    = "Action"
	AuditEntityID  = "EntityID"
	AuditActor     = "Actor"
	AuditSummary   = "Summary"
	AuditCreatedAt = "CreatedAt"
)

// AuditColumns is the audit column set in header order. Rows are append-only.
var AuditColumns = []string{
	AuditID, AuditAction, AuditEntityID, AuditActor, AuditSummary, AuditCreatedAt,
}
