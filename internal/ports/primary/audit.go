package primary

import "context"

// AuditService defines the primary port for reading the audit timeline.
type AuditService interface {
	// Timeline returns audit entries newest first.
	Timeline(ctx context.Context, filters AuditFilters) ([]*AuditEntry, error)
}

// AuditFilters contains filter options for the timeline. A zero Limit uses
// the configured default.
type AuditFilters struct {
	PersonID string
	BatchID  int64
	Limit    int
}

// AuditEntry represents one applied change at the port boundary.
type AuditEntry struct {
	ID            int64
	PersonID      string
	BatchID       int64
	ActionType    string
	ChangeSummary string
	AppliedAt     string
}
