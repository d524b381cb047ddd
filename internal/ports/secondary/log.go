package secondary

import "context"

// AuditRepository defines the secondary port for the append-only audit timeline.
// There is no update or delete: the store refuses both.
type AuditRepository interface {
	// Append records one applied change and sets its ID.
	Append(ctx context.Context, entry *AuditRecord) error

	// List returns entries newest first.
	List(ctx context.Context, filters AuditFilters) ([]*AuditRecord, error)

	// CountByBatch returns the number of entries written for a batch.
	CountByBatch(ctx context.Context, batchID int64) (int, error)
}

// AuditRecord represents an audit entry as stored in persistence.
type AuditRecord struct {
	ID            int64
	PersonID      string
	BatchID       int64
	ActionType    string
	ChangeSummary string
	AppliedAt     string
}

// AuditFilters contains filter options for querying the timeline.
type AuditFilters struct {
	PersonID string
	BatchID  int64
	Limit    int
}
