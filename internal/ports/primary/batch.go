package primary

import "context"

// BatchService defines the primary port for batch inspection and review.
type BatchService interface {
	// ListBatches retrieves batches, newest first.
	ListBatches(ctx context.Context, filters BatchFilters) ([]*Batch, error)

	// GetBatch retrieves a batch with its row counts.
	GetBatch(ctx context.Context, batchID int64) (*Batch, error)

	// Review approves or rejects a batch and all of its unconsumed rows.
	Review(ctx context.Context, batchID int64, decision string) (*BatchReviewResponse, error)
}

// Batch represents a change batch at the port boundary.
type Batch struct {
	ID         int64
	Name       string
	SourceType string
	Status     string
	CreatedAt  string
	RowCounts  map[string]int // staging rows by status
	AuditCount int
}

// BatchFilters contains filter options for listing batches.
type BatchFilters struct {
	Status string
	Limit  int
}

// BatchReviewResponse contains the result of reviewing a batch.
type BatchReviewResponse struct {
	BatchID     int64
	Status      string
	RowsChanged int64
}
