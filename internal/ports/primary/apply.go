package primary

import "context"

// ApplyService defines the primary port for committing approved changes to
// the canonical registry. It is the only port that mutates persons.
type ApplyService interface {
	// ApplyBatch applies the APPROVED rows of one batch atomically.
	ApplyBatch(ctx context.Context, batchID int64) (*BatchResult, error)

	// ApplyApproved applies batchID when given. Otherwise it first groups
	// orphaned approved rows into a new SYSTEM_AUTO batch, then applies every
	// APPROVED batch in creation order.
	ApplyApproved(ctx context.Context, batchID *int64) ([]*BatchResult, error)
}

// BatchResult summarizes one batch apply.
type BatchResult struct {
	BatchID      int64
	TotalRows    int
	AppliedRows  int
	RejectedRows int
	BatchStatus  string
}
