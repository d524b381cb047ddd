// Package batch contains the pure business logic for change batches.
package batch

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a batch.
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusApproved       Status = "APPROVED"
	StatusRejected       Status = "REJECTED"
	StatusApplied        Status = "APPLIED"
	StatusPartialApplied Status = "PARTIAL_APPLIED"

	// StatusNoop is only ever reported, never stored: it marks an apply
	// call that found no approved rows.
	StatusNoop Status = "NOOP"
)

// SourceType records where a batch came from.
type SourceType string

const (
	SourceFileUpload SourceType = "FILE_UPLOAD"
	SourceSystemAuto SourceType = "SYSTEM_AUTO"
	SourceManual     SourceType = "MANUAL"
)

// ParseSourceType validates s as a SourceType.
func ParseSourceType(s string) (SourceType, error) {
	switch st := SourceType(s); st {
	case SourceFileUpload, SourceSystemAuto, SourceManual:
		return st, nil
	}
	return "", fmt.Errorf("unknown source type %q (expected FILE_UPLOAD, SYSTEM_AUTO or MANUAL)", s)
}

// DeriveStatus computes a batch's post-apply status from its row outcomes.
func DeriveStatus(applied, rejected int) Status {
	switch {
	case applied == 0 && rejected == 0:
		return StatusNoop
	case applied == 0:
		return StatusRejected
	case rejected == 0:
		return StatusApplied
	default:
		return StatusPartialApplied
	}
}

// AutoBatchName names the batch that collects orphaned approvals.
func AutoBatchName(now time.Time) string {
	return "AUTO_APPROVED_" + now.Format("20060102_150405")
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// ReviewContext provides context for a reviewer decision on a whole batch.
type ReviewContext struct {
	BatchID       int64
	Status        Status
	ProcessedRows int // rows already consumed by apply
	Target        Status
}

// CanReview evaluates whether a batch can be approved or rejected.
// Rules:
// - Target must be APPROVED or REJECTED
// - Batch must still be in a review state
// - None of its rows may have been consumed by apply
func CanReview(ctx ReviewContext) GuardResult {
	if ctx.Target != StatusApproved && ctx.Target != StatusRejected {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot move batch %d to %s: review only approves or rejects", ctx.BatchID, ctx.Target),
		}
	}

	switch ctx.Status {
	case StatusPending, StatusApproved, StatusRejected:
	default:
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("batch %d is %s and can no longer be reviewed", ctx.BatchID, ctx.Status),
		}
	}

	if ctx.ProcessedRows > 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("batch %d was already applied (%d rows processed)", ctx.BatchID, ctx.ProcessedRows),
		}
	}

	return GuardResult{Allowed: true}
}
