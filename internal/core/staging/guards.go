// Package staging contains the pure business logic for staged change rows.
// Guards are pure functions that evaluate preconditions without side effects.
package staging

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a staging row.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusApplied  Status = "APPLIED"
)

// Supported action types.
const (
	ActionNew    = "NEW"
	ActionUpdate = "UPDATE"
)

// NoteSeparator joins successive source_note entries.
const NoteSeparator = " | "

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

// ReviewContext provides context for a reviewer decision on one row.
type ReviewContext struct {
	StagingID int64
	Status    Status
	Processed bool // the apply engine has already consumed the row
	Target    Status
}

// CanReview evaluates whether a row can be approved or rejected.
// Rules:
// - Target must be APPROVED or REJECTED (rows never return to PENDING)
// - Row must not have been consumed by apply
func CanReview(ctx ReviewContext) GuardResult {
	if ctx.Target != StatusApproved && ctx.Target != StatusRejected {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot move staging row %d to %s: review only approves or rejects", ctx.StagingID, ctx.Target),
		}
	}

	if ctx.Processed || ctx.Status == StatusApplied {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("staging row %d was already processed by apply (status %s)", ctx.StagingID, ctx.Status),
		}
	}

	return GuardResult{Allowed: true}
}

// ValidAction reports whether action is one intake accepts.
func ValidAction(action string) bool {
	switch strings.ToUpper(strings.TrimSpace(action)) {
	case ActionNew, ActionUpdate:
		return true
	}
	return false
}

// AppendNote appends msg to an existing source note, keeping prior content.
func AppendNote(prior, msg string) string {
	if strings.TrimSpace(prior) == "" {
		return msg
	}
	return prior + NoteSeparator + msg
}
