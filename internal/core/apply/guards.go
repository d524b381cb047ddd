package apply

import (
	"fmt"

	"github.com/example/wds/internal/core/dimension"
	"github.com/example/wds/internal/core/staging"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// RowContext provides context for deciding whether a staged row can be applied.
type RowContext struct {
	Action       string // normalized
	RawAction    string // as stored, for messages
	PersonID     string // normalized, empty when absent
	PersonExists bool
}

// CanApplyRow evaluates whether a staged row may mutate the registry.
// Rules:
// - NEW needs a person_id that is not yet registered
// - UPDATE needs a person_id that is already registered
// - Any other action is unsupported
func CanApplyRow(ctx RowContext) GuardResult {
	switch ctx.Action {
	case staging.ActionNew:
		if ctx.PersonID == "" {
			return GuardResult{Allowed: false, Reason: "NEW record is missing person_id"}
		}
		if ctx.PersonExists {
			return GuardResult{Allowed: false, Reason: "person_id already exists for NEW action"}
		}
	case staging.ActionUpdate:
		if ctx.PersonID == "" {
			return GuardResult{Allowed: false, Reason: "UPDATE record is missing person_id"}
		}
		if !ctx.PersonExists {
			return GuardResult{Allowed: false, Reason: "person_id not found for UPDATE action"}
		}
	default:
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("Unsupported action_type: %s", ctx.RawAction)}
	}

	return GuardResult{Allowed: true}
}

// CanResolveName evaluates whether one dimension name is present after
// normalization. Placeholders such as "nan" count as missing.
func CanResolveName(k dimension.Kind, name string) GuardResult {
	if name == "" {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("Missing value for %s_name", k)}
	}
	return GuardResult{Allowed: true}
}
