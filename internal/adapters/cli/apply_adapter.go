// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/wds/internal/ports/primary"
)

// ApplyAdapter is a thin adapter that translates CLI operations to ApplyService calls.
type ApplyAdapter struct {
	service primary.ApplyService
	out     io.Writer
}

// NewApplyAdapter creates a new ApplyAdapter with the given service.
func NewApplyAdapter(service primary.ApplyService, out io.Writer) *ApplyAdapter {
	return &ApplyAdapter{
		service: service,
		out:     out,
	}
}

// Apply applies one batch when batchID is set, otherwise every approved batch.
// Results gathered before a failure are still printed.
func (a *ApplyAdapter) Apply(ctx context.Context, batchID *int64) ([]*primary.BatchResult, error) {
	results, err := a.service.ApplyApproved(ctx, batchID)
	if len(results) == 0 && err == nil {
		fmt.Fprintln(a.out, "No approved batches to apply")
		return results, nil
	}

	if len(results) > 0 {
		fmt.Fprintf(a.out, "\n%-8s %-10s %6s %8s %9s\n", "BATCH", "STATUS", "TOTAL", "APPLIED", "REJECTED")
		fmt.Fprintln(a.out, "──────────────────────────────────────────────")
		for _, r := range results {
			fmt.Fprintf(a.out, "%-8d %-10s %6d %8d %9d\n",
				r.BatchID, colorStatus(r.BatchStatus), r.TotalRows, r.AppliedRows, r.RejectedRows)
		}
		fmt.Fprintln(a.out)
	}
	if err != nil {
		return results, fmt.Errorf("apply stopped: %w", err)
	}
	return results, nil
}

// colorStatus pads status to the table width before coloring so escape codes
// do not break alignment.
func colorStatus(status string) string {
	padded := fmt.Sprintf("%-10s", status)
	switch status {
	case "APPLIED":
		return color.New(color.FgGreen).Sprint(padded)
	case "REJECTED":
		return color.New(color.FgRed).Sprint(padded)
	case "APPROVED":
		return color.New(color.FgCyan).Sprint(padded)
	case "NOOP", "PENDING":
		return color.New(color.FgYellow).Sprint(padded)
	default:
		return padded
	}
}
