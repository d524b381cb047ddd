package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/wds/internal/ports/primary"
)

// AuditAdapter prints the audit timeline.
type AuditAdapter struct {
	service primary.AuditService
	out     io.Writer
}

// NewAuditAdapter creates a new AuditAdapter with the given service.
func NewAuditAdapter(service primary.AuditService, out io.Writer) *AuditAdapter {
	return &AuditAdapter{
		service: service,
		out:     out,
	}
}

// Timeline prints audit entries newest first.
func (a *AuditAdapter) Timeline(ctx context.Context, filters primary.AuditFilters) error {
	entries, err := a.service.Timeline(ctx, filters)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No audit entries found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-20s %-10s %-6s %-7s %s\n", "APPLIED", "PERSON", "BATCH", "ACTION", "CHANGE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────")
	for _, e := range entries {
		fmt.Fprintf(a.out, "%-20s %-10s %-6d %-7s %s\n", e.AppliedAt, e.PersonID, e.BatchID, e.ActionType, e.ChangeSummary)
	}
	fmt.Fprintln(a.out)
	return nil
}
