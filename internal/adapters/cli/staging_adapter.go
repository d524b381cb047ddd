package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/wds/internal/ports/primary"
)

// StagingAdapter is a thin adapter that translates CLI operations to StagingService calls.
type StagingAdapter struct {
	service primary.StagingService
	out     io.Writer
}

// NewStagingAdapter creates a new StagingAdapter with the given service.
func NewStagingAdapter(service primary.StagingService, out io.Writer) *StagingAdapter {
	return &StagingAdapter{
		service: service,
		out:     out,
	}
}

// Submit stores parsed changes as one pending batch.
func (a *StagingAdapter) Submit(ctx context.Context, req primary.SubmitBatchRequest) (*primary.SubmitBatchResponse, error) {
	resp, err := a.service.SubmitBatch(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Staged %d change(s) in batch %d (PENDING)\n", resp.RowsAdded, resp.BatchID)
	return resp, nil
}

// Stage stores one change outside any batch.
func (a *StagingAdapter) Stage(ctx context.Context, change primary.ChangeInput) error {
	row, err := a.service.StageChange(ctx, change)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Staged change %d: %s %s\n", row.ID, row.ActionType, displayPerson(row.PersonID))
	return nil
}

// List lists staged rows.
func (a *StagingAdapter) List(ctx context.Context, filters primary.StagingFilters) error {
	rows, err := a.service.ListStaging(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list staging rows: %w", err)
	}

	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No staged changes found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-6s %-6s %-10s %-7s %-10s %-20s %-14s %-20s %s\n",
		"ID", "BATCH", "STATUS", "ACTION", "PERSON", "SPECIALTY", "REGION", "WORKPLACE", "NOTE")
	fmt.Fprintln(a.out, "──────────────────────────────────────────────────────────────────────────────────────────────────")
	for _, r := range rows {
		batch := "-"
		if r.BatchID != 0 {
			batch = fmt.Sprintf("%d", r.BatchID)
		}
		fmt.Fprintf(a.out, "%-6d %-6s %s %-7s %-10s %-20s %-14s %-20s %s\n",
			r.ID, batch, colorStatus(r.Status), r.ActionType, displayPerson(r.PersonID),
			r.SpecialtyName, r.RegionName, r.WorkplaceName, r.SourceNote)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Review approves or rejects one staged row.
func (a *StagingAdapter) Review(ctx context.Context, stagingID int64, decision string) error {
	row, err := a.service.Review(ctx, stagingID, decision)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Staged change %d marked %s\n", row.ID, row.Status)
	return nil
}

func displayPerson(id string) string {
	if id == "" {
		return "(new)"
	}
	return id
}
