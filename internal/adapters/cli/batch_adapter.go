package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/example/wds/internal/ports/primary"
)

// BatchAdapter is a thin adapter that translates CLI operations to BatchService calls.
type BatchAdapter struct {
	service primary.BatchService
	out     io.Writer
}

// NewBatchAdapter creates a new BatchAdapter with the given service.
func NewBatchAdapter(service primary.BatchService, out io.Writer) *BatchAdapter {
	return &BatchAdapter{
		service: service,
		out:     out,
	}
}

// List lists batches with optional status filter.
func (a *BatchAdapter) List(ctx context.Context, status string, limit int) error {
	batches, err := a.service.ListBatches(ctx, primary.BatchFilters{Status: status, Limit: limit})
	if err != nil {
		return fmt.Errorf("failed to list batches: %w", err)
	}

	if len(batches) == 0 {
		fmt.Fprintln(a.out, "No batches found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-6s %-10s %-12s %-20s %5s %s\n", "ID", "STATUS", "SOURCE", "CREATED", "ROWS", "NAME")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────")
	for _, b := range batches {
		fmt.Fprintf(a.out, "%-6d %s %-12s %-20s %5d %s\n",
			b.ID, colorStatus(b.Status), b.SourceType, b.CreatedAt, totalRows(b.RowCounts), b.Name)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show displays one batch with its row counts.
func (a *BatchAdapter) Show(ctx context.Context, batchID int64) (*primary.Batch, error) {
	b, err := a.service.GetBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	fmt.Fprintf(a.out, "\nBatch:   %d\n", b.ID)
	if b.Name != "" {
		fmt.Fprintf(a.out, "Name:    %s\n", b.Name)
	}
	fmt.Fprintf(a.out, "Source:  %s\n", b.SourceType)
	fmt.Fprintf(a.out, "Status:  %s\n", b.Status)
	fmt.Fprintf(a.out, "Created: %s\n", b.CreatedAt)

	statuses := make([]string, 0, len(b.RowCounts))
	for s := range b.RowCounts {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	fmt.Fprintln(a.out, "Rows:")
	if len(statuses) == 0 {
		fmt.Fprintln(a.out, "  (none)")
	}
	for _, s := range statuses {
		fmt.Fprintf(a.out, "  %-10s %d\n", s, b.RowCounts[s])
	}
	fmt.Fprintf(a.out, "Audit entries: %d\n\n", b.AuditCount)
	return b, nil
}

// Review approves or rejects a batch.
func (a *BatchAdapter) Review(ctx context.Context, batchID int64, decision string) error {
	resp, err := a.service.Review(ctx, batchID, decision)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Batch %d marked %s (%d rows updated)\n", resp.BatchID, resp.Status, resp.RowsChanged)
	return nil
}

func totalRows(counts map[string]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}
