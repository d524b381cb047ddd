package app

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wds/internal/logging"
	"github.com/example/wds/internal/ports/secondary"
)

type applyFixture struct {
	svc     *ApplyServiceImpl
	tx      *mockTransactor
	dims    *mockDimensionRepository
	persons *mockPersonRepository
	staging *mockStagingRepository
	batches *mockBatchRepository
	audit   *mockAuditRepository
	metrics *ApplyMetrics
}

func newApplyFixture(t *testing.T) *applyFixture {
	t.Helper()
	f := &applyFixture{
		tx:      &mockTransactor{},
		dims:    newMockDimensionRepository(),
		staging: newMockStagingRepository(),
		batches: newMockBatchRepository(),
		audit:   &mockAuditRepository{},
		metrics: NewApplyMetrics(prometheus.NewRegistry()),
	}
	f.persons = newMockPersonRepository(f.dims)
	f.svc = NewApplyService(f.tx, f.dims, f.persons, f.staging, f.batches, f.audit, logging.Discard(), f.metrics)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 9, 14, 5, 7, 0, time.UTC) }
	return f
}

// ============================================================================
// ApplyBatch Tests
// ============================================================================

func TestApplyBatch_MixedOutcomes(t *testing.T) {
	f := newApplyFixture(t)
	ctx := context.Background()
	f.persons.seed("P100", "OLD_SPECIALTY", "OLD_REGION", "OLD_WORKPLACE")

	batchID := f.batches.add("mixed", "APPROVED")
	f.staging.add(batchID, "P200", "NEW", "NEW_SPECIALTY", "NEW_REGION", "NEW_WORKPLACE", "APPROVED")
	f.staging.add(batchID, "P100", "UPDATE", "SPEC_X", "REGION_X", "WORK_X", "APPROVED")
	missing := f.staging.add(batchID, "", "UPDATE", "SPEC_X", "REGION_X", "WORK_X", "APPROVED")

	result, err := f.svc.ApplyBatch(ctx, batchID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 2, result.AppliedRows)
	assert.Equal(t, 1, result.RejectedRows)
	assert.Equal(t, "PARTIAL_APPLIED", result.BatchStatus)
	assert.Equal(t, "PARTIAL_APPLIED", f.batches.batches[batchID].Status)

	require.Len(t, f.audit.entries, 2)
	assert.Equal(t, "Initial record created (Region=NEW_REGION, Workplace=NEW_WORKPLACE, Specialty=NEW_SPECIALTY)",
		f.audit.entries[0].ChangeSummary)
	assert.Equal(t,
		"Specialty changed: OLD_SPECIALTY -> SPEC_X | Region changed: OLD_REGION -> REGION_X | Workplace changed: OLD_WORKPLACE -> WORK_X",
		f.audit.entries[1].ChangeSummary)

	rejected := f.staging.rows[missing]
	assert.Equal(t, "REJECTED", rejected.Status)
	assert.Equal(t, "APPLY_ERROR: UPDATE record is missing person_id", rejected.SourceNote)

	assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.Rows.WithLabelValues("applied")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Rows.WithLabelValues("rejected")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Batches.WithLabelValues("PARTIAL_APPLIED")))
}

func TestApplyBatch_NoApprovedRowsIsNoop(t *testing.T) {
	f := newApplyFixture(t)
	batchID := f.batches.add("pending", "PENDING")
	pending := f.staging.add(batchID, "P1", "NEW", "A", "B", "C", "PENDING")

	result, err := f.svc.ApplyBatch(context.Background(), batchID)
	require.NoError(t, err)
	assert.Equal(t, "NOOP", result.BatchStatus)
	assert.Zero(t, result.TotalRows)
	assert.Equal(t, "PENDING", f.batches.batches[batchID].Status, "NOOP must not touch the stored status")
	assert.Equal(t, "PENDING", f.staging.rows[pending].Status)
}

func TestApplyBatch_AllRejected(t *testing.T) {
	f := newApplyFixture(t)
	f.persons.seed("P1", "A", "B", "C")
	batchID := f.batches.add("dupes", "APPROVED")
	f.staging.add(batchID, "P1", "NEW", "A", "B", "C", "APPROVED")
	f.staging.add(batchID, "P9", "UPDATE", "A", "B", "C", "APPROVED")
	f.staging.add(batchID, "P2", "DELETE", "A", "B", "C", "APPROVED")

	result, err := f.svc.ApplyBatch(context.Background(), batchID)
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", result.BatchStatus)
	assert.Equal(t, 3, result.RejectedRows)
	assert.Empty(t, f.audit.entries)

	notes := []string{f.staging.rows[1].SourceNote, f.staging.rows[2].SourceNote, f.staging.rows[3].SourceNote}
	assert.Equal(t, []string{
		"APPLY_ERROR: person_id already exists for NEW action",
		"APPLY_ERROR: person_id not found for UPDATE action",
		"APPLY_ERROR: Unsupported action_type: DELETE",
	}, notes)
}

func TestApplyBatch_NormalizesInput(t *testing.T) {
	f := newApplyFixture(t)
	batchID := f.batches.add("messy", "APPROVED")
	f.staging.add(batchID, "  P300 ", " new ", " Cardiology ", "Seoul", "Hospital A", "APPROVED")
	nan := f.staging.add(batchID, "nan", "NEW", "Cardiology", "Seoul", "Hospital A", "APPROVED")

	result, err := f.svc.ApplyBatch(context.Background(), batchID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.AppliedRows)
	assert.Contains(t, f.persons.persons, "P300")
	assert.Equal(t, "NEW", f.audit.entries[0].ActionType)
	assert.Equal(t, "APPLY_ERROR: NEW record is missing person_id", f.staging.rows[nan].SourceNote)
}

func TestApplyBatch_NoDataChange(t *testing.T) {
	f := newApplyFixture(t)
	f.persons.seed("P100", "Cardiology", "Seoul", "Hospital A")
	batchID := f.batches.add("same", "APPROVED")
	f.staging.add(batchID, "P100", "UPDATE", "Cardiology", "Seoul", "Hospital A", "APPROVED")

	result, err := f.svc.ApplyBatch(context.Background(), batchID)
	require.NoError(t, err)
	assert.Equal(t, "APPLIED", result.BatchStatus)
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "No data change detected", f.audit.entries[0].ChangeSummary)
}

func TestApplyBatch_KeepsPriorNote(t *testing.T) {
	f := newApplyFixture(t)
	batchID := f.batches.add("notes", "APPROVED")
	id := f.staging.add(batchID, "", "UPDATE", "A", "B", "C", "APPROVED")
	f.staging.rows[id].SourceNote = "from HR"

	_, err := f.svc.ApplyBatch(context.Background(), batchID)
	require.NoError(t, err)
	assert.Equal(t, "from HR | APPLY_ERROR: UPDATE record is missing person_id", f.staging.rows[id].SourceNote)
}

func TestApplyBatch_DimensionConflictRejectsRow(t *testing.T) {
	f := newApplyFixture(t)
	f.dims.conflicts["Clash"] = true
	batchID := f.batches.add("clash", "APPROVED")
	bad := f.staging.add(batchID, "P1", "NEW", "Clash", "Seoul", "Hospital A", "APPROVED")
	f.staging.add(batchID, "P2", "NEW", "Cardiology", "Seoul", "Hospital A", "APPROVED")

	result, err := f.svc.ApplyBatch(context.Background(), batchID)
	require.NoError(t, err)
	assert.Equal(t, "PARTIAL_APPLIED", result.BatchStatus)
	assert.Equal(t, "REJECTED", f.staging.rows[bad].Status)
	assert.Contains(t, f.staging.rows[bad].SourceNote, "APPLY_ERROR: ")
	assert.Contains(t, f.staging.rows[bad].SourceNote, "constraint conflict")
}

func TestApplyBatch_AuditFailureAborts(t *testing.T) {
	f := newApplyFixture(t)
	f.audit.appendErr = errors.New("disk full")
	batchID := f.batches.add("b", "APPROVED")
	f.staging.add(batchID, "P1", "NEW", "A", "B", "C", "APPROVED")

	_, err := f.svc.ApplyBatch(context.Background(), batchID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "APPROVED", f.batches.batches[batchID].Status)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Failures))
}

func TestApplyBatch_InfrastructureErrorFromRepository(t *testing.T) {
	f := newApplyFixture(t)
	f.dims.err = errors.New("database is locked")
	batchID := f.batches.add("b", "APPROVED")
	f.staging.add(batchID, "P1", "NEW", "A", "B", "C", "APPROVED")

	_, err := f.svc.ApplyBatch(context.Background(), batchID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestApplyBatch_UnknownBatch(t *testing.T) {
	f := newApplyFixture(t)

	_, err := f.svc.ApplyBatch(context.Background(), 42)
	assert.True(t, errors.Is(err, secondary.ErrNotFound), "got %v", err)
}

func TestApplyBatch_ReusesDimensions(t *testing.T) {
	f := newApplyFixture(t)
	batchID := f.batches.add("shared", "APPROVED")
	f.staging.add(batchID, "P1", "NEW", "Cardiology", "Seoul", "Hospital A", "APPROVED")
	f.staging.add(batchID, "P2", "NEW", "Cardiology", "Seoul", "Hospital A", "APPROVED")

	_, err := f.svc.ApplyBatch(context.Background(), batchID)
	require.NoError(t, err)
	assert.Len(t, f.dims.byKind["specialty"], 1)
	assert.Equal(t, f.persons.persons["P1"], f.persons.persons["P2"])
}

func TestApplyBatch_MissingNameKeepsEarlierDimensions(t *testing.T) {
	f := newApplyFixture(t)
	batchID := f.batches.add("partial names", "APPROVED")
	row := f.staging.add(batchID, "P400", "NEW", "FreshSpec", "nan", "Fresh Clinic", "APPROVED")

	result, err := f.svc.ApplyBatch(context.Background(), batchID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RejectedRows)
	assert.Equal(t, "APPLY_ERROR: Missing value for region_name", f.staging.rows[row].SourceNote)

	require.Len(t, f.dims.byKind["specialty"], 1)
	assert.Equal(t, "FreshSpec", f.dims.byKind["specialty"][0].Name)
	assert.Empty(t, f.dims.byKind["workplace"], "resolution stops at the missing region")
	assert.Empty(t, f.persons.persons)
}

func TestApplyBatch_CreatedSummaryUsesStoredNames(t *testing.T) {
	f := newApplyFixture(t)
	f.persons.seed("P1", "Cardiology", "Seoul", "Hospital A")
	batchID := f.batches.add("case variants", "APPROVED")
	f.staging.add(batchID, "P2", "NEW", "cardiology", "SEOUL", "hospital a", "APPROVED")

	_, err := f.svc.ApplyBatch(context.Background(), batchID)
	require.NoError(t, err)
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "Initial record created (Region=Seoul, Workplace=Hospital A, Specialty=Cardiology)",
		f.audit.entries[0].ChangeSummary)
}

// ============================================================================
// ApplyApproved Tests
// ============================================================================

func TestApplyApproved_CreatesAutoBatchForOrphans(t *testing.T) {
	f := newApplyFixture(t)
	orphan := f.staging.add(0, "P1", "NEW", "A", "B", "C", "APPROVED")
	f.staging.add(0, "P2", "NEW", "A", "B", "C", "PENDING")

	results, err := f.svc.ApplyApproved(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "APPLIED", results[0].BatchStatus)

	auto := f.batches.batches[results[0].BatchID]
	assert.Equal(t, "AUTO_APPROVED_20260309_140507", auto.Name)
	assert.Equal(t, "SYSTEM_AUTO", auto.SourceType)
	assert.Equal(t, results[0].BatchID, f.staging.rows[orphan].BatchID)
	assert.Equal(t, int64(0), f.staging.rows[2].BatchID, "pending rows stay unassigned")
}

func TestApplyApproved_ProcessesApprovedBatchesInOrder(t *testing.T) {
	f := newApplyFixture(t)
	first := f.batches.add("first", "APPROVED")
	f.batches.add("waiting", "PENDING")
	third := f.batches.add("third", "APPROVED")
	f.staging.add(first, "P1", "NEW", "A", "B", "C", "APPROVED")
	f.staging.add(third, "P1", "UPDATE", "A", "B", "D", "APPROVED")

	results, err := f.svc.ApplyApproved(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, first, results[0].BatchID)
	assert.Equal(t, third, results[1].BatchID)
	assert.Equal(t, "APPLIED", results[1].BatchStatus, "later batch sees earlier batch's person")
	assert.Len(t, f.batches.batches, 3, "no auto batch without orphans")
}

func TestApplyApproved_SingleBatch(t *testing.T) {
	f := newApplyFixture(t)
	a := f.batches.add("a", "APPROVED")
	b := f.batches.add("b", "APPROVED")
	f.staging.add(a, "P1", "NEW", "A", "B", "C", "APPROVED")
	f.staging.add(b, "P2", "NEW", "A", "B", "C", "APPROVED")
	f.staging.add(0, "P3", "NEW", "A", "B", "C", "APPROVED")

	results, err := f.svc.ApplyApproved(context.Background(), &b)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, b, results[0].BatchID)
	assert.Equal(t, "APPROVED", f.batches.batches[a].Status)
	assert.Equal(t, int64(0), f.staging.rows[3].BatchID, "explicit batch skips orphan sweep")
}
