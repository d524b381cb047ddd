package app

import (
	"context"
	"sort"
	"strings"

	"github.com/go-faster/errors"

	"github.com/example/wds/internal/core/dimension"
	"github.com/example/wds/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockTransactor runs fn directly. It has no rollback; tests that need
// rollback semantics use a real database.
type mockTransactor struct {
	calls int
}

func (m *mockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// mockDimensionRepository implements secondary.DimensionRepository for testing.
type mockDimensionRepository struct {
	byKind    map[dimension.Kind][]*secondary.DimensionRecord
	nextID    int64
	conflicts map[string]bool // names whose insert fails with ErrConflict
	err       error
}

func newMockDimensionRepository() *mockDimensionRepository {
	return &mockDimensionRepository{
		byKind:    make(map[dimension.Kind][]*secondary.DimensionRecord),
		conflicts: make(map[string]bool),
	}
}

func (m *mockDimensionRepository) GetOrCreate(ctx context.Context, kind dimension.Kind, name string) (*secondary.DimensionRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.byKind[kind] {
		if strings.EqualFold(r.Name, name) {
			return r, nil
		}
	}
	if m.conflicts[name] {
		return nil, errors.Wrapf(secondary.ErrConflict, "failed to create %s %q", kind, name)
	}
	m.nextID++
	r := &secondary.DimensionRecord{ID: m.nextID, Name: name}
	m.byKind[kind] = append(m.byKind[kind], r)
	return r, nil
}

func (m *mockDimensionRepository) List(ctx context.Context, kind dimension.Kind) ([]*secondary.DimensionRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byKind[kind], nil
}

func (m *mockDimensionRepository) nameOf(kind dimension.Kind, id int64) string {
	for _, r := range m.byKind[kind] {
		if r.ID == id {
			return r.Name
		}
	}
	return ""
}

// mockPersonRepository implements secondary.PersonRepository for testing.
type mockPersonRepository struct {
	persons   map[string]dimension.IDs
	dims      *mockDimensionRepository
	createErr error
	getErr    error
}

func newMockPersonRepository(dims *mockDimensionRepository) *mockPersonRepository {
	return &mockPersonRepository{
		persons: make(map[string]dimension.IDs),
		dims:    dims,
	}
}

func (m *mockPersonRepository) GetByID(ctx context.Context, personID string) (*secondary.PersonRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	ids, ok := m.persons[personID]
	if !ok {
		return nil, errors.Wrap(secondary.ErrNotFound, personID)
	}
	return &secondary.PersonRecord{
		PersonID: personID,
		IDs:      ids,
		Names: dimension.Names{
			Specialty: m.dims.nameOf(dimension.KindSpecialty, ids.Specialty),
			Region:    m.dims.nameOf(dimension.KindRegion, ids.Region),
			Workplace: m.dims.nameOf(dimension.KindWorkplace, ids.Workplace),
		},
	}, nil
}

func (m *mockPersonRepository) Exists(ctx context.Context, personID string) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	_, ok := m.persons[personID]
	return ok, nil
}

func (m *mockPersonRepository) Create(ctx context.Context, person *secondary.PersonRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.persons[person.PersonID]; ok {
		return errors.Wrap(secondary.ErrConflict, person.PersonID)
	}
	m.persons[person.PersonID] = person.IDs
	return nil
}

func (m *mockPersonRepository) UpdateDimensions(ctx context.Context, personID string, ids dimension.IDs) error {
	if _, ok := m.persons[personID]; !ok {
		return errors.Wrap(secondary.ErrNotFound, personID)
	}
	m.persons[personID] = ids
	return nil
}

func (m *mockPersonRepository) Count(ctx context.Context) (int, error) {
	return len(m.persons), nil
}

// seed registers a person with the named dimensions.
func (m *mockPersonRepository) seed(personID, specialty, region, workplace string) {
	ctx := context.Background()
	s, _ := m.dims.GetOrCreate(ctx, dimension.KindSpecialty, specialty)
	r, _ := m.dims.GetOrCreate(ctx, dimension.KindRegion, region)
	w, _ := m.dims.GetOrCreate(ctx, dimension.KindWorkplace, workplace)
	m.persons[personID] = dimension.IDs{Specialty: s.ID, Region: r.ID, Workplace: w.ID}
}

// mockStagingRepository implements secondary.StagingRepository for testing.
type mockStagingRepository struct {
	rows      map[int64]*secondary.StagingRecord
	nextID    int64
	createErr error
	listErr   error
}

func newMockStagingRepository() *mockStagingRepository {
	return &mockStagingRepository{rows: make(map[int64]*secondary.StagingRecord)}
}

func (m *mockStagingRepository) Create(ctx context.Context, row *secondary.StagingRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	row.ID = m.nextID
	if row.Status == "" {
		row.Status = "PENDING"
	}
	stored := *row
	m.rows[row.ID] = &stored
	return nil
}

func (m *mockStagingRepository) GetByID(ctx context.Context, stagingID int64) (*secondary.StagingRecord, error) {
	row, ok := m.rows[stagingID]
	if !ok {
		return nil, errors.Wrapf(secondary.ErrNotFound, "staging %d", stagingID)
	}
	copied := *row
	return &copied, nil
}

func (m *mockStagingRepository) sorted(match func(*secondary.StagingRecord) bool) []*secondary.StagingRecord {
	var out []*secondary.StagingRecord
	for _, row := range m.rows {
		if match(row) {
			copied := *row
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockStagingRepository) List(ctx context.Context, filters secondary.StagingFilters) ([]*secondary.StagingRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := m.sorted(func(r *secondary.StagingRecord) bool {
		return (filters.Status == "" || r.Status == filters.Status) &&
			(filters.BatchID == 0 || r.BatchID == filters.BatchID)
	})
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (m *mockStagingRepository) ListApproved(ctx context.Context, batchID int64) ([]*secondary.StagingRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sorted(func(r *secondary.StagingRecord) bool {
		return r.BatchID == batchID && r.Status == "APPROVED"
	}), nil
}

func (m *mockStagingRepository) MarkApplied(ctx context.Context, stagingID int64) error {
	row, ok := m.rows[stagingID]
	if !ok {
		return secondary.ErrNotFound
	}
	row.Status = "APPLIED"
	row.ProcessedAt = "now"
	return nil
}

func (m *mockStagingRepository) MarkRejected(ctx context.Context, stagingID int64, sourceNote string) error {
	row, ok := m.rows[stagingID]
	if !ok {
		return secondary.ErrNotFound
	}
	row.Status = "REJECTED"
	row.SourceNote = sourceNote
	row.ProcessedAt = "now"
	return nil
}

func (m *mockStagingRepository) UpdateStatus(ctx context.Context, stagingID int64, status string) error {
	row, ok := m.rows[stagingID]
	if !ok {
		return secondary.ErrNotFound
	}
	row.Status = status
	return nil
}

func (m *mockStagingRepository) UpdateUnprocessedStatus(ctx context.Context, batchID int64, status string) (int64, error) {
	var n int64
	for _, row := range m.rows {
		if row.BatchID == batchID && row.ProcessedAt == "" && row.Status != "APPLIED" {
			row.Status = status
			n++
		}
	}
	return n, nil
}

func (m *mockStagingRepository) CountByStatus(ctx context.Context, batchID int64) (map[string]int, error) {
	counts := make(map[string]int)
	for _, row := range m.rows {
		if row.BatchID == batchID {
			counts[row.Status]++
		}
	}
	return counts, nil
}

func (m *mockStagingRepository) CountProcessed(ctx context.Context, batchID int64) (int, error) {
	n := 0
	for _, row := range m.rows {
		if row.BatchID == batchID && (row.ProcessedAt != "" || row.Status == "APPLIED") {
			n++
		}
	}
	return n, nil
}

func (m *mockStagingRepository) AssignOrphanedApproved(ctx context.Context, batchID int64) (int64, error) {
	var n int64
	for _, row := range m.rows {
		if row.BatchID == 0 && row.Status == "APPROVED" {
			row.BatchID = batchID
			n++
		}
	}
	return n, nil
}

func (m *mockStagingRepository) CountOrphanedApproved(ctx context.Context) (int, error) {
	n := 0
	for _, row := range m.rows {
		if row.BatchID == 0 && row.Status == "APPROVED" {
			n++
		}
	}
	return n, nil
}

// add stores a row directly, bypassing intake.
func (m *mockStagingRepository) add(batchID int64, personID, action, specialty, region, workplace, status string) int64 {
	row := &secondary.StagingRecord{
		PersonID:      personID,
		ActionType:    action,
		SpecialtyName: specialty,
		RegionName:    region,
		WorkplaceName: workplace,
		Status:        status,
		BatchID:       batchID,
	}
	_ = m.Create(context.Background(), row)
	return row.ID
}

// mockBatchRepository implements secondary.BatchRepository for testing.
type mockBatchRepository struct {
	batches   map[int64]*secondary.BatchRecord
	nextID    int64
	createErr error
}

func newMockBatchRepository() *mockBatchRepository {
	return &mockBatchRepository{batches: make(map[int64]*secondary.BatchRecord)}
}

func (m *mockBatchRepository) Create(ctx context.Context, batch *secondary.BatchRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	batch.ID = m.nextID
	if batch.Status == "" {
		batch.Status = "PENDING"
	}
	stored := *batch
	m.batches[batch.ID] = &stored
	return nil
}

func (m *mockBatchRepository) GetByID(ctx context.Context, batchID int64) (*secondary.BatchRecord, error) {
	b, ok := m.batches[batchID]
	if !ok {
		return nil, errors.Wrapf(secondary.ErrNotFound, "batch %d", batchID)
	}
	copied := *b
	return &copied, nil
}

func (m *mockBatchRepository) List(ctx context.Context, filters secondary.BatchFilters) ([]*secondary.BatchRecord, error) {
	var out []*secondary.BatchRecord
	for _, b := range m.batches {
		if filters.Status == "" || b.Status == filters.Status {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockBatchRepository) ListIDsByStatus(ctx context.Context, status string) ([]int64, error) {
	var ids []int64
	for id, b := range m.batches {
		if b.Status == status {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *mockBatchRepository) UpdateStatus(ctx context.Context, batchID int64, status string) error {
	b, ok := m.batches[batchID]
	if !ok {
		return secondary.ErrNotFound
	}
	b.Status = status
	return nil
}

// add stores a batch directly and returns its id.
func (m *mockBatchRepository) add(name, status string) int64 {
	b := &secondary.BatchRecord{Name: name, SourceType: "MANUAL", Status: status}
	_ = m.Create(context.Background(), b)
	return b.ID
}

// mockAuditRepository implements secondary.AuditRepository for testing.
type mockAuditRepository struct {
	entries   []*secondary.AuditRecord
	appendErr error
}

func (m *mockAuditRepository) Append(ctx context.Context, entry *secondary.AuditRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepository) List(ctx context.Context, filters secondary.AuditFilters) ([]*secondary.AuditRecord, error) {
	var out []*secondary.AuditRecord
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if (filters.PersonID == "" || e.PersonID == filters.PersonID) &&
			(filters.BatchID == 0 || e.BatchID == filters.BatchID) {
			out = append(out, e)
		}
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (m *mockAuditRepository) CountByBatch(ctx context.Context, batchID int64) (int, error) {
	n := 0
	for _, e := range m.entries {
		if e.BatchID == batchID {
			n++
		}
	}
	return n, nil
}

// mockAliasRepository implements secondary.AliasRepository for testing.
type mockAliasRepository struct {
	aliases   map[string]string
	canonical []*secondary.CanonicalRecord
	counts    []*secondary.SpecialtyCountRecord
	lastQuery secondary.CanonicalFilters
}

func newMockAliasRepository() *mockAliasRepository {
	return &mockAliasRepository{aliases: make(map[string]string)}
}

func (m *mockAliasRepository) SetAlias(ctx context.Context, alias, canonical string) error {
	m.aliases[alias] = canonical
	return nil
}

func (m *mockAliasRepository) ListAliases(ctx context.Context) ([]*secondary.AliasRecord, error) {
	var out []*secondary.AliasRecord
	for a, c := range m.aliases {
		out = append(out, &secondary.AliasRecord{Alias: a, Canonical: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Alias < out[j].Alias })
	return out, nil
}

func (m *mockAliasRepository) ListCanonical(ctx context.Context, filters secondary.CanonicalFilters) ([]*secondary.CanonicalRecord, error) {
	m.lastQuery = filters
	return m.canonical, nil
}

func (m *mockAliasRepository) CountBySpecialty(ctx context.Context) ([]*secondary.SpecialtyCountRecord, error) {
	return m.counts, nil
}

var (
	_ secondary.Transactor          = (*mockTransactor)(nil)
	_ secondary.DimensionRepository = (*mockDimensionRepository)(nil)
	_ secondary.PersonRepository    = (*mockPersonRepository)(nil)
	_ secondary.StagingRepository   = (*mockStagingRepository)(nil)
	_ secondary.BatchRepository     = (*mockBatchRepository)(nil)
	_ secondary.AuditRepository     = (*mockAuditRepository)(nil)
	_ secondary.AliasRepository     = (*mockAliasRepository)(nil)
)
