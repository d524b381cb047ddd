// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/example/wds/internal/core/dimension"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when the store rejects a write because of a
	// constraint (uniqueness, CHECK, foreign key or trigger).
	ErrConflict = errors.New("constraint conflict")
)

// Transactor runs fn inside a store transaction. Repositories called with the
// context handed to fn participate in that transaction. Nested calls reuse the
// outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DimensionRepository defines the secondary port for the dimension lookup tables.
type DimensionRepository interface {
	// GetOrCreate returns the dimension named name, inserting it when absent.
	// Lookup ignores case, so the returned Name is the stored spelling.
	GetOrCreate(ctx context.Context, kind dimension.Kind, name string) (*DimensionRecord, error)

	// List returns every dimension of kind ordered by name.
	List(ctx context.Context, kind dimension.Kind) ([]*DimensionRecord, error)
}

// DimensionRecord represents a dimension row as stored in persistence.
type DimensionRecord struct {
	ID   int64
	Name string
}

// PersonRepository defines the secondary port for the canonical registry.
type PersonRepository interface {
	// GetByID retrieves a person with the names of its current dimensions.
	GetByID(ctx context.Context, personID string) (*PersonRecord, error)

	// Exists reports whether personID is registered.
	Exists(ctx context.Context, personID string) (bool, error)

	// Create inserts a new person.
	Create(ctx context.Context, person *PersonRecord) error

	// UpdateDimensions overwrites the dimension pointers of an existing person.
	UpdateDimensions(ctx context.Context, personID string, ids dimension.IDs) error

	// Count returns the number of registered persons.
	Count(ctx context.Context) (int, error)
}

// PersonRecord represents a person as stored in persistence. IDs of zero and
// empty names mean the person has no value for that dimension.
type PersonRecord struct {
	PersonID string
	IDs      dimension.IDs
	Names    dimension.Names
}

// StagingRepository defines the secondary port for the staging queue.
type StagingRepository interface {
	// Create persists a new staging row and sets its ID.
	Create(ctx context.Context, row *StagingRecord) error

	// GetByID retrieves a staging row.
	GetByID(ctx context.Context, stagingID int64) (*StagingRecord, error)

	// List retrieves staging rows matching the given filters, oldest first.
	List(ctx context.Context, filters StagingFilters) ([]*StagingRecord, error)

	// ListApproved returns the APPROVED rows of a batch in insertion order.
	ListApproved(ctx context.Context, batchID int64) ([]*StagingRecord, error)

	// MarkApplied sets a row APPLIED and stamps processed_at.
	MarkApplied(ctx context.Context, stagingID int64) error

	// MarkRejected sets a row REJECTED, replaces its source note and stamps processed_at.
	MarkRejected(ctx context.Context, stagingID int64, sourceNote string) error

	// UpdateStatus sets a row's review status.
	UpdateStatus(ctx context.Context, stagingID int64, status string) error

	// UpdateUnprocessedStatus sets the review status of every row in the batch
	// that apply has not consumed. It returns the number of rows changed.
	UpdateUnprocessedStatus(ctx context.Context, batchID int64, status string) (int64, error)

	// CountByStatus returns the number of rows per status for a batch.
	CountByStatus(ctx context.Context, batchID int64) (map[string]int, error)

	// CountProcessed returns how many rows of the batch apply has consumed.
	CountProcessed(ctx context.Context, batchID int64) (int, error)

	// AssignOrphanedApproved moves APPROVED rows without a batch into batchID
	// and returns how many moved.
	AssignOrphanedApproved(ctx context.Context, batchID int64) (int64, error)

	// CountOrphanedApproved returns the number of APPROVED rows without a batch.
	CountOrphanedApproved(ctx context.Context) (int, error)
}

// StagingRecord represents a staging row as stored in persistence.
// BatchID is zero for rows not yet grouped into a batch.
type StagingRecord struct {
	ID            int64
	PersonID      string
	ActionType    string
	SpecialtyName string
	RegionName    string
	WorkplaceName string
	SourceNote    string
	Status        string
	BatchID       int64
	CreatedAt     string
	ProcessedAt   string
}

// StagingFilters contains filter options for querying staging rows.
type StagingFilters struct {
	Status  string
	BatchID int64
	Limit   int
}

// BatchRepository defines the secondary port for change batches.
type BatchRepository interface {
	// Create persists a new batch and sets its ID.
	Create(ctx context.Context, batch *BatchRecord) error

	// GetByID retrieves a batch.
	GetByID(ctx context.Context, batchID int64) (*BatchRecord, error)

	// List retrieves batches matching the given filters, newest first.
	List(ctx context.Context, filters BatchFilters) ([]*BatchRecord, error)

	// ListIDsByStatus returns ids of batches in status ordered by creation
	// time, ties broken by id.
	ListIDsByStatus(ctx context.Context, status string) ([]int64, error)

	// UpdateStatus sets a batch's status.
	UpdateStatus(ctx context.Context, batchID int64, status string) error
}

// BatchRecord represents a batch as stored in persistence.
type BatchRecord struct {
	ID         int64
	Name       string
	SourceType string
	Status     string
	CreatedAt  string
}

// BatchFilters contains filter options for querying batches.
type BatchFilters struct {
	Status string
	Limit  int
}

// AliasRepository defines the secondary port for specialty aliases and the
// canonical registry view built on them.
type AliasRepository interface {
	// SetAlias maps alias to canonical, replacing any previous mapping.
	SetAlias(ctx context.Context, alias, canonical string) error

	// ListAliases returns every alias ordered by alias name.
	ListAliases(ctx context.Context) ([]*AliasRecord, error)

	// ListCanonical returns persons with their specialty resolved through aliases.
	ListCanonical(ctx context.Context, filters CanonicalFilters) ([]*CanonicalRecord, error)

	// CountBySpecialty returns person counts per canonical specialty, largest first.
	CountBySpecialty(ctx context.Context) ([]*SpecialtyCountRecord, error)
}

// AliasRecord represents a specialty alias.
type AliasRecord struct {
	Alias     string
	Canonical string
}

// CanonicalRecord is one row of the canonical registry view.
type CanonicalRecord struct {
	PersonID      string
	SpecialtyName string
	RegionName    string
	WorkplaceName string
}

// CanonicalFilters restricts the canonical view. Empty slices match everything.
type CanonicalFilters struct {
	Regions     []string
	Workplaces  []string
	Specialties []string
	Limit       int
}

// SpecialtyCountRecord is a canonical specialty with its head count.
type SpecialtyCountRecord struct {
	SpecialtyName string
	Count         int
}
