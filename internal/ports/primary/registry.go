package primary

import "context"

// RegistryService defines the primary port for read access to the canonical
// registry and for maintaining specialty aliases.
type RegistryService interface {
	// ListPersons returns the canonical view restricted by filters.
	ListPersons(ctx context.Context, filters RegistryFilters) ([]*Person, error)

	// CountBySpecialty returns head counts per canonical specialty.
	CountBySpecialty(ctx context.Context) ([]*SpecialtyCount, error)

	// ListDimensions returns the stored names for one dimension kind.
	ListDimensions(ctx context.Context, kind string) ([]*Dimension, error)

	// SetAlias maps a specialty spelling onto its canonical name.
	SetAlias(ctx context.Context, alias, canonical string) error

	// ListAliases returns every specialty alias.
	ListAliases(ctx context.Context) ([]*Alias, error)
}

// RegistryFilters are request-scoped filter selections. Empty slices match all.
type RegistryFilters struct {
	Regions     []string
	Workplaces  []string
	Specialties []string
	Limit       int
}

// Person is one canonical registry row.
type Person struct {
	PersonID      string
	SpecialtyName string
	RegionName    string
	WorkplaceName string
}

// SpecialtyCount is a canonical specialty with its head count.
type SpecialtyCount struct {
	SpecialtyName string
	Count         int
}

// Dimension is one stored dimension name.
type Dimension struct {
	ID   int64
	Name string
}

// Alias maps a specialty spelling to its canonical name.
type Alias struct {
	Alias     string
	Canonical string
}
