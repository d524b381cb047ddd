package app

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/example/wds/internal/core/apply"
	"github.com/example/wds/internal/core/dimension"
	"github.com/example/wds/internal/ports/primary"
	"github.com/example/wds/internal/ports/secondary"
)

// RegistryServiceImpl implements the RegistryService interface.
type RegistryServiceImpl struct {
	dimRepo   secondary.DimensionRepository
	aliasRepo secondary.AliasRepository
}

// NewRegistryService creates a new RegistryService with injected dependencies.
func NewRegistryService(dimRepo secondary.DimensionRepository, aliasRepo secondary.AliasRepository) *RegistryServiceImpl {
	return &RegistryServiceImpl{
		dimRepo:   dimRepo,
		aliasRepo: aliasRepo,
	}
}

// ListPersons returns the canonical view restricted by filters.
func (s *RegistryServiceImpl) ListPersons(ctx context.Context, filters primary.RegistryFilters) ([]*primary.Person, error) {
	records, err := s.aliasRepo.ListCanonical(ctx, secondary.CanonicalFilters{
		Regions:     filters.Regions,
		Workplaces:  filters.Workplaces,
		Specialties: filters.Specialties,
		Limit:       filters.Limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list persons")
	}

	persons := make([]*primary.Person, len(records))
	for i, r := range records {
		persons[i] = &primary.Person{
			PersonID:      r.PersonID,
			SpecialtyName: r.SpecialtyName,
			RegionName:    r.RegionName,
			WorkplaceName: r.WorkplaceName,
		}
	}
	return persons, nil
}

// CountBySpecialty returns head counts per canonical specialty.
func (s *RegistryServiceImpl) CountBySpecialty(ctx context.Context) ([]*primary.SpecialtyCount, error) {
	records, err := s.aliasRepo.CountBySpecialty(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count by specialty")
	}

	counts := make([]*primary.SpecialtyCount, len(records))
	for i, r := range records {
		counts[i] = &primary.SpecialtyCount{SpecialtyName: r.SpecialtyName, Count: r.Count}
	}
	return counts, nil
}

// ListDimensions returns the stored names for one dimension kind.
func (s *RegistryServiceImpl) ListDimensions(ctx context.Context, kind string) ([]*primary.Dimension, error) {
	k, err := dimension.ParseKind(kind)
	if err != nil {
		return nil, err
	}

	records, err := s.dimRepo.List(ctx, k)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", k)
	}

	dims := make([]*primary.Dimension, len(records))
	for i, r := range records {
		dims[i] = &primary.Dimension{ID: r.ID, Name: r.Name}
	}
	return dims, nil
}

// SetAlias maps a specialty spelling onto its canonical name.
func (s *RegistryServiceImpl) SetAlias(ctx context.Context, alias, canonical string) error {
	alias = apply.NormalizeText(alias)
	canonical = apply.NormalizeText(canonical)
	if alias == "" || canonical == "" {
		return errors.New("alias and canonical name are both required")
	}
	if alias == canonical {
		return errors.Errorf("alias %q cannot map to itself", alias)
	}
	return s.aliasRepo.SetAlias(ctx, alias, canonical)
}

// ListAliases returns every specialty alias.
func (s *RegistryServiceImpl) ListAliases(ctx context.Context) ([]*primary.Alias, error) {
	records, err := s.aliasRepo.ListAliases(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list aliases")
	}

	aliases := make([]*primary.Alias, len(records))
	for i, r := range records {
		aliases[i] = &primary.Alias{Alias: r.Alias, Canonical: r.Canonical}
	}
	return aliases, nil
}

var _ primary.RegistryService = (*RegistryServiceImpl)(nil)
