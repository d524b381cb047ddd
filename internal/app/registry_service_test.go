package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wds/internal/core/dimension"
	"github.com/example/wds/internal/ports/primary"
	"github.com/example/wds/internal/ports/secondary"
)

func TestRegistryService_ListPersonsPassesFilters(t *testing.T) {
	aliases := newMockAliasRepository()
	aliases.canonical = []*secondary.CanonicalRecord{
		{PersonID: "P1", SpecialtyName: "Cardiology", RegionName: "Seoul", WorkplaceName: "Hospital A"},
	}
	svc := NewRegistryService(newMockDimensionRepository(), aliases)

	persons, err := svc.ListPersons(context.Background(), primary.RegistryFilters{
		Regions: []string{"Seoul"},
		Limit:   10,
	})
	require.NoError(t, err)
	require.Len(t, persons, 1)
	assert.Equal(t, "Cardiology", persons[0].SpecialtyName)
	assert.Equal(t, secondary.CanonicalFilters{Regions: []string{"Seoul"}, Limit: 10}, aliases.lastQuery)
}

func TestRegistryService_ListDimensions(t *testing.T) {
	dims := newMockDimensionRepository()
	_, _ = dims.GetOrCreate(context.Background(), dimension.KindRegion, "Seoul")
	svc := NewRegistryService(dims, newMockAliasRepository())

	got, err := svc.ListDimensions(context.Background(), "region")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Seoul", got[0].Name)

	_, err = svc.ListDimensions(context.Background(), "country")
	assert.ErrorContains(t, err, "unknown dimension kind")
}

func TestRegistryService_SetAlias(t *testing.T) {
	aliases := newMockAliasRepository()
	svc := NewRegistryService(newMockDimensionRepository(), aliases)
	ctx := context.Background()

	require.NoError(t, svc.SetAlias(ctx, " Cardio ", "Cardiology"))
	assert.Equal(t, "Cardiology", aliases.aliases["Cardio"])

	assert.Error(t, svc.SetAlias(ctx, "", "Cardiology"))
	assert.ErrorContains(t, svc.SetAlias(ctx, "Same", "Same"), "cannot map to itself")

	list, err := svc.ListAliases(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*primary.Alias{{Alias: "Cardio", Canonical: "Cardiology"}}, list)
}

func TestRegistryService_CountBySpecialty(t *testing.T) {
	aliases := newMockAliasRepository()
	aliases.counts = []*secondary.SpecialtyCountRecord{{SpecialtyName: "Cardiology", Count: 2}}
	svc := NewRegistryService(newMockDimensionRepository(), aliases)

	counts, err := svc.CountBySpecialty(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*primary.SpecialtyCount{{SpecialtyName: "Cardiology", Count: 2}}, counts)
}
