package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/wds/internal/ports/primary"
)

// RegistryAdapter prints the canonical registry and its dimensions.
type RegistryAdapter struct {
	service primary.RegistryService
	out     io.Writer
}

// NewRegistryAdapter creates a new RegistryAdapter with the given service.
func NewRegistryAdapter(service primary.RegistryService, out io.Writer) *RegistryAdapter {
	return &RegistryAdapter{
		service: service,
		out:     out,
	}
}

// Persons lists canonical persons.
func (a *RegistryAdapter) Persons(ctx context.Context, filters primary.RegistryFilters) error {
	persons, err := a.service.ListPersons(ctx, filters)
	if err != nil {
		return err
	}

	if len(persons) == 0 {
		fmt.Fprintln(a.out, "No persons found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-20s %-14s %s\n", "PERSON", "SPECIALTY", "REGION", "WORKPLACE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, p := range persons {
		fmt.Fprintf(a.out, "%-10s %-20s %-14s %s\n", p.PersonID, p.SpecialtyName, p.RegionName, p.WorkplaceName)
	}
	fmt.Fprintf(a.out, "\n%d person(s)\n", len(persons))
	return nil
}

// Dimensions lists stored names for one dimension kind.
func (a *RegistryAdapter) Dimensions(ctx context.Context, kind string) error {
	dims, err := a.service.ListDimensions(ctx, kind)
	if err != nil {
		return err
	}

	if len(dims) == 0 {
		fmt.Fprintf(a.out, "No %s values found\n", kind)
		return nil
	}
	for _, d := range dims {
		fmt.Fprintf(a.out, "%6d  %s\n", d.ID, d.Name)
	}
	return nil
}

// BySpecialty prints head counts per canonical specialty.
func (a *RegistryAdapter) BySpecialty(ctx context.Context) error {
	counts, err := a.service.CountBySpecialty(ctx)
	if err != nil {
		return err
	}

	if len(counts) == 0 {
		fmt.Fprintln(a.out, "No persons found")
		return nil
	}
	for _, c := range counts {
		fmt.Fprintf(a.out, "%-24s %5d\n", c.SpecialtyName, c.Count)
	}
	return nil
}

// SetAlias maps alias onto canonical.
func (a *RegistryAdapter) SetAlias(ctx context.Context, alias, canonical string) error {
	if err := a.service.SetAlias(ctx, alias, canonical); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ %s now reads as %s\n", alias, canonical)
	return nil
}

// Aliases lists every specialty alias.
func (a *RegistryAdapter) Aliases(ctx context.Context) error {
	aliases, err := a.service.ListAliases(ctx)
	if err != nil {
		return err
	}

	if len(aliases) == 0 {
		fmt.Fprintln(a.out, "No aliases defined")
		return nil
	}
	for _, al := range aliases {
		fmt.Fprintf(a.out, "%-24s → %s\n", al.Alias, color.New(color.FgCyan).Sprint(al.Canonical))
	}
	return nil
}
