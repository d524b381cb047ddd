package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/wds/internal/ports/primary"
	"github.com/example/wds/internal/wire"
)

// RegistryCmd returns the registry command group.
func RegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Query the canonical workforce registry",
	}

	cmd.AddCommand(registryPersonsCmd())
	cmd.AddCommand(registryDimensionsCmd())
	cmd.AddCommand(registryBySpecialtyCmd())
	cmd.AddCommand(registryAliasCmd())

	return cmd
}

func registryPersonsCmd() *cobra.Command {
	var (
		regions, workplaces, specialties string
		limit                            int
	)

	cmd := &cobra.Command{
		Use:   "persons",
		Short: "List persons with canonical specialty names",
		Long: `List persons with canonical specialty names.

Filters take comma-separated values; specialty filters match canonical names.

Examples:
  wds registry persons --region Seoul,Busan
  wds registry persons --specialty Cardiology --limit 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := serviceContext(cmd)
			if err != nil {
				return err
			}
			return wire.RegistryAdapter().Persons(ctx, primary.RegistryFilters{
				Regions:     splitList(regions),
				Workplaces:  splitList(workplaces),
				Specialties: splitList(specialties),
				Limit:       limit,
			})
		},
	}

	cmd.Flags().StringVar(&regions, "region", "", "Comma-separated regions")
	cmd.Flags().StringVar(&workplaces, "workplace", "", "Comma-separated workplaces")
	cmd.Flags().StringVar(&specialties, "specialty", "", "Comma-separated canonical specialties")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum persons to show")

	return cmd
}

func registryDimensionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "dimensions [specialty|region|workplace]",
		Short:     "List stored names for a dimension",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"specialty", "region", "workplace"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := serviceContext(cmd)
			if err != nil {
				return err
			}
			return wire.RegistryAdapter().Dimensions(ctx, args[0])
		},
	}
}

func registryBySpecialtyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "by-specialty",
		Short: "Count persons per canonical specialty",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := serviceContext(cmd)
			if err != nil {
				return err
			}
			return wire.RegistryAdapter().BySpecialty(ctx)
		},
	}
}

func registryAliasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alias [alias canonical]",
		Short: "List specialty aliases, or map an alias onto a canonical name",
		Args:  aliasArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := serviceContext(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return wire.RegistryAdapter().Aliases(ctx)
			}
			return wire.RegistryAdapter().SetAlias(ctx, args[0], args[1])
		},
	}
}

// aliasArgs accepts no arguments (list) or exactly two (set).
func aliasArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return cobra.ExactArgs(2)(cmd, args)
}
