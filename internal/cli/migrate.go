package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/wds/internal/db"
	"github.com/example/wds/internal/wire"
)

// MigrateCmd returns the migrate command.
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := serviceContext(cmd)
			if err != nil {
				return err
			}

			applied, err := db.Migrate(ctx, wire.DB())
			if err != nil {
				return err
			}
			current, _, err := db.Version(ctx, wire.DB())
			if err != nil {
				return err
			}

			if applied == 0 {
				fmt.Printf("Schema is up to date (version %d)\n", current)
				return nil
			}
			fmt.Printf("✓ Applied %d migration(s), schema now at version %d\n", applied, current)
			return nil
		},
	}
}

// SeedCmd returns the seed command.
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo fixtures into an empty registry",
		Long: `Load demo dimensions, three persons, one specialty alias and a
pending SEED_DEMO batch. Intended for a freshly migrated database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := serviceContext(cmd)
			if err != nil {
				return err
			}
			if _, err := db.Migrate(ctx, wire.DB()); err != nil {
				return err
			}
			if err := db.SeedFixtures(ctx, wire.DB()); err != nil {
				return err
			}
			fmt.Println("✓ Seeded demo fixtures")
			return nil
		},
	}
}
