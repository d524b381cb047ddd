package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/wds/internal/cli"
	"github.com/example/wds/internal/version"
	"github.com/example/wds/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "wds",
		Short:   "WDS - workforce registry with staged review and batch apply",
		Version: version.String(),
		Long: `WDS keeps a canonical registry of persons and their specialty, region
and workplace. Changes are staged from files or the command line, reviewed,
and committed batch by batch with a full audit timeline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Schema and environment
	rootCmd.AddCommand(cli.MigrateCmd())
	rootCmd.AddCommand(cli.SeedCmd())
	rootCmd.AddCommand(cli.DoctorCmd())

	// Intake and review
	rootCmd.AddCommand(cli.IntakeCmd())
	rootCmd.AddCommand(cli.StageCmd())
	rootCmd.AddCommand(cli.StagingCmd())
	rootCmd.AddCommand(cli.BatchCmd())

	// Apply and queries
	rootCmd.AddCommand(cli.ApplyCmd())
	rootCmd.AddCommand(cli.AuditCmd())
	rootCmd.AddCommand(cli.RegistryCmd())

	err := rootCmd.ExecuteContext(context.Background())
	_ = wire.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
