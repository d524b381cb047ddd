package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/example/wds/internal/adapters/sqlite"
	"github.com/example/wds/internal/db"
	"github.com/example/wds/internal/version"
	"github.com/example/wds/internal/wire"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate WDS configuration and database",
		Long: `Health check for WDS.

Validates:
- Configuration (WDS_* variables, .env files)
- Database connection
- Schema version and required tables/triggers
- Review backlog waiting for apply

Examples:
  wds doctor              # Run full health check
  wds doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var results []CheckResult

			if err := wire.Init(); err != nil {
				results = append(results, CheckResult{Name: "Configuration", Status: "✗", Details: "  " + err.Error()})
			} else {
				results = append(results, CheckResult{Name: "Configuration", Status: "✓"})
				results = append(results, runDatabaseChecks(cmd.Context(), wire.DB())...)
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Printf("\n%s\n", version.String())
				if cfg := wire.Config(); cfg != nil {
					fmt.Printf("Database: %s\n", cfg.DBPath)
				}
				printResults(results)

				if hasErrors {
					fmt.Println("\n⚠ Issues found. Run 'wds migrate' to bring the schema up to date.")
				} else {
					fmt.Println("All checks passed.")
				}
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// runDatabaseChecks runs every check that needs an open database.
func runDatabaseChecks(ctx context.Context, database *sqlx.DB) []CheckResult {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := database.PingContext(ctx); err != nil {
		return []CheckResult{{Name: "Database", Status: "✗", Details: "  " + err.Error()}}
	}

	results := []CheckResult{{Name: "Database", Status: "✓"}}
	results = append(results, checkSchemaVersion(ctx, database))
	schema := checkSchemaObjects(ctx, database)
	results = append(results, schema)
	if schema.Status == "✓" {
		results = append(results, checkBacklog(ctx, database))
	}
	return results
}

func printResults(results []CheckResult) {
	fmt.Println()
	fmt.Println("Check              Status")
	fmt.Println("─────────────────────────")
	for _, r := range results {
		fmt.Printf("%-18s %s\n", r.Name, r.Status)
	}
	fmt.Println()

	hasDetails := false
	for _, r := range results {
		if r.Status != "✓" && r.Details != "" {
			if !hasDetails {
				fmt.Println("Details:")
				hasDetails = true
			}
			fmt.Printf("\n%s:\n%s\n", r.Name, r.Details)
		}
	}
}

// checkSchemaVersion compares the applied migration version with the latest embedded one
func checkSchemaVersion(ctx context.Context, database *sqlx.DB) CheckResult {
	current, latest, err := db.Version(ctx, database)
	if err != nil {
		return CheckResult{Name: "Schema version", Status: "✗", Details: "  " + err.Error()}
	}
	if current < latest {
		return CheckResult{
			Name:    "Schema version",
			Status:  "✗",
			Details: fmt.Sprintf("  At version %d, latest is %d", current, latest),
		}
	}
	return CheckResult{Name: "Schema version", Status: "✓"}
}

// checkSchemaObjects validates that every required table and trigger exists
func checkSchemaObjects(ctx context.Context, database *sqlx.DB) CheckResult {
	missing, err := db.MissingObjects(ctx, database)
	if err != nil {
		return CheckResult{Name: "Schema objects", Status: "✗", Details: "  " + err.Error()}
	}
	if len(missing) > 0 {
		return CheckResult{
			Name:    "Schema objects",
			Status:  "✗",
			Details: "  Missing: " + strings.Join(missing, ", "),
		}
	}
	return CheckResult{Name: "Schema objects", Status: "✓"}
}

// checkBacklog warns about approved work that apply has not picked up yet
func checkBacklog(ctx context.Context, database *sqlx.DB) CheckResult {
	orphaned, err := sqlite.NewStagingRepository(database).CountOrphanedApproved(ctx)
	if err != nil {
		return CheckResult{Name: "Review backlog", Status: "✗", Details: "  " + err.Error()}
	}
	approved, err := sqlite.NewBatchRepository(database).ListIDsByStatus(ctx, "APPROVED")
	if err != nil {
		return CheckResult{Name: "Review backlog", Status: "✗", Details: "  " + err.Error()}
	}

	if orphaned == 0 && len(approved) == 0 {
		return CheckResult{Name: "Review backlog", Status: "✓"}
	}
	details := fmt.Sprintf("  %d approved batch(es) and %d approved change(s) outside a batch await 'wds apply'",
		len(approved), orphaned)
	return CheckResult{Name: "Review backlog", Status: "⚠", Details: details}
}
