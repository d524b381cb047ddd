package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/wds/internal/ports/primary"
	"github.com/example/wds/internal/wire"
)

// AuditCmd returns the audit command.
func AuditCmd() *cobra.Command {
	var filters primary.AuditFilters

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit timeline, newest first",
		Long: `Show applied changes, newest first.

Examples:
  wds audit                  # Latest entries (WDS_AUDIT_LIMIT)
  wds audit --person P100    # History of one person
  wds audit --batch 12       # Changes applied by one batch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := serviceContext(cmd)
			if err != nil {
				return err
			}
			return wire.AuditAdapter().Timeline(ctx, filters)
		},
	}

	cmd.Flags().StringVar(&filters.PersonID, "person", "", "Filter by person id")
	cmd.Flags().Int64Var(&filters.BatchID, "batch", 0, "Filter by batch id")
	cmd.Flags().IntVar(&filters.Limit, "limit", 0, "Maximum entries (defaults to WDS_AUDIT_LIMIT)")

	return cmd
}
