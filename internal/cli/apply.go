package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/wds/internal/wire"
)

// ApplyCmd returns the apply command.
func ApplyCmd() *cobra.Command {
	var batchID int64

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Commit approved changes to the registry",
		Long: `Apply approved staged changes to the canonical registry.

Without --batch, approved rows outside any batch are first grouped into a new
AUTO_APPROVED batch, then every APPROVED batch is applied in creation order.
Each batch commits or rolls back as a whole.

Examples:
  wds apply              # Apply every approved batch
  wds apply --batch 12   # Apply only batch 12`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := serviceContext(cmd)
			if err != nil {
				return err
			}

			var target *int64
			if cmd.Flags().Changed("batch") {
				if _, err := parseID("batch", cmd.Flag("batch").Value.String()); err != nil {
					return err
				}
				target = &batchID
			}

			_, applyErr := wire.ApplyAdapter().Apply(ctx, target)
			if err := wire.FlushMetrics(); err != nil {
				wire.Logger().WithError(err).Warn("metrics not written")
			}
			return applyErr
		},
	}

	cmd.Flags().Int64Var(&batchID, "batch", 0, "Apply only this batch")

	return cmd
}
