package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/wds/internal/ports/primary"
	"github.com/example/wds/internal/wire"
)

// StagingCmd returns the staging command group.
func StagingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staging",
		Short: "Inspect and review staged changes",
	}

	cmd.AddCommand(stagingListCmd())
	cmd.AddCommand(stagingReviewCmd("approve", "APPROVED"))
	cmd.AddCommand(stagingReviewCmd("reject", "REJECTED"))

	return cmd
}

func stagingListCmd() *cobra.Command {
	var filters primary.StagingFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staged changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := serviceContext(cmd)
			if err != nil {
				return err
			}
			return wire.StagingAdapter().List(ctx, filters)
		},
	}

	cmd.Flags().StringVarP(&filters.Status, "status", "s", "", "Filter by status")
	cmd.Flags().Int64Var(&filters.BatchID, "batch", 0, "Filter by batch id")
	cmd.Flags().IntVar(&filters.Limit, "limit", 0, "Maximum rows to show")

	return cmd
}

func stagingReviewCmd(verb, decision string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " [staging-id...]",
		Short: "Mark staged changes " + decision,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := serviceContext(cmd)
			if err != nil {
				return err
			}

			adapter := wire.StagingAdapter()
			for _, arg := range args {
				id, err := parseID("staging", arg)
				if err != nil {
					return err
				}
				if err := adapter.Review(ctx, id, decision); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
