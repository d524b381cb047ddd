package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/wds/internal/wire"
)

// BatchCmd returns the batch command group.
func BatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Inspect and review change batches",
		Long: `Inspect and review change batches.

Reviewing a batch sets the batch and every row that apply has not consumed to
the same decision. Batches that apply has already processed cannot be
reviewed again.`,
	}

	cmd.AddCommand(batchListCmd())
	cmd.AddCommand(batchShowCmd())
	cmd.AddCommand(batchReviewCmd("approve", "APPROVED"))
	cmd.AddCommand(batchReviewCmd("reject", "REJECTED"))

	return cmd
}

func batchListCmd() *cobra.Command {
	var (
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List batches, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := serviceContext(cmd)
			if err != nil {
				return err
			}
			return wire.BatchAdapter().List(ctx, status, limit)
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum batches to show")

	return cmd
}

func batchShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [batch-id]",
		Short: "Show batch details and row counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := serviceContext(cmd)
			if err != nil {
				return err
			}
			id, err := parseID("batch", args[0])
			if err != nil {
				return err
			}
			_, err = wire.BatchAdapter().Show(ctx, id)
			return err
		},
	}
}

func batchReviewCmd(verb, decision string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " [batch-id]",
		Short: "Mark a batch and its unconsumed rows " + decision,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := serviceContext(cmd)
			if err != nil {
				return err
			}
			id, err := parseID("batch", args[0])
			if err != nil {
				return err
			}
			return wire.BatchAdapter().Review(ctx, id, decision)
		},
	}
}
