package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/wds/internal/adapters/intake"
	"github.com/example/wds/internal/core/batch"
	"github.com/example/wds/internal/ports/primary"
	"github.com/example/wds/internal/wire"
)

// IntakeCmd returns the intake command.
func IntakeCmd() *cobra.Command {
	var name, source string

	cmd := &cobra.Command{
		Use:   "intake [file]",
		Short: "Stage a CSV or XLSX file of changes as one pending batch",
		Long: `Read a change file and stage every row as one PENDING batch.

Required columns: action_type, specialty_name, region_name, workplace_name.
Optional columns: person_id, source_note. The whole file is refused when any
row is invalid.

Examples:
  wds intake march.xlsx
  wds intake fixes.csv --name "March fixes" --source MANUAL`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := serviceContext(cmd)
			if err != nil {
				return err
			}

			changes, err := intake.ReadFile(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(args[0])
			}

			_, err = wire.StagingAdapter().Submit(ctx, primary.SubmitBatchRequest{
				Name:       name,
				SourceType: source,
				Changes:    changes,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Batch name (defaults to the file name)")
	cmd.Flags().StringVar(&source, "source", string(batch.SourceFileUpload), "Batch source type (FILE_UPLOAD or MANUAL)")

	return cmd
}

// StageCmd returns the stage command for a single change outside any batch.
func StageCmd() *cobra.Command {
	var change primary.ChangeInput

	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Stage one change outside any batch",
		Long: `Stage a single PENDING change. Once approved it is picked up by the next
'wds apply' run and grouped into an automatic batch.

Examples:
  wds stage --action NEW --person P300 --specialty Cardiology --region Seoul --workplace "Hospital A"
  wds stage --action UPDATE --person P100 --specialty Cardiology --region Busan --workplace "Hospital B" --note transfer`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := serviceContext(cmd)
			if err != nil {
				return err
			}
			return wire.StagingAdapter().Stage(ctx, change)
		},
	}

	cmd.Flags().StringVar(&change.ActionType, "action", "", "NEW or UPDATE")
	cmd.Flags().StringVar(&change.PersonID, "person", "", "Person id (required for UPDATE)")
	cmd.Flags().StringVar(&change.SpecialtyName, "specialty", "", "Specialty name")
	cmd.Flags().StringVar(&change.RegionName, "region", "", "Region name")
	cmd.Flags().StringVar(&change.WorkplaceName, "workplace", "", "Workplace name")
	cmd.Flags().StringVar(&change.SourceNote, "note", "", "Free-text note")
	_ = cmd.MarkFlagRequired("action")

	return cmd
}
