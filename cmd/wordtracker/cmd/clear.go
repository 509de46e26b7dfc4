package cmd

import (
	"github.com/spf13/cobra"

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
	"github.com/Aman-CERP/wordtracker/internal/output"
)

func newClearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the repository and its run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return apperrors.ValidationError("refusing to clear without --yes", nil).
					WithSuggestion("Run 'wordtracker clear --yes' to delete every recorded word")
			}
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if err := a.newTracker(cfg, nil).Clear(cmd.Context()); err != nil {
				return err
			}
			if !a.quiet {
				output.New(cmd.OutOrStdout(), a.noColor).Successf("Repository cleared: %s", a.repositoryPath(cfg))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deleting every recorded word")

	return cmd
}
