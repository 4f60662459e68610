package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/owlcache/internal/app"
)

func (c *CLI) newPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove cached entries whose source files changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			return c.app.Prune(cmd.Context(), cmd.OutOrStdout(), app.PruneOptions{
				DryRun: dryRun,
			})
		},
	}

	cmd.Flags().BoolP("dry-run", "n", false, "Report stale entries without removing them")

	return cmd
}
