package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chronoreel/internal/api"
)

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List all projects, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var summaries []api.ProjectSummary
			if err := ctx.get("/api/projects", &summaries); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), summaries)
			}
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects yet. Queue one with `chronoreel generate`.")
				return nil
			}

			rows := make([][]string, 0, len(summaries))
			for _, p := range summaries {
				rows = append(rows, []string{
					p.ID, p.Title, p.Year, p.Status,
					yesNo(p.HasImage), yesNo(p.HasVoice), yesNo(p.HasVideo),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Title", "Year", "Status", "Image", "Voice", "Video"},
				rows,
			))
			return nil
		},
	}
}
