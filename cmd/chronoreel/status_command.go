package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"chronoreel/internal/api"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show the current state of a generation job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var status api.JobStatus
			if err := ctx.get("/api/status/"+args[0], &status); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), status)
			}

			rows := [][]string{
				{"Job", status.JobID},
				{"Status", status.Status},
				{"Progress", strconv.Itoa(status.Progress) + "%"},
				{"Message", status.Message},
			}
			if status.ProjectID != "" {
				rows = append(rows,
					[]string{"Project", status.ProjectID},
					[]string{"Title", status.Title},
					[]string{"Year", status.Year},
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))
			return nil
		},
	}
}
