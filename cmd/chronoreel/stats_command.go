package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"chronoreel/internal/api"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the project library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats api.StatsResponse
			if err := ctx.get("/api/stats", &stats); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), stats)
			}

			rows := [][]string{
				{"Total projects", strconv.Itoa(stats.TotalProjects)},
				{"Completed videos", strconv.Itoa(stats.CompletedVideos)},
				{"Pending", strconv.Itoa(stats.Pending)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Metric", "Count"}, rows, "Count"))
			return nil
		},
	}
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check daemon liveness and provider readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var health api.HealthResponse
			if err := ctx.get("/health", &health); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), health)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Daemon: %s\n", health.Status)
			fmt.Fprintf(cmd.OutOrStdout(), "ElevenLabs configured: %s\n", yesNo(health.ElevenLabs))
			return nil
		},
	}
}
