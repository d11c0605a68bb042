package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"chronoreel/internal/api"
	"chronoreel/internal/jobs"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var manual bool
	var useNova bool
	var wait bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Queue a new video generation job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			autoGenerate := !manual
			var resp api.GenerateResponse
			err := ctx.post("/api/generate", api.GenerateRequest{
				AutoGenerate: &autoGenerate,
				UseNova:      useNova,
			}, &resp)
			if err != nil {
				return err
			}

			if !wait {
				if ctx.jsonOutput() {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued job %s (nova: %s)\n", resp.JobID, yesNo(resp.UseNova))
				fmt.Fprintf(cmd.OutOrStdout(), "Track it with: chronoreel status %s\n", resp.JobID)
				return nil
			}

			return waitForJob(cmd, ctx, resp.JobID)
		},
	}

	cmd.Flags().BoolVar(&manual, "manual", false, "Create the project only; skip image, voice, and video generation")
	cmd.Flags().BoolVar(&useNova, "nova", false, "Render the video with the cloud backend instead of local compositing")
	cmd.Flags().BoolVar(&wait, "wait", false, "Poll the job until it reaches a terminal status")
	return cmd
}

// waitForJob polls until the job reaches a terminal status, echoing progress
// transitions as they appear.
func waitForJob(cmd *cobra.Command, ctx *commandContext, jobID string) error {
	lastMessage := ""
	for {
		var status api.JobStatus
		if err := ctx.get("/api/status/"+jobID, &status); err != nil {
			return err
		}

		if status.Message != lastMessage {
			fmt.Fprintf(cmd.OutOrStdout(), "[%3d%%] %s %s\n", status.Progress, status.Status, status.Message)
			lastMessage = status.Message
		}

		if jobs.Status(status.Status).Terminal() {
			if ctx.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), status)
			}
			if status.ProjectID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Project: %s\n", status.ProjectID)
			}
			if status.Status == string(jobs.StatusError) {
				return fmt.Errorf("job failed: %s", status.Message)
			}
			return nil
		}

		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-time.After(2 * time.Second):
		}
	}
}
