package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chronoreel/internal/api"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var saveVideo string

	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show one project's metadata and script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var detail api.ProjectDetail
			if err := ctx.get("/api/project/"+args[0], &detail); err != nil {
				return err
			}

			if saveVideo != "" {
				file, err := os.Create(saveVideo)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer file.Close()
				written, err := ctx.download("/api/video/"+detail.ID, file)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %d bytes to %s\n", written, saveVideo)
				return nil
			}

			if ctx.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), detail)
			}

			rows := [][]string{
				{"ID", detail.ID},
				{"Title", detail.Title},
				{"Year", detail.Year},
				{"Status", detail.Status},
				{"Created", detail.CreatedAt.Format("2006-01-02 15:04:05")},
				{"Source", detail.SourceURL},
				{"Path", detail.Path},
				{"Image", yesNo(detail.HasImage)},
				{"Voice", yesNo(detail.HasVoice)},
				{"Video", yesNo(detail.HasVideo)},
			}
			if detail.CompletedAt != nil {
				rows = append(rows, []string{"Completed", detail.CompletedAt.Format("2006-01-02 15:04:05")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), detail.Script)
			return nil
		},
	}

	cmd.Flags().StringVar(&saveVideo, "save-video", "", "Download the final video to the given path instead of printing details")
	return cmd
}
