package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yt-insights/ytreport/internal/report"
)

// NewExportCommand creates the export command
func NewExportCommand(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [CHANNEL]",
		Short: "Export a channel report as CSV and/or PDF",
		Long: `Build a channel report and write its statistics table as CSV and/or a PDF document.
Without --csv or --pdf both files are written using the channel name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			csvPath, _ := cmd.Flags().GetString("csv")
			pdfPath, _ := cmd.Flags().GetString("pdf")

			r, err := runSession(cmd, deps, args[0])
			if err != nil {
				return fmt.Errorf("failed to build report: %w", err)
			}
			for _, w := range r.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			if !r.HasStatistics() {
				return fmt.Errorf("no detailed video stats available for %s", r.Profile.Name)
			}

			if csvPath == "" && pdfPath == "" {
				csvPath = report.FileName(r.Profile.Name, "csv")
				pdfPath = report.FileName(r.Profile.Name, "pdf")
			}

			if csvPath != "" {
				data, err := report.CSVBytes(r.Statistics)
				if err != nil {
					return err
				}
				if err := os.WriteFile(csvPath, data, 0644); err != nil {
					return fmt.Errorf("failed to write CSV report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "CSV report written to %s\n", csvPath)
			}

			if pdfPath != "" {
				data, err := report.RenderPDF(r.Profile, r.Statistics)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pdfPath, data, 0644); err != nil {
					return fmt.Errorf("failed to write PDF report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "PDF report written to %s\n", pdfPath)
			}
			return nil
		},
	}

	cmd.Flags().String("csv", "", "Path of the CSV report")
	cmd.Flags().String("pdf", "", "Path of the PDF report")
	return cmd
}
