package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yt-insights/ytreport/internal/logging"
)

// NewReportCommand creates the report command
func NewReportCommand(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [CHANNEL]",
		Short: "Print a channel engagement report",
		Long:  `Resolve a channel by name or @handle and print its profile, recent uploads and per-video statistics.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			formatter, err := NewFormatter(format)
			if err != nil {
				return err
			}

			r, err := runSession(cmd, deps, args[0])
			if err != nil {
				return fmt.Errorf("failed to build report: %w", err)
			}

			archive, cleanup, err := withArchive(deps)
			if err != nil {
				logging.Logger.Warn().Err(err).Msg("report archive unavailable")
			} else {
				defer cleanup()
				if archive != nil {
					if err := archive.SaveReport(r); err != nil {
						logging.Logger.Warn().Err(err).Msg("failed to archive report")
					}
				}
			}

			output, err := formatter.Format(r)
			if err != nil {
				return fmt.Errorf("failed to format report: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().String("format", "text", "Output format: text, json")
	return cmd
}
