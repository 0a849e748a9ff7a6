package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrNoArchive is returned by archive commands when ARCHIVE_DSN is not set
var ErrNoArchive = errors.New("report archive is not configured (set ARCHIVE_DSN)")

// NewHistoryCommand creates the history command
func NewHistoryCommand(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived reports",
		Long:  `List the most recent report snapshots stored in the report archive.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			if limit <= 0 {
				return fmt.Errorf("limit must be positive, got %d", limit)
			}

			archive, cleanup, err := withArchive(deps)
			if err != nil {
				return fmt.Errorf("failed to open report archive: %w", err)
			}
			defer cleanup()
			if archive == nil {
				return ErrNoArchive
			}

			snapshots, err := archive.RecentReports(limit)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), FormatHistory(snapshots))
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "Maximum number of reports to list")
	return cmd
}
