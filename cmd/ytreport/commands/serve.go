package commands

import (
	"github.com/spf13/cobra"

	"github.com/yt-insights/ytreport/internal/api"
	"github.com/yt-insights/ytreport/internal/logging"
)

// NewServeCommand creates the serve command
func NewServeCommand(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the report HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetString("port")
			if port == "" {
				port = deps.Config.Port
			}

			archive, cleanup, err := withArchive(deps)
			if err != nil {
				logging.Logger.Warn().Err(err).Msg("report archive unavailable, continuing without it")
				archive, cleanup = nil, func() {}
			}
			defer cleanup()

			return api.NewServer(deps.Config, deps.Providers, archive).Start(port)
		},
	}

	cmd.Flags().String("port", "", "Port to listen on (defaults to PORT)")
	return cmd
}
