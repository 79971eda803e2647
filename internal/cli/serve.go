package cli

import (
	"column3d/internal/common/config"
	"column3d/internal/common/logging"
	"column3d/internal/server"

	"github.com/spf13/cobra"
)

type serveOptions struct {
	port      string
	dsn       string
	exportDir string
}

func (a *App) newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP API",
		Long: `Run the dashboard HTTP API. Configuration comes from environment variables
(PORT, ENV, LOG_LEVEL, DATABASE_DSN, PLOTLY_URL, EXPORT_DIR, ...) or CONFIG_FILE; flags
override them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.port != "" {
				cfg.Port = opts.port
			}
			if opts.dsn != "" {
				cfg.DatabaseDSN = opts.dsn
			}
			if opts.exportDir != "" {
				cfg.ExportDir = opts.exportDir
			}

			log := logging.New(cfg.LogLevel, cfg.Environment)
			srv, err := server.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&opts.port, "port", "p", "", "Listen port (overrides PORT)")
	cmd.Flags().StringVar(&opts.dsn, "db", "", "Session store DSN or file path (overrides DATABASE_DSN)")
	cmd.Flags().StringVar(&opts.exportDir, "export-dir", "", "Directory for server-side HTML exports (overrides EXPORT_DIR)")

	return cmd
}
