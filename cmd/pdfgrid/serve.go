package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdfgrid/pdfgrid/internal/config"
	"github.com/pdfgrid/pdfgrid/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pdfgrid server",
	Long: `Start the pdfgrid HTTP server.

The server provides:
  - /health            - Basic server health check
  - /api/status        - Strategy availability (model, external)
  - /api/parse/upload  - Extract rows from an uploaded PDF
  - /api/parse/text    - Extract rows from raw text
  - /api/export/csv    - Export extracted rows as CSV
  - /api/export/xlsx   - Export extracted rows as XLSX
  - /api/convert       - Convert a PDF to page images or plain text

Examples:
  pdfgrid serve                    # Start on default port 8080
  pdfgrid serve --port 3000        # Start on custom port
  pdfgrid serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		mgr.OnChange(func(cfg *config.Config) {
			logger.Info("configuration reloaded")
		})
		mgr.WatchConfig()

		if err := os.MkdirAll(mgr.Get().Server.OutputDir, 0o755); err != nil {
			return err
		}

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: mgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
