package kfamilies

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/akngs/k-families-data/pkg/server"
	"github.com/akngs/k-families-data/pkg/tabular"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the output tables over a read-only HTTP API",
	Long: `Load the committed output tables into memory and serve them.

Endpoints:
  GET /health
  GET /live
  GET /api/v1/persons/:key
  GET /api/v1/persons/:key/relatives
  GET /api/v1/nationalities
  GET /api/v1/nationalities/:key/persons`,
	RunE: runServe,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server-specific flags
	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serveCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serveCmd.Flags().StringVar(&serverMode, "mode", "release", "Server mode (debug, release, test)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Override config with command-line flags
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}

	ds, err := tabular.ReadDatasetDir(cfg.Data.OutputDir)
	if err != nil {
		return err
	}

	srv := server.New(cfg, server.NewIndex(ds), appLogger)
	srv.Setup()

	ctx, cancel := signalContext()
	defer cancel()

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		appLogger.Info("Server stopped gracefully")
		return nil
	}
}
