// Package kfamilies implements the kfamilies command line tool.
package kfamilies

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/akngs/k-families-data/pkg/config"
	"github.com/akngs/k-families-data/pkg/logger"
	"github.com/akngs/k-families-data/pkg/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "kfamilies",
		Short: "kfamilies: family relations of notable Koreans from Wikidata",
		Long: `kfamilies fetches person and kinship extracts from the Wikidata Query Service
and cleanses them into four tables: persons, nationalities, person2person and
person2nationality.

The tables can be loaded into PostgreSQL or Neo4j, or served over HTTP.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupLogging,
	}

	// appLogger is configured by setupLogging before any command runs.
	appLogger = slog.Default()
	// diagnostics archives warnings when telemetry is enabled.
	diagnostics *telemetry.ParquetHandler
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.Execute()
	if diagnostics != nil {
		if closeErr := diagnostics.Close(); closeErr != nil {
			fmt.Fprintln(os.Stderr, "Failed to write diagnostics:", closeErr)
		}
	}
	if err != nil {
		appLogger.Error("Command failed", "error", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kfamilies.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding raw extracts and output tables")

	// Bind flags to viper
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".kfamilies" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".kfamilies")
	}

	viper.SetEnvPrefix("KFAMILIES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setupLogging installs the console logger and, when enabled, the diagnostics
// archive in front of it.
func setupLogging(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log := logger.NewLogger(logger.Options{Level: level, Format: cfg.Log.Format})

	if cfg.Telemetry.Enabled && cfg.Telemetry.ParquetPath != "" {
		h, err := telemetry.NewParquetHandler(log.Handler(), cfg.Telemetry.ParquetPath, cfg.Telemetry.BatchSize)
		if err != nil {
			log.Warn("Failed to initialize diagnostics archive", "error", err)
		} else {
			diagnostics = h
			log = slog.New(h)
			log.Debug("Diagnostics archive enabled", "dir", cfg.Telemetry.ParquetPath, "run_id", h.RunID())
		}
	}

	appLogger = log.With("command", cmd.Name())
	slog.SetDefault(log)
	return nil
}

// loadConfig loads the configuration and applies the global flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.Data.RawDir = dir
		cfg.Data.OutputDir = dir
	}
	return cfg, nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

var errNothingToDo = errors.New("nothing to do")
