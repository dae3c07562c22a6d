package kfamilies

import (
	"context"
	"fmt"

	"github.com/akngs/k-families-data/pkg/config"
	"github.com/akngs/k-families-data/pkg/pipeline"
	"github.com/spf13/cobra"
)

var cleanseCmd = &cobra.Command{
	Use:   "cleanse",
	Short: "Build the output tables from the raw extracts",
	Long: `Read data/raw-<source>.csv for every configured source, normalize and
canonicalize the records and write persons.csv, nationalities.csv,
person2person.csv and person2nationality.csv. Output files are replaced together
or not at all.`,
	RunE: runCleanse,
}

func init() {
	rootCmd.AddCommand(cleanseCmd)
	addCleanseFlags(cleanseCmd)
}

func addCleanseFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("sources", nil, "source names in concatenation order; later sources win")
	cmd.Flags().Bool("parquet", false, "also write a parquet copy of every table")
	cmd.Flags().Bool("manifest", true, "write manifest.yaml with row counts and checksums")
}

func runCleanse(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	overrideCleanseFlags(cmd, cfg)

	ctx, cancel := signalContext()
	defer cancel()

	return cleanse(ctx, cfg)
}

func overrideCleanseFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("sources") {
		cfg.Data.Sources, _ = cmd.Flags().GetStringSlice("sources")
	}
	if cmd.Flags().Changed("parquet") {
		cfg.Output.Parquet, _ = cmd.Flags().GetBool("parquet")
	}
	if cmd.Flags().Changed("manifest") {
		cfg.Output.Manifest, _ = cmd.Flags().GetBool("manifest")
	}
}

func cleanse(ctx context.Context, cfg *config.Config) error {
	result, err := pipeline.Cleanse(ctx, pipeline.CleanseOptions{
		RawDir:    cfg.Data.RawDir,
		OutputDir: cfg.Data.OutputDir,
		Sources:   cfg.Data.Sources,
		Parquet:   cfg.Output.Parquet,
		Manifest:  cfg.Output.Manifest,
	}, appLogger)
	if err != nil {
		return fmt.Errorf("cleanse failed: %w", err)
	}
	appLogger.Info("Cleanse finished", "files", len(result.Files), "diagnostics", result.Stats.Diagnostics())
	return nil
}
