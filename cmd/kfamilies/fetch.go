package kfamilies

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/akngs/k-families-data/pkg/alert"
	"github.com/akngs/k-families-data/pkg/config"
	"github.com/akngs/k-families-data/pkg/pipeline"
	"github.com/akngs/k-families-data/pkg/wdqs"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run the SPARQL queries and save the raw extracts",
	Long: `Run the persons, relatives and relatives-indirect queries against the Wikidata
Query Service and write data/raw-<name>.csv. The extracts are replaced only when
every query succeeds.`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	addFetchFlags(fetchCmd)
}

func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().String("endpoint", "", "SPARQL endpoint URL")
	cmd.Flags().String("queries-dir", "", "directory with <name>.sparql files overriding the built-in queries")
	cmd.Flags().String("cache-dir", "", "directory of the query response cache")
	cmd.Flags().Bool("no-cache", false, "bypass the query response cache")
}

func runFetch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	overrideFetchFlags(cmd, cfg)

	ctx, cancel := signalContext()
	defer cancel()

	return fetch(ctx, cfg)
}

func overrideFetchFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("endpoint") {
		cfg.Fetch.Endpoint, _ = cmd.Flags().GetString("endpoint")
	}
	if cmd.Flags().Changed("queries-dir") {
		cfg.Fetch.QueriesDir, _ = cmd.Flags().GetString("queries-dir")
	}
	if cmd.Flags().Changed("cache-dir") {
		cfg.Fetch.CacheDir, _ = cmd.Flags().GetString("cache-dir")
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Fetch.CacheDir = ""
	}
}

// newQuerier builds the HTTP client with the optional cache and circuit breaker.
// The returned function releases the cache.
func newQuerier(cfg *config.Config, logger *slog.Logger) (wdqs.Querier, func(), error) {
	var q wdqs.Querier = wdqs.NewClient(cfg.Fetch, logger)
	q = wdqs.WithCircuitBreaker(q, cfg.CircuitBreaker, alert.New(cfg.Alert), logger)

	if cfg.Fetch.CacheDir == "" {
		return q, func() {}, nil
	}
	cache, err := wdqs.OpenCache(cfg.Fetch.CacheDir, time.Duration(cfg.Fetch.CacheTTL)*time.Second)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := cache.Close(); err != nil {
			logger.Warn("Failed to close query cache", "error", err)
		}
	}
	return wdqs.NewCachedQuerier(q, cache, logger), release, nil
}

func fetch(ctx context.Context, cfg *config.Config) error {
	q, release, err := newQuerier(cfg, appLogger)
	if err != nil {
		return err
	}
	defer release()

	err = pipeline.Fetch(ctx, q, pipeline.FetchOptions{
		RawDir:     cfg.Data.RawDir,
		QueriesDir: cfg.Fetch.QueriesDir,
		Names:      cfg.Data.Sources,
	}, appLogger)
	if err != nil {
		if alertErr := alert.New(cfg.Alert).Alert("Fetch failed", err.Error()); alertErr != nil {
			appLogger.Warn("Failed to send alert", "error", alertErr)
		}
		return fmt.Errorf("fetch failed: %w", err)
	}
	return nil
}
