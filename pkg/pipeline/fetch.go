package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/akngs/k-families-data/pkg/tabular"
	"github.com/akngs/k-families-data/pkg/wdqs"
	"golang.org/x/sync/errgroup"
)

// FetchOptions configures Fetch.
type FetchOptions struct {
	RawDir     string
	QueriesDir string
	Names      []string
}

// RawFileName returns the file name of a source's raw extract.
func RawFileName(source string) string {
	return "raw-" + source + ".csv"
}

// Fetch runs every named query concurrently and writes raw-<name>.csv into RawDir.
func Fetch(ctx context.Context, q wdqs.Querier, opts FetchOptions, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	names := opts.Names
	if len(names) == 0 {
		names = wdqs.QueryNames()
	}

	queries, err := wdqs.LoadQueries(opts.QueriesDir, names)
	if err != nil {
		return err
	}

	stage, err := tabular.NewStage(opts.RawDir)
	if err != nil {
		return err
	}

	logger.Info("Running sparql queries", "count", len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for name, sparql := range queries {
		g.Go(func() error {
			body, err := q.Query(gctx, name, sparql)
			if err != nil {
				return fmt.Errorf("query %s: %w", name, err)
			}
			return stage.WriteFile(RawFileName(name), func(f *os.File) error {
				_, err := f.Write(body)
				return err
			})
		})
	}
	if err := g.Wait(); err != nil {
		if abortErr := stage.Abort(); abortErr != nil {
			logger.Warn("Failed to remove staged files", "error", abortErr)
		}
		return err
	}

	logger.Info("Writing raw csvs", "dir", opts.RawDir, "files", stage.Staged())
	if err := stage.Commit(); err != nil {
		return fmt.Errorf("failed to commit raw extracts: %w", err)
	}
	return nil
}
