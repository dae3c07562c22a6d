package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/akngs/k-families-data/pkg/canonical"
	"github.com/akngs/k-families-data/pkg/normalize"
	"github.com/akngs/k-families-data/pkg/tabular"
	"github.com/akngs/k-families-data/pkg/types"
	"github.com/akngs/k-families-data/pkg/wdqs"
	"golang.org/x/sync/errgroup"
)

// CleanseOptions configures Cleanse.
type CleanseOptions struct {
	RawDir    string
	OutputDir string
	// Sources are concatenated in this order before folding; later sources win.
	Sources  []string
	Parquet  bool
	Manifest bool
}

// Result summarizes a successful Cleanse.
type Result struct {
	Dataset *types.Dataset
	Stats   normalize.Stats
	Files   []string
}

// Cleanse reads the raw extracts, normalizes and canonicalizes them and replaces
// the output tables in OutputDir.
func Cleanse(ctx context.Context, opts CleanseOptions, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.Sources) == 0 {
		opts.Sources = wdqs.QueryNames()
	}

	raw, err := readSources(ctx, opts.RawDir, opts.Sources, logger)
	if err != nil {
		return nil, err
	}

	simplifier := normalize.NewSimplifier(logger)
	records := simplifier.SimplifyAll(raw)
	stats := simplifier.Stats()
	logger.Info("Simplified records", "rows", stats.Rows, "diagnostics", stats.Diagnostics())

	ds := canonical.Canonicalize(records)
	counts := ds.Counts()
	logger.Info("Canonicalized dataset",
		"persons", counts[types.TablePersons],
		"nationalities", counts[types.TableNationalities],
		"person2person", counts[types.TablePersonRelations],
		"person2nationality", counts[types.TablePersonNationalities])

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := writeOutputs(ctx, ds, opts, stats, logger)
	if err != nil {
		return nil, err
	}
	return &Result{Dataset: ds, Stats: stats, Files: files}, nil
}

// readSources parses every source concurrently and concatenates the records in
// source order.
func readSources(ctx context.Context, dir string, sources []string, logger *slog.Logger) ([]types.RawRecord, error) {
	logger.Info("Reading raw csvs", "dir", dir, "sources", sources)

	parsed := make([][]types.RawRecord, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, err := tabular.ReadRawFile(filepath.Join(dir, RawFileName(source)))
			if err != nil {
				return fmt.Errorf("source %s: %w", source, err)
			}
			parsed[i] = records
			logger.Debug("Parsed source", "source", source, "rows", len(records))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(parsed...), nil
}

func writeOutputs(ctx context.Context, ds *types.Dataset, opts CleanseOptions, stats normalize.Stats, logger *slog.Logger) ([]string, error) {
	stage, err := tabular.NewStage(opts.OutputDir)
	if err != nil {
		return nil, err
	}

	tables := tabular.FromDataset(ds)
	entries := make([]ManifestFile, len(tables))
	var parquetEntries []ManifestFile
	if opts.Parquet {
		parquetEntries = make([]ManifestFile, len(tables))
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, table := range tables {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, err := stageFile(stage, tabular.CSVFileName(table.Name), table, func(w io.Writer) error {
				return tabular.WriteCSV(w, table)
			})
			entries[i] = entry
			return err
		})
		if opts.Parquet {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				entry, err := stageFile(stage, tabular.ParquetFileName(table.Name), table, func(w io.Writer) error {
					return tabular.WriteParquet(w, table)
				})
				parquetEntries[i] = entry
				return err
			})
		}
	}
	err = g.Wait()

	if err == nil && opts.Manifest {
		m := Manifest{
			Sources:     opts.Sources,
			Files:       append(entries, parquetEntries...),
			Diagnostics: stats.Diagnostics(),
		}
		err = stage.WriteFile(ManifestFileName, func(f *os.File) error {
			return m.Write(f)
		})
	}

	if err != nil {
		if abortErr := stage.Abort(); abortErr != nil {
			logger.Warn("Failed to remove staged files", "error", abortErr)
		}
		return nil, err
	}

	files := stage.Staged()
	if err := stage.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit outputs: %w", err)
	}
	logger.Info("Committed output tables", "dir", opts.OutputDir, "files", files)
	return files, nil
}

// stageFile writes one file through the stage and records its checksum.
func stageFile(stage *tabular.Stage, name string, table tabular.Table, write func(w io.Writer) error) (ManifestFile, error) {
	h := sha256.New()
	err := stage.WriteFile(name, func(f *os.File) error {
		return write(io.MultiWriter(f, h))
	})
	if err != nil {
		return ManifestFile{}, err
	}
	return ManifestFile{
		File:   name,
		Table:  table.Name,
		Rows:   len(table.Rows),
		SHA256: hex.EncodeToString(h.Sum(nil)),
	}, nil
}
