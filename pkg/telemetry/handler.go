package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
)

// DefaultBatchSize is the number of records buffered before a file is written.
const DefaultBatchSize = 1000

// ParquetHandler is a slog.Handler that archives warnings and errors to Parquet
// files named diagnostics_<uuid>.parquet.
type ParquetHandler struct {
	next  slog.Handler
	attrs []slog.Attr
	sink  *parquetSink
}

// parquetSink is shared by a handler and the handlers derived from it.
type parquetSink struct {
	outputDir string
	runID     string
	batchSize int

	mu     sync.Mutex
	buffer []DiagnosticRecord
	files  []string
}

// NewParquetHandler creates a new ParquetHandler writing into outputDir.
func NewParquetHandler(next slog.Handler, outputDir string, batchSize int) (*ParquetHandler, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ParquetHandler{
		next: next,
		sink: &parquetSink{
			outputDir: outputDir,
			runID:     uuid.New().String(),
			batchSize: batchSize,
			buffer:    make([]DiagnosticRecord, 0, batchSize),
		},
	}, nil
}

// RunID identifies the records of this process.
func (h *ParquetHandler) RunID() string {
	return h.sink.runID
}

// Enabled implements slog.Handler
func (h *ParquetHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler
func (h *ParquetHandler) Handle(ctx context.Context, r slog.Record) error {
	// Always pass to next handler first
	if err := h.next.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level < slog.LevelWarn {
		return nil
	}

	record := newRecord(h.sink.runID, r, h.attrs)

	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()

	h.sink.buffer = append(h.sink.buffer, record)
	if len(h.sink.buffer) >= h.sink.batchSize {
		return h.sink.flush()
	}
	return nil
}

// WithAttrs implements slog.Handler
func (h *ParquetHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ParquetHandler{
		next:  h.next.WithAttrs(attrs),
		attrs: append(slices.Clone(h.attrs), attrs...),
		sink:  h.sink,
	}
}

// WithGroup implements slog.Handler
func (h *ParquetHandler) WithGroup(name string) slog.Handler {
	return &ParquetHandler{
		next:  h.next.WithGroup(name),
		attrs: h.attrs,
		sink:  h.sink,
	}
}

// Flush writes buffered records to a new file.
func (h *ParquetHandler) Flush() error {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	return h.sink.flush()
}

// Close flushes the remaining records.
func (h *ParquetHandler) Close() error {
	return h.Flush()
}

// Files returns the files written so far.
func (h *ParquetHandler) Files() []string {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	return slices.Clone(h.sink.files)
}

// flush writes the current buffer to a new Parquet file
// Caller must hold the lock
func (s *parquetSink) flush() error {
	if len(s.buffer) == 0 {
		return nil
	}

	path := filepath.Join(s.outputDir, fmt.Sprintf("diagnostics_%s.parquet", uuid.New().String()))
	if err := parquet.WriteFile(path, s.buffer); err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = errors.Join(err, rmErr)
		}
		return fmt.Errorf("failed to write telemetry parquet file: %w", err)
	}

	s.files = append(s.files, path)
	s.buffer = s.buffer[:0]
	return nil
}
