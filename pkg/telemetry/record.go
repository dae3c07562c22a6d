// Package telemetry archives pipeline diagnostics. Its handlers sit in front of the
// console handler, pass every record through and keep a copy of the warnings and
// errors for later inspection.
package telemetry

import (
	"encoding/json"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
)

// DiagnosticRecord is one archived log entry.
type DiagnosticRecord struct {
	ID         string    `parquet:"id"`
	RunID      string    `parquet:"run_id"`
	Timestamp  time.Time `parquet:"timestamp"`
	Level      string    `parquet:"level"`
	Message    string    `parquet:"message"`
	Column     string    `parquet:"column"`
	Value      string    `parquet:"value"`
	SourceFile string    `parquet:"source_file"`
	LineNumber int       `parquet:"line_number"`
	Attributes string    `parquet:"attributes"` // JSON string
}

// newRecord flattens r and the handler's accumulated attrs. The column and value
// attributes of field diagnostics get their own fields.
func newRecord(runID string, r slog.Record, inherited []slog.Attr) DiagnosticRecord {
	rec := DiagnosticRecord{
		ID:        uuid.New().String(),
		RunID:     runID,
		Timestamp: r.Time.UTC(),
		Level:     r.Level.String(),
		Message:   r.Message,
	}

	attrs := make(map[string]interface{})
	collect := func(a slog.Attr) bool {
		switch a.Key {
		case "column":
			rec.Column = a.Value.String()
		case "value":
			rec.Value = a.Value.String()
		default:
			attrs[a.Key] = a.Value.Resolve().Any()
		}
		return true
	}
	for _, a := range inherited {
		collect(a)
	}
	r.Attrs(collect)

	if len(attrs) > 0 {
		if b, err := json.Marshal(attrs); err == nil {
			rec.Attributes = string(b)
		}
	}

	if r.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := fs.Next()
		rec.SourceFile = f.File
		rec.LineNumber = f.Line
	}
	return rec
}
