package normalize

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/akngs/k-families-data/pkg/types"
)

// Stats counts simplified rows and the diagnostics raised while simplifying them.
type Stats struct {
	Rows             int
	InvalidEntityURI int
	InvalidDate      int
	UnknownGender    int
	UnknownRelation  int
}

// Diagnostics returns the total number of field diagnostics.
func (s Stats) Diagnostics() int {
	return s.InvalidEntityURI + s.InvalidDate + s.UnknownGender + s.UnknownRelation
}

// Simplifier maps raw source rows to normalized records.
// Field failures are logged as diagnostics and leave the field absent.
type Simplifier struct {
	logger *slog.Logger

	mu    sync.Mutex
	stats Stats
}

// NewSimplifier creates a Simplifier that reports diagnostics to logger.
// A nil logger falls back to slog.Default().
func NewSimplifier(logger *slog.Logger) *Simplifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simplifier{logger: logger}
}

// Simplify normalizes one raw row. It always returns a record, even when every field
// is absent.
func (s *Simplifier) Simplify(raw types.RawRecord) types.NormalizedRecord {
	var rec types.NormalizedRecord
	var err error

	rec.Key, err = EntityID(raw.Get(types.ColumnHuman))
	s.report(types.ColumnHuman, err)
	rec.Name = raw.Get(types.ColumnHumanLabel)
	rec.Description = raw.Get(types.ColumnHumanDescription)

	rec.Gender, err = Gender(raw.Get(types.ColumnGender))
	s.report(types.ColumnGender, err)
	rec.Birthdate, err = Date(raw.Get(types.ColumnBirthdate))
	s.report(types.ColumnBirthdate, err)
	rec.Deathdate, err = Date(raw.Get(types.ColumnDeathdate))
	s.report(types.ColumnDeathdate, err)

	rec.NationalityKey, err = EntityID(raw.Get(types.ColumnNationality))
	s.report(types.ColumnNationality, err)
	rec.NationalityLabel = raw.Get(types.ColumnNationalityLabel)

	rec.Relative, err = EntityID(raw.Get(types.ColumnRelative))
	s.report(types.ColumnRelative, err)
	rec.InvRelType, err = RelationType(raw.Get(types.ColumnInvRelType))
	s.report(types.ColumnInvRelType, err)

	s.mu.Lock()
	s.stats.Rows++
	s.mu.Unlock()

	return rec
}

// SimplifyAll normalizes rows in order.
func (s *Simplifier) SimplifyAll(rows []types.RawRecord) []types.NormalizedRecord {
	out := make([]types.NormalizedRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, s.Simplify(row))
	}
	return out
}

// Stats returns a snapshot of the counters.
func (s *Simplifier) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Simplifier) report(column string, err error) {
	if err == nil {
		return
	}

	var fe *FieldError
	if !errors.As(err, &fe) {
		s.logger.Warn("Field normalization failed", "column", column, "error", err)
		return
	}

	s.mu.Lock()
	switch {
	case errors.Is(fe, ErrInvalidEntityURI):
		s.stats.InvalidEntityURI++
	case errors.Is(fe, ErrInvalidDate):
		s.stats.InvalidDate++
	case errors.Is(fe, ErrUnknownGender):
		s.stats.UnknownGender++
	case errors.Is(fe, ErrUnknownRelation):
		s.stats.UnknownRelation++
	}
	s.mu.Unlock()

	s.logger.Warn(fe.Kind.Error(), "column", column, "value", fe.Value)
}
