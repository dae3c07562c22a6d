package tabular

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Stage collects output files as temporaries inside the target directory and moves
// them into place together on Commit. Until then no target file is touched, so an
// aborted run leaves the previous outputs as they were.
//
// Create may be called from several goroutines; each file name may be staged once.
type Stage struct {
	dir string

	mu      sync.Mutex
	pending map[string]string // final name -> temp path
}

// NewStage prepares a stage that commits into dir, creating it if needed.
func NewStage(dir string) (*Stage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &Stage{dir: dir, pending: make(map[string]string)}, nil
}

// Dir returns the directory files are committed into.
func (s *Stage) Dir() string {
	return s.dir
}

// Create opens a temporary file that becomes dir/name on Commit.
func (s *Stage) Create(name string) (*os.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[name]; ok {
		return nil, fmt.Errorf("file %s already staged", name)
	}

	f, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to stage %s: %w", name, err)
	}
	s.pending[name] = f.Name()
	return f, nil
}

// WriteFile stages name with the content produced by write.
func (s *Stage) WriteFile(name string, write func(f *os.File) error) error {
	f, err := s.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return nil
}

// Staged returns the names of staged files, sorted.
func (s *Stage) Staged() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.pending))
	for name := range s.pending {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TempPath returns the temporary path backing a staged file.
func (s *Stage) TempPath(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[name]
	return p, ok
}

// Commit renames every staged file to its final name.
func (s *Stage) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, tmp := range s.pending {
		if err := os.Chmod(tmp, 0644); err != nil {
			return fmt.Errorf("failed to set mode of %s: %w", name, err)
		}
		if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
			return fmt.Errorf("failed to commit %s: %w", name, err)
		}
		delete(s.pending, name)
	}
	return nil
}

// Abort removes every staged file that was not committed.
func (s *Stage) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for name, tmp := range s.pending {
		if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
		delete(s.pending, name)
	}
	return errors.Join(errs...)
}
