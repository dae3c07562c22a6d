package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the name of the manifest written next to the tables.
const ManifestFileName = "manifest.yaml"

// Manifest describes one committed set of outputs. It carries no timestamps so
// identical inputs produce an identical manifest.
type Manifest struct {
	Sources     []string       `yaml:"sources"`
	Files       []ManifestFile `yaml:"files"`
	Diagnostics int            `yaml:"diagnostics"`
}

// ManifestFile is the manifest entry of one output file.
type ManifestFile struct {
	File   string `yaml:"file"`
	Table  string `yaml:"table"`
	Rows   int    `yaml:"rows"`
	SHA256 string `yaml:"sha256"`
}

// Write encodes the manifest as YAML.
func (m Manifest) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return enc.Close()
}

// ReadManifest loads the manifest from an output directory.
func ReadManifest(dir string) (*Manifest, error) {
	b, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
