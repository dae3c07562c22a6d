package wdqs

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

//go:embed queries/*.sparql
var embedded embed.FS

// QueryNames lists the built-in queries in the order their extracts are consumed.
func QueryNames() []string {
	return []string{"relatives", "relatives-indirect", "persons"}
}

// LoadQuery returns the SPARQL text of a named query. A file <name>.sparql in dir
// takes precedence over the built-in copy; an empty dir uses the built-ins only.
func LoadQuery(dir, name string) (string, error) {
	if dir != "" {
		b, err := os.ReadFile(filepath.Join(dir, name+".sparql"))
		if err == nil {
			return string(b), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to read query %s: %w", name, err)
		}
	}

	b, err := embedded.ReadFile("queries/" + name + ".sparql")
	if err != nil {
		return "", fmt.Errorf("unknown query %q", name)
	}
	return string(b), nil
}

// LoadQueries loads every named query.
func LoadQueries(dir string, names []string) (map[string]string, error) {
	queries := make(map[string]string, len(names))
	for _, name := range slices.Compact(slices.Sorted(slices.Values(names))) {
		q, err := LoadQuery(dir, name)
		if err != nil {
			return nil, err
		}
		queries[name] = q
	}
	return queries, nil
}
