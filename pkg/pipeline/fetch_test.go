package pipeline

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akngs/k-families-data/pkg/config"
	"github.com/akngs/k-families-data/pkg/wdqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")
		switch {
		case strings.Contains(q, "P1038"):
			_, _ = io.WriteString(w, rawFixtures["relatives-indirect"])
		case strings.Contains(q, "invReltype"):
			_, _ = io.WriteString(w, rawFixtures["relatives"])
		default:
			_, _ = io.WriteString(w, rawFixtures["persons"])
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	client := wdqs.NewClient(config.FetchConfig{Endpoint: srv.URL}, quietLogger())
	require.NoError(t, Fetch(context.Background(), client, FetchOptions{RawDir: dir}, quietLogger()))

	for name, want := range rawFixtures {
		assert.Equal(t, want, readOutput(t, dir, RawFileName(name)), name)
	}

	// The fetched extracts feed straight into Cleanse.
	_, err := Cleanse(context.Background(), CleanseOptions{RawDir: dir, OutputDir: dir}, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "a,b,reltype\nQ1,Q2,mother\nQ2,Q1,child\n", readOutput(t, dir, "person2person.csv"))
}

func TestFetchFailureWritesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("query"), "P1038") {
			http.Error(w, "timeout", http.StatusGatewayTimeout)
			return
		}
		_, _ = io.WriteString(w, "human\n")
	}))
	defer srv.Close()

	dir := t.TempDir()
	client := wdqs.NewClient(config.FetchConfig{Endpoint: srv.URL}, quietLogger())
	err := Fetch(context.Background(), client, FetchOptions{RawDir: dir}, quietLogger())

	var se *wdqs.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusGatewayTimeout, se.StatusCode)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetchUnknownQuery(t *testing.T) {
	err := Fetch(context.Background(), nil, FetchOptions{RawDir: t.TempDir(), Names: []string{"cousins"}}, quietLogger())
	assert.Error(t, err)
}

func TestRawFileName(t *testing.T) {
	assert.Equal(t, "raw-relatives-indirect.csv", RawFileName("relatives-indirect"))
	assert.Equal(t, filepath.Join("data", "raw-persons.csv"), config.DataConfig{RawDir: "data"}.RawPath("persons"))
}
