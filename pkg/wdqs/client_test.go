package wdqs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/akngs/k-families-data/pkg/config"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "human,humanLabel\nhttp://www.wikidata.org/entity/Q1,Ada\n"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClientQuery(t *testing.T) {
	var gotQuery, gotAccept, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotAccept = r.Header.Get("Accept")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, sampleCSV)
	}))
	defer srv.Close()

	c := NewClient(config.FetchConfig{Endpoint: srv.URL + "/sparql", UserAgent: "kf-test"}, quietLogger())
	body, err := c.Query(context.Background(), "persons", "SELECT ?human WHERE {}")
	require.NoError(t, err)

	assert.Equal(t, sampleCSV, string(body))
	assert.Equal(t, "SELECT ?human WHERE {}", gotQuery)
	assert.Equal(t, "text/csv", gotAccept)
	assert.Equal(t, "kf-test", gotAgent)
}

func TestClientQueryStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "query timeout", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(config.FetchConfig{Endpoint: srv.URL}, quietLogger())
	_, err := c.Query(context.Background(), "relatives", "SELECT 1")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "relatives", se.Query)
	assert.Contains(t, se.Body, "query timeout")
}

func TestClientQueryCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sampleCSV)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(config.FetchConfig{Endpoint: srv.URL}, quietLogger())
	_, err := c.Query(ctx, "persons", "SELECT 1")
	assert.ErrorIs(t, err, context.Canceled)
}

type recordingAlerter struct {
	subjects []string
}

func (a *recordingAlerter) Alert(subject, _ string) error {
	a.subjects = append(a.subjects, subject)
	return nil
}

type failingQuerier struct {
	calls atomic.Int32
}

func (f *failingQuerier) Query(context.Context, string, string) ([]byte, error) {
	f.calls.Add(1)
	return nil, &StatusError{StatusCode: http.StatusServiceUnavailable}
}

func TestCircuitBreakerTripsAndAlerts(t *testing.T) {
	inner := &failingQuerier{}
	alerter := &recordingAlerter{}
	cfg := config.CircuitBreakerConfig{Enabled: true, MaxRequests: 1, Interval: 60, Timeout: 60, ReadyToTripRatio: 0.5}
	q := NewCircuitBreakerQuerier(inner, cfg, alerter, "wdqs", quietLogger())

	for i := 0; i < 3; i++ {
		_, err := q.Query(context.Background(), "persons", "SELECT 1")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, q.State())
	require.Len(t, alerter.subjects, 1)
	assert.Contains(t, alerter.subjects[0], "wdqs")

	_, err := q.Query(context.Background(), "persons", "SELECT 1")
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.EqualValues(t, 3, inner.calls.Load(), "open breaker does not reach the service")
}

func TestWithCircuitBreakerDisabled(t *testing.T) {
	inner := &failingQuerier{}
	assert.Same(t, Querier(inner), WithCircuitBreaker(inner, config.CircuitBreakerConfig{}, nil, nil))
}

func TestLoadQuery(t *testing.T) {
	for _, name := range QueryNames() {
		q, err := LoadQuery("", name)
		require.NoError(t, err, name)
		assert.Contains(t, q, "?human")
		assert.Contains(t, strings.ToUpper(q), "SELECT")
	}

	_, err := LoadQuery("", "spouses")
	assert.Error(t, err)
}

func TestLoadQueryOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "persons.sparql"), []byte("SELECT ?human {}"), 0644))

	q, err := LoadQuery(dir, "persons")
	require.NoError(t, err)
	assert.Equal(t, "SELECT ?human {}", q)

	// Not overridden: falls back to the built-in text.
	q, err = LoadQuery(dir, "relatives")
	require.NoError(t, err)
	assert.Contains(t, q, "invReltype")

	all, err := LoadQueries(dir, QueryNames())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
