package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"relatives", "relatives-indirect", "persons"}, cfg.Data.Sources)
	assert.Equal(t, "https://query.wikidata.org/bigdata/namespace/wdq/sparql", cfg.Fetch.Endpoint)
	assert.True(t, cfg.CircuitBreaker.Enabled)
	assert.True(t, cfg.Output.Manifest)
	assert.False(t, cfg.Output.Parquet)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1000, cfg.Graph.BatchSize)
}

func TestLoadFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), ".kfamilies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data:
  raw_dir: /srv/raw
  sources: [persons, relatives]
output:
  parquet: true
`), 0644))
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/raw", cfg.Data.RawDir)
	assert.Equal(t, []string{"persons", "relatives"}, cfg.Data.Sources)
	assert.True(t, cfg.Output.Parquet)
	assert.Equal(t, "/srv/raw/raw-persons.csv", cfg.Data.RawPath("persons"))
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("KFAMILIES_DATA_DIR", "/tmp/kf")
	t.Setenv("DATABASE_URL", "postgres://localhost/kfamilies")
	t.Setenv("NEO4J_URI", "bolt://graph:7687")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/kf", cfg.Data.RawDir)
	assert.Equal(t, "/tmp/kf", cfg.Data.OutputDir)
	assert.Equal(t, "postgres://localhost/kfamilies", cfg.Database.DSN)
	assert.Equal(t, "bolt://graph:7687", cfg.Graph.URI)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadRejectsBadPort(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("SERVER_PORT", "eighty")

	_, err := Load()
	assert.Error(t, err)
}
