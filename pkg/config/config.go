package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Data locations and source order
	Data DataConfig `mapstructure:"data"`

	// Query service configuration
	Fetch FetchConfig `mapstructure:"fetch"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// Output extras
	Output OutputConfig `mapstructure:"output"`

	// Relational database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// Graph database configuration
	Graph GraphConfig `mapstructure:"graph"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// Alert configuration
	Alert AlertConfig `mapstructure:"alert"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text, json
}

// DataConfig holds the locations of raw extracts and outputs
type DataConfig struct {
	RawDir    string   `mapstructure:"raw_dir"`
	OutputDir string   `mapstructure:"output_dir"`
	Sources   []string `mapstructure:"sources"` // concatenation order
}

// RawPath returns the path of the raw extract for a source name.
func (d DataConfig) RawPath(source string) string {
	return filepath.Join(d.RawDir, "raw-"+source+".csv")
}

// FetchConfig holds configuration for the SPARQL query service
type FetchConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	UserAgent  string `mapstructure:"user_agent"`
	Timeout    int    `mapstructure:"timeout"` // in seconds
	QueriesDir string `mapstructure:"queries_dir"`
	CacheDir   string `mapstructure:"cache_dir"`
	CacheTTL   int    `mapstructure:"cache_ttl"` // in seconds
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// OutputConfig toggles the optional output files
type OutputConfig struct {
	Parquet  bool `mapstructure:"parquet"`
	Manifest bool `mapstructure:"manifest"`
}

// DatabaseConfig holds relational database configuration
type DatabaseConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// GraphConfig holds graph database configuration
type GraphConfig struct {
	URI       string `mapstructure:"uri"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	Database  string `mapstructure:"database"`
	BatchSize int    `mapstructure:"batch_size"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ParquetPath string `mapstructure:"parquet_path"`
	BatchSize   int    `mapstructure:"batch_size"`
}

// AlertConfig holds configuration for alerting
type AlertConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	SMTPHost string   `mapstructure:"smtp_host"`
	SMTPPort int      `mapstructure:"smtp_port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// DefaultSources is the source concatenation order used when none is configured.
var DefaultSources = []string{"relatives", "relatives-indirect", "persons"}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	if err := overrideWithEnv(config); err != nil {
		return nil, err
	}

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Data defaults
	viper.SetDefault("data.raw_dir", "data")
	viper.SetDefault("data.output_dir", "data")
	viper.SetDefault("data.sources", DefaultSources)

	// Fetch defaults
	viper.SetDefault("fetch.endpoint", "https://query.wikidata.org/bigdata/namespace/wdq/sparql")
	viper.SetDefault("fetch.user_agent", "k-families-data/1.0 (https://github.com/akngs/k-families-data)")
	viper.SetDefault("fetch.timeout", 300)
	viper.SetDefault("fetch.cache_ttl", 86400)

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 120)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)

	// Output defaults
	viper.SetDefault("output.parquet", false)
	viper.SetDefault("output.manifest", true)

	// Database defaults
	viper.SetDefault("database.max_open_conns", 10)
	viper.SetDefault("database.max_idle_conns", 5)

	// Graph defaults
	viper.SetDefault("graph.uri", "bolt://localhost:7687")
	viper.SetDefault("graph.username", "neo4j")
	viper.SetDefault("graph.database", "neo4j")
	viper.SetDefault("graph.batch_size", 1000)

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")

	// Telemetry defaults
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.batch_size", 1000)
	home, err := os.UserHomeDir()
	if err == nil {
		defaultPath := filepath.Join(home, ".kfamilies", "telemetry")
		viper.SetDefault("telemetry.parquet_path", defaultPath)
	}

	// Alert defaults
	viper.SetDefault("alert.smtp_port", 587)
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) error {
	// Data locations
	if dir := os.Getenv("KFAMILIES_DATA_DIR"); dir != "" {
		config.Data.RawDir = dir
		config.Data.OutputDir = dir
	}

	// Query service
	if endpoint := os.Getenv("WDQS_ENDPOINT"); endpoint != "" {
		config.Fetch.Endpoint = endpoint
	}

	// Database credentials
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		config.Database.DSN = dsn
	}
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Graph.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		config.Graph.Username = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Graph.Password = pass
	}

	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT %q: %w", port, err)
		}
		config.Server.Port = p
	}

	// Telemetry settings
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}

	if len(config.Data.Sources) == 0 {
		config.Data.Sources = append([]string(nil), DefaultSources...)
	}
	return nil
}
