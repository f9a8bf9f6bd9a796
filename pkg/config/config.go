package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for ekaya-profiler.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3443"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL). Profile runs are only persisted
	// when a host is configured.
	Database DatabaseConfig `yaml:"database"`

	// Redis configuration. Results are only cached when a host is configured.
	Redis RedisConfig `yaml:"redis"`

	Profiling ProfilingConfig `yaml:"profiling"`
	Matching  MatchingConfig  `yaml:"matching"`

	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:""`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"ekaya"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"ekaya_profiler"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// Enabled reports whether a database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// RedisConfig holds Redis configuration for the result cache.
type RedisConfig struct {
	Host       string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port       int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password   string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB         int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTLMinutes int    `yaml:"ttl_minutes" env:"REDIS_TTL_MINUTES" env-default:"60"`
}

// ProfilingConfig holds settings for UCC and IND discovery and for loading
// relations.
type ProfilingConfig struct {
	// Parallelism bounds concurrent PLI intersections within a lattice level.
	// 1 runs the search sequentially.
	Parallelism int `yaml:"parallelism" env:"PROFILING_PARALLELISM" env-default:"1"`
	// CSVDelimiter is the default field separator for CSV relations.
	CSVDelimiter string `yaml:"csv_delimiter" env:"PROFILING_CSV_DELIMITER" env-default:","`
	// NullToken is the cell text read as a null value. Empty means no token
	// maps to null.
	NullToken string `yaml:"null_token" env:"PROFILING_NULL_TOKEN" env-default:""`
}

// MatchingConfig holds first-line schema matcher settings.
type MatchingConfig struct {
	HeaderWeight       float64 `yaml:"header_weight" env:"MATCHING_HEADER_WEIGHT" env-default:"0.6"`
	ValueWeight        float64 `yaml:"value_weight" env:"MATCHING_VALUE_WEIGHT" env-default:"0.4"`
	TokenSize          int     `yaml:"token_size" env:"MATCHING_TOKEN_SIZE" env-default:"3"`
	SingularizeHeaders bool    `yaml:"singularize_headers" env:"MATCHING_SINGULARIZE_HEADERS" env-default:"false"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	// Load config from YAML file with environment variable overrides
	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks value ranges that cleanenv cannot express.
func (c *Config) Validate() error {
	if c.Profiling.Parallelism < 1 {
		return fmt.Errorf("profiling.parallelism must be at least 1, got %d", c.Profiling.Parallelism)
	}
	if utf8.RuneCountInString(c.Profiling.CSVDelimiter) != 1 {
		return fmt.Errorf("profiling.csv_delimiter must be a single character, got %q", c.Profiling.CSVDelimiter)
	}
	if c.Matching.HeaderWeight < 0 || c.Matching.HeaderWeight > 1 {
		return fmt.Errorf("matching.header_weight must be within [0, 1], got %v", c.Matching.HeaderWeight)
	}
	if c.Matching.ValueWeight < 0 || c.Matching.ValueWeight > 1 {
		return fmt.Errorf("matching.value_weight must be within [0, 1], got %v", c.Matching.ValueWeight)
	}
	return nil
}

// Delimiter returns the CSV delimiter as a rune.
func (c *ProfilingConfig) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSVDelimiter)
	return r
}

// ListenAddr returns the host:port the server binds to.
func (c *Config) ListenAddr() string {
	return c.BindAddr + ":" + c.Port
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		ResolveHostForDocker(c.Host), c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Addr returns the Redis host:port.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", ResolveHostForDocker(c.Host), c.Port)
}
