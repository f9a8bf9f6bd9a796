package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// withConfigFile writes yamlContent to config.yaml in a temp directory and
// makes it the working directory for the rest of the test.
func withConfigFile(t *testing.T, yamlContent string) {
	t.Helper()

	tmpDir := t.TempDir()
	if yamlContent != "" {
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
	}

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	withConfigFile(t, `
port: "3443"
env: "test"
database:
  host: "db.example.com"
  port: 5432
  user: "testuser"
  database: "testdb"
redis:
  host: "redis.example.com"
  port: 6379
`)

	os.Unsetenv("PGHOST")
	os.Unsetenv("REDIS_HOST")

	t.Setenv("PORT", "4443")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "4443" {
		t.Errorf("expected Port=4443 (from env), got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("expected Env=production (from env), got %s", cfg.Env)
	}
	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}
	if cfg.Database.Host != "db.example.com" {
		t.Errorf("expected Database.Host=db.example.com (from yaml), got %s", cfg.Database.Host)
	}
	if !cfg.Database.Enabled() {
		t.Error("expected database to be enabled")
	}
	if cfg.Redis.Host != "redis.example.com" {
		t.Errorf("expected Redis.Host=redis.example.com (from yaml), got %s", cfg.Redis.Host)
	}
}

func TestLoad_Defaults(t *testing.T) {
	withConfigFile(t, `
env: "test"
`)

	for _, key := range []string{
		"PGHOST", "REDIS_HOST", "PORT", "LOG_LEVEL", "PROFILING_PARALLELISM",
		"PROFILING_CSV_DELIMITER", "PROFILING_NULL_TOKEN", "MATCHING_HEADER_WEIGHT",
		"MATCHING_VALUE_WEIGHT", "MATCHING_TOKEN_SIZE", "MATCHING_SINGULARIZE_HEADERS",
	} {
		os.Unsetenv(key)
	}

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Database.Enabled() {
		t.Error("expected database to be disabled without a host")
	}
	if cfg.Redis.Host != "" {
		t.Errorf("expected empty Redis.Host, got %s", cfg.Redis.Host)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel=info, got %s", cfg.LogLevel)
	}
	if cfg.Profiling.Parallelism != 1 {
		t.Errorf("expected Parallelism=1, got %d", cfg.Profiling.Parallelism)
	}
	if cfg.Profiling.Delimiter() != ',' {
		t.Errorf("expected delimiter ',', got %q", cfg.Profiling.Delimiter())
	}
	if cfg.Matching.HeaderWeight != 0.6 || cfg.Matching.ValueWeight != 0.4 {
		t.Errorf("expected weights 0.6/0.4, got %v/%v", cfg.Matching.HeaderWeight, cfg.Matching.ValueWeight)
	}
	if cfg.Matching.TokenSize != 3 {
		t.Errorf("expected TokenSize=3, got %d", cfg.Matching.TokenSize)
	}
	if cfg.ListenAddr() != "127.0.0.1:3443" {
		t.Errorf("expected ListenAddr=127.0.0.1:3443, got %s", cfg.ListenAddr())
	}
}

func TestLoad_ProfilingFromYAML(t *testing.T) {
	withConfigFile(t, `
profiling:
  parallelism: 8
  csv_delimiter: ";"
  null_token: "NULL"
matching:
  header_weight: 0.5
  value_weight: 0.5
  singularize_headers: true
`)

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Profiling.Parallelism != 8 {
		t.Errorf("expected Parallelism=8, got %d", cfg.Profiling.Parallelism)
	}
	if cfg.Profiling.Delimiter() != ';' {
		t.Errorf("expected delimiter ';', got %q", cfg.Profiling.Delimiter())
	}
	if cfg.Profiling.NullToken != "NULL" {
		t.Errorf("expected NullToken=NULL, got %s", cfg.Profiling.NullToken)
	}
	if !cfg.Matching.SingularizeHeaders {
		t.Error("expected SingularizeHeaders=true")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"zero parallelism", "profiling:\n  parallelism: 0\n", "parallelism"},
		{"long delimiter", "profiling:\n  csv_delimiter: \";;\"\n", "csv_delimiter"},
		{"header weight above one", "matching:\n  header_weight: 1.5\n", "header_weight"},
		{"negative value weight", "matching:\n  value_weight: -0.1\n", "value_weight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfigFile(t, tt.yaml)

			_, err := Load("dev")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	withConfigFile(t, "")

	if _, err := Load("test-version"); err == nil {
		t.Error("expected error when config.yaml is missing")
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5433,
		User:     "profiler",
		Password: "secret",
		Database: "runs",
		SSLMode:  "require",
	}

	want := "host=db.example.com port=5433 user=profiler password=secret dbname=runs sslmode=require"
	if got := cfg.ConnectionString(); got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}
}
