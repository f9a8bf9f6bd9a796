package postgres

import (
	"fmt"

	"github.com/ekaya-inc/ekaya-profiler/pkg/adapters/datasource"
)

const (
	defaultPort    = 5432
	defaultSSLMode = "require"
)

var validSSLModes = map[string]bool{
	"disable": true, "allow": true, "prefer": true,
	"require": true, "verify-ca": true, "verify-full": true,
}

// Config locates the PostgreSQL database relations are read from.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// FromMap parses a datasource config map. host, user and database are
// required; sslmode defaults to require.
func FromMap(config map[string]any) (*Config, error) {
	cfg := &Config{Port: defaultPort, SSLMode: defaultSSLMode}

	var err error
	if cfg.Host, err = datasource.RequiredString(config, "host"); err != nil {
		return nil, err
	}
	if port, ok, err := datasource.ConfigInt(config, "port"); err != nil {
		return nil, err
	} else if ok {
		cfg.Port = port
	}
	if cfg.User, err = datasource.RequiredString(config, "user", "user", "username"); err != nil {
		return nil, err
	}
	cfg.Password, _ = datasource.ConfigString(config, "password")
	if cfg.Database, err = datasource.RequiredString(config, "database"); err != nil {
		return nil, err
	}
	if mode, ok := datasource.ConfigString(config, "ssl_mode", "sslmode"); ok {
		if !validSSLModes[mode] {
			return nil, fmt.Errorf("unknown ssl_mode %q", mode)
		}
		cfg.SSLMode = mode
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	return cfg, nil
}
