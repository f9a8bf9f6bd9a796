package mssql

import (
	"fmt"

	"github.com/ekaya-inc/ekaya-profiler/pkg/adapters/datasource"
)

const (
	defaultPort              = 1433
	defaultConnectionTimeout = 30
	defaultSchema            = "dbo"
)

// Config locates the SQL Server database relations are read from. Only SQL
// authentication is supported.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string

	// DefaultSchema qualifies table names given without a schema.
	DefaultSchema string

	Encrypt                bool
	TrustServerCertificate bool
	ConnectionTimeout      int // seconds
}

// FromMap parses a datasource config map. encrypt accepts a bool or the
// strings "true", "false" and "strict".
func FromMap(config map[string]any) (*Config, error) {
	cfg := &Config{
		Port:              defaultPort,
		Encrypt:           true,
		ConnectionTimeout: defaultConnectionTimeout,
		DefaultSchema:     defaultSchema,
	}

	cfg.Host, _ = datasource.ConfigString(config, "host")
	cfg.Database, _ = datasource.ConfigString(config, "database")
	cfg.Username, _ = datasource.ConfigString(config, "username", "user")
	cfg.Password, _ = datasource.ConfigString(config, "password")
	if schema, ok := datasource.ConfigString(config, "schema"); ok {
		cfg.DefaultSchema = schema
	}

	if port, ok, err := datasource.ConfigInt(config, "port"); err != nil {
		return nil, err
	} else if ok {
		cfg.Port = port
	}
	if timeout, ok, err := datasource.ConfigInt(config, "connection_timeout"); err != nil {
		return nil, err
	} else if ok {
		cfg.ConnectionTimeout = timeout
	}

	if encrypt, ok := datasource.ConfigBool(config, "encrypt", "strict"); ok {
		cfg.Encrypt = encrypt
	}
	if trust, ok := datasource.ConfigBool(config, "trust_server_certificate"); ok {
		cfg.TrustServerCertificate = trust
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first missing or out-of-range field.
func (c *Config) Validate() error {
	switch {
	case c.Host == "":
		return fmt.Errorf("host is required")
	case c.Database == "":
		return fmt.Errorf("database is required")
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("invalid port: %d", c.Port)
	case c.Username == "":
		return fmt.Errorf("username is required for SQL authentication")
	case c.ConnectionTimeout < 0:
		return fmt.Errorf("connection_timeout must not be negative")
	}
	return nil
}
