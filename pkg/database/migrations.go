package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// MigrationsTable keeps the profiler's schema version apart from other
// applications sharing the database.
const MigrationsTable = "ekaya_profiler_schema_migrations"

// SchemaVersion is the applied migration state.
type SchemaVersion struct {
	Version uint
	Dirty   bool
}

// RunMigrations applies pending migrations from migrationsPath and returns
// the resulting schema version. A dirty schema is refused.
func RunMigrations(db *sql.DB, migrationsPath string, logger *zap.Logger) (SchemaVersion, error) {
	m, err := newMigrator(db, migrationsPath)
	if err != nil {
		return SchemaVersion{}, err
	}
	defer closeMigrator(m, logger)

	before, err := currentVersion(m)
	if err != nil {
		return SchemaVersion{}, err
	}
	if before.Dirty {
		return before, fmt.Errorf("schema version %d is dirty; fix it manually before migrating", before.Version)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return before, fmt.Errorf("failed to run migrations: %w", err)
	}

	after, err := currentVersion(m)
	if err != nil {
		return before, err
	}
	if after == before {
		logger.Info("Schema up to date", zap.Uint("version", after.Version))
	} else {
		logger.Info("Applied migrations",
			zap.Uint("from_version", before.Version),
			zap.Uint("to_version", after.Version))
	}
	return after, nil
}

func newMigrator(db *sql.DB, migrationsPath string) (*migrate.Migrate, error) {
	if info, err := os.Stat(migrationsPath); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("migrations directory %q not found", migrationsPath)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// currentVersion reports version 0 for an empty database.
func currentVersion(m *migrate.Migrate) (SchemaVersion, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return SchemaVersion{}, nil
	}
	if err != nil {
		return SchemaVersion{}, fmt.Errorf("failed to read schema version: %w", err)
	}
	return SchemaVersion{Version: version, Dirty: dirty}, nil
}

func closeMigrator(m *migrate.Migrate, logger *zap.Logger) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Warn("Failed to close migration source", zap.Error(srcErr))
	}
	if dbErr != nil {
		logger.Warn("Failed to close migration database", zap.Error(dbErr))
	}
}
