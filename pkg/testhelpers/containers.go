package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-profiler/pkg/database"
)

// PostgresImage is the image started for integration tests.
const PostgresImage = "postgres:16-alpine"

const (
	testDBName     = "ekaya_profiler_test"
	testDBUser     = "ekaya"
	testDBPassword = "test_password"
)

// TestDB is a migrated PostgreSQL database shared by the integration tests
// of one package.
type TestDB struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
	DB        *database.DB
	ConnStr   string
}

var sharedDB shared[*TestDB]

// GetTestDB returns the shared database, starting and migrating it on
// first use.
func GetTestDB(t *testing.T) *TestDB {
	t.Helper()
	return sharedDB.get(t, "postgres", startTestDB)
}

// MigrationsPath returns the absolute path of the repository's migrations
// directory.
func MigrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

func startTestDB(ctx context.Context) (*TestDB, error) {
	container, endpoint, err := startContainer(ctx, testcontainers.ContainerRequest{
		Image:        PostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       testDBName,
			"POSTGRES_USER":     testDBUser,
			"POSTGRES_PASSWORD": testDBPassword,
		},
		// The entrypoint restarts postgres once after init.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	})
	if err != nil {
		return nil, err
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		testDBUser, testDBPassword, endpoint, testDBName)

	if err := migrate(connStr); err != nil {
		return nil, err
	}

	db, err := database.NewConnection(ctx, &database.Config{URL: connStr, MaxConnections: 5})
	if err != nil {
		return nil, fmt.Errorf("connect to test database: %w", err)
	}

	return &TestDB{Container: container, Pool: db.Pool, DB: db, ConnStr: connStr}, nil
}

func migrate(connStr string) error {
	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer sqlDB.Close()

	if _, err := database.RunMigrations(sqlDB, MigrationsPath(), zap.NewNop()); err != nil {
		return fmt.Errorf("migrate test database: %w", err)
	}
	return nil
}
