package postgres

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-profiler/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-profiler/pkg/config"
	"github.com/ekaya-inc/ekaya-profiler/pkg/logging"
	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
	"github.com/ekaya-inc/ekaya-profiler/pkg/retry"
	"github.com/ekaya-inc/ekaya-profiler/pkg/sql"
)

// Loader reads PostgreSQL tables as relations.
type Loader struct {
	config    *Config
	pool      *pgxpool.Pool
	ownedPool bool
	logger    *zap.Logger
}

// buildConnectionString builds a PostgreSQL URL with proper escaping.
// User-provided fields are URL-escaped so passwords containing @, /, # or ?
// do not break URL parsing. localhost is resolved to host.docker.internal
// when running in Docker.
func buildConnectionString(cfg *Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = defaultSSLMode
	}

	host := config.ResolveHostForDocker(cfg.Host)

	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		host,
		cfg.Port,
		url.QueryEscape(cfg.Database),
		sslMode,
	)
}

// NewLoader opens a pool and verifies connectivity, retrying transient
// failures.
func NewLoader(ctx context.Context, cfg *Config, logger *zap.Logger) (*Loader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("postgres-loader")

	connStr := buildConnectionString(cfg)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	err = retry.DoIfRetryable(ctx, retry.DefaultConfig(), func() error {
		return pool.Ping(ctx)
	})
	if err != nil {
		pool.Close()
		logger.Error("Postgres ping failed",
			zap.String("dsn", logging.SanitizeConnectionString(connStr)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Loader{config: cfg, pool: pool, ownedPool: true, logger: logger}, nil
}

// NewLoaderFromPool wraps an existing pool. Close leaves the pool open.
func NewLoaderFromPool(pool *pgxpool.Pool, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{pool: pool, logger: logger.Named("postgres-loader")}
}

// LoadRelation reads every row of table ("table" or "schema.table").
// Values are read in text format; SQL NULL becomes models.Null.
func (l *Loader) LoadRelation(ctx context.Context, table string) (*models.Relation, error) {
	name, err := sql.ParseTableName(table)
	if err != nil {
		return nil, err
	}

	query := "SELECT * FROM " + name.QuotePostgres()
	rows, err := l.pool.Query(ctx, query, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	attributes := make([]string, len(fields))
	for i, f := range fields {
		attributes[i] = f.Name
	}

	builder := datasource.NewRelationBuilder(name.String(), attributes)
	for rows.Next() {
		raw := rows.RawValues()
		row := make([]models.Value, len(raw))
		for i, b := range raw {
			if b != nil {
				row[i] = models.Text(string(b))
			}
		}
		if err := builder.AddRow(row); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	rel, err := builder.Build()
	if err != nil {
		return nil, err
	}

	l.logger.Debug("Loaded postgres relation",
		zap.String("table", name.String()),
		zap.Int("rows", rel.RowCount()),
		zap.Int("columns", rel.ColumnCount()))
	return rel, nil
}

// Close releases the pool when the loader created it.
func (l *Loader) Close() error {
	if l.ownedPool && l.pool != nil {
		l.pool.Close()
	}
	return nil
}

// Ensure Loader implements RelationLoader at compile time.
var _ datasource.RelationLoader = (*Loader)(nil)
