package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"

	_ "github.com/microsoft/go-mssqldb" // SQL Server driver
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-profiler/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-profiler/pkg/config"
	"github.com/ekaya-inc/ekaya-profiler/pkg/logging"
	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
	"github.com/ekaya-inc/ekaya-profiler/pkg/retry"
	sqlutil "github.com/ekaya-inc/ekaya-profiler/pkg/sql"
)

// Loader reads SQL Server tables as relations.
type Loader struct {
	config *Config
	db     *sql.DB
	logger *zap.Logger
}

// buildConnectionString builds a sqlserver:// URL for SQL authentication.
func buildConnectionString(cfg *Config) string {
	query := url.Values{}
	query.Add("database", cfg.Database)

	if cfg.Encrypt {
		query.Add("encrypt", "true")
	} else {
		query.Add("encrypt", "false")
	}

	if cfg.TrustServerCertificate {
		query.Add("TrustServerCertificate", "true")
	}

	if cfg.ConnectionTimeout > 0 {
		query.Add("connection timeout", strconv.Itoa(cfg.ConnectionTimeout))
	}

	return fmt.Sprintf("sqlserver://%s:%s@%s:%d?%s",
		url.QueryEscape(cfg.Username),
		url.QueryEscape(cfg.Password),
		config.ResolveHostForDocker(cfg.Host),
		cfg.Port,
		query.Encode(),
	)
}

// NewLoader opens a connection and verifies it, retrying transient failures.
func NewLoader(ctx context.Context, cfg *Config, logger *zap.Logger) (*Loader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("mssql-loader")

	connStr := buildConnectionString(cfg)
	db, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return nil, fmt.Errorf("open SQL auth connection: %w", err)
	}

	err = retry.DoIfRetryable(ctx, retry.DefaultConfig(), func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		logger.Error("SQL Server ping failed",
			zap.String("dsn", logging.SanitizeConnectionString(connStr)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("ping sql server: %w", err)
	}

	return &Loader{config: cfg, db: db, logger: logger}, nil
}

// qualify applies the default schema to unqualified table names.
func (l *Loader) qualify(name sqlutil.TableName) sqlutil.TableName {
	if name.Schema == "" {
		name.Schema = l.config.DefaultSchema
	}
	return name
}

// LoadRelation reads every row of table ("table" or "schema.table").
// Values are scanned as strings; SQL NULL becomes models.Null.
func (l *Loader) LoadRelation(ctx context.Context, table string) (*models.Relation, error) {
	parsed, err := sqlutil.ParseTableName(table)
	if err != nil {
		return nil, err
	}
	name := l.qualify(parsed)

	rows, err := l.db.QueryContext(ctx, "SELECT * FROM "+name.QuoteSQLServer())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	attributes, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns of %s: %w", name, err)
	}

	builder := datasource.NewRelationBuilder(name.String(), attributes)
	cells := make([]sql.NullString, len(attributes))
	dest := make([]any, len(attributes))
	for i := range cells {
		dest[i] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		row := make([]models.Value, len(cells))
		for i, c := range cells {
			if c.Valid {
				row[i] = models.Text(c.String)
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

	l.logger.Debug("Loaded sql server relation",
		zap.String("table", name.String()),
		zap.Int("rows", rel.RowCount()),
		zap.Int("columns", rel.ColumnCount()))
	return rel, nil
}

// Close closes the connection pool.
func (l *Loader) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// Ensure Loader implements RelationLoader at compile time.
var _ datasource.RelationLoader = (*Loader)(nil)
