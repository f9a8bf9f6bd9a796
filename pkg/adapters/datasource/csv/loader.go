package csv

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-profiler/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-profiler/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
)

// Loader reads a single CSV document as a relation.
type Loader struct {
	config *Config
	logger *zap.Logger
}

// NewLoader creates a CSV loader. The file is opened on each LoadRelation.
func NewLoader(cfg *Config, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		config: cfg,
		logger: logger.Named("csv-loader"),
	}
}

// LoadRelation parses the document. The table argument names the relation;
// when empty the file's base name (without extension) is used.
func (l *Loader) LoadRelation(ctx context.Context, table string) (*models.Relation, error) {
	var src io.Reader
	if l.config.Path != "" {
		f, err := os.Open(l.config.Path)
		if err != nil {
			return nil, fmt.Errorf("open csv: %w", err)
		}
		defer f.Close()
		src = f
	} else {
		src = strings.NewReader(l.config.Content)
	}

	name := table
	if name == "" {
		name = l.defaultName()
	}

	rel, err := Parse(ctx, src, name, l.config)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("Loaded csv relation",
		zap.String("relation", name),
		zap.Int("rows", rel.RowCount()),
		zap.Int("columns", rel.ColumnCount()))
	return rel, nil
}

func (l *Loader) defaultName() string {
	if l.config.Path == "" {
		return "csv"
	}
	base := filepath.Base(l.config.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Close is a no-op; files are closed after each load.
func (l *Loader) Close() error {
	return nil
}

// Parse reads CSV records from r into a relation. Blank lines are skipped.
// Records with a different field count than the first record fail with
// ErrInvalidRelation.
func Parse(ctx context.Context, r io.Reader, name string, cfg *Config) (*models.Relation, error) {
	reader := stdcsv.NewReader(r)
	reader.Comma = cfg.Delimiter
	reader.FieldsPerRecord = 0
	reader.ReuseRecord = true

	var builder *datasource.RelationBuilder
	line := 0
	for {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, stdcsv.ErrFieldCount) {
				return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidRelation, err)
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++

		if builder == nil {
			attributes := make([]string, len(record))
			if cfg.HasHeader {
				copy(attributes, record)
				builder = datasource.NewRelationBuilder(name, attributes)
				continue
			}
			for i := range attributes {
				attributes[i] = fmt.Sprintf("column_%d", i+1)
			}
			builder = datasource.NewRelationBuilder(name, attributes)
		}

		row := make([]models.Value, len(record))
		for i, cell := range record {
			if cfg.NullToken != "" && cell == cfg.NullToken {
				continue
			}
			row[i] = models.Text(cell)
		}
		if err := builder.AddRow(row); err != nil {
			return nil, err
		}
	}

	if builder == nil {
		return models.NewRelation(name, nil, nil)
	}
	return builder.Build()
}

// Ensure Loader implements RelationLoader at compile time.
var _ datasource.RelationLoader = (*Loader)(nil)
