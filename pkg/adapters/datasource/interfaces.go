package datasource

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
)

// RelationLoader reads whole tables into relations for profiling.
// Each implementation owns its connection and must be closed when done.
type RelationLoader interface {
	// LoadRelation reads every row of table. The relation is named after the
	// table; SQL NULLs become models.Null.
	LoadRelation(ctx context.Context, table string) (*models.Relation, error)

	// Close releases the underlying connection or file.
	Close() error
}

// LoaderOptions are the server-wide defaults handed to every loader.
// Per-datasource config keys take precedence.
type LoaderOptions struct {
	// Delimiter separates CSV fields.
	Delimiter rune
	// NullToken is the text read as a null cell in text formats. Empty
	// disables the mapping.
	NullToken string
	Logger    *zap.Logger
}

// DefaultLoaderOptions returns comma-separated, no null token, no logging.
func DefaultLoaderOptions() LoaderOptions {
	return LoaderOptions{
		Delimiter: ',',
		Logger:    zap.NewNop(),
	}
}
