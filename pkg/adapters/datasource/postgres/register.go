package postgres

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/ekaya-profiler/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-profiler/pkg/apperrors"
)

func init() {
	datasource.Register(datasource.DatasourceAdapterRegistration{
		Info: datasource.DatasourceAdapterInfo{
			Type:        "postgres",
			DisplayName: "PostgreSQL",
			Description: "Read tables from PostgreSQL 12+, Aurora PostgreSQL, Supabase",
		},
		Factory: func(ctx context.Context, config map[string]any, opts datasource.LoaderOptions) (datasource.RelationLoader, error) {
			cfg, err := FromMap(config)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidConfig, err)
			}
			return NewLoader(ctx, cfg, opts.Logger)
		},
	})
}
