package mssql

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/ekaya-profiler/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-profiler/pkg/apperrors"
)

func init() {
	datasource.Register(datasource.DatasourceAdapterRegistration{
		Info: datasource.DatasourceAdapterInfo{
			Type:        "sqlserver",
			DisplayName: "Microsoft SQL Server",
			Description: "Read tables from SQL Server 2019+ and Azure SQL Database using SQL authentication",
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
