package csv

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/ekaya-profiler/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-profiler/pkg/apperrors"
)

func init() {
	datasource.Register(datasource.DatasourceAdapterRegistration{
		Info: datasource.DatasourceAdapterInfo{
			Type:        "csv",
			DisplayName: "CSV",
			Description: "Read a delimited text file or inline CSV content",
		},
		Factory: func(ctx context.Context, config map[string]any, opts datasource.LoaderOptions) (datasource.RelationLoader, error) {
			cfg, err := FromMap(config, opts.Delimiter, opts.NullToken)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidConfig, err)
			}
			return NewLoader(cfg, opts.Logger), nil
		},
	})
}
