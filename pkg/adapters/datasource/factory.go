package datasource

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/ekaya-profiler/pkg/apperrors"
)

// DatasourceAdapterFactory creates loaders from the registry.
type DatasourceAdapterFactory interface {
	// NewRelationLoader creates a loader for the given datasource type.
	NewRelationLoader(ctx context.Context, dsType string, config map[string]any) (RelationLoader, error)

	// ListTypes returns info for all registered adapter types.
	ListTypes() []DatasourceAdapterInfo
}

type registryFactory struct {
	opts LoaderOptions
}

// NewDatasourceAdapterFactory returns a factory that uses the global registry
// and hands opts to every loader it creates.
func NewDatasourceAdapterFactory(opts LoaderOptions) DatasourceAdapterFactory {
	return &registryFactory{
		opts: opts,
	}
}

func (f *registryFactory) NewRelationLoader(ctx context.Context, dsType string, config map[string]any) (RelationLoader, error) {
	factory := GetFactory(dsType)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedDatasource, dsType)
	}
	return factory(ctx, config, f.opts)
}

func (f *registryFactory) ListTypes() []DatasourceAdapterInfo {
	return RegisteredAdapters()
}

// Ensure registryFactory implements DatasourceAdapterFactory at compile time.
var _ DatasourceAdapterFactory = (*registryFactory)(nil)
