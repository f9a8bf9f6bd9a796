package datasource

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// DatasourceAdapterInfo describes a registered adapter for discovery.
type DatasourceAdapterInfo struct {
	Type        string `json:"type"`         // "csv", "postgres", "sqlserver"
	DisplayName string `json:"display_name"` // "PostgreSQL", "Microsoft SQL Server"
	Description string `json:"description"`
}

// LoaderFactory builds a loader from a generic config map.
type LoaderFactory func(ctx context.Context, config map[string]any, opts LoaderOptions) (RelationLoader, error)

// DatasourceAdapterRegistration contains info + factory for creating loaders.
type DatasourceAdapterRegistration struct {
	Info    DatasourceAdapterInfo
	Factory LoaderFactory
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]DatasourceAdapterRegistration)
)

// Register is called by each adapter's init() function. A later
// registration of the same type replaces the earlier one. It panics on an
// empty type or nil factory.
func Register(reg DatasourceAdapterRegistration) {
	if reg.Info.Type == "" || reg.Factory == nil {
		panic("datasource: Register requires a type and a factory")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Type] = reg
}

// RegisteredAdapters returns info for all registered adapters, sorted by type.
func RegisteredAdapters() []DatasourceAdapterInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]DatasourceAdapterInfo, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	slices.SortFunc(result, func(a, b DatasourceAdapterInfo) int {
		return strings.Compare(a.Type, b.Type)
	})
	return result
}

// GetFactory returns the factory for a datasource type.
// Returns nil if type is not registered.
func GetFactory(dsType string) LoaderFactory {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if reg, ok := registry[dsType]; ok {
		return reg.Factory
	}
	return nil
}

// IsRegistered checks if an adapter type is available.
func IsRegistered(dsType string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[dsType]
	return ok
}
