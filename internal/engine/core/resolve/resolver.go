// Package resolve returns the effective module configuration for a scope,
// preferring a project-specific document over the global default.
package resolve

import (
	"context"
	"errors"

	"github.com/leadfoundry/leadcore/internal/engine/metrics"
	"github.com/leadfoundry/leadcore/internal/engine/model/moduleconfig"
)

// ErrConfigNotFound signals that neither a project override nor a global
// default exists. Callers must treat it as "no resolution possible", not as
// a fatal error.
var ErrConfigNotFound = errors.New("module config not found")

// Store is the read side of the config store the resolver queries. Both
// lookups must filter soft-deleted documents and return ErrConfigNotFound
// (or wrap it) on a clean miss.
type Store interface {
	GetByModuleAndProject(ctx context.Context, moduleId, projectId string) (*moduleconfig.ModuleConfig, error)
	GetGlobal(ctx context.Context, moduleId string) (*moduleconfig.ModuleConfig, error)
}

// Resolver walks the scope chain project -> global. The chain is explicit so
// an extra level (e.g. org) slots in without touching the engines that
// consume the result.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the effective config for (projectId, moduleId). A lookup
// error other than a miss is propagated unchanged; retries belong to the
// store client.
func (r *Resolver) Resolve(ctx context.Context, projectId, moduleId string) (*moduleconfig.ModuleConfig, error) {
	lookups := []struct {
		source string
		get    func() (*moduleconfig.ModuleConfig, error)
	}{
		{"project", func() (*moduleconfig.ModuleConfig, error) {
			if projectId == "" {
				return nil, ErrConfigNotFound
			}
			return r.store.GetByModuleAndProject(ctx, moduleId, projectId)
		}},
		{"global", func() (*moduleconfig.ModuleConfig, error) {
			return r.store.GetGlobal(ctx, moduleId)
		}},
	}

	for _, lookup := range lookups {
		cfg, err := lookup.get()
		if err == nil {
			metrics.ConfigResolutions.WithLabelValues(moduleId, lookup.source).Inc()
			return cfg, nil
		}
		if !errors.Is(err, ErrConfigNotFound) {
			return nil, err
		}
	}
	metrics.ConfigResolutions.WithLabelValues(moduleId, "none").Inc()
	return nil, ErrConfigNotFound
}
