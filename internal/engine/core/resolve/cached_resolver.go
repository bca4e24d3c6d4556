package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/leadfoundry/leadcore/internal/engine/metrics"
	"github.com/leadfoundry/leadcore/internal/engine/model/moduleconfig"
	"github.com/leadfoundry/leadcore/pkg/cache"
	"github.com/leadfoundry/leadcore/pkg/id"
	"github.com/leadfoundry/leadcore/pkg/log"
	"github.com/redis/go-redis/v9"
)

const (
	moduleConfigKeyPrefix = "leadcore:moduleconfig:"
	moduleGenKeyPrefix    = "leadcore:moduleconfig-gen:"
	// notFoundMarker is cached so repeated misses for unconfigured scopes
	// do not hammer the store.
	notFoundMarker = "__notfound__"

	defaultTTL      = 5 * time.Minute
	defaultLocalTTL = 30 * time.Second
)

// CachedResolver decorates a Resolver with a local fastcache layer and a
// shared Redis layer. Correctness over latency still holds: every config
// write must call Invalidate, which drops both layers.
type CachedResolver struct {
	inner    *Resolver
	remote   cache.ICache
	local    *cache.FastCache
	ttl      time.Duration
	localTTL time.Duration
}

func NewCachedResolver(inner *Resolver, remote cache.ICache, local *cache.FastCache) *CachedResolver {
	return &CachedResolver{
		inner:    inner,
		remote:   remote,
		local:    local,
		ttl:      defaultTTL,
		localTTL: defaultLocalTTL,
	}
}

// Entry keys carry a per-module generation. Project-scoped writes delete
// their own key; global writes bump the generation instead, which orphans
// every cached entry for the module at once. That matters because any
// project may have resolved through the global fallback, including cached
// misses, and those keys cannot be enumerated from here.
func configKey(projectId, moduleId, gen string) string {
	return fmt.Sprintf("%s%s:%s:%s", moduleConfigKeyPrefix, moduleId, gen, projectId)
}

func genKey(moduleId string) string {
	return moduleGenKeyPrefix + moduleId
}

// Resolve returns the effective config, consulting local then remote cache
// before falling through to the store. Cache failures degrade to a store
// read; they are logged, not surfaced.
func (r *CachedResolver) Resolve(ctx context.Context, projectId, moduleId string) (*moduleconfig.ModuleConfig, error) {
	key := configKey(projectId, moduleId, r.generation(ctx, moduleId))

	if cfg, hit, err := r.lookup(ctx, key); hit {
		metrics.ConfigResolutions.WithLabelValues(moduleId, "cache").Inc()
		return cfg, err
	}

	cfg, err := r.inner.Resolve(ctx, projectId, moduleId)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			r.store(ctx, key, []byte(notFoundMarker))
		}
		return nil, err
	}

	raw, mErr := json.Marshal(cfg)
	if mErr != nil {
		log.Warnw("failed to marshal module config for cache", "key", key, "error", mErr)
		return cfg, nil
	}
	r.store(ctx, key, raw)

	return cfg, nil
}

// Invalidate drops the cache entries affected by a write to the given scope.
// The config services call it on every write, including soft deletes. A
// project write only touches that project's entry; a global write changes the
// fallback for every project, so it bumps the module generation.
func (r *CachedResolver) Invalidate(ctx context.Context, projectId, moduleId string) {
	if projectId == "" {
		r.bumpGeneration(ctx, moduleId)
		return
	}
	key := configKey(projectId, moduleId, r.generation(ctx, moduleId))
	r.local.Del(ctx, key)
	if err := r.remote.Del(ctx, key).Err(); err != nil {
		log.Warnw("failed to invalidate module config cache", "key", key, "error", err)
	}
}

// generation reads the module's cache generation, local layer first. A
// missing generation is initialized to "0"; an unreadable one yields a
// one-off token so the request bypasses the cache instead of hitting a
// stale entry.
func (r *CachedResolver) generation(ctx context.Context, moduleId string) string {
	key := genKey(moduleId)
	if gen, err := r.local.Get(ctx, key).Result(); err == nil {
		return gen
	}

	gen, err := r.remote.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		gen = "0"
		if sErr := r.remote.Set(ctx, key, gen, 0).Err(); sErr != nil {
			log.Warnw("module config generation init failed", "key", key, "error", sErr)
		}
	} else if err != nil {
		log.Warnw("module config generation read failed", "key", key, "error", err)
		return id.GetUUIDWithoutDashes()
	}

	r.local.Set(ctx, key, gen, r.localTTL)
	return gen
}

func (r *CachedResolver) bumpGeneration(ctx context.Context, moduleId string) {
	key := genKey(moduleId)
	gen := id.GetUUIDWithoutDashes()
	r.local.Del(ctx, key)
	if err := r.remote.Set(ctx, key, gen, 0).Err(); err != nil {
		log.Warnw("failed to bump module config cache generation", "key", key, "error", err)
		return
	}
	r.local.Set(ctx, key, gen, r.localTTL)
}

func (r *CachedResolver) lookup(ctx context.Context, key string) (*moduleconfig.ModuleConfig, bool, error) {
	raw, err := r.local.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		raw, err = r.remote.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		if err != nil {
			log.Warnw("module config cache read failed", "key", key, "error", err)
			return nil, false, nil
		}
		// refresh the local layer from the remote hit
		r.local.Set(ctx, key, raw, r.localTTL)
	} else if err != nil {
		return nil, false, nil
	}

	if raw == notFoundMarker {
		return nil, true, ErrConfigNotFound
	}

	var cfg moduleconfig.ModuleConfig
	if uErr := json.Unmarshal([]byte(raw), &cfg); uErr != nil {
		log.Warnw("corrupt module config cache entry", "key", key, "error", uErr)
		return nil, false, nil
	}
	return &cfg, true, nil
}

func (r *CachedResolver) store(ctx context.Context, key string, raw []byte) {
	r.local.Set(ctx, key, raw, r.localTTL)
	if err := r.remote.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		log.Warnw("module config cache write failed", "key", key, "error", err)
	}
}
