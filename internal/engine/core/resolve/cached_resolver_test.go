package resolve

import (
	"context"
	"testing"

	"github.com/leadfoundry/leadcore/internal/engine/model/moduleconfig"
	"github.com/leadfoundry/leadcore/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCachedUnderTest wires a CachedResolver over a fake store with two
// in-memory layers standing in for the local and remote caches.
func newCachedUnderTest(store *fakeStore) (*CachedResolver, *cache.FastCache, *cache.FastCache) {
	local := cache.NewFastCache(cache.FastCacheConfig{})
	remote := cache.NewFastCache(cache.FastCacheConfig{})
	return NewCachedResolver(NewResolver(store), remote, local), local, remote
}

func TestCachedResolveServesFromCache(t *testing.T) {
	store := &fakeStore{
		global: map[string]*moduleconfig.ModuleConfig{
			"leads": configDoc("cfg-global", "leads", ""),
		},
	}
	cr, _, _ := newCachedUnderTest(store)
	ctx := context.Background()

	first, err := cr.Resolve(ctx, "p1", "leads")
	require.NoError(t, err)
	assert.Equal(t, "cfg-global", first.ConfigId)
	assert.Equal(t, 1, store.globalCalls)

	second, err := cr.Resolve(ctx, "p1", "leads")
	require.NoError(t, err)
	assert.Equal(t, "cfg-global", second.ConfigId)
	assert.Equal(t, 1, store.globalCalls, "second resolve must be served from cache")
}

func TestCachedResolveRemoteHitRefreshesLocal(t *testing.T) {
	store := &fakeStore{
		global: map[string]*moduleconfig.ModuleConfig{
			"leads": configDoc("cfg-global", "leads", ""),
		},
	}
	cr, local, _ := newCachedUnderTest(store)
	ctx := context.Background()

	_, err := cr.Resolve(ctx, "p1", "leads")
	require.NoError(t, err)

	// Simulate a cold local layer (fresh process, shared Redis still warm).
	local.Reset()

	cfg, err := cr.Resolve(ctx, "p1", "leads")
	require.NoError(t, err)
	assert.Equal(t, "cfg-global", cfg.ConfigId)
	assert.Equal(t, 1, store.globalCalls, "remote hit must not fall through to the store")

	key := configKey("p1", "leads", cr.generation(ctx, "leads"))
	_, localErr := local.Get(ctx, key).Result()
	assert.NoError(t, localErr, "remote hit must repopulate the local layer")
}

func TestCachedResolveCachesNotFound(t *testing.T) {
	store := &fakeStore{}
	cr, _, _ := newCachedUnderTest(store)
	ctx := context.Background()

	_, err := cr.Resolve(ctx, "p1", "leads")
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.Equal(t, 1, store.projectCalls)
	assert.Equal(t, 1, store.globalCalls)

	_, err = cr.Resolve(ctx, "p1", "leads")
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.Equal(t, 1, store.projectCalls, "repeated miss must be served by the negative cache")
	assert.Equal(t, 1, store.globalCalls)
}

func TestCachedResolveInvalidate(t *testing.T) {
	store := &fakeStore{
		global: map[string]*moduleconfig.ModuleConfig{
			"leads": configDoc("cfg-v1", "leads", ""),
		},
	}
	cr, _, _ := newCachedUnderTest(store)
	ctx := context.Background()

	cfg, err := cr.Resolve(ctx, "p1", "leads")
	require.NoError(t, err)
	assert.Equal(t, "cfg-v1", cfg.ConfigId)

	// A config write lands and invalidates the scope.
	store.global["leads"] = configDoc("cfg-v2", "leads", "")
	cr.Invalidate(ctx, "p1", "leads")

	cfg, err = cr.Resolve(ctx, "p1", "leads")
	require.NoError(t, err)
	assert.Equal(t, "cfg-v2", cfg.ConfigId, "invalidation must force a fresh store read")
	assert.Equal(t, 2, store.globalCalls)
}

func TestCachedResolveInvalidateClearsNegativeEntry(t *testing.T) {
	store := &fakeStore{global: map[string]*moduleconfig.ModuleConfig{}}
	cr, _, _ := newCachedUnderTest(store)
	ctx := context.Background()

	_, err := cr.Resolve(ctx, "p1", "leads")
	assert.ErrorIs(t, err, ErrConfigNotFound)

	// First config for the scope is created, then the write path invalidates.
	store.global["leads"] = configDoc("cfg-new", "leads", "")
	cr.Invalidate(ctx, "p1", "leads")

	cfg, err := cr.Resolve(ctx, "p1", "leads")
	require.NoError(t, err)
	assert.Equal(t, "cfg-new", cfg.ConfigId)
}

func TestCachedResolveGlobalWriteReachesProjectMiss(t *testing.T) {
	store := &fakeStore{global: map[string]*moduleconfig.ModuleConfig{}}
	cr, _, _ := newCachedUnderTest(store)
	ctx := context.Background()

	// The project resolves before any config exists, caching the miss.
	_, err := cr.Resolve(ctx, "p1", "leads")
	assert.ErrorIs(t, err, ErrConfigNotFound)

	// The first global config is created. The write path invalidates the
	// global scope, which must also reach p1's cached miss.
	store.global["leads"] = configDoc("cfg-global", "leads", "")
	cr.Invalidate(ctx, "", "leads")

	cfg, err := cr.Resolve(ctx, "p1", "leads")
	require.NoError(t, err)
	assert.Equal(t, "cfg-global", cfg.ConfigId, "global write must displace the project's cached miss")
}

func TestCachedResolveGlobalWriteRefreshesFallbackUsers(t *testing.T) {
	store := &fakeStore{
		global: map[string]*moduleconfig.ModuleConfig{
			"leads": configDoc("cfg-v1", "leads", ""),
		},
	}
	cr, _, _ := newCachedUnderTest(store)
	ctx := context.Background()

	// Two projects without overrides both cache the global fallback.
	for _, projectId := range []string{"p1", "p2"} {
		cfg, err := cr.Resolve(ctx, projectId, "leads")
		require.NoError(t, err)
		assert.Equal(t, "cfg-v1", cfg.ConfigId)
	}

	store.global["leads"] = configDoc("cfg-v2", "leads", "")
	cr.Invalidate(ctx, "", "leads")

	for _, projectId := range []string{"p1", "p2"} {
		cfg, err := cr.Resolve(ctx, projectId, "leads")
		require.NoError(t, err)
		assert.Equal(t, "cfg-v2", cfg.ConfigId, "every fallback user must see the new global config")
	}
}

func TestCachedResolveProjectInvalidateKeepsOtherProjects(t *testing.T) {
	store := &fakeStore{
		global: map[string]*moduleconfig.ModuleConfig{
			"leads": configDoc("cfg-global", "leads", ""),
		},
	}
	cr, _, _ := newCachedUnderTest(store)
	ctx := context.Background()

	_, err := cr.Resolve(ctx, "p1", "leads")
	require.NoError(t, err)
	_, err = cr.Resolve(ctx, "p2", "leads")
	require.NoError(t, err)
	assert.Equal(t, 2, store.globalCalls)

	cr.Invalidate(ctx, "p1", "leads")

	_, err = cr.Resolve(ctx, "p2", "leads")
	require.NoError(t, err)
	assert.Equal(t, 2, store.globalCalls, "a project-scoped write must not evict other projects")

	_, err = cr.Resolve(ctx, "p1", "leads")
	require.NoError(t, err)
	assert.Equal(t, 3, store.globalCalls)
}

func TestConfigKeyScoping(t *testing.T) {
	assert.Equal(t, "leadcore:moduleconfig:leads:0:p1", configKey("p1", "leads", "0"))
	assert.NotEqual(t, configKey("p1", "leads", "0"), configKey("p2", "leads", "0"))
	assert.NotEqual(t, configKey("p1", "leads", "0"), configKey("p1", "reports", "0"))
	assert.NotEqual(t, configKey("p1", "leads", "0"), configKey("p1", "leads", "1"),
		"a generation bump must change every entry key for the module")
}
