package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/leadfoundry/leadcore/internal/engine/model/moduleconfig"
	"github.com/leadfoundry/leadcore/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.MustInit(log.SetDefaults())
	os.Exit(m.Run())
}

// fakeStore serves configs from maps and counts lookups so tests can assert
// which levels of the scope chain were consulted.
type fakeStore struct {
	project      map[string]*moduleconfig.ModuleConfig // moduleId:projectId
	global       map[string]*moduleconfig.ModuleConfig // moduleId
	projectCalls int
	globalCalls  int
	failWith     error
}

func (f *fakeStore) GetByModuleAndProject(_ context.Context, moduleId, projectId string) (*moduleconfig.ModuleConfig, error) {
	f.projectCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	if cfg, ok := f.project[moduleId+":"+projectId]; ok {
		return cfg, nil
	}
	return nil, ErrConfigNotFound
}

func (f *fakeStore) GetGlobal(_ context.Context, moduleId string) (*moduleconfig.ModuleConfig, error) {
	f.globalCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	if cfg, ok := f.global[moduleId]; ok {
		return cfg, nil
	}
	return nil, ErrConfigNotFound
}

func configDoc(configId, moduleId, projectId string) *moduleconfig.ModuleConfig {
	return &moduleconfig.ModuleConfig{
		ConfigId:  configId,
		ModuleId:  moduleId,
		ProjectId: projectId,
		Version:   1,
	}
}

func TestResolvePrefersProjectOverride(t *testing.T) {
	store := &fakeStore{
		project: map[string]*moduleconfig.ModuleConfig{
			"leads:p1": configDoc("cfg-p1", "leads", "p1"),
		},
		global: map[string]*moduleconfig.ModuleConfig{
			"leads": configDoc("cfg-global", "leads", ""),
		},
	}
	r := NewResolver(store)

	cfg, err := r.Resolve(context.Background(), "p1", "leads")
	require.NoError(t, err)
	assert.Equal(t, "cfg-p1", cfg.ConfigId)
	assert.Equal(t, 0, store.globalCalls, "global lookup must not run when the override exists")
}

func TestResolveFallsBackToGlobal(t *testing.T) {
	store := &fakeStore{
		global: map[string]*moduleconfig.ModuleConfig{
			"leads": configDoc("cfg-global", "leads", ""),
		},
	}
	r := NewResolver(store)

	cfg, err := r.Resolve(context.Background(), "p1", "leads")
	require.NoError(t, err)
	assert.Equal(t, "cfg-global", cfg.ConfigId)
	assert.Equal(t, 1, store.projectCalls)
	assert.Equal(t, 1, store.globalCalls)
}

func TestResolveNotFound(t *testing.T) {
	store := &fakeStore{}
	r := NewResolver(store)

	cfg, err := r.Resolve(context.Background(), "p1", "leads")
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestResolveEmptyProjectSkipsOverrideLookup(t *testing.T) {
	store := &fakeStore{
		global: map[string]*moduleconfig.ModuleConfig{
			"leads": configDoc("cfg-global", "leads", ""),
		},
	}
	r := NewResolver(store)

	cfg, err := r.Resolve(context.Background(), "", "leads")
	require.NoError(t, err)
	assert.Equal(t, "cfg-global", cfg.ConfigId)
	assert.Equal(t, 0, store.projectCalls, "empty projectId must not hit the project lookup")
}

func TestResolvePropagatesStoreErrors(t *testing.T) {
	storeErr := fmt.Errorf("connection refused")
	store := &fakeStore{failWith: storeErr}
	r := NewResolver(store)

	cfg, err := r.Resolve(context.Background(), "p1", "leads")
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storeErr))
	assert.Equal(t, 0, store.globalCalls, "chain must stop on a non-miss error")
}
