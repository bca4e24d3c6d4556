// Copyright 2025 Leadcore Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/redis/go-redis/v9"
)

// FastCacheConfig holds fastcache configuration.
type FastCacheConfig struct {
	MaxBytes int // maximum bytes for fastcache, default 16MB
}

// FastCache is a local in-memory cache built on VictoriaMetrics fastcache
// with per-key expiration tracking. It satisfies ICache so it can front the
// Redis cache for read-heavy config lookups.
type FastCache struct {
	cache *fastcache.Cache
	ttls  sync.Map // map[string]time.Time
	mu    sync.RWMutex
}

// NewFastCache creates a new FastCache instance.
func NewFastCache(conf FastCacheConfig) *FastCache {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 16 * 1024 * 1024
	}

	return &FastCache{
		cache: fastcache.New(maxBytes),
	}
}

// Get returns the value for the given key. An expired or missing key yields
// a StringCmd carrying redis.Nil so callers can treat local and remote
// misses uniformly.
func (fc *FastCache) Get(ctx context.Context, key string) *redis.StringCmd {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	cmd := &redis.StringCmd{}

	if exp, ok := fc.ttls.Load(key); ok {
		if time.Now().After(exp.(time.Time)) {
			cmd.SetErr(redis.Nil)
			return cmd
		}
	}

	value := fc.cache.Get(nil, []byte(key))
	if value == nil {
		cmd.SetErr(redis.Nil)
		return cmd
	}

	cmd.SetVal(string(value))
	return cmd
}

// Set stores the value for the given key with expiration.
func (fc *FastCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	cmd := &redis.StatusCmd{}

	var valueBytes []byte
	switch v := value.(type) {
	case string:
		valueBytes = []byte(v)
	case []byte:
		valueBytes = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			cmd.SetErr(err)
			return cmd
		}
		valueBytes = data
	}

	fc.cache.Set([]byte(key), valueBytes)

	if expiration > 0 {
		fc.ttls.Store(key, time.Now().Add(expiration))
	} else {
		fc.ttls.Delete(key)
	}

	cmd.SetVal("OK")
	return cmd
}

// Del removes the given keys.
func (fc *FastCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var deleted int64
	for _, key := range keys {
		if fc.cache.Has([]byte(key)) {
			deleted++
		}
		fc.cache.Del([]byte(key))
		fc.ttls.Delete(key)
	}

	cmd := &redis.IntCmd{}
	cmd.SetVal(deleted)
	return cmd
}

// Expire resets the expiration for an existing key.
func (fc *FastCache) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	cmd := &redis.BoolCmd{}
	if !fc.cache.Has([]byte(key)) {
		cmd.SetVal(false)
		return cmd
	}
	fc.ttls.Store(key, time.Now().Add(expiration))
	cmd.SetVal(true)
	return cmd
}

// Reset drops all entries.
func (fc *FastCache) Reset() {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.cache.Reset()
	fc.ttls.Range(func(key, _ any) bool {
		fc.ttls.Delete(key)
		return true
	})
}
