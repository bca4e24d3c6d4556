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
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

// defaultLocalMaxBytes is the default local cache size (32MB)
const defaultLocalMaxBytes = 32 * 1024 * 1024

// ProviderSet provides cache dependencies (Redis + local FastCache).
var ProviderSet = wire.NewSet(
	ProvideRedis,
	ProvideICache,
	ProvideFastCache,
)

// ProvideRedis provides the Redis client.
func ProvideRedis(conf Redis) (*redis.Client, error) {
	return NewRedis(conf)
}

// ProvideICache provides the ICache interface instance.
func ProvideICache(client *redis.Client) ICache {
	return NewRedisCache(client)
}

// ProvideFastCache provides the local FastCache instance (default 32MB).
func ProvideFastCache() *FastCache {
	return NewFastCache(FastCacheConfig{MaxBytes: defaultLocalMaxBytes})
}
