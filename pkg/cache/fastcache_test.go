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
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestFastCacheSetGet(t *testing.T) {
	fc := NewFastCache(FastCacheConfig{})
	ctx := context.Background()

	if err := fc.Set(ctx, "k1", "v1", time.Minute).Err(); err != nil {
		t.Fatalf("Set: %v", err)
	}

	val, err := fc.Get(ctx, "k1").Result()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val != "v1" {
		t.Errorf("Get = %q, want v1", val)
	}
}

func TestFastCacheMissReturnsNil(t *testing.T) {
	fc := NewFastCache(FastCacheConfig{})

	_, err := fc.Get(context.Background(), "absent").Result()
	if !errors.Is(err, redis.Nil) {
		t.Errorf("expected redis.Nil on miss, got %v", err)
	}
}

func TestFastCacheExpiration(t *testing.T) {
	fc := NewFastCache(FastCacheConfig{})
	ctx := context.Background()

	fc.Set(ctx, "k1", "v1", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, err := fc.Get(ctx, "k1").Result()
	if !errors.Is(err, redis.Nil) {
		t.Errorf("expected redis.Nil after expiry, got %v", err)
	}
}

func TestFastCacheZeroTTLNeverExpires(t *testing.T) {
	fc := NewFastCache(FastCacheConfig{})
	ctx := context.Background()

	fc.Set(ctx, "k1", "v1", 0)
	if _, err := fc.Get(ctx, "k1").Result(); err != nil {
		t.Errorf("zero-TTL entry should not expire: %v", err)
	}
}

func TestFastCacheDel(t *testing.T) {
	fc := NewFastCache(FastCacheConfig{})
	ctx := context.Background()

	fc.Set(ctx, "k1", "v1", time.Minute)
	fc.Set(ctx, "k2", "v2", time.Minute)

	deleted, err := fc.Del(ctx, "k1", "k2", "absent").Result()
	if err != nil {
		t.Fatalf("Del: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Del = %d, want 2", deleted)
	}

	if _, err := fc.Get(ctx, "k1").Result(); !errors.Is(err, redis.Nil) {
		t.Errorf("expected redis.Nil after Del, got %v", err)
	}
}

func TestFastCacheExpire(t *testing.T) {
	fc := NewFastCache(FastCacheConfig{})
	ctx := context.Background()

	ok, err := fc.Expire(ctx, "absent", time.Minute).Result()
	if err != nil {
		t.Fatalf("Expire: %v", err)
	}
	if ok {
		t.Error("Expire on a missing key must report false")
	}

	fc.Set(ctx, "k1", "v1", 10*time.Millisecond)
	ok, _ = fc.Expire(ctx, "k1", time.Minute).Result()
	if !ok {
		t.Error("Expire on an existing key must report true")
	}

	time.Sleep(20 * time.Millisecond)
	if _, err := fc.Get(ctx, "k1").Result(); err != nil {
		t.Errorf("entry expired despite extended TTL: %v", err)
	}
}

func TestFastCacheReset(t *testing.T) {
	fc := NewFastCache(FastCacheConfig{})
	ctx := context.Background()

	fc.Set(ctx, "k1", "v1", time.Minute)
	fc.Reset()

	if _, err := fc.Get(ctx, "k1").Result(); !errors.Is(err, redis.Nil) {
		t.Errorf("expected redis.Nil after Reset, got %v", err)
	}
}

func TestFastCacheMarshalsStructValues(t *testing.T) {
	fc := NewFastCache(FastCacheConfig{})
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}
	if err := fc.Set(ctx, "k1", payload{Name: "lead"}, time.Minute).Err(); err != nil {
		t.Fatalf("Set: %v", err)
	}

	val, err := fc.Get(ctx, "k1").Result()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val != `{"name":"lead"}` {
		t.Errorf("Get = %q, want JSON payload", val)
	}
}
