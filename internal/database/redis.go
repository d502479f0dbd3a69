package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/urlcut/urlcut-backend/internal/config"
)

var Redis *redis.Client
var Ctx = context.Background()

func InitRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	_, err := Redis.Ping(Ctx).Result()
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Resolve caching and the cleanup lock will be disabled.", err)
	} else {
		log.Println("Connected to Redis successfully")
	}
}

func targetCacheKey(key string) string {
	return fmt.Sprintf("target:%s", key)
}

// CacheTarget stores the resolved target for a mapping key. The TTL must be
// capped by the mapping's time to expiry so an expired mapping can never be
// served from cache.
func CacheTarget(key, target string, ttl time.Duration) error {
	if Redis == nil || ttl <= 0 {
		return nil
	}
	return Redis.Set(Ctx, targetCacheKey(key), target, ttl).Err()
}

// GetCachedTarget returns the cached target for a key, or "" on miss.
func GetCachedTarget(key string) string {
	if Redis == nil {
		return ""
	}
	val, err := Redis.Get(Ctx, targetCacheKey(key)).Result()
	if err != nil {
		return ""
	}
	return val
}

// InvalidateTargets drops cache entries for the given mapping keys.
// Called after the cleanup job deletes expired mappings.
func InvalidateTargets(keys []string) error {
	if Redis == nil || len(keys) == 0 {
		return nil
	}
	cacheKeys := make([]string, len(keys))
	for i, k := range keys {
		cacheKeys[i] = targetCacheKey(k)
	}
	return Redis.Del(Ctx, cacheKeys...).Err()
}

// AcquireLock takes a best-effort singleton lock (SETNX with TTL). Returns
// true when the lock was obtained. Used to keep overlapping cleanup runs
// from racing each other when the scheduler misfires.
func AcquireLock(name string, ttl time.Duration) bool {
	if Redis == nil {
		return true
	}
	ok, err := Redis.SetNX(Ctx, "lock:"+name, 1, ttl).Result()
	if err != nil {
		// Redis being down should not stop the job, only the mutual exclusion.
		return true
	}
	return ok
}

// ReleaseLock frees a lock taken with AcquireLock.
func ReleaseLock(name string) {
	if Redis == nil {
		return
	}
	Redis.Del(Ctx, "lock:"+name)
}
