package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"fmt"           // Key formatting
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// CacheTTL bounds how stale a cached read can be when an invalidation is missed
const CacheTTL = 60 * time.Second

// WalletKey caches the balance of a user
func WalletKey(userID uint) string {
	return fmt.Sprintf("wallet:user:%d", userID)
}

// TradesPrefix is shared by every cached ledger page of a user
func TradesPrefix(userID uint) string {
	return fmt.Sprintf("trades:user:%d:", userID)
}

// TradesKey caches one ledger page of a user
func TradesKey(userID uint, page, size int) string {
	return fmt.Sprintf("%spage:%d:size:%d", TradesPrefix(userID), page, size)
}

// AdminTradesPrefix is shared by every cached admin trade listing
const AdminTradesPrefix = "admin:trades:"

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

// DeleteCache deletes keys from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, keys ...string) error {
	return rdb.Del(ctx, keys...).Err()
}

// DeleteCachePrefix deletes every key starting with prefix
func DeleteCachePrefix(ctx context.Context, rdb *redis.Client, prefix string) error {
	iter := rdb.Scan(ctx, 0, prefix+"*", 100).Iterator() // Walk matching keys in batches
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

// InvalidateTradeCaches drops every cached view a trade by userID changes
func InvalidateTradeCaches(ctx context.Context, rdb *redis.Client, userID uint) error {
	if err := DeleteCache(ctx, rdb, WalletKey(userID)); err != nil {
		return err
	}
	if err := DeleteCachePrefix(ctx, rdb, TradesPrefix(userID)); err != nil {
		return err
	}
	return DeleteCachePrefix(ctx, rdb, AdminTradesPrefix)
}
