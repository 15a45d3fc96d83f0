package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"ride-quote-service/internal/domain"
	"time"

	"github.com/redis/go-redis/v9"
)

const geocodeKeyPrefix = "geocode:"

type geocodeEntry struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RedisGeocodeCache memoizes address -> coordinates lookups in Redis.
// Entries expire after ttl; a zero ttl keeps them indefinitely.
type RedisGeocodeCache struct {
	redis redis.Cmdable
	ttl   time.Duration
}

func NewRedisGeocodeCache(client redis.Cmdable, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{redis: client, ttl: ttl}
}

func (c *RedisGeocodeCache) Get(ctx context.Context, address string) (domain.Coordinates, bool, error) {
	val, err := c.redis.Get(ctx, geocodeKey(address)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: %w", err)
	}

	var e geocodeEntry
	if err := json.Unmarshal([]byte(val), &e); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: decode %q: %w", address, err)
	}

	return domain.Coordinates{Lat: e.Lat, Lon: e.Lon}, true, nil
}

func (c *RedisGeocodeCache) Put(ctx context.Context, address string, coords domain.Coordinates) error {
	b, err := json.Marshal(geocodeEntry{Lat: coords.Lat, Lon: coords.Lon})
	if err != nil {
		return fmt.Errorf("put geocode cache: encode: %w", err)
	}

	if err := c.redis.Set(ctx, geocodeKey(address), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("put geocode cache: %w", err)
	}

	return nil
}

func geocodeKey(address string) string {
	return geocodeKeyPrefix + address
}
