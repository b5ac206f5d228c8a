package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles availability caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// AvailabilityCacheTTL bounds staleness of search results between
// invalidations. Seat maps are never served from this cache.
const AvailabilityCacheTTL = 15 * time.Second

const availabilityCachePrefix = "cache:availability:"

// CachedAvailability represents a cached per-trip availability snapshot.
type CachedAvailability struct {
	TripID         string `json:"trip_id"`
	AvailableSeats int    `json:"available_seats"`
}

// GetAvailability retrieves a trip's availability from cache.
// Returns nil on cache miss.
func (s *CacheStore) GetAvailability(ctx context.Context, tripID string) (*CachedAvailability, error) {
	key := availabilityCachePrefix + tripID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var cached CachedAvailability
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

// SetAvailability stores a trip's availability in cache.
func (s *CacheStore) SetAvailability(ctx context.Context, cached *CachedAvailability) error {
	key := availabilityCachePrefix + cached.TripID
	data, err := json.Marshal(cached)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, AvailabilityCacheTTL).Err()
}

// InvalidateAvailability removes a trip's availability from cache.
func (s *CacheStore) InvalidateAvailability(ctx context.Context, tripID string) error {
	key := availabilityCachePrefix + tripID
	return s.client.Del(ctx, key).Err()
}
