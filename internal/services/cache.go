package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const feedKeyPrefix = "fantasy-golf:feed:"

// CacheService keeps decoded feed responses in redis under a shared prefix.
// A nil client disables caching: every load misses and stores are dropped.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{client: client}
}

func (s *CacheService) Enabled() bool {
	return s != nil && s.client != nil
}

// Load decodes the cached value for key into dest. It reports false on a
// miss.
func (s *CacheService) Load(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}

	raw, err := s.client.Get(ctx, feedKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read feed cache %q: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode feed cache %q: %w", key, err)
	}
	return true, nil
}

func (s *CacheService) Store(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode feed cache %q: %w", key, err)
	}
	if err := s.client.Set(ctx, feedKeyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write feed cache %q: %w", key, err)
	}
	return nil
}

// Invalidate drops cached feed responses so the next read goes upstream.
func (s *CacheService) Invalidate(ctx context.Context, keys ...string) error {
	if !s.Enabled() || len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = feedKeyPrefix + key
	}
	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate feed cache: %w", err)
	}
	return nil
}

func (s *CacheService) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Ping(ctx).Err()
}
