package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"gr8tracker/internal/metrics"
	"gr8tracker/internal/models"
)

const redisKey = "gr8tracker:stats"

// RedisStore shares the stats cache between invocations that do not
// share process memory, such as concurrent Lambda environments. Redis
// errors degrade to cache misses.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Get(ctx context.Context) (models.StatsBundle, bool) {
	data, err := s.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("Redis cache read failed")
		}
		metrics.RecordCacheMiss()
		return models.StatsBundle{}, false
	}

	var bundle models.StatsBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		log.Warn().Err(err).Msg("Failed to unmarshal cached stats")
		metrics.RecordCacheMiss()
		return models.StatsBundle{}, false
	}
	metrics.RecordCacheHit()
	return bundle, true
}

func (s *RedisStore) Set(ctx context.Context, bundle models.StatsBundle) {
	data, err := json.Marshal(bundle)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal stats for cache")
		return
	}
	if err := s.client.Set(ctx, redisKey, data, s.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis cache write failed")
	}
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
