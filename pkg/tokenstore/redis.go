package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dh85/SpotifyWebAPI-sub002/pkg/auth"
)

// DefaultRedisKey is the key used when none is configured.
const DefaultRedisKey = "spotify:token"

// RedisStore keeps the token record in Redis, which lets several processes
// share one identity. Records are stored without a TTL: the refresh token
// stays valuable long after the access token expires.
type RedisStore struct {
	redis *redis.Client
	key   string
}

// NewRedisStore creates a store on the given Redis client. An empty key
// selects DefaultRedisKey.
func NewRedisStore(redisClient *redis.Client, key string) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{
		redis: redisClient,
		key:   key,
	}
}

// Load reads the persisted record. A missing key means no record.
func (s *RedisStore) Load(ctx context.Context) (*auth.Token, error) {
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var tok auth.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode token record: %w", err)
	}
	return &tok, nil
}

// Save writes tok to Redis, replacing any previous record.
func (s *RedisStore) Save(ctx context.Context, tok *auth.Token) error {
	if tok == nil {
		return fmt.Errorf("token cannot be nil")
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token record: %w", err)
	}

	if err := s.redis.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Clear removes the record.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
