package boxscore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// BoxScoreTTL keeps cached scores fresh enough for per-second viewer polls
// without hammering Postgres.
const BoxScoreTTL = 2 * time.Second

// RedisCache handles writing box scores to Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis box-score cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
	}
}

// WriteBoxScore stores the full box score under game:<id>:boxscore.
func (c *RedisCache) WriteBoxScore(ctx context.Context, gameID uuid.UUID, score *LiveBoxScore) error {
	key := fmt.Sprintf("game:%s:boxscore", gameID)

	data, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("marshaling box score: %w", err)
	}
	return c.client.Set(ctx, key, data, BoxScoreTTL).Err()
}

// ReadBoxScore returns a cached box score, or nil on miss.
func (c *RedisCache) ReadBoxScore(ctx context.Context, gameID uuid.UUID) (*LiveBoxScore, error) {
	key := fmt.Sprintf("game:%s:boxscore", gameID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var score LiveBoxScore
	if err := json.Unmarshal(data, &score); err != nil {
		return nil, fmt.Errorf("unmarshaling cached box score: %w", err)
	}
	return &score, nil
}
