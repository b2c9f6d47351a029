package throttle

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/vote-service/internal/domain"
)

// RedisStore keeps one sorted set per key, scored by entry time in microseconds.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store whose keys expire ttl after their last entry.
// ttl should cover the longest rule window in use.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Count trims entries older than from and counts entries in [from, to].
func (s *RedisStore) Count(ctx context.Context, key domain.ThrottleKey, from, to time.Time) (int, error) {
	name := key.String()

	var count *redis.IntCmd
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, name, "-inf", "("+score(from))
		count = pipe.ZCount(ctx, name, score(from), score(to))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(count.Val()), nil
}

// Record adds an entry and refreshes the key expiry.
func (s *RedisStore) Record(ctx context.Context, key domain.ThrottleKey, at time.Time) error {
	name := key.String()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, name, redis.Z{Score: float64(at.UnixMicro()), Member: uuid.NewString()})
		if s.ttl > 0 {
			pipe.Expire(ctx, name, s.ttl)
		}
		return nil
	})
	return err
}

func score(t time.Time) string {
	return strconv.FormatInt(t.UnixMicro(), 10)
}
