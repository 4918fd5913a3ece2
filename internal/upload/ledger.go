package upload

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ledger records which staged files are outstanding so that files left behind
// by a crashed process can be swept later.
type Ledger interface {
	Track(ctx context.Context, path string, stagedAt time.Time) error
	Forget(ctx context.Context, path string) error
	Stale(ctx context.Context, before time.Time) ([]string, error)
}

// RedisLedger keeps staged paths in a sorted set scored by staging time (ms).
type RedisLedger struct {
	client *redis.Client
	key    string
}

// NewRedisLedger returns a ledger stored under key.
func NewRedisLedger(client *redis.Client, key string) (*RedisLedger, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if key == "" {
		key = "job-portal:staging"
	}
	return &RedisLedger{client: client, key: key}, nil
}

func (l *RedisLedger) Track(ctx context.Context, path string, stagedAt time.Time) error {
	return l.client.ZAdd(ctx, l.key, redis.Z{
		Score:  float64(stagedAt.UnixMilli()),
		Member: path,
	}).Err()
}

func (l *RedisLedger) Forget(ctx context.Context, path string) error {
	return l.client.ZRem(ctx, l.key, path).Err()
}

func (l *RedisLedger) Stale(ctx context.Context, before time.Time) ([]string, error) {
	return l.client.ZRangeByScore(ctx, l.key, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(before.UnixMilli(), 10),
	}).Result()
}
