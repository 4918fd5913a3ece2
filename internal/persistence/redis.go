package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/job-portal/internal/config"
)

// Redis holds the client backing the staging ledger.
type Redis struct {
	Client *redis.Client
}

// NewRedis builds a client and inspects the staging ledger key. An unreachable
// server or a ledger key of the wrong type is logged, not fatal: staging keeps
// working and only orphan tracking degrades.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	r := &Redis{Client: redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})}

	if err := r.Client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis; staging ledger disabled until it recovers",
			zap.String("addr", cfg.Addr), zap.Error(err))
		return r
	}

	backlog, err := r.LedgerBacklog(ctx, cfg.LedgerKey)
	if err != nil {
		logger.Warn("staging ledger key unusable", zap.String("key", cfg.LedgerKey), zap.Error(err))
		return r
	}
	logger.Info("connected to redis",
		zap.String("addr", cfg.Addr),
		zap.String("ledger_key", cfg.LedgerKey),
		zap.Int64("outstanding_staged_files", backlog))
	return r
}

// ErrLedgerKeyType is returned when the ledger key holds something other than
// a sorted set.
var ErrLedgerKeyType = errors.New("staging ledger key is not a sorted set")

// LedgerBacklog counts the staged files still tracked under key. A missing key
// counts as zero.
func (r *Redis) LedgerBacklog(ctx context.Context, key string) (int64, error) {
	if r == nil || r.Client == nil {
		return 0, errors.New("redis client not configured")
	}
	if key == "" {
		return 0, errors.New("staging ledger key is empty")
	}
	kind, err := r.Client.Type(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	switch kind {
	case "none":
		return 0, nil
	case "zset":
		return r.Client.ZCard(ctx, key).Result()
	default:
		return 0, fmt.Errorf("%w: %s holds a %s", ErrLedgerKeyType, key, kind)
	}
}

// Ping reports whether the ledger store is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}
