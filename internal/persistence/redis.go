package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/barberdesk/kiosk/internal/config"
)

// Redis holds the client behind redis session storage.
type Redis struct {
	Client *redis.Client
}

// NewRedis builds the client for session storage. An unreachable server is
// logged, not fatal; the session store retries reads on its own.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(redisOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("session redis unreachable; sessions will not survive a restart until it returns",
			zap.String("addr", cfg.Addr),
			zap.Error(err))
	} else {
		logger.Info("connected to session redis",
			zap.String("addr", cfg.Addr),
			zap.String("key_prefix", cfg.KeyPrefix))
	}

	return &Redis{Client: client}
}

// Session storage holds one record per kiosk.
func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     2,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping reports whether session redis answers. Used by readiness.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("session redis not configured")
	}
	return r.Client.Ping(ctx).Err()
}
