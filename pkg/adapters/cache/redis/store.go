// Package redis implements the dedup cache on top of go-redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/linkfolio/pkg/ports"
)

const defaultPrefix = "dedup:"

// Store keeps presence markers as short string values with a TTL
type Store struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewStore connects to the redis URL (redis://host:port/db) or bare host:port address.
func NewStore(ctx context.Context, addr string, logger *zap.Logger) (*Store, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("dedup cache connected", zap.String("addr", opts.Addr))
	return NewStoreWithClient(client, logger), nil
}

func NewStoreWithClient(client *redis.Client, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		prefix: defaultPrefix,
		logger: logger.With(zap.String("component", "cache")),
	}
}

func (s *Store) SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.prefix+key, "1", ttl).Result()
	if err != nil {
		s.logger.Error("cache setnx failed", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache setnx failed: %w", err)
	}
	return ok, nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists check failed: %w", err)
	}
	return n > 0, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

var _ ports.CacheStore = (*Store)(nil)
