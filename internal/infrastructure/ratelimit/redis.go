package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4/middleware"

	"github.com/aria/reminders/internal/infrastructure/config"
	"github.com/aria/reminders/internal/infrastructure/logger"
)

const keyPrefix = "aria:ratelimit:"

// RedisStore is a fixed-window echo rate limiter store shared by every
// server instance pointed at the same Redis.
type RedisStore struct {
	client *redis.Client
	addr   string
	limit  int
	window time.Duration
	clock  func() time.Time
	logger *logger.Logger
}

var _ middleware.RateLimiterStore = (*RedisStore)(nil)

// NewRedisStore connects to Redis and verifies the connection, retrying with backoff.
func NewRedisStore(cfg config.RedisConfig, security config.SecurityConfig, log *logger.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	store := newRedisStore(client, cfg.Addr, security, log)

	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	retryDelay := 500 * time.Millisecond
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = store.Ping(); err == nil {
			log.Infow("Redis rate limiter connected", "address", cfg.Addr)
			return store, nil
		}

		log.Warnw("Redis connection failed", "attempt", attempt, "error", err)
		if attempt < attempts {
			time.Sleep(retryDelay)
			retryDelay *= 2
		}
	}

	client.Close()
	return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
}

func newRedisStore(client *redis.Client, addr string, security config.SecurityConfig, log *logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		addr:   addr,
		limit:  security.RateLimitRequests,
		window: security.RateLimitWindow,
		clock:  time.Now,
		logger: log.WithComponent("ratelimit"),
	}
}

// Allow counts a request from identifier in the current window.
func (s *RedisStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	window := s.clock().UnixNano() / int64(s.window)
	key := keyPrefix + identifier + ":" + strconv.FormatInt(window, 10)

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, s.window)
		return nil
	})
	if err != nil {
		s.logger.Errorw("Rate limiter lookup failed", "error", err)
		return false, fmt.Errorf("rate limiter: %w", err)
	}

	return incr.Val() <= int64(s.limit), nil
}

// Ping checks the Redis connection
func (s *RedisStore) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return s.client.Ping(ctx).Err()
}

// GetConnectionInfo returns connection information
func (s *RedisStore) GetConnectionInfo() map[string]interface{} {
	stats := s.client.PoolStats()
	return map[string]interface{}{
		"address":     s.addr,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
	}
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
