// Package cache keeps a short-lived log of recent invocations in Redis.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/functions/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	lastInvocationIDKey   = "lastInvocationId"
	lastInvocationTimeKey = "lastInvocationTime"
	invocationsKey        = "invocations"

	// Expiry is applied to every key written by RecordInvocation.
	Expiry = 5 * time.Minute

	isoMillis = "2006-01-02T15:04:05.000Z07:00"
)

// NewRedisClient parses a redis:// URL, connects and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// RedisStore records invocations in Redis.
type RedisStore struct {
	client redis.Cmdable
	log    *slog.Logger
}

// NewRedisStore wraps a Redis client.
func NewRedisStore(client redis.Cmdable, log *slog.Logger) *RedisStore {
	return &RedisStore{client: client, log: log}
}

// RecordInvocation remembers id as the latest invocation, pushes it on the invocation list
// and returns up to limit of the most recent IDs, newest first.
// The list only gets an expiry when it has none, so a steady stream of calls keeps it alive
// for at most Expiry after its creation.
func (s *RedisStore) RecordInvocation(
	ctx context.Context,
	id string,
	at time.Time,
	limit int,
) (*models.InvocationLog, error) {
	stamp := at.UTC().Format(isoMillis)

	pipe := s.client.Pipeline()
	pipe.Set(ctx, lastInvocationIDKey, id, Expiry)
	pipe.Set(ctx, lastInvocationTimeKey, stamp, Expiry)
	pipe.LPush(ctx, invocationsKey, id)
	ttl := pipe.TTL(ctx, invocationsKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to record invocation: %w", err)
	}

	if ttl.Val() < 0 {
		if err := s.client.Expire(ctx, invocationsKey, Expiry).Err(); err != nil {
			return nil, fmt.Errorf("failed to set invocation list expiry: %w", err)
		}
	}

	recent := []string{}
	if limit > 0 {
		var err error
		recent, err = s.client.LRange(ctx, invocationsKey, 0, int64(limit-1)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read invocation list: %w", err)
		}
	}

	s.log.DebugContext(ctx, "Invocation recorded in redis", "id", id, "returned", len(recent))

	return &models.InvocationLog{
		Invocations:        recent,
		LastInvocationID:   id,
		LastInvocationTime: stamp,
	}, nil
}
