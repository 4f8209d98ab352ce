package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/hallway/pkg/emotion"
	"github.com/jwebster45206/hallway/pkg/npc"
	"github.com/jwebster45206/hallway/pkg/storage"
	"github.com/redis/go-redis/v9"
)

// RedisStorage implements the Storage interface using Redis for emotion
// state and the filesystem for static resources.
type RedisStorage struct {
	*Resources
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance from a redis:// URL.
func NewRedisStorage(redisURL string, res *Resources, logger *slog.Logger) (*RedisStorage, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &RedisStorage{
		Resources: res,
		client:    redis.NewClient(opts),
		logger:    logger,
	}, nil
}

func emotionKey(id npc.ID) string {
	return "emotion:" + id.String()
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Emotion operations (Redis-backed)

func (r *RedisStorage) ReadEmotions(ctx context.Context, id npc.ID) (emotion.Vector, error) {
	data, err := r.client.Get(ctx, emotionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("emotions for npc %d: %w", id, storage.ErrNotFound)
		}
		r.logger.Error("Failed to load emotions", "npc_id", id, "error", err)
		return nil, fmt.Errorf("failed to load emotions: %w", err)
	}
	return decodeEmotions(id, data)
}

func (r *RedisStorage) WriteEmotions(ctx context.Context, id npc.ID, v emotion.Vector) error {
	data, err := encodeEmotions(v)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, emotionKey(id), data, 0).Err(); err != nil {
		r.logger.Error("Failed to save emotions", "npc_id", id, "error", err)
		return fmt.Errorf("failed to save emotions: %w", err)
	}
	return nil
}
