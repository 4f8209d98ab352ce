package storage

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/hallway/internal/config"
	"github.com/jwebster45206/hallway/pkg/storage"
)

// Open builds the backend selected by cfg.StorageBackend.
func Open(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	res := NewResources(cfg.DataDir, cfg.MapsDir, cfg.WorldFile, logger)

	switch cfg.StorageBackend {
	case config.BackendFile, "":
		return NewFileStorage(cfg.EmotionDir, res, logger), nil
	case config.BackendRedis:
		s, err := NewRedisStorage(cfg.RedisURL, res, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendSQLite:
		s, err := NewSQLiteStorage(cfg.SQLitePath, res, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
