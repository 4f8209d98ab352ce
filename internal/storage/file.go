package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jwebster45206/hallway/pkg/emotion"
	"github.com/jwebster45206/hallway/pkg/npc"
	"github.com/jwebster45206/hallway/pkg/storage"
)

// FileStorage keeps each NPC's emotions in emotion{n}.txt under one
// directory. It is the default backend and matches the files designers edit
// by hand.
type FileStorage struct {
	*Resources
	emotionDir string
	logger     *slog.Logger
}

// Ensure FileStorage implements Storage interface
var _ storage.Storage = (*FileStorage)(nil)

func NewFileStorage(emotionDir string, res *Resources, logger *slog.Logger) *FileStorage {
	if emotionDir == "" {
		emotionDir = "emotion"
	}
	return &FileStorage{
		Resources:  res,
		emotionDir: emotionDir,
		logger:     logger,
	}
}

func (f *FileStorage) path(id npc.ID) string {
	return filepath.Join(f.emotionDir, fmt.Sprintf("emotion%d.txt", id))
}

// Ping verifies the emotion directory exists or can be created.
func (f *FileStorage) Ping(ctx context.Context) error {
	if err := os.MkdirAll(f.emotionDir, 0o755); err != nil {
		return fmt.Errorf("emotion directory unavailable: %w", err)
	}
	return nil
}

func (f *FileStorage) Close() error {
	return nil
}

func (f *FileStorage) ReadEmotions(ctx context.Context, id npc.ID) (emotion.Vector, error) {
	data, err := os.ReadFile(f.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("emotions for npc %d: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read emotion file: %w", err)
	}
	return decodeEmotions(id, data)
}

func (f *FileStorage) WriteEmotions(ctx context.Context, id npc.ID, v emotion.Vector) error {
	data, err := encodeEmotions(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.emotionDir, 0o755); err != nil {
		f.logger.Error("Failed to create emotion directory", "dir", f.emotionDir, "error", err)
		return fmt.Errorf("failed to create emotion directory: %w", err)
	}
	if err := writeFileAtomic(f.path(id), data); err != nil {
		f.logger.Error("Failed to write emotion file", "npc_id", id, "error", err)
		return fmt.Errorf("failed to write emotion file: %w", err)
	}
	return nil
}
