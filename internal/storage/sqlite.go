package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jwebster45206/hallway/pkg/emotion"
	"github.com/jwebster45206/hallway/pkg/npc"
	"github.com/jwebster45206/hallway/pkg/storage"
	_ "modernc.org/sqlite"
)

// SQLiteStorage keeps emotion vectors in a single embedded database file.
type SQLiteStorage struct {
	*Resources
	db     *sql.DB
	logger *slog.Logger
}

// Ensure SQLiteStorage implements Storage interface
var _ storage.Storage = (*SQLiteStorage)(nil)

func NewSQLiteStorage(dbPath string, res *Resources, logger *slog.Logger) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; sqlite serializes writes anyway.
	db.SetMaxOpenConns(1)

	s := &SQLiteStorage{Resources: res, db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStorage) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS npc_emotions (
		npc_id INTEGER PRIMARY KEY,
		stats TEXT NOT NULL, -- JSON object
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`)
	return err
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) ReadEmotions(ctx context.Context, id npc.ID) (emotion.Vector, error) {
	var stats string
	err := s.db.QueryRowContext(ctx, `SELECT stats FROM npc_emotions WHERE npc_id = ?`, int(id)).Scan(&stats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("emotions for npc %d: %w", id, storage.ErrNotFound)
		}
		s.logger.Error("Failed to load emotions", "npc_id", id, "error", err)
		return nil, fmt.Errorf("failed to load emotions: %w", err)
	}
	return decodeEmotions(id, []byte(stats))
}

func (s *SQLiteStorage) WriteEmotions(ctx context.Context, id npc.ID, v emotion.Vector) error {
	data, err := encodeEmotions(v)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO npc_emotions (npc_id, stats, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(npc_id) DO UPDATE SET stats = excluded.stats, updated_at = excluded.updated_at`,
		int(id), string(data), time.Now().UTC())
	if err != nil {
		s.logger.Error("Failed to save emotions", "npc_id", id, "error", err)
		return fmt.Errorf("failed to save emotions: %w", err)
	}
	return nil
}
