package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jwebster45206/hallway/pkg/emotion"
	"github.com/jwebster45206/hallway/pkg/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// exerciseEmotionBackend checks the behavior every emotion backend shares.
func exerciseEmotionBackend(t *testing.T, s storage.Storage) {
	t.Helper()
	ctx := context.Background()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	if _, err := s.ReadEmotions(ctx, 4); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unwritten npc, got %v", err)
	}

	v := emotion.DefaultVector()
	v.Set(emotion.Trust, 62.3)
	v["note"] = "high"
	if err := s.WriteEmotions(ctx, 4, v); err != nil {
		t.Fatalf("Failed to write emotions: %v", err)
	}

	got, err := s.ReadEmotions(ctx, 4)
	if err != nil {
		t.Fatalf("Failed to read emotions: %v", err)
	}
	if !got.Equal(v) {
		t.Errorf("Round trip mismatch: wrote %v, read %v", v, got)
	}

	overwrite := emotion.Vector{emotion.Trust: "10"}
	if err := s.WriteEmotions(ctx, 4, overwrite); err != nil {
		t.Fatalf("Failed to overwrite emotions: %v", err)
	}
	got, err = s.ReadEmotions(ctx, 4)
	if err != nil {
		t.Fatalf("Failed to read emotions: %v", err)
	}
	if len(got) != 1 || got[emotion.Trust] != "10" {
		t.Errorf("Write should fully overwrite, got %v", got)
	}

	if _, err := s.ReadEmotions(ctx, 5); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Records must be per npc, got %v", err)
	}
}
