package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jwebster45206/hallway/pkg/storage"
)

func setupTestRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	res := NewResources(t.TempDir(), t.TempDir(), "", testLogger())
	s, err := NewRedisStorage("redis://"+mr.Addr(), res, testLogger())
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create redis storage: %v", err)
	}
	return s, mr
}

func TestRedisStorage_Backend(t *testing.T) {
	s, mr := setupTestRedis(t)
	defer mr.Close()
	defer s.Close()

	exerciseEmotionBackend(t, s)

	if !mr.Exists("emotion:4") {
		t.Error("Expected emotions under the emotion:4 key")
	}
}

func TestRedisStorage_CorruptValue(t *testing.T) {
	s, mr := setupTestRedis(t)
	defer mr.Close()
	defer s.Close()

	if err := mr.Set("emotion:1", "garbage"); err != nil {
		t.Fatal(err)
	}

	_, err := s.ReadEmotions(context.Background(), 1)
	if !errors.Is(err, storage.ErrCorrupt) {
		t.Errorf("Expected ErrCorrupt, got %v", err)
	}
}

func TestRedisStorage_WaitForConnection(t *testing.T) {
	s, mr := setupTestRedis(t)
	defer s.Close()

	if err := s.WaitForConnection(context.Background(), 3, time.Millisecond); err != nil {
		t.Errorf("Expected connection, got %v", err)
	}

	mr.Close()
	if err := s.WaitForConnection(context.Background(), 2, time.Millisecond); err == nil {
		t.Error("Expected failure once the server is gone")
	}
}

func TestNewRedisStorage_BadURL(t *testing.T) {
	_, err := NewRedisStorage("not-a-url://", NewResources("", "", "", testLogger()), testLogger())
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}
