package storage

import (
	"context"
	"errors"

	"github.com/jwebster45206/hallway/pkg/emotion"
	"github.com/jwebster45206/hallway/pkg/npc"
	"github.com/jwebster45206/hallway/pkg/scenario"
)

var (
	// ErrNotFound is returned when a record has never been written.
	ErrNotFound = errors.New("not found")
	// ErrCorrupt is returned when a stored record cannot be decoded.
	ErrCorrupt = errors.New("corrupt record")
)

// Storage defines a unified interface for all storage operations.
// Emotion vectors are the only mutable records; the backend decides where
// they live. Profiles, maps and the world layout are read from the filesystem.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Live emotion state. ReadEmotions wraps ErrNotFound or ErrCorrupt.
	ReadEmotions(ctx context.Context, id npc.ID) (emotion.Vector, error)
	WriteEmotions(ctx context.Context, id npc.ID, v emotion.Vector) error

	// NPC profile operations (filesystem-backed)
	GetProfile(ctx context.Context, id npc.ID) (*npc.Profile, error)
	ListProfiles(ctx context.Context) ([]*npc.Profile, error)

	// Map configuration operations (filesystem-backed)
	GetMapConfig(ctx context.Context, name string) (*scenario.MapConfig, error)
	SaveMapConfig(ctx context.Context, cfg *scenario.MapConfig) error

	// World layout (filesystem-backed)
	GetWorld(ctx context.Context) (*scenario.World, error)
}
