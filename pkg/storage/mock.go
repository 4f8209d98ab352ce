package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jwebster45206/hallway/pkg/emotion"
	"github.com/jwebster45206/hallway/pkg/npc"
	"github.com/jwebster45206/hallway/pkg/scenario"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu         sync.RWMutex
	emotions   map[npc.ID]emotion.Vector
	corrupt    map[npc.ID]bool
	profiles   map[npc.ID]*npc.Profile
	maps       map[string]*scenario.MapConfig
	world      *scenario.World
	pingError  error
	writeError error
	writes     map[npc.ID]int
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		emotions: make(map[npc.ID]emotion.Vector),
		corrupt:  make(map[npc.ID]bool),
		profiles: make(map[npc.ID]*npc.Profile),
		maps:     make(map[string]*scenario.MapConfig),
		writes:   make(map[npc.ID]int),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetWriteError makes every WriteEmotions call fail until cleared with nil.
func (m *MockStorage) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeError = err
}

// MarkCorrupt makes the next ReadEmotions for id report ErrCorrupt, as if
// the stored record were garbage. A later write clears it.
func (m *MockStorage) MarkCorrupt(id npc.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corrupt[id] = true
}

// Writes returns how many times WriteEmotions succeeded for id.
func (m *MockStorage) Writes(id npc.ID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes[id]
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) ReadEmotions(ctx context.Context, id npc.ID) (emotion.Vector, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.corrupt[id] {
		return nil, fmt.Errorf("emotions for npc %d: %w", id, ErrCorrupt)
	}
	v, exists := m.emotions[id]
	if !exists {
		return nil, fmt.Errorf("emotions for npc %d: %w", id, ErrNotFound)
	}
	return v.Clone(), nil
}

func (m *MockStorage) WriteEmotions(ctx context.Context, id npc.ID, v emotion.Vector) error {
	if v == nil {
		return errors.New("emotion vector cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeError != nil {
		return m.writeError
	}
	m.emotions[id] = v.Clone()
	delete(m.corrupt, id)
	m.writes[id]++
	return nil
}

func (m *MockStorage) GetProfile(ctx context.Context, id npc.ID) (*npc.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, exists := m.profiles[id]
	if !exists {
		return nil, fmt.Errorf("profile %d: %w", id, ErrNotFound)
	}
	return p, nil
}

func (m *MockStorage) ListProfiles(ctx context.Context) ([]*npc.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*npc.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// AddProfile adds a profile to the mock storage (for testing)
func (m *MockStorage) AddProfile(p *npc.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
}

func (m *MockStorage) GetMapConfig(ctx context.Context, name string) (*scenario.MapConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, exists := m.maps[name]
	if !exists {
		return nil, fmt.Errorf("map config %s: %w", name, ErrNotFound)
	}
	copied := *cfg
	copied.WalkableAreas = append([]scenario.Rect(nil), cfg.WalkableAreas...)
	return &copied, nil
}

func (m *MockStorage) SaveMapConfig(ctx context.Context, cfg *scenario.MapConfig) error {
	if cfg == nil || cfg.MapName == "" {
		return errors.New("map config must have a name")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *cfg
	copied.WalkableAreas = append([]scenario.Rect(nil), cfg.WalkableAreas...)
	m.maps[cfg.MapName] = &copied
	return nil
}

// GetWorld returns the world set with SetWorld, or the default world.
func (m *MockStorage) GetWorld(ctx context.Context) (*scenario.World, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.world == nil {
		return scenario.DefaultWorld(), nil
	}
	return m.world, nil
}

// SetWorld sets the world returned by GetWorld (for testing)
func (m *MockStorage) SetWorld(w *scenario.World) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.world = w
}
