package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/jwebster45206/hallway/pkg/npc"
	"github.com/jwebster45206/hallway/pkg/scenario"
	"github.com/jwebster45206/hallway/pkg/storage"
)

var profileFile = regexp.MustCompile(`^student_(\d+)\.json$`)

// Resources serves the read-mostly files every backend shares: NPC
// profiles, map configurations and the world layout.
type Resources struct {
	dataDir   string
	mapsDir   string
	worldFile string
	logger    *slog.Logger
}

func NewResources(dataDir, mapsDir, worldFile string, logger *slog.Logger) *Resources {
	if dataDir == "" {
		dataDir = "data"
	}
	if mapsDir == "" {
		mapsDir = "maps"
	}
	return &Resources{
		dataDir:   dataDir,
		mapsDir:   mapsDir,
		worldFile: worldFile,
		logger:    logger,
	}
}

// Profile operations (filesystem-backed)

func (r *Resources) GetProfile(ctx context.Context, id npc.ID) (*npc.Profile, error) {
	path := filepath.Join(r.dataDir, fmt.Sprintf("student_%d.json", id))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("profile %d: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}

	p, err := npc.ParseProfile(data)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return p, nil
}

// ListProfiles loads every student_{n}.json in the data directory. Files that
// fail validation are logged and left out.
func (r *Resources) ListProfiles(ctx context.Context) ([]*npc.Profile, error) {
	entries, err := os.ReadDir(r.dataDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*npc.Profile{}, nil
		}
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	profiles := make([]*npc.Profile, 0, len(entries))
	for _, entry := range entries {
		m := profileFile.FindStringSubmatch(entry.Name())
		if entry.IsDir() || m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		p, err := r.GetProfile(ctx, npc.ID(n))
		if err != nil {
			r.logger.Warn("Skipping invalid NPC profile", "file", entry.Name(), "error", err)
			continue
		}
		profiles = append(profiles, p)
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })
	return profiles, nil
}

// Map configuration operations (filesystem-backed)

func (r *Resources) mapPath(name string) string {
	return filepath.Join(r.mapsDir, name+"_config.json")
}

func (r *Resources) GetMapConfig(ctx context.Context, name string) (*scenario.MapConfig, error) {
	path := r.mapPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("map config %s: %w", name, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read map config %s: %w", path, err)
	}

	var cfg scenario.MapConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("map config %s: %w: %w", name, storage.ErrCorrupt, err)
	}
	if cfg.MapName == "" {
		cfg.MapName = name
	}
	return &cfg, nil
}

func (r *Resources) SaveMapConfig(ctx context.Context, cfg *scenario.MapConfig) error {
	if cfg == nil || cfg.MapName == "" {
		return errors.New("map config must have a name")
	}
	if err := os.MkdirAll(r.mapsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create maps directory: %w", err)
	}
	if cfg.WalkableAreas == nil {
		cfg.WalkableAreas = []scenario.Rect{}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal map config: %w", err)
	}
	if err := writeFileAtomic(r.mapPath(cfg.MapName), data); err != nil {
		return fmt.Errorf("failed to save map config %s: %w", cfg.MapName, err)
	}
	r.logger.Info("Map config saved", "map", cfg.MapName, "areas", len(cfg.WalkableAreas))
	return nil
}

// World layout

// GetWorld reads the configured world file, or returns the built-in school
// when none is configured.
func (r *Resources) GetWorld(ctx context.Context) (*scenario.World, error) {
	if r.worldFile == "" {
		return scenario.DefaultWorld(), nil
	}
	data, err := os.ReadFile(r.worldFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read world file: %w", err)
	}
	return scenario.ParseWorld(data)
}

// writeFileAtomic replaces path so readers never see a partial document.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}
