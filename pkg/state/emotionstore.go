package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jwebster45206/hallway/pkg/emotion"
	"github.com/jwebster45206/hallway/pkg/npc"
	"github.com/jwebster45206/hallway/pkg/storage"
)

// BaselineFunc returns the designer baseline for an NPC, if it has one.
type BaselineFunc func(id npc.ID) (emotion.Vector, bool)

// ProfileBaselines serves baselines from loaded profiles.
func ProfileBaselines(profiles []*npc.Profile) BaselineFunc {
	byID := make(map[npc.ID]emotion.Vector, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p.Baseline()
	}
	return func(id npc.ID) (emotion.Vector, bool) {
		v, ok := byID[id]
		if !ok {
			return nil, false
		}
		return v.Clone(), true
	}
}

// EmotionStore is the only path to an NPC's persisted emotions. Every
// read-modify-write for one NPC runs under that NPC's lock.
type EmotionStore struct {
	storage storage.Storage
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[npc.ID]*sync.Mutex
}

func NewEmotionStore(s storage.Storage, logger *slog.Logger) *EmotionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmotionStore{
		storage: s,
		logger:  logger,
		locks:   make(map[npc.ID]*sync.Mutex),
	}
}

func (es *EmotionStore) lock(id npc.ID) func() {
	es.mu.Lock()
	l, ok := es.locks[id]
	if !ok {
		l = &sync.Mutex{}
		es.locks[id] = l
	}
	es.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Load returns the NPC's current emotions. A missing or corrupt record is
// replaced with the default vector, which is written back. Load never fails.
func (es *EmotionStore) Load(ctx context.Context, id npc.ID) emotion.Vector {
	unlock := es.lock(id)
	defer unlock()
	v, _ := es.load(ctx, id)
	return v
}

// load always returns a usable vector. The error is set only when the read
// failed for a reason other than a missing or corrupt record, in which case
// the stored record is left alone.
func (es *EmotionStore) load(ctx context.Context, id npc.ID) (emotion.Vector, error) {
	v, err := es.storage.ReadEmotions(ctx, id)
	if err == nil {
		return v, nil
	}

	def := emotion.DefaultVector()
	switch {
	case errors.Is(err, storage.ErrNotFound):
		es.logger.Info("No emotion record, using defaults", "npc_id", id)
	case errors.Is(err, storage.ErrCorrupt):
		es.logger.Warn("Corrupt emotion record, resetting to defaults", "npc_id", id, "error", err)
	default:
		// The record may be fine; do not overwrite it.
		es.logger.Error("Failed to read emotions, using defaults", "npc_id", id, "error", err)
		return def, fmt.Errorf("failed to read emotions for npc %d: %w", id, err)
	}

	if werr := es.storage.WriteEmotions(ctx, id, def); werr != nil {
		es.logger.Error("Failed to write default emotions", "npc_id", id, "error", werr)
	}
	return def, nil
}

// Save overwrites the NPC's emotions.
func (es *EmotionStore) Save(ctx context.Context, id npc.ID, v emotion.Vector) error {
	unlock := es.lock(id)
	defer unlock()
	return es.save(ctx, id, v)
}

func (es *EmotionStore) save(ctx context.Context, id npc.ID, v emotion.Vector) error {
	if err := es.storage.WriteEmotions(ctx, id, v); err != nil {
		es.logger.Error("Failed to save emotions", "npc_id", id, "error", err)
		return fmt.Errorf("failed to save emotions for npc %d: %w", id, err)
	}
	return nil
}

// ResetToBaseline overwrites the NPC's emotions with a copy of baseline. A
// nil baseline resets to the default vector.
func (es *EmotionStore) ResetToBaseline(ctx context.Context, id npc.ID, baseline emotion.Vector) error {
	v := baseline.Clone()
	if v == nil {
		v = emotion.DefaultVector()
	}
	return es.Save(ctx, id, v)
}

// InitializeAll seeds every NPC with its baseline, replacing whatever was
// stored. NPCs without a baseline get the default vector. A failure for one
// NPC does not stop the others.
func (es *EmotionStore) InitializeAll(ctx context.Context, ids []npc.ID, baselines BaselineFunc) error {
	var errs []error
	for _, id := range ids {
		baseline, ok := baselines(id)
		if !ok {
			es.logger.Warn("No baseline for NPC, seeding defaults", "npc_id", id)
		}
		if err := es.ResetToBaseline(ctx, id, baseline); err != nil {
			errs = append(errs, err)
			continue
		}
		es.logger.Debug("Seeded NPC emotions", "npc_id", id)
	}
	return errors.Join(errs...)
}

// Update loads the NPC's emotions, passes a copy to fn and saves the result
// when fn reports a change. The whole sequence holds the NPC's lock. If the
// record could not be read, fn is not called and the read error is returned.
func (es *EmotionStore) Update(ctx context.Context, id npc.ID, fn func(current emotion.Vector) (emotion.Vector, bool)) (emotion.Vector, error) {
	unlock := es.lock(id)
	defer unlock()

	current, err := es.load(ctx, id)
	if err != nil {
		return current, err
	}
	next, changed := fn(current.Clone())
	if !changed {
		return current, nil
	}
	if err := es.save(ctx, id, next); err != nil {
		return next, err
	}
	return next, nil
}
