package state

import (
	"context"
	"log/slog"

	"github.com/jwebster45206/hallway/pkg/emotion"
	"github.com/jwebster45206/hallway/pkg/npc"
)

// EmotionEngine applies the analyzer to an NPC's stored emotions after each
// conversational turn.
type EmotionEngine struct {
	store    *EmotionStore
	analyzer *emotion.Analyzer
	logger   *slog.Logger
}

func NewEmotionEngine(store *EmotionStore, analyzer *emotion.Analyzer, logger *slog.Logger) *EmotionEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmotionEngine{
		store:    store,
		analyzer: analyzer,
		logger:   logger,
	}
}

// ProcessTurn scores the turn against the NPC's current emotions and persists
// the result when anything changed. A persistence failure is logged and the
// change set is still returned. When the current emotions cannot be read the
// turn is not scored and the change set is empty.
func (e *EmotionEngine) ProcessTurn(ctx context.Context, id npc.ID, turn emotion.Turn) emotion.ChangeSet {
	var changes emotion.ChangeSet
	_, err := e.store.Update(ctx, id, func(current emotion.Vector) (emotion.Vector, bool) {
		var updated emotion.Vector
		updated, changes = e.analyzer.Analyze(current, turn)
		return updated, len(changes) > 0
	})
	if err != nil {
		e.logger.Error("Emotion update failed", "npc_id", id, "error", err)
	}
	if len(changes) > 0 {
		e.logger.Info("Emotions changed", "npc_id", id, "changes", changes.Format())
	}
	return changes
}

// Current returns the NPC's emotions.
func (e *EmotionEngine) Current(ctx context.Context, id npc.ID) emotion.Vector {
	return e.store.Load(ctx, id)
}

// Relationship scores the NPC's current emotions toward the player.
func (e *EmotionEngine) Relationship(ctx context.Context, id npc.ID) (float64, string) {
	score := emotion.RelationshipScore(e.store.Load(ctx, id))
	return score, emotion.RelationshipLevel(score)
}
