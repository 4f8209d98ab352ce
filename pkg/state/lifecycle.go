package state

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/jwebster45206/hallway/pkg/npc"
)

var (
	ErrNotStarted   = errors.New("session has not started")
	ErrSessionEnded = errors.New("session has ended")
)

type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseSeeded
	PhaseReset
)

func (p Phase) String() string {
	switch p {
	case PhaseSeeded:
		return "seeded"
	case PhaseReset:
		return "reset"
	default:
		return "uninitialized"
	}
}

// Lifecycle seeds every NPC's emotions when a session starts and restores
// them to baseline when it ends. Each transition happens at most once.
type Lifecycle struct {
	mu        sync.Mutex
	phase     Phase
	store     *EmotionStore
	ids       []npc.ID
	baselines BaselineFunc
	logger    *slog.Logger
}

func NewLifecycle(store *EmotionStore, ids []npc.ID, baselines BaselineFunc, logger *slog.Logger) *Lifecycle {
	if logger == nil {
		logger = slog.Default()
	}
	if baselines == nil {
		baselines = ProfileBaselines(nil)
	}
	return &Lifecycle{
		store:     store,
		ids:       slices.Clone(ids),
		baselines: baselines,
		logger:    logger,
	}
}

func (l *Lifecycle) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase
}

// Start seeds every registered NPC from its baseline. Calling Start again
// while the session runs does nothing. NPCs that fail to seed are logged and
// keep whatever was stored; the session still starts. Only when no NPC could
// be seeded does the session stay uninitialized, and Start may be retried.
func (l *Lifecycle) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.phase {
	case PhaseSeeded:
		return nil
	case PhaseReset:
		return ErrSessionEnded
	}

	if err := l.store.InitializeAll(ctx, l.ids, l.baselines); err != nil {
		failed := failureCount(err)
		if failed >= len(l.ids) {
			l.logger.Error("Failed to seed NPC emotions", "error", err)
			return err
		}
		l.logger.Warn("Some NPC emotions were not seeded", "failed", failed, "npcs", len(l.ids), "error", err)
	}
	l.phase = PhaseSeeded
	l.logger.Info("Session started", "npcs", len(l.ids))
	return nil
}

// End restores every registered NPC to its baseline. Only the first call
// after Start does any work.
func (l *Lifecycle) End(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.phase {
	case PhaseUninitialized:
		return ErrNotStarted
	case PhaseReset:
		return nil
	}

	var errs []error
	for _, id := range l.ids {
		baseline, _ := l.baselines(id)
		if err := l.store.ResetToBaseline(ctx, id, baseline); err != nil {
			errs = append(errs, err)
		}
	}
	l.phase = PhaseReset
	l.logger.Info("Session ended, emotions reset to baseline", "npcs", len(l.ids), "failures", len(errs))
	return errors.Join(errs...)
}

// failureCount reports how many errors a joined error carries.
func failureCount(err error) int {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}
