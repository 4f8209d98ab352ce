package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/hallway/internal/config"
	"github.com/jwebster45206/hallway/internal/game"
	"github.com/jwebster45206/hallway/internal/logger"
	"github.com/jwebster45206/hallway/internal/services"
	backend "github.com/jwebster45206/hallway/internal/storage"
	"github.com/jwebster45206/hallway/pkg/emotion"
	"github.com/jwebster45206/hallway/pkg/npc"
	"github.com/jwebster45206/hallway/pkg/prompts"
	"github.com/jwebster45206/hallway/pkg/scenario"
	"github.com/jwebster45206/hallway/pkg/state"
	"github.com/jwebster45206/hallway/pkg/storage"
)

type connectionWaiter interface {
	WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closer, err := logger.SetupFile(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	log.Info("Starting Hallway",
		"environment", cfg.Environment,
		"storage_backend", cfg.StorageBackend,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := backend.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	if w, ok := store.(connectionWaiter); ok {
		if err := w.WaitForConnection(ctx, 5, 2*time.Second); err != nil {
			return fmt.Errorf("storage is not reachable: %w", err)
		}
	} else if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("storage is not reachable: %w", err)
	}

	world, err := store.GetWorld(ctx)
	if err != nil {
		return fmt.Errorf("failed to load world: %w", err)
	}
	registry, err := world.Registry()
	if err != nil {
		return err
	}
	profiles, err := store.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	log.Info("Loaded world", "locations", len(world.Locations), "npcs", registry.Len(), "profiles", len(profiles))

	template, err := prompts.LoadTemplate(cfg.DialogueTemplate)
	if err != nil {
		return err
	}

	llm, err := services.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create LLM service: %w", err)
	}

	rng := newRand(cfg)
	analyzerOpts := []emotion.Option{}
	if cfg.HasEmotionSeed {
		analyzerOpts = append(analyzerOpts, emotion.WithSeed(cfg.EmotionSeed))
	}

	emotionStore := state.NewEmotionStore(store, log)
	engine := state.NewEmotionEngine(emotionStore, emotion.NewAnalyzer(log, analyzerOpts...), log)
	lifecycle := state.NewLifecycle(emotionStore, registry.IDs(), state.ProfileBaselines(profiles), log)
	if err := lifecycle.Start(ctx); err != nil {
		return fmt.Errorf("failed to seed emotions: %w", err)
	}

	gs := state.NewGameState(world)
	gs.AssignNPCs(world, rng)

	sess := newSession(world, gs, store, engine, registry, lifecycle, rng, log)
	sess.turns = game.NewTurnProcessor(llm, engine, world, registry, profiles, log,
		game.WithAttempts(cfg.GenerationAttempts),
		game.WithBackoff(cfg.GenerationBackoff),
		game.WithTemplate(template))
	sess.enter(ctx)

	p := tea.NewProgram(NewGameUI(ctx, sess),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		// Leave the next session a clean slate even if the UI crashed.
		if endErr := lifecycle.End(ctx); endErr != nil {
			logger.WithError(log, endErr).Error("Failed to reset emotions")
		}
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func newSession(world *scenario.World, gs *state.GameState, store storage.Storage, engine *state.EmotionEngine,
	registry *npc.Registry, lifecycle *state.Lifecycle, rng scenario.IntRange, log *slog.Logger) *session {
	return &session{
		world:     world,
		gs:        gs,
		store:     store,
		engine:    engine,
		registry:  registry,
		lifecycle: lifecycle,
		rng:       rng,
		logger:    log,
		maps:      make(map[string]*scenario.MapConfig),
	}
}

// newRand is seeded from EMOTION_SEED when set so whole sessions replay.
func newRand(cfg *config.Config) *rand.Rand {
	if cfg.HasEmotionSeed {
		return rand.New(rand.NewPCG(cfg.EmotionSeed, cfg.EmotionSeed+1))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
