package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/hallway/internal/logger"
	"github.com/jwebster45206/hallway/internal/services"
	"github.com/jwebster45206/hallway/pkg/chat"
	"github.com/jwebster45206/hallway/pkg/emotion"
	"github.com/jwebster45206/hallway/pkg/npc"
	"github.com/jwebster45206/hallway/pkg/prompts"
	"github.com/jwebster45206/hallway/pkg/scenario"
	"github.com/jwebster45206/hallway/pkg/state"
)

const (
	DefaultAttempts = 3
	DefaultBackoff  = time.Second

	defaultPlayerName = "플레이어"
)

var (
	ErrNoNPCSelected = errors.New("no NPC selected")
	ErrEmptyMessage  = errors.New("message cannot be empty")
	ErrNoResponse    = errors.New("no usable response from model")
	ErrStaleTurn     = errors.New("turn is no longer current")

	errMissingSpeech = errors.New("reply has no speech")
)

// TurnRequest is everything a background generation needs. It holds no
// reference to the game state.
type TurnRequest struct {
	Token         uuid.UUID
	NPC           string
	NPCID         npc.ID
	PlayerMessage string
	Prompt        string
}

// TurnResult is the outcome of one generation. Err is ErrNoResponse (wrapped)
// when every attempt failed.
type TurnResult struct {
	Token         uuid.UUID
	NPC           string
	NPCID         npc.ID
	PlayerMessage string
	Reply         prompts.Reply
	Raw           string
	Attempts      int
	Err           error
}

// TurnProcessor runs a conversational turn in three steps. PrepareTurn and
// ApplyTurn touch the game state and belong on the game loop; Generate
// blocks on the model and runs anywhere.
type TurnProcessor struct {
	llm      services.LLMService
	engine   *state.EmotionEngine
	world    *scenario.World
	registry *npc.Registry
	profiles map[npc.ID]*npc.Profile

	template string
	attempts int
	backoff  time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

type Option func(*TurnProcessor)

// WithAttempts sets how many times Generate asks the model. Values below 1
// are ignored.
func WithAttempts(n int) Option {
	return func(p *TurnProcessor) {
		if n >= 1 {
			p.attempts = n
		}
	}
}

func WithBackoff(d time.Duration) Option {
	return func(p *TurnProcessor) {
		if d >= 0 {
			p.backoff = d
		}
	}
}

// WithTemplate overrides the dialogue prompt template.
func WithTemplate(t string) Option {
	return func(p *TurnProcessor) {
		p.template = t
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *TurnProcessor) {
		p.now = now
	}
}

func NewTurnProcessor(llm services.LLMService, engine *state.EmotionEngine, world *scenario.World,
	registry *npc.Registry, profiles []*npc.Profile, logger *slog.Logger, opts ...Option) *TurnProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &TurnProcessor{
		llm:      llm,
		engine:   engine,
		world:    world,
		registry: registry,
		profiles: make(map[npc.ID]*npc.Profile, len(profiles)),
		attempts: DefaultAttempts,
		backoff:  DefaultBackoff,
		now:      time.Now,
		logger:   logger,
	}
	for _, prof := range profiles {
		if prof != nil {
			p.profiles[prof.ID] = prof
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Profile returns the loaded profile for an NPC, if any.
func (p *TurnProcessor) Profile(name string) (*npc.Profile, bool) {
	prof, ok := p.profiles[p.registry.ID(name)]
	return prof, ok
}

// PrepareTurn records the player's line and renders the prompt for the
// selected NPC. The returned token makes any earlier in-flight turn stale.
func (p *TurnProcessor) PrepareTurn(ctx context.Context, gs *state.GameState, message string) (TurnRequest, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return TurnRequest{}, ErrEmptyMessage
	}
	if gs.SelectedNPC == "" {
		return TurnRequest{}, ErrNoNPCSelected
	}

	name := gs.SelectedNPC
	id := p.registry.ID(name)

	// Rendered before the player line is recorded; the message has its own
	// field in the template.
	builder := prompts.New().
		WithTemplate(p.template).
		WithGameState(gs).
		WithWorld(p.world).
		WithEmotions(p.engine.Current(ctx, id)).
		WithPlayerMessage(message).
		WithClock(p.now)
	if prof, ok := p.profiles[id]; ok {
		builder = builder.WithProfile(prof)
	}
	prompt, err := builder.Build()
	if err != nil {
		return TurnRequest{}, fmt.Errorf("failed to build prompt: %w", err)
	}

	gs.AddMessage(chat.ChatMessage{
		Role:    chat.ChatRoleUser,
		Speaker: p.playerName(),
		Content: message,
	})

	return TurnRequest{
		Token:         gs.BeginTurn(),
		NPC:           name,
		NPCID:         id,
		PlayerMessage: message,
		Prompt:        prompt,
	}, nil
}

// Generate asks the model for the NPC's reply, retrying failed calls and
// replies without speech.
func (p *TurnProcessor) Generate(ctx context.Context, req TurnRequest) TurnResult {
	result := TurnResult{
		Token:         req.Token,
		NPC:           req.NPC,
		NPCID:         req.NPCID,
		PlayerMessage: req.PlayerMessage,
	}
	log := logger.WithNPC(p.logger, req.NPCID).With("turn", req.Token)

	var lastErr error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		result.Attempts = attempt

		raw, err := p.llm.Generate(ctx, req.Prompt)
		if err == nil {
			reply := prompts.ParseReply(raw)
			if reply.Valid() {
				result.Raw = raw
				result.Reply = reply
				return result
			}
			err = errMissingSpeech
		}
		lastErr = err
		log.Warn("Generation attempt failed", "attempt", attempt, "max_attempts", p.attempts, "error", err)

		if attempt == p.attempts {
			break
		}
		select {
		case <-ctx.Done():
			result.Err = fmt.Errorf("%w: %w", ErrNoResponse, ctx.Err())
			return result
		case <-time.After(p.backoff):
		}
	}

	result.Err = fmt.Errorf("%w after %d attempts: %w", ErrNoResponse, result.Attempts, lastErr)
	log.Error("Generation failed", "error", result.Err)
	return result
}

// ApplyTurn folds a finished generation back into the game state and updates
// the NPC's emotions. Results for a turn that is no longer pending, or for an
// NPC that is no longer selected, return ErrStaleTurn and change nothing.
func (p *TurnProcessor) ApplyTurn(ctx context.Context, gs *state.GameState, result TurnResult) (emotion.ChangeSet, error) {
	if !gs.IsCurrentTurn(result.Token, result.NPC) {
		p.logger.Info("Discarding stale turn", "npc_id", result.NPCID, "turn", result.Token)
		return nil, ErrStaleTurn
	}
	gs.CompleteTurn(result.Token)

	if result.Err != nil {
		return nil, result.Err
	}

	gs.AddMessage(chat.ChatMessage{
		Role:    chat.ChatRoleAgent,
		Speaker: result.NPC,
		Content: result.Reply.Speech,
	})

	changes := p.engine.ProcessTurn(ctx, result.NPCID, emotion.Turn{
		PlayerMessage: result.PlayerMessage,
		Reply:         result.Reply.Speech,
		InnerThought:  result.Reply.InnerThought,
	})
	return changes, nil
}

func (p *TurnProcessor) playerName() string {
	if p.world != nil && p.world.PlayerName != "" {
		return p.world.PlayerName
	}
	return defaultPlayerName
}
