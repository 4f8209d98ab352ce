package state

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/hallway/pkg/chat"
	"github.com/jwebster45206/hallway/pkg/scenario"
)

// PromptHistoryLimit is how many history lines a dialogue prompt sees.
const PromptHistoryLimit = 5

var (
	ErrUnknownLocation = errors.New("unknown location")
	ErrNPCNotHere      = errors.New("npc is not at the current location")
)

// IntRange yields integers in [0, n). *rand.Rand satisfies it.
type IntRange interface {
	IntN(n int) int
}

// GameState is the mutable state of one play session. It is owned by the
// game loop; background work refers to it only through turn tokens.
type GameState struct {
	ID             uuid.UUID           `json:"id"`
	Location       string              `json:"location"`
	SelectedNPC    string              `json:"selected_npc,omitempty"`
	ChatHistory    []chat.ChatMessage  `json:"chat_history"`
	NPCsByLocation map[string][]string `json:"npcs_by_location"`
	PlayerPosition scenario.Point      `json:"player_position"`

	// PendingTurn identifies the generation in flight, if any. A result
	// carrying any other token is stale.
	PendingTurn uuid.UUID `json:"pending_turn"`
	PendingNPC  string    `json:"pending_npc,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGameState places the player at the world's start location with nobody
// assigned anywhere yet.
func NewGameState(world *scenario.World) *GameState {
	now := time.Now()
	gs := &GameState{
		ID:             uuid.New(),
		Location:       world.StartLocation,
		ChatHistory:    make([]chat.ChatMessage, 0),
		NPCsByLocation: make(map[string][]string, len(world.Locations)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, name := range world.LocationNames() {
		gs.NPCsByLocation[name] = []string{}
	}
	return gs
}

// AssignNPCs puts every roster NPC at a random location.
func (gs *GameState) AssignNPCs(world *scenario.World, rng IntRange) {
	locations := world.LocationNames()
	for loc := range gs.NPCsByLocation {
		gs.NPCsByLocation[loc] = []string{}
	}

	names := make([]string, 0, len(world.Roster))
	for name := range world.Roster {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return world.Roster[names[i]] < world.Roster[names[j]] })

	for _, name := range names {
		loc := locations[rng.IntN(len(locations))]
		gs.NPCsByLocation[loc] = append(gs.NPCsByLocation[loc], name)
	}
	gs.touch()
}

// NPCsAt returns the NPCs at a location.
func (gs *GameState) NPCsAt(location string) []string {
	return slices.Clone(gs.NPCsByLocation[location])
}

// LocationOf reports where an NPC is.
func (gs *GameState) LocationOf(name string) (string, bool) {
	for loc, names := range gs.NPCsByLocation {
		if slices.Contains(names, name) {
			return loc, true
		}
	}
	return "", false
}

// MoveTo changes location and ends any conversation. Moving to the current
// location does nothing.
func (gs *GameState) MoveTo(location string) error {
	if _, ok := gs.NPCsByLocation[location]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLocation, location)
	}
	if location == gs.Location {
		return nil
	}
	gs.Location = location
	gs.SelectedNPC = ""
	gs.clearPending()
	gs.touch()
	return nil
}

// SelectNPC starts a conversation with an NPC at the current location.
// Switching to a different NPC clears the conversation history.
func (gs *GameState) SelectNPC(name string) error {
	if !slices.Contains(gs.NPCsByLocation[gs.Location], name) {
		return fmt.Errorf("%w: %s is not in %s", ErrNPCNotHere, name, gs.Location)
	}
	if name != gs.SelectedNPC {
		gs.ChatHistory = gs.ChatHistory[:0]
		gs.clearPending()
	}
	gs.SelectedNPC = name
	gs.touch()
	return nil
}

func (gs *GameState) AddMessage(msg chat.ChatMessage) {
	gs.ChatHistory = append(gs.ChatHistory, msg)
	gs.touch()
}

// RecentHistory returns up to the last n messages.
func (gs *GameState) RecentHistory(n int) []chat.ChatMessage {
	if n <= 0 || len(gs.ChatHistory) == 0 {
		return nil
	}
	start := max(0, len(gs.ChatHistory)-n)
	return slices.Clone(gs.ChatHistory[start:])
}

// HistoryLines renders the last n messages as "speaker: content" lines.
func (gs *GameState) HistoryLines(n int) []string {
	recent := gs.RecentHistory(n)
	lines := make([]string, len(recent))
	for i, m := range recent {
		lines[i] = m.String()
	}
	return lines
}

// BeginTurn issues a fresh token for a generation about to start for the
// selected NPC. Any earlier token becomes stale.
func (gs *GameState) BeginTurn() uuid.UUID {
	gs.PendingTurn = uuid.New()
	gs.PendingNPC = gs.SelectedNPC
	return gs.PendingTurn
}

// IsCurrentTurn reports whether a result for token and npcName still
// applies: it is the pending turn and that NPC is still selected.
func (gs *GameState) IsCurrentTurn(token uuid.UUID, npcName string) bool {
	return token != uuid.Nil &&
		token == gs.PendingTurn &&
		npcName == gs.PendingNPC &&
		npcName == gs.SelectedNPC
}

// CompleteTurn clears the pending turn if token is still current.
func (gs *GameState) CompleteTurn(token uuid.UUID) {
	if token == gs.PendingTurn {
		gs.clearPending()
	}
}

func (gs *GameState) clearPending() {
	gs.PendingTurn = uuid.Nil
	gs.PendingNPC = ""
}

func (gs *GameState) touch() {
	gs.UpdatedAt = time.Now()
}
