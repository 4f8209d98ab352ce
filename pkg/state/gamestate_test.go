package state

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/hallway/pkg/chat"
	"github.com/jwebster45206/hallway/pkg/scenario"
)

func newTestGameState(t *testing.T) *GameState {
	t.Helper()
	gs := NewGameState(scenario.DefaultWorld())
	gs.NPCsByLocation["도서관"] = []string{"유지은"}
	gs.NPCsByLocation["과학실"] = []string{"강현준", "남도윤"}
	return gs
}

func TestNewGameState(t *testing.T) {
	gs := NewGameState(scenario.DefaultWorld())

	if gs.ID == uuid.Nil {
		t.Error("Expected a session id")
	}
	if gs.Location != "복도" {
		t.Errorf("Expected start at 복도, got %s", gs.Location)
	}
	if len(gs.NPCsByLocation) != 4 {
		t.Errorf("Expected 4 locations, got %d", len(gs.NPCsByLocation))
	}
	if gs.PendingTurn != uuid.Nil {
		t.Error("No turn should be pending")
	}
}

func TestGameState_AssignNPCs(t *testing.T) {
	world := scenario.DefaultWorld()
	gs := NewGameState(world)

	gs.AssignNPCs(world, rand.New(rand.NewPCG(3, 4)))

	total := 0
	for _, names := range gs.NPCsByLocation {
		total += len(names)
	}
	if total != len(world.Roster) {
		t.Errorf("Expected every NPC placed once, got %d placements", total)
	}
	for name := range world.Roster {
		if _, ok := gs.LocationOf(name); !ok {
			t.Errorf("%s was not placed", name)
		}
	}

	again := NewGameState(world)
	again.AssignNPCs(world, rand.New(rand.NewPCG(3, 4)))
	for loc, names := range gs.NPCsByLocation {
		if len(again.NPCsByLocation[loc]) != len(names) {
			t.Errorf("Same seed should give the same layout at %s", loc)
		}
	}
}

func TestGameState_MoveTo(t *testing.T) {
	gs := newTestGameState(t)

	if err := gs.MoveTo("옥상"); !errors.Is(err, ErrUnknownLocation) {
		t.Errorf("Expected ErrUnknownLocation, got %v", err)
	}

	if err := gs.MoveTo("도서관"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := gs.SelectNPC("유지은"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	gs.BeginTurn()

	if err := gs.MoveTo("도서관"); err != nil || gs.SelectedNPC != "유지은" {
		t.Error("Moving to the current location should change nothing")
	}

	if err := gs.MoveTo("과학실"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gs.SelectedNPC != "" {
		t.Error("Moving should end the conversation")
	}
	if gs.PendingTurn != uuid.Nil {
		t.Error("Moving should abandon the pending turn")
	}
}

func TestGameState_SelectNPC(t *testing.T) {
	gs := newTestGameState(t)
	_ = gs.MoveTo("과학실")

	if err := gs.SelectNPC("유지은"); !errors.Is(err, ErrNPCNotHere) {
		t.Errorf("Expected ErrNPCNotHere, got %v", err)
	}

	if err := gs.SelectNPC("강현준"); err != nil {
		t.Fatal(err)
	}
	gs.AddMessage(chat.ChatMessage{Role: chat.ChatRoleUser, Speaker: "플레이어", Content: "안녕"})

	if err := gs.SelectNPC("강현준"); err != nil {
		t.Fatal(err)
	}
	if len(gs.ChatHistory) != 1 {
		t.Error("Reselecting the same NPC keeps the history")
	}

	if err := gs.SelectNPC("남도윤"); err != nil {
		t.Fatal(err)
	}
	if len(gs.ChatHistory) != 0 {
		t.Error("Switching NPC clears the history")
	}
}

func TestGameState_RecentHistory(t *testing.T) {
	gs := newTestGameState(t)
	for _, line := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		gs.AddMessage(chat.ChatMessage{Role: chat.ChatRoleUser, Speaker: "플레이어", Content: line})
	}

	lines := gs.HistoryLines(PromptHistoryLimit)
	if len(lines) != 5 || lines[0] != "플레이어: 3" || lines[4] != "플레이어: 7" {
		t.Errorf("Unexpected history %v", lines)
	}
	if gs.RecentHistory(0) != nil {
		t.Error("Expected nil for n = 0")
	}
	if len(gs.RecentHistory(100)) != 7 {
		t.Error("Expected the whole history")
	}
}

func TestGameState_TurnTokens(t *testing.T) {
	gs := newTestGameState(t)
	_ = gs.MoveTo("과학실")
	_ = gs.SelectNPC("강현준")

	first := gs.BeginTurn()
	if !gs.IsCurrentTurn(first, "강현준") {
		t.Fatal("Fresh token should be current")
	}

	second := gs.BeginTurn()
	if gs.IsCurrentTurn(first, "강현준") {
		t.Error("Superseded token must be stale")
	}

	_ = gs.SelectNPC("남도윤")
	if gs.IsCurrentTurn(second, "강현준") {
		t.Error("Token for a deselected NPC must be stale")
	}

	third := gs.BeginTurn()
	gs.CompleteTurn(second)
	if gs.PendingTurn != third {
		t.Error("Completing a stale token must not clear the pending turn")
	}
	gs.CompleteTurn(third)
	if gs.PendingTurn != uuid.Nil || gs.IsCurrentTurn(uuid.Nil, "남도윤") {
		t.Error("Completed turn should clear pending state")
	}
}

func TestGameState_JSON(t *testing.T) {
	gs := newTestGameState(t)
	gs.PlayerPosition = scenario.Point{X: 120, Y: 40}

	data, err := json.Marshal(gs)
	if err != nil {
		t.Fatal(err)
	}
	var loaded GameState
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatal(err)
	}
	if loaded.ID != gs.ID || loaded.PlayerPosition != gs.PlayerPosition || len(loaded.NPCsByLocation["과학실"]) != 2 {
		t.Errorf("Unexpected decoded state %+v", loaded)
	}
}
