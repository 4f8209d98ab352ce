package scenario

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"
)

func TestMapConfig_JSONArrays(t *testing.T) {
	doc := `{"map_name": "cafeteria", "walkable_areas": [[10, 20, 300, 400]], "start_position": [120, 80]}`

	var cfg MapConfig
	if err := json.Unmarshal([]byte(doc), &cfg); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if cfg.MapName != "cafeteria" {
		t.Errorf("Expected map name cafeteria, got %q", cfg.MapName)
	}
	if len(cfg.WalkableAreas) != 1 || cfg.WalkableAreas[0] != (Rect{10, 20, 300, 400}) {
		t.Errorf("Unexpected areas %v", cfg.WalkableAreas)
	}
	if cfg.StartPosition != (Point{120, 80}) {
		t.Errorf("Unexpected start %v", cfg.StartPosition)
	}

	out, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	want := `{"map_name":"cafeteria","walkable_areas":[[10,20,300,400]],"start_position":[120,80]}`
	if string(out) != want {
		t.Errorf("Expected %s, got %s", want, out)
	}
}

func TestMapConfig_RejectsMalformedArea(t *testing.T) {
	var cfg MapConfig
	err := json.Unmarshal([]byte(`{"walkable_areas": [{"x": 1}]}`), &cfg)
	if err == nil {
		t.Fatal("Expected error for object area")
	}
}

func TestMapConfig_AddArea(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		want           Rect
		wantErr        bool
	}{
		{name: "ordered corners", x1: 10, y1: 10, x2: 110, y2: 60, want: Rect{10, 10, 110, 60}},
		{name: "reversed corners are normalized", x1: 110, y1: 60, x2: 10, y2: 10, want: Rect{10, 10, 110, 60}},
		{name: "exactly minimum", x1: 0, y1: 0, x2: 10, y2: 10, want: Rect{0, 0, 10, 10}},
		{name: "too narrow", x1: 0, y1: 0, x2: 9, y2: 50, wantErr: true},
		{name: "too short", x1: 0, y1: 50, x2: 50, y2: 45, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &MapConfig{MapName: "test"}
			got, err := cfg.AddArea(tt.x1, tt.y1, tt.x2, tt.y2)
			if tt.wantErr {
				if !errors.Is(err, ErrAreaTooSmall) {
					t.Fatalf("Expected ErrAreaTooSmall, got %v", err)
				}
				if len(cfg.WalkableAreas) != 0 {
					t.Error("Rejected area should not be stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want || cfg.WalkableAreas[0] != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMapConfig_IsWalkable(t *testing.T) {
	cfg := &MapConfig{}
	if !cfg.IsWalkable(Point{-5, 9999}) {
		t.Error("A map without areas should be walkable everywhere")
	}

	cfg.WalkableAreas = []Rect{{0, 0, 100, 100}, {200, 200, 300, 300}}
	cases := map[Point]bool{
		{0, 0}:     true,
		{100, 100}: true,
		{250, 300}: true,
		{150, 150}: false,
		{101, 50}:  false,
	}
	for p, want := range cases {
		if got := cfg.IsWalkable(p); got != want {
			t.Errorf("IsWalkable(%v): expected %v, got %v", p, want, got)
		}
	}

	cfg.ClearAreas()
	if !cfg.IsWalkable(Point{150, 150}) {
		t.Error("Cleared map should be walkable everywhere")
	}
}

func TestDefaultMapConfig(t *testing.T) {
	cfg := DefaultMapConfig("hall", 800, 600)
	if cfg.WalkableAreas[0] != (Rect{10, 10, 790, 590}) {
		t.Errorf("Unexpected default area %v", cfg.WalkableAreas[0])
	}
	if cfg.StartPosition != (Point{100, 100}) {
		t.Errorf("Unexpected default start %v", cfg.StartPosition)
	}
}

func TestMapConfig_Move(t *testing.T) {
	cfg := &MapConfig{WalkableAreas: []Rect{{0, 0, 200, 200}}}

	if got := cfg.Move(Point{100, 100}, MoveStep, 0, 800, 600); got != (Point{110, 100}) {
		t.Errorf("Expected step right, got %v", got)
	}
	if got := cfg.Move(Point{195, 100}, MoveStep, 0, 800, 600); got != (Point{195, 100}) {
		t.Errorf("Blocked move should stay put, got %v", got)
	}
	if got := cfg.Move(Point{20, 20}, 0, -MoveStep, 800, 600); got != (Point{20, PlayerMargin}) {
		t.Errorf("Expected clamp to margin, got %v", got)
	}
}

func TestMapConfig_PlaceNPCs(t *testing.T) {
	cfg := DefaultMapConfig("hall", 800, 600)
	rng := rand.New(rand.NewPCG(1, 2))
	names := []string{"a", "b", "c", "d", "e", "f"}

	placed := cfg.PlaceNPCs(names, 800, 600, rng)

	if len(placed) != 5 {
		t.Fatalf("Expected 5 placements, got %d", len(placed))
	}
	if _, ok := placed["f"]; ok {
		t.Error("At most five NPCs are placed on one map")
	}
	for name, p := range placed {
		if p.X < 50 || p.X > 750 || p.Y < 50 || p.Y > 550 {
			t.Errorf("%s placed outside the edge margin: %v", name, p)
		}
	}
}

func TestMapConfig_RejectsWrongArity(t *testing.T) {
	docs := []string{
		`{"walkable_areas": [[1, 2]]}`,
		`{"start_position": [1, 2, 3]}`,
	}
	for _, doc := range docs {
		var cfg MapConfig
		if err := json.Unmarshal([]byte(doc), &cfg); err == nil {
			t.Errorf("Expected error for %s", doc)
		}
	}
}
