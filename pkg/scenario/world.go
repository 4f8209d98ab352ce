package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/hallway/pkg/npc"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMapWidth  = 800
	DefaultMapHeight = 600
)

// World is the static layout of a play session: where the player can go,
// who can be met there and what is happening.
type World struct {
	Title         string            `yaml:"title"`
	Event         string            `yaml:"event"`
	PlayerName    string            `yaml:"player_name"`
	StartLocation string            `yaml:"start_location"`
	Locations     []Location        `yaml:"locations"`
	Roster        map[string]npc.ID `yaml:"roster"`
}

// DefaultWorld is the school used when no world file is configured.
func DefaultWorld() *World {
	return &World{
		Title:         "Hallway",
		Event:         "좀비 아포칼립스 상황에서 생존 중",
		PlayerName:    "플레이어",
		StartLocation: "복도",
		Locations: []Location{
			{Name: "복도", Description: "교실들을 잇는 긴 복도", Image: "images/corridor.png", Music: "music/music2.mp3", Map: "corridor"},
			{Name: "운동장", Description: "텅 빈 운동장", Image: "images/playground.png", Music: "music/music1.mp3", Map: "playground"},
			{Name: "과학실", Description: "실험 도구가 흩어진 과학실", Image: "images/science_room.png", Music: "music/music2.mp3", Map: "science_room"},
			{Name: "도서관", Description: "책장으로 바리케이드를 친 도서관", Image: "images/library.png", Music: "music/music1.mp3", Map: "library"},
		},
		Roster: map[string]npc.ID{
			"강현준": 1,
			"유지은": 2,
			"임지수": 3,
			"남도윤": 4,
			"박하린": 5,
		},
	}
}

// ParseWorld decodes a YAML world document and validates it.
func ParseWorld(data []byte) (*World, error) {
	var w World
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse world file: %w", err)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// Validate checks location names and the roster. An empty start location
// becomes the first location.
func (w *World) Validate() error {
	if len(w.Locations) == 0 {
		return errors.New("world has no locations")
	}
	seen := make(map[string]bool, len(w.Locations))
	for i, loc := range w.Locations {
		if strings.TrimSpace(loc.Name) == "" {
			return fmt.Errorf("location %d has no name", i)
		}
		if seen[loc.Name] {
			return fmt.Errorf("duplicate location %q", loc.Name)
		}
		seen[loc.Name] = true
	}
	if w.StartLocation == "" {
		w.StartLocation = w.Locations[0].Name
	}
	if !seen[w.StartLocation] {
		return fmt.Errorf("start location %q is not a location", w.StartLocation)
	}
	if len(w.Roster) == 0 {
		return errors.New("world roster is empty")
	}
	if _, err := npc.NewRegistry(w.Roster); err != nil {
		return err
	}
	return nil
}

// Registry builds the NPC name/ID table for the roster.
func (w *World) Registry() (*npc.Registry, error) {
	return npc.NewRegistry(w.Roster)
}

func (w *World) Location(name string) (Location, bool) {
	for _, loc := range w.Locations {
		if loc.Name == name {
			return loc, true
		}
	}
	return Location{}, false
}

// LocationNames returns location names in declaration order.
func (w *World) LocationNames() []string {
	names := make([]string, len(w.Locations))
	for i, loc := range w.Locations {
		names[i] = loc.Name
	}
	return names
}
