package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

const (
	// MinAreaSize is the smallest width or height of a walkable area.
	MinAreaSize = 10
	// PlayerMargin keeps the player marker inside the map edges.
	PlayerMargin = 15
	// MoveStep is the distance of one movement command.
	MoveStep = 10

	mapInset        = 10
	npcEdgeMargin   = 50
	npcMinSpacing   = 50
	npcMaxPerMap    = 5
	npcPlaceRetries = 20
)

var ErrAreaTooSmall = errors.New("walkable area is too small")

// Point is a pixel position, serialized as [x, y].
type Point struct {
	X, Y int
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var xy []int
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("point must be [x, y]: %w", err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("point must be [x, y], got %d values", len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// Rect is an axis-aligned area, serialized as [x1, y1, x2, y2].
type Rect struct {
	X1, Y1, X2, Y2 int
}

func (r Rect) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{r.X1, r.Y1, r.X2, r.Y2})
}

func (r *Rect) UnmarshalJSON(data []byte) error {
	var c []int
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("area must be [x1, y1, x2, y2]: %w", err)
	}
	if len(c) != 4 {
		return fmt.Errorf("area must be [x1, y1, x2, y2], got %d values", len(c))
	}
	*r = Rect{X1: c[0], Y1: c[1], X2: c[2], Y2: c[3]}
	return nil
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return r.X1 <= p.X && p.X <= r.X2 && r.Y1 <= p.Y && p.Y <= r.Y2
}

// MapConfig describes where the player may walk on a location's map.
type MapConfig struct {
	MapName       string `json:"map_name"`
	WalkableAreas []Rect `json:"walkable_areas"`
	StartPosition Point  `json:"start_position"`
}

// DefaultMapConfig makes the whole map walkable apart from a thin border.
func DefaultMapConfig(name string, width, height int) *MapConfig {
	return &MapConfig{
		MapName:       name,
		WalkableAreas: []Rect{{X1: mapInset, Y1: mapInset, X2: width - mapInset, Y2: height - mapInset}},
		StartPosition: Point{X: 100, Y: 100},
	}
}

// AddArea adds a walkable rectangle from any two opposite corners.
func (m *MapConfig) AddArea(x1, y1, x2, y2 int) (Rect, error) {
	r := Rect{X1: min(x1, x2), Y1: min(y1, y2), X2: max(x1, x2), Y2: max(y1, y2)}
	if r.X2-r.X1 < MinAreaSize || r.Y2-r.Y1 < MinAreaSize {
		return Rect{}, fmt.Errorf("%w: %dx%d, minimum is %d", ErrAreaTooSmall, r.X2-r.X1, r.Y2-r.Y1, MinAreaSize)
	}
	m.WalkableAreas = append(m.WalkableAreas, r)
	return r, nil
}

func (m *MapConfig) ClearAreas() {
	m.WalkableAreas = nil
}

func (m *MapConfig) SetStart(x, y int) {
	m.StartPosition = Point{X: x, Y: y}
}

// IsWalkable reports whether p is inside any walkable area. A map with no
// areas is walkable everywhere.
func (m *MapConfig) IsWalkable(p Point) bool {
	if len(m.WalkableAreas) == 0 {
		return true
	}
	for _, r := range m.WalkableAreas {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

// Move steps from by (dx, dy). A destination outside the walkable areas
// leaves the player where they were. The result is kept PlayerMargin pixels
// inside a width x height map.
func (m *MapConfig) Move(from Point, dx, dy, width, height int) Point {
	to := Point{X: from.X + dx, Y: from.Y + dy}
	if !m.IsWalkable(to) {
		to = from
	}
	to.X = clampInt(to.X, PlayerMargin, width-PlayerMargin)
	to.Y = clampInt(to.Y, PlayerMargin, height-PlayerMargin)
	return to
}

// IntRange yields integers in [0, n). *rand.Rand satisfies it.
type IntRange interface {
	IntN(n int) int
}

// PlaceNPCs scatters up to five NPCs over walkable spots at least 50 px
// apart. An NPC that cannot be placed after 20 tries lands on a random spot.
func (m *MapConfig) PlaceNPCs(names []string, width, height int, rng IntRange) map[string]Point {
	if len(names) > npcMaxPerMap {
		names = names[:npcMaxPerMap]
	}
	placed := make(map[string]Point, len(names))
	randomSpot := func() Point {
		return Point{
			X: npcEdgeMargin + rng.IntN(max(1, width-2*npcEdgeMargin+1)),
			Y: npcEdgeMargin + rng.IntN(max(1, height-2*npcEdgeMargin+1)),
		}
	}
	for _, name := range names {
		found := false
		for attempt := 0; attempt < npcPlaceRetries && !found; attempt++ {
			p := randomSpot()
			if !m.IsWalkable(p) || tooClose(p, placed) {
				continue
			}
			placed[name] = p
			found = true
		}
		if !found {
			placed[name] = randomSpot()
		}
	}
	return placed
}

func tooClose(p Point, others map[string]Point) bool {
	for _, o := range others {
		if math.Hypot(float64(p.X-o.X), float64(p.Y-o.Y)) < npcMinSpacing {
			return true
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(hi, v))
}
