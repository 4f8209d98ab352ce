package emotion

import (
	"fmt"
	"sort"
)

// Change is the before/after pair for one emotion in a turn.
type Change struct {
	Old float64 `json:"old"`
	New float64 `json:"new"`
}

func (c Change) Delta() float64 {
	return c.New - c.Old
}

// ChangeSet holds the emotions a turn moved past the significance threshold.
// It is built per turn and never persisted.
type ChangeSet map[string]Change

// Names returns the changed emotions in sorted order.
func (cs ChangeSet) Names() []string {
	names := make([]string, 0, len(cs))
	for name := range cs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Format renders one display line per change, e.g. "신뢰: 50.0 → 57.0 (+7.0)".
func (cs ChangeSet) Format() []string {
	lines := make([]string, 0, len(cs))
	for _, name := range cs.Names() {
		c := cs[name]
		lines = append(lines, fmt.Sprintf("%s: %.1f → %.1f (%+.1f)", DisplayName(name), c.Old, c.New, c.Delta()))
	}
	return lines
}
