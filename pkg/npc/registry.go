package npc

import (
	"fmt"
	"sort"
	"strconv"
)

// ID is the small positive number that namespaces an NPC's persisted files.
type ID int

// DefaultID is returned for names the registry does not know.
const DefaultID ID = 1

func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// Registry is the bidirectional name/ID table for a session. It is built
// once and never modified.
type Registry struct {
	byName    map[string]ID
	byID      map[ID]string
	defaultID ID
}

// NewRegistry builds a registry from a name to ID table. IDs must be positive
// and unique.
func NewRegistry(roster map[string]ID) (*Registry, error) {
	r := &Registry{
		byName:    make(map[string]ID, len(roster)),
		byID:      make(map[ID]string, len(roster)),
		defaultID: DefaultID,
	}
	for name, id := range roster {
		if name == "" {
			return nil, fmt.Errorf("npc registry: empty name for id %d", id)
		}
		if id <= 0 {
			return nil, fmt.Errorf("npc registry: id for %q must be positive, got %d", name, id)
		}
		if other, dup := r.byID[id]; dup {
			return nil, fmt.Errorf("npc registry: id %d assigned to both %q and %q", id, other, name)
		}
		r.byName[name] = id
		r.byID[id] = name
	}
	return r, nil
}

// ID returns the identifier for name, or the default identifier when the
// name is unknown.
func (r *Registry) ID(name string) ID {
	if id, ok := r.byName[name]; ok {
		return id
	}
	return r.defaultID
}

// Lookup is ID without the fallback.
func (r *Registry) Lookup(name string) (ID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

func (r *Registry) Name(id ID) (string, bool) {
	name, ok := r.byID[id]
	return name, ok
}

// IDs returns every registered identifier in ascending order.
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Names returns every registered name ordered by identifier.
func (r *Registry) Names() []string {
	ids := r.IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = r.byID[id]
	}
	return names
}

func (r *Registry) Len() int {
	return len(r.byID)
}
