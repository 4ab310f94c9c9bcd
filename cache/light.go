package cache

import (
	"sort"

	"golang.org/x/exp/maps"
)

// Light type tags.
const (
	// A renderer light.
	TypeLight = "LIGHT"

	// Emissive geometry standing in for an area light.
	TypeArea = "AREA"
)

// ExportedLight identifies one exported light.
type ExportedLight struct {
	Name string
	Type string
}

// LightSet is a set of exported lights.
type LightSet map[ExportedLight]struct{}

// NewLightSet creates a set containing lights.
func NewLightSet(lights ...ExportedLight) LightSet {
	set := make(LightSet, len(lights))
	for _, l := range lights {
		set.Add(l)
	}
	return set
}

// Add inserts l into the set.
func (s LightSet) Add(l ExportedLight) {
	s[l] = struct{}{}
}

// Has returns true if l is a member of the set.
func (s LightSet) Has(l ExportedLight) bool {
	_, found := s[l]
	return found
}

// Len returns the set size.
func (s LightSet) Len() int {
	return len(s)
}

// Sorted returns the set members ordered by name and type.
func (s LightSet) Sorted() []ExportedLight {
	lights := maps.Keys(s)
	sort.Slice(lights, func(i, j int) bool {
		if lights[i].Name != lights[j].Name {
			return lights[i].Name < lights[j].Name
		}
		return lights[i].Type < lights[j].Type
	})
	return lights
}

// Removed returns the lights of prev that are missing from next.
func Removed(prev, next LightSet) []ExportedLight {
	removed := make([]ExportedLight, 0)
	for _, l := range prev.Sorted() {
		if !next.Has(l) {
			removed = append(removed, l)
		}
	}
	return removed
}

// Lightgroups allocates numeric ids for lightgroup names. Id 0 is the
// default group.
type Lightgroups struct {
	ids   map[string]int
	names []string
}

// NewLightgroups creates a lightgroup table containing only the default group.
func NewLightgroups() *Lightgroups {
	return &Lightgroups{
		ids:   map[string]int{"": 0},
		names: []string{"default"},
	}
}

// ID returns the id for name, allocating a new one on first use.
func (g *Lightgroups) ID(name string) int {
	if id, found := g.ids[name]; found {
		return id
	}
	id := len(g.names)
	g.ids[name] = id
	g.names = append(g.names, name)
	return id
}

// Names returns the group names indexed by id.
func (g *Lightgroups) Names() []string {
	return append([]string(nil), g.names...)
}
