package host

import (
	"sort"

	"github.com/achilleasa/luxport/types"
)

// Vertex is a mesh vertex with its averaged (smooth) normal.
type Vertex struct {
	Co     types.Vec3
	Normal types.Vec3
}

// Face is a mesh polygon.
type Face struct {
	// Indices into the mesh vertex list.
	Verts []int

	Smooth bool

	// Flat face normal; computed by FlatNormal when zero.
	Normal types.Vec3

	MaterialIndex int

	// Per face-vertex uv coordinates; empty when the mesh has no uv layer.
	UVs []types.Vec2
}

// FlatNormal returns the face normal, computing it from the first three
// vertices if it is not set.
func (f *Face) FlatNormal(vertices []Vertex) types.Vec3 {
	if f.Normal != (types.Vec3{}) || len(f.Verts) < 3 {
		return f.Normal
	}

	v0 := vertices[f.Verts[0]].Co
	e1 := vertices[f.Verts[1]].Co.Sub(v0)
	e2 := vertices[f.Verts[2]].Co.Sub(v0)
	return e1.Cross(e2).Normalize()
}

// Mesh is a polygonal mesh data block.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Faces    []Face

	// True if the mesh exposes an active uv layer.
	HasUV bool
}

func (m *Mesh) DataName() string { return m.Name }
func (*Mesh) isObjectData()      {}

// MaterialSlots returns the sorted set of material indices used by the faces.
func (m *Mesh) MaterialSlots() []int {
	seen := make(map[int]bool)
	slots := make([]int, 0)
	for _, f := range m.Faces {
		if seen[f.MaterialIndex] {
			continue
		}
		seen[f.MaterialIndex] = true
		slots = append(slots, f.MaterialIndex)
	}

	sort.Ints(slots)
	return slots
}
