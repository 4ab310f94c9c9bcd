// Package host defines the read-only view of a host scene that the exporters
// consume.
package host

import "github.com/achilleasa/luxport/types"

// Scene is implemented by host scene providers.
type Scene interface {
	// The scene name; used to derive output names.
	Name() string

	// The exportable objects in traversal order.
	Objects() []*Object

	// Instances generated by duplicator objects.
	Duplis() []Dupli

	// The active camera or nil if the scene has none.
	Camera() *Camera

	// All materials referenced by the scene objects.
	Materials() []*Material
}

// ObjectData is implemented by the data blocks an object can carry. The set
// of implementations is closed: *Mesh and *Lamp.
type ObjectData interface {
	DataName() string
	isObjectData()
}

// Object is a scene object with a world transform and a data block.
type Object struct {
	Name   string
	Matrix types.Mat4
	Data   ObjectData

	// Material slots; a face selects its material by index.
	Materials []*Material

	// Changes whenever any exported property of the object changes.
	Revision uint64

	Hidden bool
}

// Mesh returns the object data as a mesh or nil.
func (o *Object) Mesh() *Mesh {
	m, _ := o.Data.(*Mesh)
	return m
}

// Lamp returns the object data as a lamp or nil.
func (o *Object) Lamp() *Lamp {
	l, _ := o.Data.(*Lamp)
	return l
}

// Dupli is an instance of Object generated by Duplicator.
type Dupli struct {
	Object     *Object
	Duplicator *Object
	Matrix     types.Mat4
}

// Camera describes the scene camera.
type Camera struct {
	Name   string
	Matrix types.Mat4

	// Horizontal field of view in radians.
	FOV float32

	ClipStart float32
	ClipEnd   float32

	// Projection type; only "perspective" is currently exported.
	Type string
}

// Document is an in-memory Scene.
type Document struct {
	SceneName    string
	ObjectList   []*Object
	DupliList    []Dupli
	ActiveCamera *Camera
	MaterialList []*Material
}

func (d *Document) Name() string           { return d.SceneName }
func (d *Document) Objects() []*Object     { return d.ObjectList }
func (d *Document) Duplis() []Dupli        { return d.DupliList }
func (d *Document) Camera() *Camera        { return d.ActiveCamera }
func (d *Document) Materials() []*Material { return d.MaterialList }

// Object looks up an object by name.
func (d *Document) Object(name string) *Object {
	for _, o := range d.ObjectList {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Material looks up a material by name.
func (d *Document) Material(name string) *Material {
	for _, m := range d.MaterialList {
		if m.Name == name {
			return m
		}
	}
	return nil
}
