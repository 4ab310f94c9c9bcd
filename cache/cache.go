// Package cache tracks what an export session has already handed to the
// renderer so that later passes can skip unchanged objects and delete stale
// lights.
package cache

import "github.com/achilleasa/luxport/host"

// ExportedObjectData identifies one renderer side (mesh, material) pair
// produced from one material slot of a host object.
type ExportedObjectData struct {
	ObjectName    string
	MeshName      string
	MaterialName  string
	MaterialIndex int

	// Light type for objects synthesized by light exporters; empty for meshes.
	LightType string
}

// ExportedObject is the result of exporting one host object.
type ExportedObject struct {
	Source   *host.Object
	Data     []ExportedObjectData
	Revision uint64
}

// NewExportedObject creates an export record for obj.
func NewExportedObject(obj *host.Object, data ...ExportedObjectData) *ExportedObject {
	return &ExportedObject{
		Source:   obj,
		Data:     data,
		Revision: obj.Revision,
	}
}

// DupliKey identifies an instance of Object generated by Duplicator.
type DupliKey struct {
	Object     *host.Object
	Duplicator *host.Object
}

// Host readers hand out new pointers whenever a scene is reloaded, so
// entries are keyed by name.
type dataKey struct {
	lamp bool
	name string
}

type dupliKey struct {
	object     string
	duplicator string
}

func keyOfData(data host.ObjectData) dataKey {
	_, isLamp := data.(*host.Lamp)
	return dataKey{lamp: isLamp, name: data.DataName()}
}

func keyOfDupli(key DupliKey) dupliKey {
	var k dupliKey
	if key.Object != nil {
		k.object = key.Object.Name
	}
	if key.Duplicator != nil {
		k.duplicator = key.Duplicator.Name
	}
	return k
}

// NameCache maps host objects, their data blocks and dupli keys to export
// records. A cache lives for the duration of one export session.
type NameCache struct {
	objects map[string]*ExportedObject
	data    map[dataKey]*ExportedObject
	duplis  map[dupliKey][]*ExportedObject
}

// NewNameCache creates an empty cache.
func NewNameCache() *NameCache {
	return &NameCache{
		objects: make(map[string]*ExportedObject),
		data:    make(map[dataKey]*ExportedObject),
		duplis:  make(map[dupliKey][]*ExportedObject),
	}
}

// Add registers exported under obj and obj.Data, replacing any previous
// entries. If dupli is not nil, exported is also appended to the list kept
// for that key.
func (c *NameCache) Add(obj *host.Object, exported *ExportedObject, dupli *DupliKey) {
	c.objects[obj.Name] = exported
	if obj.Data != nil {
		c.data[keyOfData(obj.Data)] = exported
	}
	if dupli != nil {
		key := keyOfDupli(*dupli)
		c.duplis[key] = append(c.duplis[key], exported)
	}
}

// HasObject returns true if obj has been exported.
func (c *NameCache) HasObject(obj *host.Object) bool {
	_, found := c.objects[obj.Name]
	return found
}

// HasData returns true if data has been exported.
func (c *NameCache) HasData(data host.ObjectData) bool {
	_, found := c.data[keyOfData(data)]
	return found
}

// HasDupli returns true if any instance was registered under key.
func (c *NameCache) HasDupli(key DupliKey) bool {
	_, found := c.duplis[keyOfDupli(key)]
	return found
}

// Object returns the export record for obj.
func (c *NameCache) Object(obj *host.Object) (*ExportedObject, bool) {
	exported, found := c.objects[obj.Name]
	return exported, found
}

// Data returns the export record for a data block.
func (c *NameCache) Data(data host.ObjectData) (*ExportedObject, bool) {
	exported, found := c.data[keyOfData(data)]
	return exported, found
}

// Dupli returns the instances registered under key in insertion order.
func (c *NameCache) Dupli(key DupliKey) ([]*ExportedObject, bool) {
	exported, found := c.duplis[keyOfDupli(key)]
	return exported, found
}

// ResetDuplis drops all instance records. Instances are re-exported on every
// pass.
func (c *NameCache) ResetDuplis() {
	c.duplis = make(map[dupliKey][]*ExportedObject)
}

// Retain drops the entries of objects (and their data blocks) that are not
// part of objs and returns the dropped object records. Objects with
// registered instances are kept.
func (c *NameCache) Retain(objs []*host.Object) []*ExportedObject {
	keep := make(map[string]struct{}, len(objs))
	keepData := make(map[dataKey]struct{}, len(objs))
	for _, obj := range objs {
		keep[obj.Name] = struct{}{}
		if obj.Data != nil {
			keepData[keyOfData(obj.Data)] = struct{}{}
		}
	}
	for key, instances := range c.duplis {
		keep[key.object] = struct{}{}
		if src := instances[0].Source; src != nil && src.Data != nil {
			keepData[keyOfData(src.Data)] = struct{}{}
		}
	}

	var dropped []*ExportedObject
	for name, exported := range c.objects {
		if _, found := keep[name]; !found {
			delete(c.objects, name)
			dropped = append(dropped, exported)
		}
	}
	for key := range c.data {
		if _, found := keepData[key]; !found {
			delete(c.data, key)
		}
	}
	return dropped
}

// Len returns the number of cached objects.
func (c *NameCache) Len() int {
	return len(c.objects)
}
