package cache

import (
	"reflect"
	"testing"

	"github.com/achilleasa/luxport/host"
)

func TestNameCacheAdd(t *testing.T) {
	c := NewNameCache()
	obj := &host.Object{Name: "cube", Data: &host.Mesh{Name: "cube_mesh"}, Revision: 7}
	exported := NewExportedObject(obj, ExportedObjectData{ObjectName: "cube", MeshName: "cube_mesh"})

	if _, found := c.Object(obj); found {
		t.Fatal("expected lookup on empty cache to miss")
	}

	c.Add(obj, exported, nil)

	if !c.HasObject(obj) || !c.HasData(obj.Data) {
		t.Fatal("expected object and data to be cached")
	}

	byObj, _ := c.Object(obj)
	byData, _ := c.Data(obj.Data)
	if byObj != exported || byData != exported {
		t.Fatal("expected object and data lookups to return the same record")
	}
	if byObj.Revision != 7 {
		t.Fatalf("expected revision 7; got %d", byObj.Revision)
	}

	replacement := NewExportedObject(obj)
	c.Add(obj, replacement, nil)
	if byObj, _ = c.Object(obj); byObj != replacement {
		t.Fatal("expected re-add to overwrite the object entry")
	}
	if c.Len() != 1 {
		t.Fatalf("expected cache len 1; got %d", c.Len())
	}
}

func TestNameCacheDupli(t *testing.T) {
	c := NewNameCache()
	src := &host.Object{Name: "leaf", Data: &host.Mesh{Name: "leaf_mesh"}}
	duplicator := &host.Object{Name: "tree"}
	key := DupliKey{Object: src, Duplicator: duplicator}

	first := NewExportedObject(src)
	second := NewExportedObject(src)
	c.Add(src, first, &key)
	c.Add(src, second, &key)

	instances, found := c.Dupli(key)
	if !found || !c.HasDupli(key) {
		t.Fatal("expected dupli key to be cached")
	}
	if len(instances) != 2 || instances[0] != first || instances[1] != second {
		t.Fatalf("expected two instances in insertion order; got %v", instances)
	}

	if _, found := c.Dupli(DupliKey{Object: src}); found {
		t.Fatal("expected lookup with a different duplicator to miss")
	}
}

func TestNameCacheReload(t *testing.T) {
	c := NewNameCache()
	first := &host.Object{Name: "cube", Data: &host.Mesh{Name: "cube_mesh"}, Revision: 3}
	c.Add(first, NewExportedObject(first), &DupliKey{Object: first, Duplicator: &host.Object{Name: "array"}})

	// A reloaded scene carries new objects with the same names
	reloaded := &host.Object{Name: "cube", Data: &host.Mesh{Name: "cube_mesh"}, Revision: 3}
	if !c.HasObject(reloaded) || !c.HasData(reloaded.Data) {
		t.Fatal("expected lookups by a reloaded object to hit")
	}
	if !c.HasDupli(DupliKey{Object: reloaded, Duplicator: &host.Object{Name: "array"}}) {
		t.Fatal("expected dupli lookup by name to hit")
	}
	if c.HasData(&host.Lamp{Name: "cube_mesh"}) {
		t.Fatal("expected a lamp sharing a mesh name to miss")
	}

	c.ResetDuplis()
	if c.HasDupli(DupliKey{Object: reloaded, Duplicator: &host.Object{Name: "array"}}) {
		t.Fatal("expected dupli entries to be dropped")
	}

	other := &host.Object{Name: "sphere", Data: &host.Mesh{Name: "sphere_mesh"}}
	c.Add(other, NewExportedObject(other), nil)

	dropped := c.Retain([]*host.Object{reloaded})
	if len(dropped) != 1 || dropped[0].Source != other {
		t.Fatalf("expected the sphere to be dropped; got %v", dropped)
	}
	if c.HasObject(other) || c.HasData(other.Data) {
		t.Fatal("expected retained cache to forget the sphere")
	}
	if !c.HasObject(reloaded) || c.Len() != 1 {
		t.Fatalf("expected the cube to survive; len %d", c.Len())
	}

	// Instanced objects need not be part of the object list
	c.Add(other, NewExportedObject(other), &DupliKey{Object: other})
	if dropped = c.Retain(nil); len(dropped) != 1 || !c.HasObject(other) || !c.HasData(other.Data) {
		t.Fatalf("expected only the cube to be dropped; got %v", dropped)
	}
}

func TestRemovedLights(t *testing.T) {
	a := ExportedLight{"A", TypeLight}
	b := ExportedLight{"B", TypeArea}
	c := ExportedLight{"C", TypeLight}

	removed := Removed(NewLightSet(a, b), NewLightSet(b, c))
	if exp := []ExportedLight{a}; !reflect.DeepEqual(removed, exp) {
		t.Fatalf("expected %v; got %v", exp, removed)
	}

	// Same name with a different type is a different light
	removed = Removed(NewLightSet(ExportedLight{"B", TypeLight}), NewLightSet(b))
	if len(removed) != 1 {
		t.Fatalf("expected type change to be treated as removal; got %v", removed)
	}

	if removed = Removed(nil, NewLightSet(a)); len(removed) != 0 {
		t.Fatalf("expected nothing removed from an empty pass; got %v", removed)
	}
}

func TestLightSetSorted(t *testing.T) {
	set := NewLightSet(ExportedLight{"b", TypeLight}, ExportedLight{"a", TypeLight}, ExportedLight{"a", TypeArea})
	exp := []ExportedLight{{"a", TypeArea}, {"a", TypeLight}, {"b", TypeLight}}
	if got := set.Sorted(); !reflect.DeepEqual(got, exp) {
		t.Fatalf("expected %v; got %v", exp, got)
	}
}

func TestLightgroups(t *testing.T) {
	g := NewLightgroups()
	if id := g.ID(""); id != 0 {
		t.Fatalf("expected default group id 0; got %d", id)
	}
	if id := g.ID("key"); id != 1 {
		t.Fatalf("expected first named group id 1; got %d", id)
	}
	if id := g.ID("fill"); id != 2 {
		t.Fatalf("expected second named group id 2; got %d", id)
	}
	if id := g.ID("key"); id != 1 {
		t.Fatalf("expected existing group to keep id 1; got %d", id)
	}
	if names := g.Names(); !reflect.DeepEqual(names, []string{"default", "key", "fill"}) {
		t.Fatalf("unexpected group names %v", names)
	}
}
