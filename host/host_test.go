package host

import (
	"testing"

	"github.com/achilleasa/luxport/types"
)

func TestFlatNormal(t *testing.T) {
	vertices := []Vertex{
		{Co: types.XYZ(0, 0, 0)},
		{Co: types.XYZ(1, 0, 0)},
		{Co: types.XYZ(1, 1, 0)},
	}

	f := Face{Verts: []int{0, 1, 2}}
	if got := f.FlatNormal(vertices); got != types.XYZ(0, 0, 1) {
		t.Fatalf("expected computed normal (0, 0, 1); got %v", got)
	}

	f.Normal = types.XYZ(0, 1, 0)
	if got := f.FlatNormal(vertices); got != f.Normal {
		t.Fatalf("expected explicit normal to be returned; got %v", got)
	}
}

func TestMaterialSlots(t *testing.T) {
	m := &Mesh{Faces: []Face{{MaterialIndex: 2}, {MaterialIndex: 0}, {MaterialIndex: 2}}}
	slots := m.MaterialSlots()
	if len(slots) != 2 || slots[0] != 0 || slots[1] != 2 {
		t.Fatalf("expected slots [0 2]; got %v", slots)
	}
}

func TestParseNodeKind(t *testing.T) {
	specs := []struct {
		in  string
		exp NodeKind
	}{
		{"BSDF_DIFFUSE", NodeBsdfDiffuse},
		{"MIX_SHADER", NodeMixShader},
		{"TEX_IMAGE", NodeImageTexture},
		{"BSDF_HAIR", NodeUnknown},
	}

	for index, s := range specs {
		if got := ParseNodeKind(s.in); got != s.exp {
			t.Errorf("[spec %d] expected %s; got %s", index, s.exp, got)
		}
	}
}

func TestObjectDataAccessors(t *testing.T) {
	o := &Object{Data: &Lamp{Name: "lamp", Params: &SpotParams{}}}
	if o.Mesh() != nil || o.Lamp() == nil {
		t.Fatal("expected object to carry a lamp")
	}
	if got := o.Lamp().Params.LightType(); got != "SPOT" {
		t.Fatalf("expected light type SPOT; got %s", got)
	}

	if !(SunDisk | SunSky).Has(SunSky) || SunDisk.Has(SunDistant) {
		t.Fatal("unexpected sun component bit set behavior")
	}
}
