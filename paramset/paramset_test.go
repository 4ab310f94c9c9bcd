package paramset

import (
	"bytes"
	"testing"

	"github.com/achilleasa/luxport/types"
)

func TestParamFormatting(t *testing.T) {
	type spec struct {
		ps  *ParameterSet
		exp string
	}

	specs := []spec{
		{New().AddFloat("fov", 45), `"float fov" [45.000000]`},
		{New().AddFloats("uv", []float32{0, 0.5}), `"float uv" [0.000000 0.500000]`},
		{New().AddPoint("P", types.XYZ(1, 2, 3)), `"point P" [1.000000 2.000000 3.000000]`},
		{New().AddNormal("N", types.XYZ(0, 0, 1)), `"normal N" [0.000000 0.000000 1.000000]`},
		{New().AddColor("Kd", types.XYZ(0.5, 0.5, 0.5)), `"color Kd" [0.500000 0.500000 0.500000]`},
		{New().AddInteger("xresolution", 640), `"integer xresolution" [640]`},
		{New().AddIntegers("indices", []int{0, 1, 2}), `"integer indices" [0 1 2]`},
		{New().AddString("filename", "out.png"), `"string filename" ["out.png"]`},
		{New().AddBool("write_png", true), `"bool write_png" [true]`},
		{New().AddBool("noiseaware", false), `"bool noiseaware" [false]`},
		{New().AddTexture("Kd", "wood"), `"texture Kd" ["wood"]`},
		{New().AddFloat("bogus", 1), `# unclassified parameter "bogus"`},
		{New().AddTexture("filename", "wood"), `# non-texturable parameter "filename"`},
		{New().AddString("fov", "wide"), `# mistyped (float) parameter "fov"`},
	}

	for index, s := range specs {
		if got := s.ps.String(); got != s.exp {
			t.Errorf("[spec %d] expected %s; got %s", index, s.exp, got)
		}
	}
}

func TestEveryClassifiedNameRenders(t *testing.T) {
	for name, c := range table {
		ps := New()
		switch c.Type {
		case Float:
			ps.AddFloat(name, 1)
		case FloatVector:
			ps.AddFloats(name, []float32{1, 2})
		case Integer:
			ps.AddInteger(name, 1)
		case IntegerVector:
			ps.AddIntegers(name, []int{1, 2})
		case String:
			ps.AddString(name, "x")
		case Bool:
			ps.AddBool(name, true)
		}

		p, found := ps.Get(name)
		if !found || !p.Classified() {
			t.Fatalf("expected %q to be classified", name)
		}
		prefix := `"` + c.Token + ` ` + name + `" [`
		if got := p.String(); len(got) < len(prefix) || got[:len(prefix)] != prefix || got[len(got)-1] != ']' {
			t.Errorf("expected %q to render as %s...]; got %s", name, prefix, got)
		}
	}
}

func TestUpdate(t *testing.T) {
	ps := New().AddFloat("fov", 45).AddInteger("xresolution", 640)
	ps.Update(New().AddFloat("fov", 60).AddInteger("yresolution", 480))

	expNames := []string{"fov", "xresolution", "yresolution"}
	names := ps.Names()
	if len(names) != len(expNames) {
		t.Fatalf("expected names %v; got %v", expNames, names)
	}
	for index, name := range expNames {
		if names[index] != name {
			t.Fatalf("expected names %v; got %v", expNames, names)
		}
	}

	p, _ := ps.Get("fov")
	if p.Value.(float32) != 60 {
		t.Fatalf("expected merged fov to be 60; got %v", p.Value)
	}

	if ps.Update(nil).Len() != 3 {
		t.Fatal("expected nil update to be a no-op")
	}
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	ps := New().AddInteger("maxdepth", 8).AddString("lightstrategy", "one")
	if _, err := ps.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	exp := "\t\"integer maxdepth\" [8]\n\t\"string lightstrategy\" [\"one\"]\n"
	if buf.String() != exp {
		t.Fatalf("expected:\n%s\ngot:\n%s", exp, buf.String())
	}
}

func TestClassify(t *testing.T) {
	if typ, known := Classify("indices"); !known || typ != IntegerVector {
		t.Fatalf("expected indices to be an integer vector; got %s (known %t)", typ, known)
	}
	if _, known := Classify("nope"); known {
		t.Fatal("expected unknown name to be unclassified")
	}
}

func TestFloatTextureChannels(t *testing.T) {
	specs := []struct {
		ps  *ParameterSet
		exp string
	}{
		{NewFloatTexture().AddFloat("tex1", 0.25), `"float tex1" [0.250000]`},
		{NewFloatTexture().AddTexture("tex2", "grain"), `"texture tex2" ["grain"]`},
		{NewFloatTexture().AddColor("tex1", types.XYZ(1, 0, 0)), `# mistyped (float) parameter "tex1"`},
		{NewFloatTexture().AddFloat("amount", 0.5), `"float amount" [0.500000]`},
		{New().AddColor("tex1", types.XYZ(1, 0, 0)), `"color tex1" [1.000000 0.000000 0.000000]`},
	}

	for index, s := range specs {
		if got := s.ps.String(); got != s.exp {
			t.Errorf("[spec %d] expected %s; got %s", index, s.exp, got)
		}
	}
}
