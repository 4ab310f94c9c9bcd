package material

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/achilleasa/luxport/api"
	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input(name string, def host.SocketValue) *host.Socket {
	return &host.Socket{Name: name, Default: def}
}

func link(s *host.Socket, from *host.Node) *host.Socket {
	s.Link = &host.Link{From: from, Socket: "out"}
	return s
}

func diffuseNode(c types.Vec3) *host.Node {
	return &host.Node{Name: "diffuse", Kind: host.NodeBsdfDiffuse, Inputs: []*host.Socket{
		input("Color", host.ColorValue(c)),
		input("Roughness", host.FloatValue(0)),
	}}
}

func glossyNode(roughness float32) *host.Node {
	return &host.Node{Name: "glossy", Kind: host.NodeBsdfGlossy, Inputs: []*host.Socket{
		input("Color", host.ColorValue(types.XYZ(1, 1, 1))),
		input("Roughness", host.FloatValue(roughness)),
	}}
}

func materialWith(name string, surface *host.Node) *host.Material {
	out := &host.Node{Name: "out", Kind: host.NodeOutputMaterial, Inputs: []*host.Socket{input("Surface", host.SocketValue{})}}
	if surface != nil {
		link(out.Inputs[0], surface)
	}
	return &host.Material{Name: name, Tree: &host.NodeTree{Output: out}}
}

func TestConvertDiffuse(t *testing.T) {
	graph, err := NewConverter("").Convert(materialWith("red", diffuseNode(types.XYZ(0.8, 0, 0))))
	require.NoError(t, err)
	require.NotNil(t, graph)

	assert.Equal(t, "red", graph.Root.Name)
	assert.Equal(t, TypeMatte, graph.Root.Type)
	kd, _ := graph.Root.Slot(SlotKd)
	assert.Equal(t, Color(types.XYZ(0.8, 0, 0)), kd)
	sigma, _ := graph.Root.Slot(SlotSigma)
	assert.Equal(t, Float(0), sigma)
}

func TestConvertDropsAlpha(t *testing.T) {
	n := diffuseNode(types.XYZ(0, 0, 0))
	n.Inputs[0].Default = host.SocketValue{Kind: host.ValueColor, Color: types.XYZW(0.1, 0.2, 0.3, 0.5)}

	graph, err := NewConverter("").Convert(materialWith("rgba", n))
	require.NoError(t, err)
	kd, _ := graph.Root.Slot(SlotKd)
	assert.Equal(t, Color(types.XYZ(0.1, 0.2, 0.3)), kd)
}

func TestConvertUnlinkedOutputYieldsNothing(t *testing.T) {
	graph, err := NewConverter("").Convert(materialWith("empty", nil))
	assert.NoError(t, err)
	assert.Nil(t, graph)
}

func TestConvertUnknownNodeUsesSocketDefault(t *testing.T) {
	unknown := &host.Node{Name: "noise", Kind: host.NodeUnknown, TypeName: "TEX_NOISE"}
	diffuse := diffuseNode(types.XYZ(0.5, 0.5, 0.5))
	link(diffuse.Inputs[0], unknown)

	graph, err := NewConverter("").Convert(materialWith("noisy", diffuse))
	require.NoError(t, err)
	kd, _ := graph.Root.Slot(SlotKd)
	assert.Equal(t, Color(types.XYZ(0.5, 0.5, 0.5)), kd)

	// An unknown shader feeding the surface produces nothing
	graph, err = NewConverter("").Convert(materialWith("unknown", &host.Node{Kind: host.NodeUnknown}))
	assert.NoError(t, err)
	assert.Nil(t, graph)
}

func TestConvertFresnelMix(t *testing.T) {
	fresnel := &host.Node{Name: "fresnel", Kind: host.NodeFresnel, Inputs: []*host.Socket{input("IOR", host.FloatValue(1.45))}}

	for index, swap := range []bool{false, true} {
		diffuse, glossy := diffuseNode(types.XYZ(0.2, 0.3, 0.4)), glossyNode(0.1)
		a, b := diffuse, glossy
		if swap {
			a, b = b, a
		}
		mix := &host.Node{Name: "mix", Kind: host.NodeMixShader, Inputs: []*host.Socket{
			link(input("Fac", host.FloatValue(0.5)), fresnel),
			link(input("Shader", host.SocketValue{}), a),
			link(input("Shader", host.SocketValue{}), b),
		}}

		graph, err := NewConverter("").Convert(materialWith("plastic", mix))
		require.NoError(t, err, "spec %d", index)
		require.Len(t, graph.Nodes, 1, "spec %d", index)
		assert.Equal(t, TypeGlossy2, graph.Root.Type, "spec %d", index)

		kd, _ := graph.Root.Slot(SlotKd)
		assert.Equal(t, Color(types.XYZ(0.2, 0.3, 0.4)), kd, "spec %d", index)
		ks, _ := graph.Root.Slot(SlotKs)
		assert.Equal(t, Color(types.XYZ(1, 1, 1)), ks, "spec %d", index)
		ior, _ := graph.Root.Slot(SlotIndex)
		assert.Equal(t, Float(1.45), ior, "spec %d", index)
		rough, _ := graph.Root.Slot(SlotVRoughness)
		assert.Equal(t, Float(0.1), rough, "spec %d", index)
	}
}

func TestConvertGenericMix(t *testing.T) {
	mix := &host.Node{Name: "mix", Kind: host.NodeMixShader, Inputs: []*host.Socket{
		input("Fac", host.FloatValue(0.25)),
		link(input("Shader", host.SocketValue{}), diffuseNode(types.XYZ(1, 0, 0))),
		link(input("Shader", host.SocketValue{}), glossyNode(0.2)),
	}}

	graph, err := NewConverter("").Convert(materialWith("blend", mix))
	require.NoError(t, err)
	require.Len(t, graph.Nodes, 3)
	assert.Equal(t, TypeMix, graph.Root.Type)
	assert.Same(t, graph.Root, graph.Nodes[2])

	amount, _ := graph.Root.Slot(SlotAmount)
	assert.Equal(t, Float(0.25), amount)
	m1, _ := graph.Root.Slot(SlotMaterial1)
	assert.Same(t, graph.Nodes[0], m1)
	m2, _ := graph.Root.Slot(SlotMaterial2)
	assert.Same(t, graph.Nodes[1], m2)
}

func TestConvertMixPassThroughAndOmit(t *testing.T) {
	unknown := &host.Node{Name: "toon", Kind: host.NodeUnknown, TypeName: "BSDF_TOON"}

	add := &host.Node{Name: "add", Kind: host.NodeAddShader, Inputs: []*host.Socket{
		link(input("Shader", host.SocketValue{}), unknown),
		link(input("Shader", host.SocketValue{}), glossyNode(0.3)),
	}}
	graph, err := NewConverter("").Convert(materialWith("pass", add))
	require.NoError(t, err)
	assert.Equal(t, TypeMetal2, graph.Root.Type)
	assert.Len(t, graph.Nodes, 1)

	add = &host.Node{Name: "add", Kind: host.NodeAddShader, Inputs: []*host.Socket{
		link(input("Shader", host.SocketValue{}), unknown),
		input("Shader", host.SocketValue{}),
	}}
	graph, err = NewConverter("").Convert(materialWith("omit", add))
	assert.NoError(t, err)
	assert.Nil(t, graph)
}

func TestConvertAddShader(t *testing.T) {
	add := &host.Node{Name: "add", Kind: host.NodeAddShader, Inputs: []*host.Socket{
		link(input("Shader", host.SocketValue{}), diffuseNode(types.XYZ(1, 1, 1))),
		link(input("Shader", host.SocketValue{}), &host.Node{Kind: host.NodeEmission, Inputs: []*host.Socket{
			input("Color", host.ColorValue(types.XYZ(1, 0.5, 0))),
			input("Strength", host.FloatValue(4)),
		}}),
	}}

	graph, err := NewConverter("").Convert(materialWith("glow", add))
	require.NoError(t, err)
	assert.Equal(t, TypeMix, graph.Root.Type)
	amount, _ := graph.Root.Slot(SlotAmount)
	assert.Equal(t, Float(0.5), amount)

	emitter := graph.Nodes[1]
	gain, _ := emitter.Slot(SlotEmissionGain)
	assert.Equal(t, Color(types.XYZ(4, 4, 4)), gain)
	kd, _ := emitter.Slot(SlotKd)
	assert.Equal(t, Color(black), kd)
}

func TestConvertIsNotMemoized(t *testing.T) {
	shared := &host.Node{Name: "tex", Kind: host.NodeMixRGB, Inputs: []*host.Socket{
		input("Fac", host.FloatValue(0.5)),
		input("Color1", host.ColorValue(types.XYZ(1, 0, 0))),
		input("Color2", host.ColorValue(types.XYZ(0, 0, 1))),
	}}
	principled := &host.Node{Name: "bsdf", Kind: host.NodeBsdfPrincipled, Inputs: []*host.Socket{
		link(input("Base Color", host.ColorValue(types.XYZ(0, 0, 0))), shared),
		link(input("Roughness", host.FloatValue(0.5)), shared),
	}}

	graph, err := NewConverter("").Convert(materialWith("shared", principled))
	require.NoError(t, err)
	require.Len(t, graph.Nodes, 3)
	assert.NotEqual(t, graph.Nodes[0].Name, graph.Nodes[1].Name)
	assert.False(t, graph.Nodes[0].FloatTexture)
	assert.True(t, graph.Nodes[1].FloatTexture)
}

func TestConvertImageTexture(t *testing.T) {
	dir := t.TempDir()
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 0x49, 0x48, 0x44, 0x52}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wood.png"), png, 0644))

	makeMat := func(image string) *host.Material {
		tex := &host.Node{Name: "img", Kind: host.NodeImageTexture, Image: image}
		diffuse := diffuseNode(types.XYZ(0, 0, 0))
		link(diffuse.Inputs[0], tex)
		return materialWith("wood", diffuse)
	}

	graph, err := NewConverter(dir).Convert(makeMat("//wood.png"))
	require.NoError(t, err)
	require.Len(t, graph.Nodes, 2)
	assert.Equal(t, TypeImagemap, graph.Nodes[0].Type)
	file, _ := graph.Nodes[0].Slot(SlotFile)
	assert.Equal(t, String(filepath.Join(dir, "wood.png")), file)

	graph, err = NewConverter(dir).Convert(makeMat("missing.png"))
	require.NoError(t, err)
	require.Len(t, graph.Nodes, 1)
	kd, _ := graph.Root.Slot(SlotKd)
	assert.Equal(t, Color(missingColor), kd)
}

func TestConvertErrors(t *testing.T) {
	conv := NewConverter("")

	_, err := conv.Convert(&host.Material{Name: "broken", Tree: &host.NodeTree{}})
	var convErr *ConvertError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "broken", convErr.Material)
	assert.ErrorIs(t, err, ErrNoOutput)

	// a -> b -> a
	a := &host.Node{Name: "a", Kind: host.NodeMixRGB, Inputs: []*host.Socket{input("Color1", host.SocketValue{})}}
	b := &host.Node{Name: "b", Kind: host.NodeMixRGB, Inputs: []*host.Socket{link(input("Color1", host.SocketValue{}), a)}}
	link(a.Inputs[0], b)
	diffuse := diffuseNode(types.XYZ(0, 0, 0))
	link(diffuse.Inputs[0], a)

	_, err = conv.Convert(materialWith("loop", diffuse))
	assert.ErrorIs(t, err, ErrGraphTooDeep)

	glossy := glossyNode(3)
	_, err = conv.Convert(materialWith("rough", glossy))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[0, 1] range")
}

func TestConvertAll(t *testing.T) {
	mats := []*host.Material{
		materialWith("ok", diffuseNode(types.XYZ(1, 1, 1))),
		{Name: "broken", Tree: &host.NodeTree{}},
		{Name: "plain", DiffuseColor: types.XYZ(0.1, 0.1, 0.1)},
	}

	graphs, errs := NewConverter("").ConvertAll(mats)
	require.Len(t, graphs, 3)
	assert.NotNil(t, graphs[0])
	assert.Nil(t, graphs[1])
	assert.NotNil(t, graphs[2])
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `"broken"`)
}

func TestGraphOutputs(t *testing.T) {
	mix := &host.Node{Name: "mix", Kind: host.NodeMixShader, Inputs: []*host.Socket{
		input("Fac", host.FloatValue(0.5)),
		link(input("Shader", host.SocketValue{}), diffuseNode(types.XYZ(1, 0, 0))),
		link(input("Shader", host.SocketValue{}), &host.Node{Kind: host.NodeBsdfGlass, Inputs: []*host.Socket{
			input("Color", host.ColorValue(types.XYZ(1, 1, 1))),
			input("IOR", host.FloatValue(1.5)),
		}}),
	}}
	graph, err := NewConverter("").Convert(materialWith("m", mix))
	require.NoError(t, err)

	p := graph.Properties()
	typ, _ := p.Get("scene.materials.m.type")
	assert.Equal(t, "mix", typ.Str())
	m1, _ := p.Get("scene.materials.m.material1")
	assert.Equal(t, "m_matte_1", m1.Str())
	ior, _ := p.Get("scene.materials.m_glass_2.interiorior")
	assert.Equal(t, float32(1.5), ior.Float(0))

	rec := api.NewRecorder()
	require.NoError(t, graph.Emit(rec))
	assert.Equal(t, 3, rec.Count("MakeNamedMaterial"))

	root := rec.Find("MakeNamedMaterial", "m")
	require.Len(t, root, 1)
	assert.Equal(t, api.Materials, root[0].Stream)
	n1, _ := root[0].Params.Get("namedmaterial1")
	assert.Equal(t, "m_matte_1", n1.Value)
}

func TestEmitWritesTexturesBeforeMaterials(t *testing.T) {
	mixRGB := &host.Node{Name: "tint", Kind: host.NodeMixRGB, Inputs: []*host.Socket{
		input("Fac", host.FloatValue(0.25)),
		input("Color1", host.ColorValue(types.XYZ(1, 0, 0))),
		input("Color2", host.ColorValue(types.XYZ(0, 0, 1))),
	}}
	diffuse := diffuseNode(types.XYZ(0, 0, 0))
	link(diffuse.Inputs[0], mixRGB)

	graph, err := NewConverter("").Convert(materialWith("tinted", diffuse))
	require.NoError(t, err)

	rec := api.NewRecorder()
	require.NoError(t, graph.Emit(rec))

	var order []string
	for _, s := range rec.Statements {
		if s.Directive == "Texture" || s.Directive == "MakeNamedMaterial" {
			order = append(order, s.Directive)
		}
	}
	assert.Equal(t, []string{"Texture", "MakeNamedMaterial"}, order)

	mat := rec.Find("MakeNamedMaterial", "tinted")
	require.Len(t, mat, 1)
	kd, _ := mat[0].Params.Get("Kd")
	assert.Equal(t, rec.Find("Texture", "")[0].Args[0], kd.Value)
}

func TestGraphAreaLight(t *testing.T) {
	emission := &host.Node{Name: "glow", Kind: host.NodeEmission, Inputs: []*host.Socket{
		input("Color", host.ColorValue(types.XYZ(1, 0.5, 0))),
		input("Strength", host.FloatValue(2)),
	}}
	graph, err := NewConverter("").Convert(materialWith("lamp", emission))
	require.NoError(t, err)

	ps := graph.AreaLight()
	require.NotNil(t, ps)
	l, found := ps.Get("L")
	require.True(t, found)
	assert.Equal(t, []float32{2, 1, 0}, l.Value)

	plain, err := NewConverter("").Convert(materialWith("plain", diffuseNode(types.XYZ(1, 1, 1))))
	require.NoError(t, err)
	assert.Nil(t, plain.AreaLight())
}
