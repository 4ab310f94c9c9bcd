package yamlscene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sceneYAML = `
camera:
  name: Camera
  location: [0, -5, 1]
  fov: 0.6
materials:
  - name: red
    diffuse_color: [0.8, 0, 0]
    nodes:
      - name: Material Output
        type: OUTPUT_MATERIAL
        inputs:
          - name: Surface
            link: {node: Mix, socket: Shader}
      - name: Mix
        type: MIX_SHADER
        inputs:
          - name: Fac
            value: 0.25
          - name: Shader
            link: {node: Diffuse, socket: BSDF}
          - name: Shader
            link: {node: Glossy, socket: BSDF}
      - name: Diffuse
        type: BSDF_DIFFUSE
        inputs:
          - name: Color
            value: [0.8, 0, 0, 1]
      - name: Glossy
        type: BSDF_GLOSSY
        inputs:
          - name: Color
            value: [1, 1, 1]
          - name: Roughness
            value: 0.1
      - name: Noise
        type: TEX_NOISE
  - name: plain
    diffuse_color: [0.1, 0.2, 0.3]
meshes:
  - name: QuadMesh
    vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0], [0, 1, 0]]
    faces:
      - verts: [0, 1, 2, 3]
        uvs: [[0, 0], [1, 0], [1, 1], [0, 1]]
lamps:
  - name: SunLamp
    type: sun
    energy: 2
    color: [1, 1, 1]
    components: [sun, sky]
    turbidity: 2.2
  - name: Panel
    type: AREA
    energy: 10
    color: [1, 0.9, 0.8]
    gain: [2, 2, 2]
    importance: 0.5
    shape: rectangle
    size: 2
    size_y: 1
  - name: Weird
    type: PORTAL
    energy: 1
    color: [1, 1, 1]
objects:
  - name: Quad
    data: QuadMesh
    location: [1, 2, 3]
    scale: [2, 2, 2]
    materials: [red, ""]
  - name: Sun
    data: SunLamp
    rotation: [0, 0, 0, 1]
  - name: Light
    data: Panel
    matrix: [1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 4, 1]
  - name: Empty
    hidden: true
duplis:
  - object: Quad
    duplicator: Empty
    location: [5, 0, 0]
`

func TestLoad(t *testing.T) {
	doc, err := Load(strings.NewReader(sceneYAML), "demo")
	require.NoError(t, err)

	assert.Equal(t, "demo", doc.Name())
	require.Len(t, doc.Objects(), 4)
	require.Len(t, doc.Materials(), 2)

	quad := doc.Object("Quad")
	require.NotNil(t, quad)
	assert.Equal(t, types.XYZ(1, 2, 3), quad.Matrix.Translation())
	assert.Equal(t, types.XYZ(2, 0, 0), quad.Matrix.Col(0).Vec3())
	require.Len(t, quad.Materials, 2)
	assert.Same(t, doc.Material("red"), quad.Materials[0])
	assert.Nil(t, quad.Materials[1])

	mesh := quad.Mesh()
	require.NotNil(t, mesh)
	assert.Equal(t, "QuadMesh", mesh.Name)
	assert.True(t, mesh.HasUV)
	require.Len(t, mesh.Faces, 1)
	assert.Equal(t, types.XYZ(0, 0, 1), mesh.Faces[0].Normal)
	assert.Equal(t, types.XYZ(0, 0, 1), mesh.Vertices[2].Normal)

	sun := doc.Object("Sun").Lamp()
	require.NotNil(t, sun)
	sunParams, ok := sun.Params.(*host.SunParams)
	require.True(t, ok)
	assert.Equal(t, host.SunDisk|host.SunSky, sunParams.Components)
	assert.Equal(t, float32(2.2), sunParams.Turbidity)
	assert.Equal(t, types.XYZ(1, 1, 1), sun.Gain)
	assert.Equal(t, float32(1), sun.Importance)
	assert.True(t, doc.Object("Sun").Matrix.ApproxEqual(types.Ident4()))

	panel := doc.Object("Light").Lamp()
	require.NotNil(t, panel)
	area, ok := panel.Params.(*host.AreaParams)
	require.True(t, ok)
	assert.Equal(t, host.AreaRectangle, area.Shape)
	assert.Equal(t, float32(2), area.Size)
	assert.Equal(t, float32(1), area.SizeY)
	assert.Equal(t, types.XYZ(2, 2, 2), panel.Gain)
	assert.Equal(t, float32(0.5), panel.Importance)
	assert.Equal(t, types.XYZ(0, 0, 4), doc.Object("Light").Matrix.Translation())

	empty := doc.Object("Empty")
	require.NotNil(t, empty)
	assert.True(t, empty.Hidden)
	assert.Nil(t, empty.Data)

	require.Len(t, doc.Duplis(), 1)
	assert.Same(t, quad, doc.Duplis()[0].Object)
	assert.Same(t, empty, doc.Duplis()[0].Duplicator)
	assert.Equal(t, types.XYZ(5, 0, 0), doc.Duplis()[0].Matrix.Translation())

	cam := doc.Camera()
	require.NotNil(t, cam)
	assert.Equal(t, float32(0.6), cam.FOV)
	assert.Equal(t, "perspective", cam.Type)
	assert.Equal(t, types.XYZ(0, -5, 1), cam.Matrix.Translation())
}

func TestLoadUnknownLightType(t *testing.T) {
	// The lamp is kept; the exporter rejects it naming the object.
	weird, err := Load(strings.NewReader(`
lamps:
  - name: Weird
    type: PORTAL
    energy: 1
    color: [1, 1, 1]
objects:
  - name: Portal
    data: Weird
`), "portal")
	require.NoError(t, err)
	params, ok := weird.Object("Portal").Lamp().Params.(*host.UnsupportedParams)
	require.True(t, ok)
	assert.Equal(t, "PORTAL", params.LightType())
}

func TestNodeTree(t *testing.T) {
	doc, err := Load(strings.NewReader(sceneYAML), "demo")
	require.NoError(t, err)

	red := doc.Material("red")
	require.NotNil(t, red)
	require.NotNil(t, red.Tree)
	require.NotNil(t, red.Tree.Output)
	assert.Equal(t, "Material Output", red.Tree.Output.Name)

	mix := red.Tree.Output.Input("Surface").Link.From
	assert.Equal(t, host.NodeMixShader, mix.Kind)
	assert.Equal(t, host.FloatValue(0.25), mix.InputAt(0).Default)
	assert.Equal(t, host.NodeBsdfDiffuse, mix.InputAt(1).Link.From.Kind)
	assert.Equal(t, "BSDF", mix.InputAt(1).Link.Socket)
	assert.Equal(t, host.NodeBsdfGlossy, mix.InputAt(2).Link.From.Kind)

	diffuse := red.Tree.Node("Diffuse")
	assert.Equal(t, types.XYZW(0.8, 0, 0, 1), diffuse.Input("Color").Default.Color)
	glossy := red.Tree.Node("Glossy")
	assert.Equal(t, host.ColorValue(types.XYZ(1, 1, 1)), glossy.Input("Color").Default)

	noise := red.Tree.Node("Noise")
	assert.Equal(t, host.NodeUnknown, noise.Kind)
	assert.Equal(t, "TEX_NOISE", noise.TypeName)

	plain := doc.Material("plain")
	assert.Nil(t, plain.Tree)
	assert.Equal(t, types.XYZ(0.1, 0.2, 0.3), plain.DiffuseColor)
}

func TestRevision(t *testing.T) {
	load := func(src string) *host.Document {
		doc, err := Load(strings.NewReader(src), "rev")
		require.NoError(t, err)
		return doc
	}

	base := sceneYAML
	moved := strings.Replace(sceneYAML, "location: [1, 2, 3]", "location: [1, 2, 4]", 1)
	reshaped := strings.Replace(sceneYAML, "[1, 1, 0], [0, 1, 0]]", "[1, 2, 0], [0, 1, 0]]", 1)
	require.NotEqual(t, base, moved)
	require.NotEqual(t, base, reshaped)

	a, b := load(base), load(base)
	assert.Equal(t, a.Object("Quad").Revision, b.Object("Quad").Revision)
	assert.NotEqual(t, a.Object("Quad").Revision, load(moved).Object("Quad").Revision)
	assert.NotEqual(t, a.Object("Quad").Revision, load(reshaped).Object("Quad").Revision)
	assert.Equal(t, a.Object("Sun").Revision, load(moved).Object("Sun").Revision)
}

func TestLoadErrors(t *testing.T) {
	specs := []struct {
		src    string
		expErr string
	}{
		{"objects:\n  - name: A\n    data: Missing\n", `object "A" references unknown data block "Missing"`},
		{"objects:\n  - name: A\n    materials: [nope]\n", `object "A" references unknown material "nope"`},
		{"objects:\n  - name: A\n  - name: A\n", `object "A" already defined`},
		{"duplis:\n  - object: Ghost\n", `dupli references unknown object "Ghost"`},
		{"objects:\n  - name: A\n    matrix: [1, 0, 0]\n", "expected 16 matrix entries; got 3"},
		{"objects:\n  - name: A\n    colour: red\n", "field colour not found"},
		{
			"materials:\n  - name: M\n    diffuse_color: [1, 1, 1]\n    nodes:\n      - name: Out\n        type: OUTPUT_MATERIAL\n        inputs:\n          - name: Surface\n            link: {node: Ghost}\n",
			`material "M": input "Surface" of node "Out" links to unknown node "Ghost"`,
		},
		{
			"materials:\n  - name: M\n    diffuse_color: [1, 1, 1]\n    output: Nope\n    nodes:\n      - name: Out\n        type: OUTPUT_MATERIAL\n",
			`material "M": unknown output node "Nope"`,
		},
		{
			"materials:\n  - name: M\n    diffuse_color: [1, 1, 1]\n    nodes:\n      - name: RGB\n        type: RGB\n        value: [1, 1]\n",
			"expected 3 or 4 color components; got 2",
		},
		{"meshes:\n  - name: M\n    vertices: [[0, 0, 0]]\n    faces:\n      - verts: [0, 0, 1]\n", "references out of bounds vertex 1"},
		{"meshes:\n  - name: M\n    vertices: [[0, 0, 0], [1, 0, 0]]\n    faces:\n      - verts: [0, 1]\n", "face 0 has 2 vertices"},
		{"lamps:\n  - name: L\n    type: SUN\n    energy: 1\n    color: [1, 1, 1]\n    components: [moon]\n", `unknown sun component "moon"`},
		{"lamps:\n  - name: L\n    type: AREA\n    energy: 1\n    color: [1, 1, 1]\n    shape: DISK\n", `unknown area shape "DISK"`},
	}

	for specIndex, spec := range specs {
		_, err := Load(strings.NewReader(spec.src), "broken")
		require.Error(t, err, "[spec %d]", specIndex)
		assert.Contains(t, err.Error(), spec.expErr, "[spec %d]", specIndex)
		assert.True(t, strings.HasPrefix(err.Error(), "yamlscene: "), "[spec %d] expected error prefix; got %q", specIndex, err.Error())
	}
}

func TestLoadSunDefaultComponents(t *testing.T) {
	src := "lamps:\n  - name: L\n    type: SUN\n    energy: 1\n    color: [1, 1, 1]\nobjects:\n  - name: S\n    data: L\n"
	doc, err := Load(strings.NewReader(src), "sun")
	require.NoError(t, err)

	lamp := doc.Object("S").Lamp()
	require.NotNil(t, lamp)
	params, ok := lamp.Params.(*host.SunParams)
	require.True(t, ok)
	assert.Equal(t, host.DefaultSunComponents, params.Components)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "living_room.yaml")
	require.NoError(t, os.WriteFile(path, []byte("objects:\n  - name: Empty\n"), 0644))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "living_room", doc.Name())
	assert.Len(t, doc.Objects(), 1)

	named, err := Load(strings.NewReader("name: kitchen\n"), "ignored")
	require.NoError(t, err)
	assert.Equal(t, "kitchen", named.Name())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
