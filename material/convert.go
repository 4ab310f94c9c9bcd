package material

import (
	"fmt"

	"github.com/achilleasa/luxport/asset"
	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/log"
	"github.com/achilleasa/luxport/types"
)

const maxGraphDepth = 64

var (
	// Substituted for image textures whose file cannot be found.
	missingColor = types.XYZ(1, 0, 1)

	black = types.XYZ(0, 0, 0)
	white = types.XYZ(1, 1, 1)

	defaultImageGamma float32 = 2.2
)

// Converter rewrites host materials into renderer node graphs.
type Converter struct {
	logger log.Logger

	// Image paths are resolved relative to this dir.
	baseDir string
}

// NewConverter creates a converter resolving image paths against baseDir.
func NewConverter(baseDir string) *Converter {
	return &Converter{
		logger:  log.New("material converter"),
		baseDir: baseDir,
	}
}

// Convert converts a single material. A nil graph with a nil error means
// that the material surface produced nothing and the caller should fall back
// to its default material.
func (c *Converter) Convert(mat *host.Material) (*Graph, error) {
	w := &walker{
		conv:  c,
		graph: &Graph{Name: mat.Name},
	}

	var root *Node
	if mat.Tree == nil {
		root = w.register(w.newNode(TypeMatte))
		root.Slots = []Slot{{SlotKd, Color(mat.DiffuseColor)}}
	} else {
		if mat.Tree.Output == nil {
			return nil, &ConvertError{Material: mat.Name, Err: ErrNoOutput}
		}

		val, err := w.socket(mat.Tree.Output.Input("Surface"))
		if err != nil {
			return nil, &ConvertError{Material: mat.Name, Err: err}
		}
		if root = asMaterial(val); root == nil {
			return nil, nil
		}
	}

	root.Name = mat.Name
	w.graph.Root = root
	if err := w.graph.Validate(); err != nil {
		return nil, &ConvertError{Material: mat.Name, Err: err}
	}
	return w.graph, nil
}

// ConvertAll converts a batch of materials. The returned graphs are aligned
// with mats; failed or empty conversions leave a nil entry and failures are
// also collected in the returned error list.
func (c *Converter) ConvertAll(mats []*host.Material) ([]*Graph, []error) {
	graphs := make([]*Graph, len(mats))
	var errs []error
	for index, mat := range mats {
		graph, err := c.Convert(mat)
		if err != nil {
			c.logger.Errorf("%s", err.Error())
			errs = append(errs, err)
			continue
		}
		graphs[index] = graph
	}
	return graphs, errs
}

// walker converts the node graph of one material.
type walker struct {
	conv    *Converter
	graph   *Graph
	depth   int
	counter int
}

// newNode allocates a named node. It only joins the graph once register is
// called, after everything it references has been converted.
func (w *walker) newNode(t Type) *Node {
	w.counter++
	return &Node{
		Name:  fmt.Sprintf("%s_%s_%d", w.graph.Name, t, w.counter),
		Class: t.Class(),
		Type:  t,
	}
}

func (w *walker) register(n *Node) *Node {
	w.graph.Nodes = append(w.graph.Nodes, n)
	return n
}

// build converts the bound sockets of n into slots of out and registers out.
func (w *walker) build(out *Node, bindings []slotBinding, n *host.Node) (Value, error) {
	if err := w.setSlots(out, bindings, n); err != nil {
		return nil, err
	}
	return w.register(out), nil
}

// socket converts the value feeding a socket. Linked sockets are converted
// recursively; unlinked sockets and links to unconvertible nodes use the
// socket default. A nil value means that nothing could be produced.
func (w *walker) socket(s *host.Socket) (Value, error) {
	if s == nil {
		return nil, nil
	}

	if s.Linked() {
		val, err := w.node(s.Link.From)
		if err != nil || val != nil {
			return val, err
		}
	}

	return constant(s.Default), nil
}

func constant(v host.SocketValue) Value {
	switch v.Kind {
	case host.ValueFloat:
		return Float(v.Float)
	case host.ValueColor:
		return Color(v.Color.Vec3())
	}
	return nil
}

func asMaterial(v Value) *Node {
	if n, isNode := v.(*Node); isNode && n.Class == MaterialClass {
		return n
	}
	return nil
}

// setSlot converts the socket value and assigns it to a slot coercing
// constants to the slot kind. Sockets that produce nothing leave the slot
// unset.
func (w *walker) setSlot(n *Node, slot string, s *host.Socket) error {
	val, err := w.socket(s)
	if err != nil || val == nil {
		return err
	}
	n.Slots = append(n.Slots, Slot{Name: slot, Value: coerce(val, slotKinds[slot])})
	return nil
}

func coerce(val Value, kind slotKind) Value {
	switch t := val.(type) {
	case Constant:
		switch {
		case kind == slotFloat && t.Kind == ConstColor:
			return Float((t.Color[0] + t.Color[1] + t.Color[2]) / 3)
		case kind == slotColor && t.Kind == ConstFloat:
			return Color(types.XYZ(t.Float, t.Float, t.Float))
		}
	case *Node:
		if t.Class == TextureClass && kind == slotFloat {
			t.FloatTexture = true
		}
	}
	return val
}

func (w *walker) node(n *host.Node) (Value, error) {
	w.depth++
	defer func() { w.depth-- }()
	if w.depth > maxGraphDepth {
		return nil, ErrGraphTooDeep
	}

	switch n.Kind {
	case host.NodeBsdfDiffuse:
		return w.build(w.newNode(TypeMatte), []slotBinding{{SlotKd, "Color"}, {SlotSigma, "Roughness"}}, n)
	case host.NodeBsdfGlossy:
		return w.build(w.newNode(TypeMetal2), []slotBinding{{SlotKr, "Color"}, {SlotURoughness, "Roughness"}, {SlotVRoughness, "Roughness"}}, n)
	case host.NodeBsdfGlass:
		out := w.newNode(TypeGlass)
		out.Slots = append(out.Slots, Slot{SlotKr, Color(white)})
		return w.build(out, []slotBinding{{SlotKt, "Color"}, {SlotInteriorIOR, "IOR"}}, n)
	case host.NodeBsdfTransparent:
		return w.register(w.newNode(TypeNull)), nil
	case host.NodeBsdfPrincipled:
		return w.build(w.newNode(TypeDisney), []slotBinding{
			{SlotBaseColor, "Base Color"},
			{SlotMetallic, "Metallic"},
			{SlotRoughness, "Roughness"},
			{SlotSpecular, "Specular"},
		}, n)
	case host.NodeEmission:
		out := w.newNode(TypeMatte)
		out.Slots = append(out.Slots, Slot{SlotKd, Color(black)})
		return w.build(out, []slotBinding{{SlotEmission, "Color"}, {SlotEmissionGain, "Strength"}}, n)
	case host.NodeMixShader:
		if glossy, err := w.fresnelMix(n); glossy != nil || err != nil {
			return glossy, err
		}
		return w.mix(n, n.InputAt(0), n.InputAt(1), n.InputAt(2))
	case host.NodeAddShader:
		return w.mix(n, nil, n.InputAt(0), n.InputAt(1))
	case host.NodeRGB:
		return constant(n.Value), nil
	case host.NodeValue:
		return constant(n.Value), nil
	case host.NodeImageTexture:
		return w.imageTexture(n), nil
	case host.NodeMixRGB:
		return w.build(w.newNode(TypeMixTexture), []slotBinding{{SlotAmount, "Fac"}, {SlotTexture1, "Color1"}, {SlotTexture2, "Color2"}}, n)
	case host.NodeFresnel, host.NodeLayerWeight:
		w.conv.logger.Warningf("material %q: node %q (%s) is only supported as the factor of a diffuse/glossy mix", w.graph.Name, n.Name, n.Kind)
		return nil, nil
	}

	w.conv.logger.Warningf("material %q: skipping unsupported node %q of type %q", w.graph.Name, n.Name, n.TypeName)
	return nil, nil
}

type slotBinding struct {
	slot   string
	socket string
}

func (w *walker) setSlots(out *Node, bindings []slotBinding, n *host.Node) error {
	for _, b := range bindings {
		if err := w.setSlot(out, b.slot, n.Input(b.socket)); err != nil {
			return err
		}
	}
	return nil
}

// fresnelMix matches a mix shader whose factor comes from a Fresnel or
// LayerWeight node and whose shaders are one diffuse and one glossy BSDF.
// The pair is rewritten as a single glossy2 material. A nil node is
// returned when the pattern does not match.
func (w *walker) fresnelMix(n *host.Node) (Value, error) {
	fac, a, b := n.InputAt(0), n.InputAt(1), n.InputAt(2)
	if !fac.Linked() || !a.Linked() || !b.Linked() {
		return nil, nil
	}

	facNode := fac.Link.From
	if facNode.Kind != host.NodeFresnel && facNode.Kind != host.NodeLayerWeight {
		return nil, nil
	}

	diffuse, glossy := a.Link.From, b.Link.From
	if diffuse.Kind == host.NodeBsdfGlossy && glossy.Kind == host.NodeBsdfDiffuse {
		diffuse, glossy = glossy, diffuse
	}
	if diffuse.Kind != host.NodeBsdfDiffuse || glossy.Kind != host.NodeBsdfGlossy {
		return nil, nil
	}

	out := w.newNode(TypeGlossy2)
	if err := w.setSlot(out, SlotKd, diffuse.Input("Color")); err != nil {
		return nil, err
	}
	if err := w.setSlots(out, []slotBinding{{SlotKs, "Color"}, {SlotURoughness, "Roughness"}, {SlotVRoughness, "Roughness"}}, glossy); err != nil {
		return nil, err
	}
	if facNode.Kind == host.NodeFresnel {
		if err := w.setSlot(out, SlotIndex, facNode.Input("IOR")); err != nil {
			return nil, err
		}
	}
	return w.register(out), nil
}

// mix converts a mix or add shader. A nil fac selects an even blend.
func (w *walker) mix(n *host.Node, fac, a, b *host.Socket) (Value, error) {
	first, err := w.socket(a)
	if err != nil {
		return nil, err
	}
	second, err := w.socket(b)
	if err != nil {
		return nil, err
	}

	m1, m2 := asMaterial(first), asMaterial(second)
	switch {
	case m1 == nil && m2 == nil:
		w.conv.logger.Warningf("material %q: omitting %q; neither shader input could be converted", w.graph.Name, n.Name)
		return nil, nil
	case m1 == nil:
		return m2, nil
	case m2 == nil:
		return m1, nil
	}

	out := w.newNode(TypeMix)
	if fac == nil {
		out.Slots = append(out.Slots, Slot{SlotAmount, Float(0.5)})
	} else if err = w.setSlot(out, SlotAmount, fac); err != nil {
		return nil, err
	}
	out.Slots = append(out.Slots, Slot{SlotMaterial1, m1}, Slot{SlotMaterial2, m2})
	return w.register(out), nil
}

// imageTexture converts an image texture node. Images that cannot be found
// are replaced by a constant color.
func (w *walker) imageTexture(n *host.Node) Value {
	path, found := asset.Locate(n.Image, w.conv.baseDir)
	if !found || !asset.IsImage(path) {
		w.conv.logger.Warningf("material %q: image %q not found; using fallback color", w.graph.Name, n.Image)
		return Color(missingColor)
	}

	out := w.newNode(TypeImagemap)
	out.Slots = []Slot{
		{SlotFile, String(path)},
		{SlotGamma, Float(defaultImageGamma)},
	}
	return w.register(out)
}
