package host

import "github.com/achilleasa/luxport/types"

// NodeKind identifies a shader node type. The set is closed; node types the
// exporters do not know map to NodeUnknown.
type NodeKind int

const (
	NodeUnknown NodeKind = iota
	NodeOutputMaterial
	NodeBsdfDiffuse
	NodeBsdfGlossy
	NodeBsdfGlass
	NodeBsdfTransparent
	NodeBsdfPrincipled
	NodeEmission
	NodeMixShader
	NodeAddShader
	NodeFresnel
	NodeLayerWeight
	NodeRGB
	NodeValue
	NodeImageTexture
	NodeMixRGB
)

var nodeKindNames = map[NodeKind]string{
	NodeOutputMaterial:  "OUTPUT_MATERIAL",
	NodeBsdfDiffuse:     "BSDF_DIFFUSE",
	NodeBsdfGlossy:      "BSDF_GLOSSY",
	NodeBsdfGlass:       "BSDF_GLASS",
	NodeBsdfTransparent: "BSDF_TRANSPARENT",
	NodeBsdfPrincipled:  "BSDF_PRINCIPLED",
	NodeEmission:        "EMISSION",
	NodeMixShader:       "MIX_SHADER",
	NodeAddShader:       "ADD_SHADER",
	NodeFresnel:         "FRESNEL",
	NodeLayerWeight:     "LAYER_WEIGHT",
	NodeRGB:             "RGB",
	NodeValue:           "VALUE",
	NodeImageTexture:    "TEX_IMAGE",
	NodeMixRGB:          "MIX_RGB",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseNodeKind maps a host node type name to a NodeKind.
func ParseNodeKind(typeName string) NodeKind {
	for kind, name := range nodeKindNames {
		if name == typeName {
			return kind
		}
	}
	return NodeUnknown
}

// ValueKind identifies the payload of a SocketValue.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueFloat
	ValueColor
)

// SocketValue is an unlinked socket default or a constant node output.
type SocketValue struct {
	Kind  ValueKind
	Float float32

	// RGBA color.
	Color types.Vec4
}

// FloatValue creates a float socket value.
func FloatValue(v float32) SocketValue {
	return SocketValue{Kind: ValueFloat, Float: v}
}

// ColorValue creates an opaque color socket value.
func ColorValue(c types.Vec3) SocketValue {
	return SocketValue{Kind: ValueColor, Color: c.Vec4(1)}
}

// Link connects an input socket to an output of an upstream node.
type Link struct {
	From   *Node
	Socket string
}

// Socket is a node input.
type Socket struct {
	Name    string
	Default SocketValue
	Link    *Link
}

// Linked returns true if the socket is fed by another node.
func (s *Socket) Linked() bool {
	return s != nil && s.Link != nil && s.Link.From != nil
}

// Node is a shader graph node.
type Node struct {
	Name string
	Kind NodeKind

	// The host type name; kept for nodes of unknown kind.
	TypeName string

	Inputs []*Socket

	// Output of RGB and Value nodes.
	Value SocketValue

	// Image path of image texture nodes.
	Image string

	// Blend mode of MixRGB nodes.
	BlendType string
}

// Input looks up an input socket by name.
func (n *Node) Input(name string) *Socket {
	for _, s := range n.Inputs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// InputAt returns the i-th input socket or nil.
func (n *Node) InputAt(index int) *Socket {
	if index < 0 || index >= len(n.Inputs) {
		return nil
	}
	return n.Inputs[index]
}

// NodeTree is a material shader graph.
type NodeTree struct {
	Nodes  []*Node
	Output *Node
}

// Node looks up a node by name.
func (t *NodeTree) Node(name string) *Node {
	for _, n := range t.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Material is a host material.
type Material struct {
	Name string

	// Shader graph; nil for materials without nodes.
	Tree *NodeTree

	// Viewport color used when the material has no node tree.
	DiffuseColor types.Vec3
}
