// Package material rewrites host shader graphs into renderer material and
// texture node graphs.
package material

import (
	"fmt"

	"github.com/achilleasa/luxport/types"
)

// Class separates material nodes from texture nodes.
type Class int

const (
	MaterialClass Class = iota
	TextureClass
)

// Type is a renderer node type.
type Type int

const (
	typeInvalid Type = iota
	TypeMatte
	TypeMetal2
	TypeGlass
	TypeNull
	TypeDisney
	TypeGlossy2
	TypeMix
	TypeImagemap
	TypeMixTexture
)

func (t Type) String() string {
	switch t {
	case TypeMatte:
		return "matte"
	case TypeMetal2:
		return "metal2"
	case TypeGlass:
		return "glass"
	case TypeNull:
		return "null"
	case TypeDisney:
		return "disney"
	case TypeGlossy2:
		return "glossy2"
	case TypeMix, TypeMixTexture:
		return "mix"
	case TypeImagemap:
		return "imagemap"
	}
	return "invalid"
}

// Class returns the class of nodes with this type.
func (t Type) Class() Class {
	switch t {
	case TypeImagemap, TypeMixTexture:
		return TextureClass
	}
	return MaterialClass
}

const (
	SlotKd           = "kd"
	SlotKs           = "ks"
	SlotKr           = "kr"
	SlotKt           = "kt"
	SlotSigma        = "sigma"
	SlotURoughness   = "uroughness"
	SlotVRoughness   = "vroughness"
	SlotInteriorIOR  = "interiorior"
	SlotIndex        = "index"
	SlotBaseColor    = "basecolor"
	SlotMetallic     = "metallic"
	SlotRoughness    = "roughness"
	SlotSpecular     = "specular"
	SlotEmission     = "emission"
	SlotEmissionGain = "emission.gain"
	SlotAmount       = "amount"
	SlotMaterial1    = "material1"
	SlotMaterial2    = "material2"
	SlotTexture1     = "texture1"
	SlotTexture2     = "texture2"
	SlotFile         = "file"
	SlotGamma        = "gamma"
)

type slotKind int

const (
	slotColor slotKind = iota
	slotFloat
	slotMaterial
	slotString
)

var slotKinds = map[string]slotKind{
	SlotKd:           slotColor,
	SlotKs:           slotColor,
	SlotKr:           slotColor,
	SlotKt:           slotColor,
	SlotSigma:        slotFloat,
	SlotURoughness:   slotFloat,
	SlotVRoughness:   slotFloat,
	SlotInteriorIOR:  slotFloat,
	SlotIndex:        slotFloat,
	SlotBaseColor:    slotColor,
	SlotMetallic:     slotFloat,
	SlotRoughness:    slotFloat,
	SlotSpecular:     slotFloat,
	SlotEmission:     slotColor,
	SlotEmissionGain: slotColor,
	SlotAmount:       slotFloat,
	SlotMaterial1:    slotMaterial,
	SlotMaterial2:    slotMaterial,
	SlotTexture1:     slotColor,
	SlotTexture2:     slotColor,
	SlotFile:         slotString,
	SlotGamma:        slotFloat,
}

var emissionSlots = map[string]struct{}{
	SlotEmission:     struct{}{},
	SlotEmissionGain: struct{}{},
}

var allowedSlots = map[Type]map[string]struct{}{
	TypeMatte: withEmission(SlotKd, SlotSigma),
	TypeMetal2: withEmission(
		SlotKr, SlotURoughness, SlotVRoughness,
	),
	TypeGlass: withEmission(
		SlotKt, SlotKr, SlotInteriorIOR,
	),
	TypeNull: {},
	TypeDisney: withEmission(
		SlotBaseColor, SlotMetallic, SlotRoughness, SlotSpecular,
	),
	TypeGlossy2: withEmission(
		SlotKd, SlotKs, SlotURoughness, SlotVRoughness, SlotIndex,
	),
	TypeMix: {
		SlotAmount:    struct{}{},
		SlotMaterial1: struct{}{},
		SlotMaterial2: struct{}{},
	},
	TypeImagemap: {
		SlotFile:  struct{}{},
		SlotGamma: struct{}{},
	},
	TypeMixTexture: {
		SlotAmount:   struct{}{},
		SlotTexture1: struct{}{},
		SlotTexture2: struct{}{},
	},
}

func withEmission(slots ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(slots)+len(emissionSlots))
	for _, s := range slots {
		set[s] = struct{}{}
	}
	for s := range emissionSlots {
		set[s] = struct{}{}
	}
	return set
}

// Value is either a Constant or a *Node reference.
type Value interface {
	Validate() error
}

// ConstKind identifies the payload of a Constant.
type ConstKind int

const (
	ConstFloat ConstKind = iota
	ConstColor
	ConstString
)

// Constant is an inline slot value.
type Constant struct {
	Kind   ConstKind
	Float  float32
	Color  types.Vec3
	String string
}

// Float creates a float constant.
func Float(v float32) Constant {
	return Constant{Kind: ConstFloat, Float: v}
}

// Color creates a color constant.
func Color(c types.Vec3) Constant {
	return Constant{Kind: ConstColor, Color: c}
}

// String creates a string constant.
func String(s string) Constant {
	return Constant{Kind: ConstString, String: s}
}

func (c Constant) Validate() error {
	return nil
}

// Slot is a named node input.
type Slot struct {
	Name  string
	Value Value
}

// Node is a renderer material or texture node.
type Node struct {
	Name  string
	Class Class
	Type  Type
	Slots []Slot

	// Texture variant; true when the texture feeds a float slot.
	FloatTexture bool
}

// Slot looks up a slot value by name.
func (n *Node) Slot(name string) (Value, bool) {
	for _, s := range n.Slots {
		if s.Name == name {
			return s.Value, true
		}
	}
	return nil, false
}

// Validate checks that the node type is known and that all slots are
// allowed for it and carry suitable values.
func (n *Node) Validate() error {
	if n.Type == typeInvalid {
		return fmt.Errorf("node %q has invalid type", n.Name)
	}

	for _, s := range n.Slots {
		if _, isAllowed := allowedSlots[n.Type][s.Name]; !isAllowed {
			return fmt.Errorf("node type %q does not support slot %q", n.Type, s.Name)
		}
		if s.Value == nil {
			return fmt.Errorf("node %q: slot %q has no value", n.Name, s.Name)
		}

		ref, isRef := s.Value.(*Node)
		switch kind := slotKinds[s.Name]; {
		case kind == slotMaterial && (!isRef || ref.Class != MaterialClass):
			return fmt.Errorf("node %q: slot %q must reference a material", n.Name, s.Name)
		case kind != slotMaterial && isRef && ref.Class != TextureClass:
			return fmt.Errorf("node %q: slot %q must reference a texture", n.Name, s.Name)
		}

		switch s.Name {
		case SlotURoughness, SlotVRoughness, SlotRoughness, SlotAmount:
			if c, isConst := s.Value.(Constant); isConst && (c.Float < 0 || c.Float > 1) {
				return fmt.Errorf("node %q: values for slot %q must be in the [0, 1] range", n.Name, s.Name)
			}
		}
	}
	return nil
}

// Graph is the converted form of one host material. Nodes are ordered so
// that every node follows the nodes it references; Root is the last
// material node.
type Graph struct {
	Name  string
	Root  *Node
	Nodes []*Node
}

// Validate validates every node in the graph.
func (g *Graph) Validate() error {
	for _, n := range g.Nodes {
		if err := n.Validate(); err != nil {
			return err
		}
	}
	return nil
}
