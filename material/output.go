package material

import (
	"github.com/achilleasa/luxport/api"
	"github.com/achilleasa/luxport/paramset"
	"github.com/achilleasa/luxport/props"
	"github.com/achilleasa/luxport/types"
)

// Slot names used by the classic scene API. Slots missing from this table
// have no classic equivalent and are not emitted. Emission slots are written
// as an area light by AreaLight.
var classicSlotNames = map[string]string{
	SlotKd:          "Kd",
	SlotKs:          "Ks",
	SlotKr:          "Kr",
	SlotKt:          "Kt",
	SlotSigma:       "sigma",
	SlotURoughness:  "uroughness",
	SlotVRoughness:  "vroughness",
	SlotInteriorIOR: "index",
	SlotIndex:       "index",
	SlotBaseColor:   "basecolor",
	SlotMetallic:    "metallic",
	SlotRoughness:   "roughness",
	SlotSpecular:    "specular",
	SlotAmount:      "amount",
	SlotMaterial1:   "namedmaterial1",
	SlotMaterial2:   "namedmaterial2",
	SlotTexture1:    "tex1",
	SlotTexture2:    "tex2",
	SlotFile:        "filename",
	SlotGamma:       "gamma",
}

// Properties renders the graph as LuxCore scene properties.
func (g *Graph) Properties() *props.Properties {
	out := props.New()
	for _, n := range g.Nodes {
		key := props.MaterialKey
		if n.Class == TextureClass {
			key = props.TextureKey
		}

		out.Set(props.NewProperty(key(n.Name, "type"), n.Type.String()))
		for _, s := range n.Slots {
			out.Set(props.NewProperty(key(n.Name, s.Name), propValue(s.Value)))
		}
	}
	return out
}

func propValue(v Value) interface{} {
	switch t := v.(type) {
	case Constant:
		switch t.Kind {
		case ConstFloat:
			return t.Float
		case ConstColor:
			return t.Color
		}
		return t.String
	case *Node:
		return t.Name
	}
	return nil
}

// Emit writes the graph to the materials stream of a classic API context as
// Texture and MakeNamedMaterial statements.
func (g *Graph) Emit(ctx api.Context) error {
	if err := ctx.Select(api.Materials); err != nil {
		return err
	}

	for _, n := range g.Nodes {
		ps := paramset.New()
		floatTexture := n.Class == TextureClass && n.FloatTexture
		if floatTexture {
			ps = paramset.NewFloatTexture()
		}
		if n.Class == MaterialClass {
			ps.AddString("type", n.Type.String())
		}

		for _, s := range n.Slots {
			name, supported := classicSlotNames[s.Name]
			if !supported {
				continue
			}
			addClassicParam(ps, name, s.Value, floatTexture)
		}

		var err error
		if n.Class == TextureClass {
			variant := "color"
			if n.FloatTexture {
				variant = "float"
			}
			err = ctx.Texture(n.Name, variant, n.Type.String(), ps)
		} else {
			err = ctx.MakeNamedMaterial(n.Name, ps)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// AreaLight returns the classic area light parameters for the first
// emissive material node of the graph, or nil when nothing emits. Classic
// scenes attach the light to every shape using the material.
func (g *Graph) AreaLight() *paramset.ParameterSet {
	for _, n := range g.Nodes {
		if n.Class != MaterialClass {
			continue
		}
		emission, found := n.Slot(SlotEmission)
		if !found {
			continue
		}

		gain := white
		if v, found := n.Slot(SlotEmissionGain); found {
			if c, isConst := v.(Constant); isConst && c.Kind == ConstColor {
				gain = c.Color
			}
		}

		ps := paramset.New()
		switch e := emission.(type) {
		case Constant:
			ps.AddColor("L", e.Color.MulVec(gain))
		case *Node:
			ps.AddTexture("L", e.Name).AddFloat("gain", average(gain))
		}
		return ps
	}
	return nil
}

func average(c types.Vec3) float32 {
	return (c[0] + c[1] + c[2]) / 3
}

func addClassicParam(ps *paramset.ParameterSet, name string, v Value, floatTexture bool) {
	switch t := v.(type) {
	case Constant:
		switch {
		case t.Kind == ConstFloat:
			ps.AddFloat(name, t.Float)
		case t.Kind == ConstColor && floatTexture && (name == "tex1" || name == "tex2"):
			ps.AddFloat(name, average(t.Color))
		case t.Kind == ConstColor:
			ps.AddColor(name, t.Color)
		case t.Kind == ConstString:
			ps.AddString(name, t.String)
		}
	case *Node:
		if t.Class == MaterialClass {
			ps.AddString(name, t.Name)
		} else {
			ps.AddTexture(name, t.Name)
		}
	}
}
