package wavefront

import (
	"math"
	"path/filepath"

	"github.com/achilleasa/luxport/asset"
	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/types"
)

const defaultGlossyIOR = 1.5

type mtlMaterial struct {
	Name string

	// Diffuse/Albedo color.
	Kd types.Vec3

	// Specular color and exponent.
	Ks types.Vec3
	Ns float32

	// Emissive color and scaler.
	Ke       types.Vec3
	KeScaler float32

	// Transmission filter
	Tf types.Vec3

	// Index of refraction.
	Ni float32

	// Diffuse texture.
	KdTex string

	// Textures are resolved relative to the library that defined them.
	relTo *asset.Resource

	// True if this material is used by at least one face.
	Used bool

	host *host.Material
}

// hostMaterial synthesizes a shader graph from the mtl properties. The graph
// is built once and shared by every object that references the material.
func (m *mtlMaterial) hostMaterial() *host.Material {
	if m.host != nil {
		return m.host
	}

	g := &graphBuilder{}
	var surface *host.Node
	switch {
	case m.Ke.MaxComponent() > 0:
		strength := m.KeScaler
		if strength == 0 {
			strength = 1
		}
		surface = g.node("Emission", host.NodeEmission,
			g.color("Color", m.Ke),
			g.float("Strength", strength),
		)
	case m.Ks.MaxComponent() > 0 && m.Ni != 0:
		tf := m.Tf
		if tf.MaxComponent() == 0 {
			tf = types.XYZ(1, 1, 1)
		}
		surface = g.node("Glass BSDF", host.NodeBsdfGlass,
			g.color("Color", tf),
			g.float("Roughness", 0),
			g.float("IOR", m.Ni),
		)
	case m.Ks.MaxComponent() > 0:
		fresnel := g.node("Fresnel", host.NodeFresnel, g.float("IOR", defaultGlossyIOR))
		diffuse := g.node("Diffuse BSDF", host.NodeBsdfDiffuse, m.diffuseColor(g), g.float("Roughness", 0))
		glossy := g.node("Glossy BSDF", host.NodeBsdfGlossy,
			g.color("Color", m.Ks),
			g.float("Roughness", specularRoughness(m.Ns)),
		)
		surface = g.node("Mix Shader", host.NodeMixShader,
			g.link("Fac", fresnel),
			g.link("Shader", diffuse),
			g.link("Shader", glossy),
		)
	default:
		surface = g.node("Diffuse BSDF", host.NodeBsdfDiffuse, m.diffuseColor(g), g.float("Roughness", 0))
	}

	output := g.node("Material Output", host.NodeOutputMaterial, g.link("Surface", surface))
	m.host = &host.Material{
		Name:         m.Name,
		Tree:         &host.NodeTree{Nodes: g.nodes, Output: output},
		DiffuseColor: m.Kd,
	}
	return m.host
}

// diffuseColor returns the color socket of the diffuse component which is
// fed by the diffuse texture if the material defines one.
func (m *mtlMaterial) diffuseColor(g *graphBuilder) *host.Socket {
	if m.KdTex == "" {
		return g.color("Color", m.Kd)
	}

	image := m.KdTex
	if m.relTo != nil && !m.relTo.IsRemote() && !filepath.IsAbs(image) {
		image = filepath.Join(m.relTo.Dir(), filepath.FromSlash(image))
	}
	tex := g.node("Image Texture", host.NodeImageTexture, g.float("Vector", 0))
	tex.Image = image
	return g.link("Color", tex)
}

// specularRoughness maps a Phong exponent to a microfacet roughness.
// Exponents below 1 are fully rough.
func specularRoughness(ns float32) float32 {
	if ns < 1 {
		return 1
	}
	return float32(math.Sqrt(2 / float64(ns+2)))
}

type graphBuilder struct {
	nodes []*host.Node
}

func (g *graphBuilder) node(name string, kind host.NodeKind, inputs ...*host.Socket) *host.Node {
	n := &host.Node{
		Name:     name,
		Kind:     kind,
		TypeName: kind.String(),
		Inputs:   inputs,
	}
	g.nodes = append(g.nodes, n)
	return n
}

func (g *graphBuilder) float(name string, v float32) *host.Socket {
	return &host.Socket{Name: name, Default: host.FloatValue(v)}
}

func (g *graphBuilder) color(name string, c types.Vec3) *host.Socket {
	return &host.Socket{Name: name, Default: host.ColorValue(c)}
}

func (g *graphBuilder) link(name string, from *host.Node) *host.Socket {
	return &host.Socket{Name: name, Link: &host.Link{From: from, Socket: "BSDF"}}
}
