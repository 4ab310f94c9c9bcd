package gltfscene

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/types"
	"github.com/qmuntal/gltf"
)

// material converts a metallic-roughness material into a principled BSDF
// node tree. Emissive materials are converted to an emission shader.
func (l *loader) material(index int, m *gltf.Material) *host.Material {
	name := m.Name
	if name == "" {
		name = fmt.Sprintf("material_%d", index)
	}

	baseColor := types.XYZW(1, 1, 1, 1)
	metallic, roughness := float32(1), float32(1)
	var baseColorTex *gltf.TextureInfo
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			f := *pbr.BaseColorFactor
			baseColor = types.XYZW(float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3]))
		}
		if pbr.MetallicFactor != nil {
			metallic = float32(*pbr.MetallicFactor)
		}
		if pbr.RoughnessFactor != nil {
			roughness = float32(*pbr.RoughnessFactor)
		}
		baseColorTex = pbr.BaseColorTexture
	}

	tree := &host.NodeTree{}
	var surface *host.Node
	emissive := types.XYZ(float32(m.EmissiveFactor[0]), float32(m.EmissiveFactor[1]), float32(m.EmissiveFactor[2]))
	if emissive.MaxComponent() > 0 {
		surface = addNode(tree, "Emission", host.NodeEmission,
			&host.Socket{Name: "Color", Default: host.ColorValue(emissive)},
			&host.Socket{Name: "Strength", Default: host.FloatValue(1)},
		)
	} else {
		color := &host.Socket{Name: "Base Color", Default: host.SocketValue{Kind: host.ValueColor, Color: baseColor}}
		if image := l.textureImage(name, baseColorTex); image != "" {
			tex := addNode(tree, "Image Texture", host.NodeImageTexture)
			tex.Image = image
			color.Link = &host.Link{From: tex, Socket: "Color"}
		}
		surface = addNode(tree, "Principled BSDF", host.NodeBsdfPrincipled,
			color,
			&host.Socket{Name: "Metallic", Default: host.FloatValue(metallic)},
			&host.Socket{Name: "Roughness", Default: host.FloatValue(roughness)},
			&host.Socket{Name: "Specular", Default: host.FloatValue(0.5)},
		)
	}
	tree.Output = addNode(tree, "Material Output", host.NodeOutputMaterial,
		&host.Socket{Name: "Surface", Link: &host.Link{From: surface, Socket: "BSDF"}},
	)

	return &host.Material{
		Name:         name,
		Tree:         tree,
		DiffuseColor: baseColor.Vec3(),
	}
}

func addNode(tree *host.NodeTree, name string, kind host.NodeKind, inputs ...*host.Socket) *host.Node {
	n := &host.Node{Name: name, Kind: kind, TypeName: kind.String(), Inputs: inputs}
	tree.Nodes = append(tree.Nodes, n)
	return n
}

// textureImage resolves the image file of a texture reference. Images
// embedded in buffers or data URIs are not supported by the exporters.
func (l *loader) textureImage(matName string, info *gltf.TextureInfo) string {
	if info == nil || int(info.Index) >= len(l.doc.Textures) {
		return ""
	}
	tex := l.doc.Textures[info.Index]
	if tex.Source == nil || int(*tex.Source) >= len(l.doc.Images) {
		return ""
	}

	img := l.doc.Images[*tex.Source]
	if img.URI == "" || strings.HasPrefix(img.URI, "data:") {
		l.logger.Warningf("material %q: skipping embedded base color image", matName)
		return ""
	}

	uri, err := url.PathUnescape(img.URI)
	if err != nil {
		uri = img.URI
	}
	if filepath.IsAbs(uri) {
		return uri
	}
	return filepath.Join(l.baseDir, filepath.FromSlash(uri))
}
