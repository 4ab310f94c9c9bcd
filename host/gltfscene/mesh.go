package gltfscene

import (
	"fmt"

	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/types"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// mesh converts a glTF mesh into a host mesh. Each primitive becomes a
// material slot with the same index. Meshes are converted once and shared
// by all nodes that reference them.
func (l *loader) mesh(meshIndex int) (*host.Mesh, error) {
	if mesh, exists := l.meshes[meshIndex]; exists {
		return mesh, nil
	}

	src := l.doc.Meshes[meshIndex]
	mesh := &host.Mesh{Name: src.Name}
	if mesh.Name == "" {
		mesh.Name = fmt.Sprintf("mesh_%d", meshIndex)
	}

	for primIndex, prim := range src.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			l.logger.Warningf("mesh %q: skipping primitive %d with unsupported mode %d", mesh.Name, primIndex, prim.Mode)
			continue
		}
		if err := l.appendPrimitive(mesh, primIndex, prim); err != nil {
			return nil, fmt.Errorf("gltfscene: mesh %q primitive %d: %s", mesh.Name, primIndex, err.Error())
		}
	}

	l.meshes[meshIndex] = mesh
	return mesh, nil
}

func (l *loader) accessor(index uint32) (*gltf.Accessor, error) {
	if int(index) >= len(l.doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of bounds", index)
	}
	return l.doc.Accessors[index], nil
}

func (l *loader) appendPrimitive(mesh *host.Mesh, slot int, prim *gltf.Primitive) error {
	posIndex, exists := prim.Attributes[gltf.POSITION]
	if !exists {
		return fmt.Errorf("missing %s attribute", gltf.POSITION)
	}
	acr, err := l.accessor(posIndex)
	if err != nil {
		return err
	}
	positions, err := modeler.ReadPosition(l.doc, acr, nil)
	if err != nil {
		return err
	}

	var normals [][3]float32
	if normalIndex, exists := prim.Attributes[gltf.NORMAL]; exists {
		if acr, err = l.accessor(normalIndex); err != nil {
			return err
		}
		if normals, err = modeler.ReadNormal(l.doc, acr, nil); err != nil {
			return err
		}
	}

	var uvs [][2]float32
	if uvIndex, exists := prim.Attributes[gltf.TEXCOORD_0]; exists {
		if acr, err = l.accessor(uvIndex); err != nil {
			return err
		}
		if uvs, err = modeler.ReadTextureCoord(l.doc, acr, nil); err != nil {
			return err
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if acr, err = l.accessor(*prim.Indices); err != nil {
			return err
		}
		if indices, err = modeler.ReadIndices(l.doc, acr, nil); err != nil {
			return err
		}
	} else {
		indices = make([]uint32, len(positions))
		for index := range indices {
			indices[index] = uint32(index)
		}
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("expected a multiple of 3 indices; got %d", len(indices))
	}

	offset := len(mesh.Vertices)
	for index, p := range positions {
		v := host.Vertex{Co: types.Vec3(p)}
		if index < len(normals) {
			v.Normal = types.Vec3(normals[index])
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	hasUV := len(uvs) == len(positions)
	for tri := 0; tri < len(indices); tri += 3 {
		face := host.Face{
			Verts:         make([]int, 3),
			Smooth:        len(normals) != 0,
			MaterialIndex: slot,
		}
		for corner := 0; corner < 3; corner++ {
			index := int(indices[tri+corner])
			if index >= len(positions) {
				return fmt.Errorf("vertex index %d out of bounds", index)
			}
			face.Verts[corner] = offset + index
			if hasUV {
				// glTF places the uv origin at the top left corner.
				face.UVs = append(face.UVs, types.XY(uvs[index][0], 1-uvs[index][1]))
			}
		}
		face.Normal = face.FlatNormal(mesh.Vertices)
		mesh.Faces = append(mesh.Faces, face)
	}

	if hasUV {
		mesh.HasUV = true
	}
	return nil
}
