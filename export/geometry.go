package export

import (
	"fmt"

	"github.com/achilleasa/luxport/api"
	"github.com/achilleasa/luxport/cache"
	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/paramset"
	"github.com/achilleasa/luxport/props"
	"github.com/achilleasa/luxport/types"
)

// MeshShape is a shape statement produced from a host mesh.
type MeshShape struct {
	Type      string
	Params    *paramset.ParameterSet
	Triangles int

	indices []int
	points  []float32
	normals []float32
	uvs     []float32
}

// Properties renders the shape as an inlined mesh in the scene.shapes
// namespace.
func (m *MeshShape) Properties(name string) *props.Properties {
	p := props.New(
		props.NewProperty(props.ShapeKey(name, "type"), "inlinedmesh"),
		props.NewProperty(props.ShapeKey(name, "vertices"), m.points),
		props.NewProperty(props.ShapeKey(name, "faces"), m.indices),
		props.NewProperty(props.ShapeKey(name, "normals"), m.normals),
	)
	if m.uvs != nil {
		p.Set(props.NewProperty(props.ShapeKey(name, "uvs"), m.uvs))
	}
	return p
}

// BuildTriangleMesh flattens the faces of mesh that use the given material
// slot into an indexed triangle mesh. A negative slot selects all faces.
//
// Each face is fan triangulated over its own vertex run so a quad (0, 1, 2, 3)
// yields the triangles (0, 1, 2) and (0, 2, 3). Positions, normals and uvs
// are emitted per face vertex. Smooth faces use the vertex normals and flat
// faces the face normal. Meshes without a uv layer get no uv parameter.
func BuildTriangleMesh(mesh *host.Mesh, slot int) *MeshShape {
	var (
		indices []int
		points  []float32
		normals []float32
		uvs     []float32
	)

	for faceIndex := range mesh.Faces {
		face := &mesh.Faces[faceIndex]
		if (slot >= 0 && face.MaterialIndex != slot) || len(face.Verts) < 3 {
			continue
		}

		base := len(points) / 3
		flat := face.FlatNormal(mesh.Vertices)
		for vertIndex, v := range face.Verts {
			vert := mesh.Vertices[v]
			points = append(points, vert.Co[0], vert.Co[1], vert.Co[2])

			n := flat
			if face.Smooth {
				n = vert.Normal
			}
			normals = append(normals, n[0], n[1], n[2])

			if mesh.HasUV {
				var uv types.Vec2
				if vertIndex < len(face.UVs) {
					uv = face.UVs[vertIndex]
				}
				uvs = append(uvs, uv[0], uv[1])
			}
		}

		for k := 1; k+1 < len(face.Verts); k++ {
			indices = append(indices, base, base+k, base+k+1)
		}
	}

	ps := paramset.New().
		AddIntegers("indices", indices).
		AddFloats("P", points).
		AddFloats("N", normals)
	if mesh.HasUV {
		ps.AddFloats("uv", uvs)
	}

	return &MeshShape{
		Type:      "trianglemesh",
		Params:    ps,
		Triangles: len(indices) / 3,
		indices:   indices,
		points:    points,
		normals:   normals,
		uvs:       uvs,
	}
}

func meshShapeName(mesh *host.Mesh, slot int) string {
	return fmt.Sprintf("%s_%d", mesh.Name, slot)
}

// exportMesh writes one attribute block per material slot of a mesh object.
func (s *Session) exportMesh(obj *host.Object, mesh *host.Mesh, stats *Stats) (*cache.ExportedObject, error) {
	if err := s.ctx.Select(api.Geometry); err != nil {
		return nil, err
	}

	exported := cache.NewExportedObject(obj)
	for _, slot := range mesh.MaterialSlots() {
		shape := BuildTriangleMesh(mesh, slot)
		if shape.Triangles == 0 {
			continue
		}

		world := s.worldMatrix(obj.Matrix)
		matName := s.slotMaterial(obj, slot)
		err := s.attributeBlock(func() error {
			if err := s.ctx.Transform(world); err != nil {
				return err
			}
			return s.slotShape(matName, shape)
		})
		if err != nil {
			return nil, err
		}

		data := cache.ExportedObjectData{
			ObjectName:    fmt.Sprintf("%s_%d", obj.Name, slot),
			MeshName:      meshShapeName(mesh, slot),
			MaterialName:  matName,
			MaterialIndex: slot,
		}
		if err = s.scene.Parse(shape.Properties(data.MeshName).SetAll(objectProperties(data, world))); err != nil {
			return nil, err
		}

		stats.Triangles += shape.Triangles
		exported.Data = append(exported.Data, data)
	}
	return exported, nil
}

// objectProperties binds a shape and material in the scene.objects
// namespace.
func objectProperties(data cache.ExportedObjectData, world types.Mat4) *props.Properties {
	return props.New(
		props.NewProperty(props.ObjectKey(data.ObjectName, "shape"), data.MeshName),
		props.NewProperty(props.ObjectKey(data.ObjectName, "material"), data.MaterialName),
		props.NewProperty(props.ObjectKey(data.ObjectName, "transformation"), world.Floats()),
	)
}

// deleteStaleObjects removes the mesh objects of previous that are not part
// of current. A nil current removes them all.
func (s *Session) deleteStaleObjects(previous, current *cache.ExportedObject) error {
	keep := make(map[string]bool)
	if current != nil {
		for _, d := range current.Data {
			keep[d.ObjectName] = true
		}
	}
	for _, d := range previous.Data {
		if d.LightType != "" || keep[d.ObjectName] {
			continue
		}
		if err := s.scene.DeleteObject(d.ObjectName); err != nil {
			return err
		}
	}
	return nil
}

// exportDupli writes an instance of a mesh object. The instanced mesh is
// defined once per pass.
func (s *Session) exportDupli(d host.Dupli, stats *Stats) error {
	mesh := d.Object.Mesh()
	if mesh == nil {
		s.logger.Debugf("skipping instance of non-mesh object %q", d.Object.Name)
		return nil
	}

	if err := s.ctx.Select(api.Geometry); err != nil {
		return err
	}

	instanceName := mesh.Name + "_instance"
	if !s.pass.definedInstances[mesh] {
		if err := s.defineInstance(d.Object, mesh, instanceName); err != nil {
			return err
		}
		s.pass.definedInstances[mesh] = true
	}

	world := s.worldMatrix(d.Matrix)
	err := s.attributeBlock(func() error {
		if err := s.ctx.Transform(world); err != nil {
			return err
		}
		return s.ctx.ObjectInstance(instanceName)
	})
	if err != nil {
		return err
	}

	name := d.Object.Name
	if d.Duplicator != nil {
		name = d.Duplicator.Name + "_" + name
	}
	name = fmt.Sprintf("%s_%d", name, stats.Instances)

	// Each slot of the instanced mesh becomes an object sharing the shape
	// defined with the instance.
	p := props.New()
	for _, slot := range mesh.MaterialSlots() {
		data := cache.ExportedObjectData{
			ObjectName:   fmt.Sprintf("%s_%d", name, slot),
			MeshName:     meshShapeName(mesh, slot),
			MaterialName: s.slotMaterial(d.Object, slot),
		}
		p.SetAll(objectProperties(data, world))
		s.pass.instanceObjects[data.ObjectName] = true
	}
	if err = s.scene.Parse(p); err != nil {
		return err
	}

	exported := cache.NewExportedObject(d.Object, cache.ExportedObjectData{
		ObjectName: name,
		MeshName:   instanceName,
	})
	s.cache.Add(d.Object, exported, &cache.DupliKey{Object: d.Object, Duplicator: d.Duplicator})
	stats.Instances++
	return nil
}

func (s *Session) defineInstance(obj *host.Object, mesh *host.Mesh, name string) error {
	if err := s.ctx.ObjectBegin(name); err != nil {
		return err
	}
	for _, slot := range mesh.MaterialSlots() {
		shape := BuildTriangleMesh(mesh, slot)
		if shape.Triangles == 0 {
			continue
		}
		matName := s.slotMaterial(obj, slot)
		err := s.attributeBlock(func() error {
			return s.slotShape(matName, shape)
		})
		if err != nil {
			return err
		}
		if err = s.scene.Parse(shape.Properties(meshShapeName(mesh, slot))); err != nil {
			return err
		}
	}
	return s.ctx.ObjectEnd()
}

func (s *Session) attributeBlock(body func() error) error {
	if err := s.ctx.AttributeBegin(); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	return s.ctx.AttributeEnd()
}
