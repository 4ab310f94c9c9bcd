package yamlscene

import (
	"fmt"
	"strings"

	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/types"
)

func buildMesh(md *meshDoc) (*host.Mesh, error) {
	if len(md.Normals) != 0 && len(md.Normals) != len(md.Vertices) {
		return nil, fmt.Errorf("yamlscene: mesh %q: expected %d normals; got %d", md.Name, len(md.Vertices), len(md.Normals))
	}

	mesh := &host.Mesh{
		Name:     md.Name,
		Vertices: make([]host.Vertex, len(md.Vertices)),
		Faces:    make([]host.Face, 0, len(md.Faces)),
	}
	for index, co := range md.Vertices {
		mesh.Vertices[index].Co = co
		if len(md.Normals) != 0 {
			mesh.Vertices[index].Normal = md.Normals[index]
		}
	}

	for faceIndex, fd := range md.Faces {
		if len(fd.Verts) < 3 {
			return nil, fmt.Errorf("yamlscene: mesh %q: face %d has %d vertices; expected at least 3", md.Name, faceIndex, len(fd.Verts))
		}
		for _, v := range fd.Verts {
			if v < 0 || v >= len(md.Vertices) {
				return nil, fmt.Errorf("yamlscene: mesh %q: face %d references out of bounds vertex %d", md.Name, faceIndex, v)
			}
		}
		if len(fd.UVs) != 0 && len(fd.UVs) != len(fd.Verts) {
			return nil, fmt.Errorf("yamlscene: mesh %q: face %d has %d uvs for %d vertices", md.Name, faceIndex, len(fd.UVs), len(fd.Verts))
		}
		if fd.Material < 0 {
			return nil, fmt.Errorf("yamlscene: mesh %q: face %d has negative material index", md.Name, faceIndex)
		}

		face := host.Face{
			Verts:         fd.Verts,
			Smooth:        fd.Smooth,
			MaterialIndex: fd.Material,
			UVs:           fd.UVs,
		}
		face.Normal = face.FlatNormal(mesh.Vertices)
		if len(fd.UVs) != 0 {
			mesh.HasUV = true
		}
		mesh.Faces = append(mesh.Faces, face)
	}

	if len(md.Normals) == 0 {
		smoothNormals(mesh)
	}
	return mesh, nil
}

// smoothNormals averages the normals of the faces sharing each vertex.
func smoothNormals(mesh *host.Mesh) {
	for _, f := range mesh.Faces {
		for _, v := range f.Verts {
			mesh.Vertices[v].Normal = mesh.Vertices[v].Normal.Add(f.Normal)
		}
	}
	for index := range mesh.Vertices {
		mesh.Vertices[index].Normal = mesh.Vertices[index].Normal.Normalize()
	}
}

var sunComponents = map[string]host.SunComponents{
	"sun":     host.SunDisk,
	"sky":     host.SunSky,
	"distant": host.SunDistant,
}

var areaShapes = map[string]host.AreaShape{
	"":          host.AreaSquare,
	"SQUARE":    host.AreaSquare,
	"RECTANGLE": host.AreaRectangle,
}

func buildLamp(ld *lampDoc) (*host.Lamp, error) {
	lamp := &host.Lamp{
		Name:       ld.Name,
		Energy:     ld.Energy,
		Color:      ld.Color,
		Gain:       types.XYZ(1, 1, 1),
		Lightgroup: ld.Lightgroup,
		Importance: 1,
	}
	if ld.Gain != nil {
		lamp.Gain = *ld.Gain
	}
	if ld.Importance != nil {
		lamp.Importance = *ld.Importance
	}

	switch strings.ToUpper(ld.Type) {
	case "SUN":
		params := &host.SunParams{
			Turbidity:       ld.Turbidity,
			GroundAlbedo:    ld.GroundAlbedo,
			RelSize:         ld.RelSize,
			Theta:           ld.Theta,
			VisibleIndirect: ld.VisibleIndirect,
		}
		for _, name := range ld.Components {
			c, known := sunComponents[strings.ToLower(name)]
			if !known {
				return nil, fmt.Errorf("yamlscene: lamp %q: unknown sun component %q", ld.Name, name)
			}
			params.Components |= c
		}
		if params.Components == 0 {
			params.Components = host.DefaultSunComponents
		}
		lamp.Params = params
	case "HEMI":
		lamp.Params = &host.HemiParams{MapPath: ld.Map, Gamma: ld.Gamma}
	case "POINT":
		lamp.Params = &host.PointParams{
			IESPath:  ld.IES,
			MapPath:  ld.Map,
			Power:    ld.Power,
			Efficacy: ld.Efficacy,
		}
	case "SPOT":
		lamp.Params = &host.SpotParams{
			SpotSize:  ld.SpotSize,
			SpotBlend: ld.SpotBlend,
			Projector: ld.Projector,
			MapPath:   ld.Map,
		}
	case "AREA":
		shape, known := areaShapes[strings.ToUpper(ld.Shape)]
		if !known {
			return nil, fmt.Errorf("yamlscene: lamp %q: unknown area shape %q", ld.Name, ld.Shape)
		}
		lamp.Params = &host.AreaParams{
			Shape:    shape,
			Size:     ld.Size,
			SizeY:    ld.SizeY,
			Laser:    ld.Laser,
			Power:    ld.Power,
			Efficacy: ld.Efficacy,
		}
	default:
		// Rejected by the exporter which names the offending object.
		lamp.Params = &host.UnsupportedParams{TypeName: ld.Type}
	}
	return lamp, nil
}
