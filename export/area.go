package export

import (
	"github.com/achilleasa/luxport/api"
	"github.com/achilleasa/luxport/cache"
	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/paramset"
	"github.com/achilleasa/luxport/props"
	"github.com/achilleasa/luxport/types"
)

// areaQuad returns the local vertices of the emitter quad for an area lamp.
// The winding makes the quad face -Z like the host lamp.
func areaQuad(params *host.AreaParams) []types.Vec3 {
	sx := params.Size / 2
	sy := sx
	if params.Shape == host.AreaRectangle {
		sy = params.SizeY / 2
	}
	return []types.Vec3{
		types.XYZ(sx, -sy, 0),
		types.XYZ(-sx, -sy, 0),
		types.XYZ(-sx, sy, 0),
		types.XYZ(sx, sy, 0),
	}
}

var areaQuadIndices = []int{0, 1, 2, 0, 2, 3}

// areaGain scales the lamp gain by the squared world scale to compensate for
// the scaled emitter area.
func areaGain(lamp *host.Lamp, worldScale float32) types.Vec3 {
	return lamp.Gain.Mul(lamp.Energy * worldScale * worldScale)
}

// exportAreaLight exports an area lamp as emissive geometry: a quad mesh
// with a black matte helper material carrying the emission.
func (s *Session) exportAreaLight(obj *host.Object, lamp *host.Lamp, params *host.AreaParams, world types.Mat4) (cache.ExportedObjectData, error) {
	name := obj.Name
	helper := name + "_helper"
	shape := name + "_quad"
	groupID := s.lightgroups.ID(lamp.Lightgroup)
	gain := areaGain(lamp, s.worldScale())

	p := props.New(
		props.NewProperty(props.MaterialKey(helper, "type"), "matte"),
		props.NewProperty(props.MaterialKey(helper, "kd"), types.XYZ(0, 0, 0)),
		props.NewProperty(props.MaterialKey(helper, "emission"), lamp.Color),
		props.NewProperty(props.MaterialKey(helper, "emission.gain"), gain),
		props.NewProperty(props.MaterialKey(helper, "emission.power"), params.Power),
		props.NewProperty(props.MaterialKey(helper, "emission.efficency"), params.Efficacy),
		props.NewProperty(props.MaterialKey(helper, "emission.id"), groupID),
	)
	if lamp.Importance > 0 {
		p.Set(props.NewProperty(props.MaterialKey(helper, "emission.importance"), lamp.Importance))
	}

	// Interactive sessions move the quad through the object transformation
	// so it can be edited live; final renders bake it into the vertices.
	quad := areaQuad(params)
	vertices := make([]float32, 0, len(quad)*3)
	for _, v := range quad {
		if !s.interactive() {
			v = world.TransformPoint(v)
		}
		vertices = append(vertices, v[0], v[1], v[2])
	}
	p.Set(
		props.NewProperty(props.ShapeKey(shape, "type"), "inlinedmesh"),
		props.NewProperty(props.ShapeKey(shape, "vertices"), vertices),
		props.NewProperty(props.ShapeKey(shape, "faces"), areaQuadIndices),
		props.NewProperty(props.ObjectKey(name, "shape"), shape),
		props.NewProperty(props.ObjectKey(name, "material"), helper),
	)
	if s.interactive() {
		p.Set(props.NewProperty(props.ObjectKey(name, "transformation"), world.Floats()))
	}

	if err := s.scene.Parse(p); err != nil {
		return cache.ExportedObjectData{}, err
	}

	if err := s.emitAreaLight(lamp, params, world, quad, gain, groupID); err != nil {
		return cache.ExportedObjectData{}, err
	}

	return cache.ExportedObjectData{
		ObjectName:   name,
		MeshName:     shape,
		MaterialName: helper,
		LightType:    cache.TypeArea,
	}, nil
}

// emitAreaLight writes the classic area light source and its quad into the
// geometry stream.
func (s *Session) emitAreaLight(lamp *host.Lamp, params *host.AreaParams, world types.Mat4, quad []types.Vec3, gain types.Vec3, groupID int) error {
	points := make([]float32, 0, len(quad)*3)
	for _, v := range quad {
		points = append(points, v[0], v[1], v[2])
	}

	if err := s.ctx.Select(api.Geometry); err != nil {
		return err
	}
	return s.attributeBlock(func() error {
		if err := s.ctx.Transform(world); err != nil {
			return err
		}
		if err := s.ctx.LightGroup(s.lightgroups.Names()[groupID], nil); err != nil {
			return err
		}
		err := s.ctx.AreaLightSource("area", paramset.New().
			AddColor("L", lamp.Color.MulVec(gain)).
			AddFloat("power", params.Power).
			AddFloat("efficacy", params.Efficacy),
		)
		if err != nil {
			return err
		}
		return s.ctx.Shape("trianglemesh", paramset.New().
			AddIntegers("indices", areaQuadIndices).
			AddFloats("P", points),
		)
	})
}
