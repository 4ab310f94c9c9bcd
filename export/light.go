package export

import (
	"github.com/achilleasa/luxport/api"
	"github.com/achilleasa/luxport/asset"
	"github.com/achilleasa/luxport/cache"
	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/paramset"
	"github.com/achilleasa/luxport/props"
	"github.com/achilleasa/luxport/types"
)

// Color used by environment lights whose map cannot be found.
var missingMapColor = types.XYZ(1, 0, 1)

// light is a renderer light built from a lamp. Params use the short
// property names of the scene.lights.<name> namespace.
type light struct {
	name      string
	lightType string
	transform *types.Mat4
	params    []props.Property
}

func (l *light) set(name string, values ...interface{}) {
	l.params = append(l.params, props.NewProperty(name, values...))
}

// properties renders the light in the scene.lights namespace.
func (l *light) properties() *props.Properties {
	out := props.New(props.NewProperty(props.LightKey(l.name, "type"), l.lightType))
	if l.transform != nil {
		out.Set(props.NewProperty(props.LightKey(l.name, "transformation"), l.transform.Floats()))
	}
	for _, p := range l.params {
		out.Set(props.NewProperty(props.LightKey(l.name, p.Name), p.Values...))
	}
	return out
}

// Classic light source names and parameter names for the light types and
// properties that have a classic equivalent.
var (
	classicLightTypes = map[string]string{
		"constantinfinite": "infinite",
		"mappoint":         "point",
	}

	classicLightParams = map[string]string{
		"gain":           "L",
		"dir":            "sundir",
		"turbidity":      "turbidity",
		"relsize":        "relsize",
		"theta":          "theta",
		"file":           "mapname",
		"mapfile":        "mapname",
		"iesfile":        "iesname",
		"gamma":          "gamma",
		"power":          "power",
		"efficency":      "efficacy",
		"coneangle":      "coneangle",
		"conedeltaangle": "conedeltaangle",
		"fov":            "fov",
		"importance":     "importance",
	}
)

// classicParams maps light properties to classic parameters. Classic lights
// have no separate color so L carries color times gain.
func classicParams(params []props.Property) *paramset.ParameterSet {
	tint := types.XYZ(1, 1, 1)
	for _, p := range params {
		if p.Name == "color" && len(p.Values) == 3 {
			tint = types.XYZ(p.Float(0), p.Float(1), p.Float(2))
		}
	}

	ps := paramset.New()
	for _, p := range params {
		name, supported := classicLightParams[p.Name]
		if !supported || len(p.Values) == 0 {
			continue
		}

		if name == "L" && len(p.Values) == 3 {
			gain := types.XYZ(p.Float(0), p.Float(1), p.Float(2))
			ps.AddColor(name, tint.MulVec(gain))
			continue
		}

		if len(p.Values) > 1 {
			floats := make([]float32, len(p.Values))
			for index := range p.Values {
				floats[index] = p.Float(index)
			}
			ps.AddFloats(name, floats)
			continue
		}

		switch v := p.Values[0].(type) {
		case float32:
			ps.AddFloat(name, v)
		case int:
			ps.AddInteger(name, v)
		case string:
			ps.AddString(name, v)
		case bool:
			ps.AddBool(name, v)
		}
	}
	return ps
}

// exportLamp exports the renderer lights for a lamp object and registers
// them in current.
func (s *Session) exportLamp(obj *host.Object, lamp *host.Lamp, current cache.LightSet, stats *Stats) (*cache.ExportedObject, error) {
	world := s.worldMatrix(obj.Matrix)

	var lights []*light
	switch params := lamp.Params.(type) {
	case *host.SunParams:
		lights = s.sunLights(obj, lamp, params, world)
	case *host.HemiParams:
		lights = []*light{s.hemiLight(obj, lamp, params, world)}
	case *host.PointParams:
		lights = []*light{s.pointLight(obj, lamp, params, world)}
	case *host.SpotParams:
		lights = []*light{s.spotLight(obj, lamp, params, world)}
	case *host.AreaParams:
		if params.Laser {
			lights = []*light{s.laserLight(obj, lamp, params, world)}
			break
		}
		data, err := s.exportAreaLight(obj, lamp, params, world)
		if err != nil {
			return nil, err
		}
		current.Add(cache.ExportedLight{Name: data.ObjectName, Type: cache.TypeArea})
		stats.AreaLights++
		return cache.NewExportedObject(obj, data), nil
	case *host.UnsupportedParams:
		return nil, &UnknownLightTypeError{Type: params.TypeName, Object: obj.Name}
	default:
		return nil, &UnknownLightTypeError{Type: "", Object: obj.Name}
	}

	exported := cache.NewExportedObject(obj)
	for _, l := range lights {
		if err := s.emitLight(lamp, l); err != nil {
			return nil, err
		}
		current.Add(cache.ExportedLight{Name: l.name, Type: cache.TypeLight})
		exported.Data = append(exported.Data, cache.ExportedObjectData{
			ObjectName: l.name,
			LightType:  cache.TypeLight,
		})
		stats.Lights++
	}
	return exported, nil
}

// emitLight hands a light to the property scene and writes the matching
// classic light source statement.
func (s *Session) emitLight(lamp *host.Lamp, l *light) error {
	groupID := s.lightgroups.ID(lamp.Lightgroup)
	l.set("id", groupID)
	if lamp.Importance > 0 {
		l.set("importance", lamp.Importance)
	}

	if err := s.scene.Parse(l.properties()); err != nil {
		return err
	}

	classicType := l.lightType
	if mapped, found := classicLightTypes[classicType]; found {
		classicType = mapped
	}

	if err := s.ctx.Select(api.Main); err != nil {
		return err
	}
	return s.attributeBlock(func() error {
		if l.transform != nil {
			if err := s.ctx.Transform(*l.transform); err != nil {
				return err
			}
		}
		if err := s.ctx.LightGroup(s.lightgroups.Names()[groupID], nil); err != nil {
			return err
		}
		return s.ctx.LightSource(classicType, classicParams(l.params))
	})
}

func lampGain(lamp *host.Lamp) types.Vec3 {
	return lamp.Gain.Mul(lamp.Energy)
}

// sunLights exports up to three lights for a sun lamp. The light direction
// is the third row of the inverted lamp matrix.
func (s *Session) sunLights(obj *host.Object, lamp *host.Lamp, params *host.SunParams, world types.Mat4) []*light {
	dir := world.Inv().Row(2).Vec3().Normalize()
	components := params.Components
	if components == 0 {
		components = host.DefaultSunComponents
	}

	var lights []*light
	if components.Has(host.SunDisk) {
		sun := &light{name: obj.Name + "_sun", lightType: "sun"}
		sun.set("dir", dir)
		sun.set("turbidity", params.Turbidity)
		sun.set("relsize", params.RelSize)
		sun.set("gain", lampGain(lamp))
		for _, path := range []string{"diffuse", "glossy", "specular"} {
			sun.set("visibility.indirect."+path+".enable", params.VisibleIndirect)
		}
		lights = append(lights, sun)
	}
	if components.Has(host.SunSky) {
		sky := &light{name: obj.Name + "_sky", lightType: "sky2"}
		sky.set("dir", dir)
		sky.set("turbidity", params.Turbidity)
		sky.set("groundalbedo", params.GroundAlbedo)
		sky.set("gain", lampGain(lamp))
		for _, path := range []string{"diffuse", "glossy", "specular"} {
			sky.set("visibility.indirect."+path+".enable", params.VisibleIndirect)
		}
		lights = append(lights, sky)
	}
	if components.Has(host.SunDistant) {
		distant := &light{name: obj.Name + "_distant", lightType: "distant"}
		distant.set("direction", dir.Mul(-1))
		distant.set("theta", types.Degrees(params.Theta))
		distant.set("color", lamp.Color)
		distant.set("gain", lampGain(lamp))
		lights = append(lights, distant)
	}
	return lights
}

// hemiLight exports an image based infinite light when the map resolves and
// a constant one otherwise. Missing maps are replaced by a flat magenta.
func (s *Session) hemiLight(obj *host.Object, lamp *host.Lamp, params *host.HemiParams, world types.Mat4) *light {
	l := &light{name: obj.Name}
	if params.MapPath == "" {
		l.lightType = "constantinfinite"
		l.set("color", lamp.Color)
		l.set("gain", lampGain(lamp))
		return l
	}

	path, found := asset.Locate(params.MapPath, s.assetDir)
	if !found || !asset.IsImage(path) {
		s.logger.Warningf("lamp %q: environment map %q not found; using fallback color", obj.Name, params.MapPath)
		l.lightType = "constantinfinite"
		l.set("color", missingMapColor)
		l.set("gain", lampGain(lamp))
		return l
	}

	// The renderer maps environments mirrored along X compared to the host.
	transform := world.Mul4(types.Scale4(types.XYZ(-1, 1, 1)))
	gamma := params.Gamma
	if gamma == 0 {
		gamma = 1
	}

	l.lightType = "infinite"
	l.transform = &transform
	l.set("file", path)
	l.set("gamma", gamma)
	l.set("gain", lampGain(lamp))
	return l
}

// pointLight exports a mapped point light when an IES profile or a map
// resolves and a plain point light otherwise.
func (s *Session) pointLight(obj *host.Object, lamp *host.Lamp, params *host.PointParams, world types.Mat4) *light {
	l := &light{name: obj.Name, lightType: "point", transform: &world}

	if params.IESPath != "" {
		if path, found := asset.Locate(params.IESPath, s.assetDir); found && asset.IsIES(path) {
			l.lightType = "mappoint"
			l.set("iesfile", path)
		} else {
			s.logger.Warningf("lamp %q: IES profile %q not found", obj.Name, params.IESPath)
		}
	}
	if params.MapPath != "" {
		if path, found := asset.Locate(params.MapPath, s.assetDir); found && asset.IsImage(path) {
			l.lightType = "mappoint"
			l.set("mapfile", path)
		} else {
			s.logger.Warningf("lamp %q: map %q not found", obj.Name, params.MapPath)
		}
	}

	l.set("color", lamp.Color)
	l.set("gain", lampGain(lamp))
	l.set("power", params.Power)
	l.set("efficency", params.Efficacy)
	return l
}

// spotLight exports a spot or, for projectors with a valid map, a
// projection light.
func (s *Session) spotLight(obj *host.Object, lamp *host.Lamp, params *host.SpotParams, world types.Mat4) *light {
	l := &light{name: obj.Name, lightType: "spot", transform: &world}

	if params.Projector {
		path, found := asset.Locate(params.MapPath, s.assetDir)
		if found && asset.IsImage(path) {
			// Align the projected image with the host orientation
			transform := world.Mul4(types.RotateZ4(types.Radians(-90)))
			l.lightType = "projection"
			l.transform = &transform
			l.set("mapfile", path)
			l.set("fov", types.Degrees(params.SpotSize))
			l.set("color", lamp.Color)
			l.set("gain", lampGain(lamp))
			return l
		}
		s.logger.Warningf("lamp %q: projector map %q not found; exporting a spot light", obj.Name, params.MapPath)
	}

	coneAngle, coneDelta := spotAngles(params.SpotSize, params.SpotBlend)
	l.set("coneangle", coneAngle)
	l.set("conedeltaangle", coneDelta)
	l.set("color", lamp.Color)
	l.set("gain", lampGain(lamp))
	return l
}

// spotAngles converts the host spot size (full cone angle in radians) and
// blend into the renderer cone and penumbra angles in degrees.
func spotAngles(size, blend float32) (coneAngle, coneDelta float32) {
	return types.Degrees(size) / 2, types.Degrees(size * blend / 2)
}

func (s *Session) laserLight(obj *host.Object, lamp *host.Lamp, params *host.AreaParams, world types.Mat4) *light {
	l := &light{name: obj.Name, lightType: "laser", transform: &world}
	l.set("color", lamp.Color)
	l.set("gain", lampGain(lamp))
	l.set("power", params.Power)
	l.set("efficency", params.Efficacy)
	return l
}
