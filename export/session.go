// Package export converts host scenes into renderer scene statements and
// properties.
package export

import (
	"time"

	"github.com/achilleasa/luxport/api"
	"github.com/achilleasa/luxport/cache"
	"github.com/achilleasa/luxport/config"
	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/log"
	"github.com/achilleasa/luxport/material"
	"github.com/achilleasa/luxport/paramset"
	"github.com/achilleasa/luxport/props"
	"github.com/achilleasa/luxport/types"
)

// Name of the placeholder material assigned to faces without a converted
// material.
const DefaultMaterial = "luxport_default"

var defaultMaterialColor = types.XYZ(0.8, 0.8, 0.8)

// LuxScene receives the property based part of the export. It is
// implemented by *props.Scene.
type LuxScene interface {
	Parse(p *props.Properties) error
	DeleteLight(name string) error
	DeleteObject(name string) error
}

// state that only lives for a single Export call.
type passState struct {
	materials        map[*host.Material]string
	areaLights       map[string]*paramset.ParameterSet
	definedInstances map[*host.Mesh]bool
	instanceObjects  map[string]bool
}

// Session owns everything that must persist between the export passes of
// one render or viewport session.
type Session struct {
	logger log.Logger
	cfg    config.Config
	ctx    api.Context
	scene  LuxScene

	cache       *cache.NameCache
	lightgroups *cache.Lightgroups
	lights      cache.LightSet

	// Instance objects written to the scene by the previous pass.
	instances map[string]bool

	converter *material.Converter
	assetDir  string

	pass  passState
	count int
}

// NewSession creates an export session writing statements to ctx and light
// properties to scene.
func NewSession(cfg config.Config, ctx api.Context, scene LuxScene) *Session {
	return &Session{
		logger:      log.New("exporter"),
		cfg:         cfg,
		ctx:         ctx,
		scene:       scene,
		cache:       cache.NewNameCache(),
		lightgroups: cache.NewLightgroups(),
		lights:      cache.NewLightSet(),
		converter:   material.NewConverter(""),
	}
}

// WithAssetDir sets the dir used to resolve relative image, IES and map
// paths.
func (s *Session) WithAssetDir(dir string) *Session {
	s.assetDir = dir
	s.converter = material.NewConverter(dir)
	return s
}

// Cache returns the session name cache.
func (s *Session) Cache() *cache.NameCache {
	return s.cache
}

// Lights returns the lights exported by the last pass.
func (s *Session) Lights() cache.LightSet {
	return s.lights
}

// Lightgroups returns the session lightgroup table.
func (s *Session) Lightgroups() *cache.Lightgroups {
	return s.lightgroups
}

// Passes returns the number of completed export passes.
func (s *Session) Passes() int {
	return s.count
}

func (s *Session) interactive() bool {
	return s.cfg.Scene.Interactive
}

// Objects are only skipped when the renderer keeps the previous pass
// around, which is the case for live bindings.
func (s *Session) incremental() bool {
	return s.interactive() && s.cfg.Output.Mode == string(api.ModeLive)
}

// Export runs one export pass over the scene.
func (s *Session) Export(hs host.Scene) (*Stats, error) {
	if hs == nil {
		return nil, ErrNoScene
	}

	start := time.Now()
	stats := &Stats{}
	s.pass = passState{
		materials:        make(map[*host.Material]string),
		areaLights:       make(map[string]*paramset.ParameterSet),
		definedInstances: make(map[*host.Mesh]bool),
		instanceObjects:  make(map[string]bool),
	}
	s.cache.ResetDuplis()

	if err := s.exportSettings(hs); err != nil {
		return nil, err
	}
	if err := s.ctx.WorldBegin(); err != nil {
		return nil, err
	}
	if err := s.exportMaterials(hs.Materials(), stats); err != nil {
		return nil, err
	}

	current := cache.NewLightSet()
	var visible []*host.Object
	for _, obj := range hs.Objects() {
		if obj.Hidden {
			continue
		}
		visible = append(visible, obj)

		cached, found := s.cache.Object(obj)
		if found && s.incremental() && cached.Revision == obj.Revision {
			s.keepLights(cached, current)
			stats.SkippedObjects++
			continue
		}

		var (
			exported *cache.ExportedObject
			err      error
		)
		switch data := obj.Data.(type) {
		case *host.Mesh:
			exported, err = s.exportMesh(obj, data, stats)
		case *host.Lamp:
			exported, err = s.exportLamp(obj, data, current, stats)
		default:
			s.logger.Debugf("skipping object %q without exportable data", obj.Name)
			continue
		}
		if err != nil {
			return nil, err
		}
		if found {
			if err = s.deleteStaleObjects(cached, exported); err != nil {
				return nil, err
			}
		}

		s.cache.Add(obj, exported, nil)
		stats.Objects++
	}

	for _, d := range hs.Duplis() {
		if err := s.exportDupli(d, stats); err != nil {
			return nil, err
		}
	}

	for _, l := range cache.Removed(s.lights, current) {
		var err error
		if l.Type == cache.TypeArea {
			err = s.scene.DeleteObject(l.Name)
		} else {
			err = s.scene.DeleteLight(l.Name)
		}
		if err != nil {
			return nil, err
		}
		s.logger.Infof("deleted %s light %q", l.Type, l.Name)
		stats.DeletedLights++
	}
	s.lights = current

	dropped := s.cache.Retain(visible)
	for _, exported := range dropped {
		if err := s.deleteStaleObjects(exported, nil); err != nil {
			return nil, err
		}
	}
	if len(dropped) != 0 {
		s.logger.Debugf("dropped %d objects that left the scene", len(dropped))
	}
	for name := range s.instances {
		if s.pass.instanceObjects[name] {
			continue
		}
		if err := s.scene.DeleteObject(name); err != nil {
			return nil, err
		}
	}
	s.instances = s.pass.instanceObjects

	if err := s.ctx.WorldEnd(); err != nil {
		return nil, err
	}

	s.count++
	stats.Elapsed = time.Since(start)
	s.logger.Noticef("exported %q: %d objects, %d instances, %d lights in %s", hs.Name(), stats.Objects, stats.Instances, stats.Lights+stats.AreaLights, stats.Elapsed)
	return stats, nil
}

// keepLights carries the lights of a skipped object over to the current
// pass so they are not deleted.
func (s *Session) keepLights(cached *cache.ExportedObject, current cache.LightSet) {
	for _, d := range cached.Data {
		if d.LightType != "" {
			current.Add(cache.ExportedLight{Name: d.ObjectName, Type: d.LightType})
		}
	}
}

func (s *Session) exportMaterials(mats []*host.Material, stats *Stats) error {
	if err := s.ctx.Select(api.Materials); err != nil {
		return err
	}

	err := s.ctx.MakeNamedMaterial(DefaultMaterial, paramset.New().
		AddString("type", "matte").
		AddColor("Kd", defaultMaterialColor),
	)
	if err != nil {
		return err
	}
	err = s.scene.Parse(props.New(
		props.NewProperty(props.MaterialKey(DefaultMaterial, "type"), "matte"),
		props.NewProperty(props.MaterialKey(DefaultMaterial, "kd"), defaultMaterialColor),
	))
	if err != nil {
		return err
	}

	graphs, errs := s.converter.ConvertAll(mats)
	stats.FailedMaterials = len(errs)
	for index, graph := range graphs {
		if graph == nil {
			continue
		}
		if err = graph.Emit(s.ctx); err != nil {
			return err
		}
		if err = s.scene.Parse(graph.Properties()); err != nil {
			return err
		}
		s.pass.materials[mats[index]] = graph.Root.Name
		if light := graph.AreaLight(); light != nil {
			s.pass.areaLights[graph.Root.Name] = light
		}
		stats.Materials++
	}
	return nil
}

// slotMaterial returns the exported material name for a material slot of
// obj, falling back to the default material.
func (s *Session) slotMaterial(obj *host.Object, slot int) string {
	if slot >= 0 && slot < len(obj.Materials) {
		if name, found := s.pass.materials[obj.Materials[slot]]; found {
			return name
		}
	}
	return DefaultMaterial
}

// slotShape binds a material to the shape of a slot. Emissive materials
// also turn the shape into an area light.
func (s *Session) slotShape(matName string, shape *MeshShape) error {
	if err := s.ctx.NamedMaterial(matName); err != nil {
		return err
	}
	if light, emissive := s.pass.areaLights[matName]; emissive {
		if err := s.ctx.AreaLightSource("area", light); err != nil {
			return err
		}
	}
	return s.ctx.Shape(shape.Type, shape.Params)
}

// worldMatrix applies the world scale to an object transform.
func (s *Session) worldMatrix(m types.Mat4) types.Mat4 {
	scale := s.cfg.Scene.WorldScale
	if scale == 0 || scale == 1 {
		return m
	}
	return types.Scale4(types.XYZ(scale, scale, scale)).Mul4(m)
}

func (s *Session) worldScale() float32 {
	if s.cfg.Scene.WorldScale == 0 {
		return 1
	}
	return s.cfg.Scene.WorldScale
}
