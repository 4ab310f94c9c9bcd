package props

import (
	"strings"

	"github.com/achilleasa/luxport/log"
)

// Key prefixes of the scene property namespaces.
const (
	LightsPrefix    = "scene.lights."
	MaterialsPrefix = "scene.materials."
	TexturesPrefix  = "scene.textures."
	ObjectsPrefix   = "scene.objects."
	ShapesPrefix    = "scene.shapes."
	CameraPrefix    = "scene.camera."
)

// LightKey returns the key of a light property.
func LightKey(light, prop string) string { return LightsPrefix + light + "." + prop }

// MaterialKey returns the key of a material property.
func MaterialKey(material, prop string) string { return MaterialsPrefix + material + "." + prop }

// TextureKey returns the key of a texture property.
func TextureKey(texture, prop string) string { return TexturesPrefix + texture + "." + prop }

// ObjectKey returns the key of an object property.
func ObjectKey(object, prop string) string { return ObjectsPrefix + object + "." + prop }

// ShapeKey returns the key of a shape property.
func ShapeKey(shape, prop string) string { return ShapesPrefix + shape + "." + prop }

// CameraKey returns the key of a camera property.
func CameraKey(prop string) string { return CameraPrefix + prop }

// Scene accumulates the properties of a LuxCore scene across export passes.
type Scene struct {
	logger log.Logger
	props  *Properties
	edits  int
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{
		logger: log.New("luxcore scene"),
		props:  New(),
	}
}

// Parse merges props into the scene.
func (s *Scene) Parse(props *Properties) error {
	s.props.SetAll(props)
	s.edits++
	return nil
}

// DeleteLight removes all properties of a light.
func (s *Scene) DeleteLight(name string) error {
	removed := s.props.DeletePrefix(LightsPrefix + name + ".")
	s.logger.Debugf("deleted light %q (%d properties)", name, removed)
	s.edits++
	return nil
}

// DeleteObject removes all properties of an object together with the shape
// and material it references, unless another object still uses them.
func (s *Scene) DeleteObject(name string) error {
	type ownedRef struct{ ref, prefix, target string }
	var owned []ownedRef
	for _, r := range []ownedRef{{ref: "shape", prefix: ShapesPrefix}, {ref: "material", prefix: MaterialsPrefix}} {
		if p, found := s.props.Get(ObjectKey(name, r.ref)); found {
			r.target = p.Str()
			owned = append(owned, r)
		}
	}

	removed := s.props.DeletePrefix(ObjectsPrefix + name + ".")
	for _, r := range owned {
		if !s.referenced(r.ref, r.target) {
			removed += s.props.DeletePrefix(r.prefix + r.target + ".")
		}
	}
	s.logger.Debugf("deleted object %q (%d properties)", name, removed)
	s.edits++
	return nil
}

// referenced returns true if any object property named ref points to target.
func (s *Scene) referenced(ref, target string) bool {
	suffix := "." + ref
	for _, name := range s.props.Names() {
		if !strings.HasPrefix(name, ObjectsPrefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		if p, _ := s.props.Get(name); p.Str() == target {
			return true
		}
	}
	return false
}

// Properties returns the accumulated scene properties.
func (s *Scene) Properties() *Properties {
	return s.props
}

// Edits returns the number of edits applied to the scene.
func (s *Scene) Edits() int {
	return s.edits
}

// Save writes the scene properties to path.
func (s *Scene) Save(path string) error {
	return s.props.Save(path)
}
