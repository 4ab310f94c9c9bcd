package host

import "github.com/achilleasa/luxport/types"

// Lamp is a light data block. Params selects the light type.
type Lamp struct {
	Name string

	Energy float32
	Color  types.Vec3

	// Per channel gain factors.
	Gain types.Vec3

	// Lightgroup name; empty selects the default group.
	Lightgroup string

	Importance float32

	Params LightParams
}

func (l *Lamp) DataName() string { return l.Name }
func (*Lamp) isObjectData()      {}

// LightParams is implemented by the per light type parameter blocks. The set
// of implementations is closed.
type LightParams interface {
	LightType() string
	isLightParams()
}

// SunComponents selects which lights a sun lamp exports.
type SunComponents uint8

const (
	SunDisk SunComponents = 1 << iota
	SunSky
	SunDistant
)

// DefaultSunComponents is used by sun lamps that select no components.
const DefaultSunComponents = SunDisk | SunSky

// Has returns true if c includes all bits of other.
func (c SunComponents) Has(other SunComponents) bool {
	return c&other == other
}

// SunParams configures a sun lamp.
type SunParams struct {
	// Zero selects DefaultSunComponents.
	Components   SunComponents
	Turbidity    float32
	GroundAlbedo types.Vec3
	RelSize      float32

	// Distant light half angle in radians.
	Theta float32

	VisibleIndirect bool
}

// HemiParams configures an environment lamp.
type HemiParams struct {
	MapPath string
	Gamma   float32
}

// PointParams configures a point lamp.
type PointParams struct {
	IESPath  string
	MapPath  string
	Power    float32
	Efficacy float32
}

// SpotParams configures a spot lamp. SpotSize is the full cone angle in
// radians and SpotBlend the penumbra fraction.
type SpotParams struct {
	SpotSize  float32
	SpotBlend float32
	Projector bool
	MapPath   string
}

// AreaShape is the outline of an area lamp.
type AreaShape int

const (
	AreaSquare AreaShape = iota
	AreaRectangle
)

// AreaParams configures an area lamp.
type AreaParams struct {
	Shape    AreaShape
	Size     float32
	SizeY    float32
	Laser    bool
	Power    float32
	Efficacy float32
}

// UnsupportedParams marks a lamp whose type the exporters do not know.
type UnsupportedParams struct {
	TypeName string
}

func (*SunParams) LightType() string           { return "SUN" }
func (*HemiParams) LightType() string          { return "HEMI" }
func (*PointParams) LightType() string         { return "POINT" }
func (*SpotParams) LightType() string          { return "SPOT" }
func (*AreaParams) LightType() string          { return "AREA" }
func (p *UnsupportedParams) LightType() string { return p.TypeName }

func (*SunParams) isLightParams()         {}
func (*HemiParams) isLightParams()        {}
func (*PointParams) isLightParams()       {}
func (*SpotParams) isLightParams()        {}
func (*AreaParams) isLightParams()        {}
func (*UnsupportedParams) isLightParams() {}
