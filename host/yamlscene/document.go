package yamlscene

import (
	"github.com/achilleasa/luxport/types"
	"gopkg.in/yaml.v3"
)

// The on-disk layout of a scene dump. Angles are in radians and matrices
// are column-major, as stored by the host application.
type document struct {
	Name      string        `yaml:"name,omitempty"`
	Camera    *cameraDoc    `yaml:"camera,omitempty"`
	Materials []materialDoc `yaml:"materials,omitempty"`
	Meshes    []meshDoc     `yaml:"meshes,omitempty"`
	Lamps     []lampDoc     `yaml:"lamps,omitempty"`
	Objects   []objectDoc   `yaml:"objects,omitempty"`
	Duplis    []dupliDoc    `yaml:"duplis,omitempty"`
}

// transformDoc is either a full matrix or a location/rotation/scale triple.
type transformDoc struct {
	Matrix   []float32   `yaml:"matrix,omitempty"`
	Location *types.Vec3 `yaml:"location,omitempty"`

	// Quaternion in x, y, z, w order.
	Rotation *[4]float32 `yaml:"rotation,omitempty"`
	Scale    *types.Vec3 `yaml:"scale,omitempty"`
}

type cameraDoc struct {
	Name         string `yaml:"name"`
	transformDoc `yaml:",inline"`
	FOV          float32 `yaml:"fov,omitempty"`
	ClipStart    float32 `yaml:"clip_start,omitempty"`
	ClipEnd      float32 `yaml:"clip_end,omitempty"`
	Type         string  `yaml:"type,omitempty"`
}

type materialDoc struct {
	Name         string     `yaml:"name"`
	DiffuseColor types.Vec3 `yaml:"diffuse_color"`

	// Name of the output node; defaults to the first OUTPUT_MATERIAL node.
	Output string    `yaml:"output,omitempty"`
	Nodes  []nodeDoc `yaml:"nodes,omitempty"`
}

type nodeDoc struct {
	Name   string      `yaml:"name"`
	Type   string      `yaml:"type"`
	Inputs []socketDoc `yaml:"inputs,omitempty"`

	// A float or a 3/4 component color.
	Value     yaml.Node `yaml:"value,omitempty"`
	Image     string    `yaml:"image,omitempty"`
	BlendType string    `yaml:"blend_type,omitempty"`
}

type socketDoc struct {
	Name  string    `yaml:"name"`
	Value yaml.Node `yaml:"value,omitempty"`
	Link  *linkDoc  `yaml:"link,omitempty"`
}

type linkDoc struct {
	Node   string `yaml:"node"`
	Socket string `yaml:"socket,omitempty"`
}

type meshDoc struct {
	Name     string       `yaml:"name"`
	Vertices []types.Vec3 `yaml:"vertices"`

	// Optional per vertex normals.
	Normals []types.Vec3 `yaml:"normals,omitempty"`
	Faces   []faceDoc    `yaml:"faces"`
}

type faceDoc struct {
	Verts    []int        `yaml:"verts"`
	Smooth   bool         `yaml:"smooth,omitempty"`
	Material int          `yaml:"material,omitempty"`
	UVs      []types.Vec2 `yaml:"uvs,omitempty"`
}

type lampDoc struct {
	Name       string      `yaml:"name"`
	Type       string      `yaml:"type"`
	Energy     float32     `yaml:"energy"`
	Color      types.Vec3  `yaml:"color"`
	Gain       *types.Vec3 `yaml:"gain,omitempty"`
	Lightgroup string      `yaml:"lightgroup,omitempty"`
	Importance *float32    `yaml:"importance,omitempty"`

	// sun
	Components      []string   `yaml:"components,omitempty"`
	Turbidity       float32    `yaml:"turbidity,omitempty"`
	GroundAlbedo    types.Vec3 `yaml:"ground_albedo,omitempty"`
	RelSize         float32    `yaml:"relsize,omitempty"`
	Theta           float32    `yaml:"theta,omitempty"`
	VisibleIndirect bool       `yaml:"visible_indirect,omitempty"`

	// hemi, point, spot
	Map   string  `yaml:"map,omitempty"`
	Gamma float32 `yaml:"gamma,omitempty"`
	IES   string  `yaml:"ies,omitempty"`

	// point, area
	Power    float32 `yaml:"power,omitempty"`
	Efficacy float32 `yaml:"efficacy,omitempty"`

	// spot
	SpotSize  float32 `yaml:"spot_size,omitempty"`
	SpotBlend float32 `yaml:"spot_blend,omitempty"`
	Projector bool    `yaml:"projector,omitempty"`

	// area
	Shape string  `yaml:"shape,omitempty"`
	Size  float32 `yaml:"size,omitempty"`
	SizeY float32 `yaml:"size_y,omitempty"`
	Laser bool    `yaml:"laser,omitempty"`
}

type objectDoc struct {
	Name string `yaml:"name"`

	// Name of a mesh or lamp data block.
	Data         string `yaml:"data,omitempty"`
	transformDoc `yaml:",inline"`

	// Material slots by name; an empty name leaves the slot unassigned.
	Materials []string `yaml:"materials,omitempty"`
	Hidden    bool     `yaml:"hidden,omitempty"`
}

type dupliDoc struct {
	Object       string `yaml:"object"`
	Duplicator   string `yaml:"duplicator,omitempty"`
	transformDoc `yaml:",inline"`
}
