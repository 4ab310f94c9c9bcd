// Package api wraps the classic renderer scene API. Statements are either
// handed to a live binding or written out as renderer scene files.
package api

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/achilleasa/luxport/paramset"
	"github.com/achilleasa/luxport/types"
)

// Stream selects the output a FileContext writes statements to.
type Stream int

const (
	// Render settings, camera, lights and world block.
	Main Stream = iota
	Materials
	Geometry
	numStreams
)

func (s Stream) String() string {
	switch s {
	case Main:
		return "main"
	case Materials:
		return "materials"
	case Geometry:
		return "geometry"
	}
	return "stream(" + strconv.Itoa(int(s)) + ")"
}

// Context receives classic scene API statements.
type Context interface {
	// Select the stream that receives subsequent statements.
	Select(stream Stream) error

	Sampler(name string, ps *paramset.ParameterSet) error
	Accelerator(name string, ps *paramset.ParameterSet) error
	SurfaceIntegrator(name string, ps *paramset.ParameterSet) error
	VolumeIntegrator(name string, ps *paramset.ParameterSet) error
	PixelFilter(name string, ps *paramset.ParameterSet) error
	Camera(name string, ps *paramset.ParameterSet) error
	Film(name string, ps *paramset.ParameterSet) error
	LookAt(eye, target, up types.Vec3) error

	WorldBegin() error
	WorldEnd() error

	AttributeBegin() error
	AttributeEnd() error
	Transform(m types.Mat4) error

	ObjectBegin(name string) error
	ObjectEnd() error
	ObjectInstance(name string) error

	LightGroup(name string, ps *paramset.ParameterSet) error
	LightSource(name string, ps *paramset.ParameterSet) error
	AreaLightSource(name string, ps *paramset.ParameterSet) error
	Shape(name string, ps *paramset.ParameterSet) error

	// Texture defines a named texture; variant is "float" or "color".
	Texture(name, variant, texType string, ps *paramset.ParameterSet) error
	MakeNamedMaterial(name string, ps *paramset.ParameterSet) error
	NamedMaterial(name string) error
}

// FormatStatement renders a statement in the classic scene file grammar:
// the directive followed by its quoted arguments on one line and each
// parameter on its own indented line.
func FormatStatement(directive string, ps *paramset.ParameterSet, args ...string) string {
	var buf bytes.Buffer
	buf.WriteString(directive)
	for _, arg := range args {
		buf.WriteByte(' ')
		buf.WriteString(strconv.Quote(arg))
	}
	buf.WriteByte('\n')
	if ps != nil {
		ps.WriteTo(&buf)
	}
	return buf.String()
}

func formatLookAt(eye, target, up types.Vec3) string {
	return fmt.Sprintf("LookAt %s %s %s\n", formatFloats(eye[:]), formatFloats(target[:]), formatFloats(up[:]))
}

func formatTransform(m types.Mat4) string {
	return fmt.Sprintf("Transform [%s]\n", formatFloats(m.Floats()))
}

func formatFloats(values []float32) string {
	out := make([]string, len(values))
	for index, v := range values {
		out[index] = strconv.FormatFloat(float64(v), 'f', 6, 32)
	}
	return strings.Join(out, " ")
}
