package api

import (
	"github.com/achilleasa/luxport/paramset"
	"github.com/achilleasa/luxport/types"
)

// Statement is a call captured by a Recorder.
type Statement struct {
	Stream    Stream
	Directive string
	Args      []string
	Params    *paramset.ParameterSet

	// The statement rendered in the scene file grammar.
	Text string
}

// Recorder is an in-memory live binding. It keeps every statement it
// receives in call order.
type Recorder struct {
	Statements []Statement

	current Stream
	counts  map[string]int
	worlds  int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{counts: make(map[string]int)}
}

// Count returns the number of recorded statements for a directive.
func (r *Recorder) Count(directive string) int {
	return r.counts[directive]
}

// Counts returns a copy of the per directive statement counters.
func (r *Recorder) Counts() map[string]int {
	out := make(map[string]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// Find returns the recorded statements matching directive and, if not
// empty, first argument.
func (r *Recorder) Find(directive, name string) []Statement {
	var out []Statement
	for _, s := range r.Statements {
		if s.Directive != directive {
			continue
		}
		if name != "" && (len(s.Args) == 0 || s.Args[0] != name) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Reset discards all recorded statements.
func (r *Recorder) Reset() {
	r.Statements = r.Statements[:0]
	r.counts = make(map[string]int)
	r.current = Main
}

// Worlds returns the number of completed world blocks.
func (r *Recorder) Worlds() int {
	return r.worlds
}

func (r *Recorder) record(directive string, ps *paramset.ParameterSet, args ...string) error {
	r.counts[directive]++
	r.Statements = append(r.Statements, Statement{
		Stream:    r.current,
		Directive: directive,
		Args:      args,
		Params:    ps,
		Text:      FormatStatement(directive, ps, args...),
	})
	return nil
}

func (r *Recorder) Select(stream Stream) error {
	if stream < 0 || stream >= numStreams {
		return ErrUnknownStream
	}
	r.current = stream
	return nil
}

func (r *Recorder) Sampler(name string, ps *paramset.ParameterSet) error {
	return r.record("Sampler", ps, name)
}

func (r *Recorder) Accelerator(name string, ps *paramset.ParameterSet) error {
	return r.record("Accelerator", ps, name)
}

func (r *Recorder) SurfaceIntegrator(name string, ps *paramset.ParameterSet) error {
	return r.record("SurfaceIntegrator", ps, name)
}

func (r *Recorder) VolumeIntegrator(name string, ps *paramset.ParameterSet) error {
	return r.record("VolumeIntegrator", ps, name)
}

func (r *Recorder) PixelFilter(name string, ps *paramset.ParameterSet) error {
	return r.record("PixelFilter", ps, name)
}

func (r *Recorder) Camera(name string, ps *paramset.ParameterSet) error {
	return r.record("Camera", ps, name)
}

func (r *Recorder) Film(name string, ps *paramset.ParameterSet) error {
	return r.record("Film", ps, name)
}

func (r *Recorder) LookAt(eye, target, up types.Vec3) error {
	r.counts["LookAt"]++
	r.Statements = append(r.Statements, Statement{Stream: r.current, Directive: "LookAt", Text: formatLookAt(eye, target, up)})
	return nil
}

func (r *Recorder) WorldBegin() error {
	r.current = Main
	return r.record("WorldBegin", nil)
}

func (r *Recorder) WorldEnd() error {
	r.current = Main
	r.worlds++
	return r.record("WorldEnd", nil)
}

func (r *Recorder) AttributeBegin() error {
	return r.record("AttributeBegin", nil)
}

func (r *Recorder) AttributeEnd() error {
	return r.record("AttributeEnd", nil)
}

func (r *Recorder) Transform(m types.Mat4) error {
	r.counts["Transform"]++
	r.Statements = append(r.Statements, Statement{Stream: r.current, Directive: "Transform", Text: formatTransform(m)})
	return nil
}

func (r *Recorder) ObjectBegin(name string) error {
	return r.record("ObjectBegin", nil, name)
}

func (r *Recorder) ObjectEnd() error {
	return r.record("ObjectEnd", nil)
}

func (r *Recorder) ObjectInstance(name string) error {
	return r.record("ObjectInstance", nil, name)
}

func (r *Recorder) LightGroup(name string, ps *paramset.ParameterSet) error {
	return r.record("LightGroup", ps, name)
}

func (r *Recorder) LightSource(name string, ps *paramset.ParameterSet) error {
	return r.record("LightSource", ps, name)
}

func (r *Recorder) AreaLightSource(name string, ps *paramset.ParameterSet) error {
	return r.record("AreaLightSource", ps, name)
}

func (r *Recorder) Shape(name string, ps *paramset.ParameterSet) error {
	return r.record("Shape", ps, name)
}

func (r *Recorder) Texture(name, variant, texType string, ps *paramset.ParameterSet) error {
	return r.record("Texture", ps, name, variant, texType)
}

func (r *Recorder) MakeNamedMaterial(name string, ps *paramset.ParameterSet) error {
	return r.record("MakeNamedMaterial", ps, name)
}

func (r *Recorder) NamedMaterial(name string) error {
	return r.record("NamedMaterial", nil, name)
}
