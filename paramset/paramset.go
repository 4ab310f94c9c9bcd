// Package paramset implements the typed parameter lists attached to classic
// scene API statements.
package paramset

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/achilleasa/luxport/types"
)

// Param is a single named parameter.
type Param struct {
	Name  string
	Type  Type
	Token string
	Value interface{}

	// Set for parameters that failed classification.
	problem string
}

// Classified returns false if the parameter name (or the value type used to
// add it) did not match the classification table.
func (p Param) Classified() bool {
	return p.problem == ""
}

// String renders the parameter as `"<token> <name>" [<value>]`. Unclassified
// parameters render as a comment so they remain visible in the output
// without breaking the statement.
func (p Param) String() string {
	if !p.Classified() {
		return fmt.Sprintf("# %s parameter %q", p.problem, p.Name)
	}
	return fmt.Sprintf(`"%s %s" [%s]`, p.Token, p.Name, formatValue(p.Value))
}

// ParameterSet is an ordered list of parameters.
type ParameterSet struct {
	params []Param

	// Classifications that take precedence over the fixed table.
	overrides map[string]classification
}

// New creates an empty parameter set.
func New() *ParameterSet {
	return &ParameterSet{}
}

// NewFloatTexture creates an empty parameter set for a float texture. The
// texture channel parameters (tex1, tex2) are classified as floats.
func NewFloatTexture() *ParameterSet {
	return &ParameterSet{overrides: floatTextureTable}
}

func (ps *ParameterSet) classify(name string) (classification, bool) {
	if c, found := ps.overrides[name]; found {
		return c, true
	}
	c, found := table[name]
	return c, found
}

// AddFloat appends a float parameter.
func (ps *ParameterSet) AddFloat(name string, v float32) *ParameterSet {
	return ps.add(name, Float, v)
}

// AddFloats appends a float vector parameter.
func (ps *ParameterSet) AddFloats(name string, v []float32) *ParameterSet {
	return ps.add(name, FloatVector, v)
}

// AddColor appends an rgb color.
func (ps *ParameterSet) AddColor(name string, c types.Vec3) *ParameterSet {
	return ps.add(name, FloatVector, []float32{c[0], c[1], c[2]})
}

// AddPoint appends a single point.
func (ps *ParameterSet) AddPoint(name string, p types.Vec3) *ParameterSet {
	return ps.add(name, FloatVector, []float32{p[0], p[1], p[2]})
}

// AddNormal appends a single normal.
func (ps *ParameterSet) AddNormal(name string, n types.Vec3) *ParameterSet {
	return ps.add(name, FloatVector, []float32{n[0], n[1], n[2]})
}

// AddVector appends a single direction vector.
func (ps *ParameterSet) AddVector(name string, v types.Vec3) *ParameterSet {
	return ps.add(name, FloatVector, []float32{v[0], v[1], v[2]})
}

// AddInteger appends an integer parameter.
func (ps *ParameterSet) AddInteger(name string, v int) *ParameterSet {
	return ps.add(name, Integer, v)
}

// AddIntegers appends an integer vector parameter.
func (ps *ParameterSet) AddIntegers(name string, v []int) *ParameterSet {
	return ps.add(name, IntegerVector, v)
}

// AddString appends a string parameter.
func (ps *ParameterSet) AddString(name string, v string) *ParameterSet {
	return ps.add(name, String, v)
}

// AddBool appends a bool parameter.
func (ps *ParameterSet) AddBool(name string, v bool) *ParameterSet {
	return ps.add(name, Bool, v)
}

// AddTexture appends a reference to a named texture for a texturable
// parameter.
func (ps *ParameterSet) AddTexture(name string, texture string) *ParameterSet {
	c, known := ps.classify(name)
	p := Param{Name: name, Type: String, Token: "texture", Value: texture}
	switch {
	case !known:
		p.problem = "unclassified"
	case !c.Texturable:
		p.problem = "non-texturable"
	}
	ps.params = append(ps.params, p)
	return ps
}

func (ps *ParameterSet) add(name string, t Type, v interface{}) *ParameterSet {
	c, known := ps.classify(name)
	p := Param{Name: name, Type: t, Token: c.Token, Value: v}
	switch {
	case !known:
		p.problem = "unclassified"
	case c.Type != t:
		p.problem = "mistyped (" + c.Type.String() + ")"
	}
	ps.params = append(ps.params, p)
	return ps
}

// Update merges other into this set. Parameters of other replace existing
// parameters with the same name in place; new names are appended.
func (ps *ParameterSet) Update(other *ParameterSet) *ParameterSet {
	if other == nil {
		return ps
	}
	for _, p := range other.params {
		replaced := false
		for index := range ps.params {
			if ps.params[index].Name == p.Name {
				ps.params[index] = p
				replaced = true
				break
			}
		}
		if !replaced {
			ps.params = append(ps.params, p)
		}
	}
	return ps
}

// Get looks up a parameter by name. If the name appears more than once the
// last entry wins.
func (ps *ParameterSet) Get(name string) (Param, bool) {
	for index := len(ps.params) - 1; index >= 0; index-- {
		if ps.params[index].Name == name {
			return ps.params[index], true
		}
	}
	return Param{}, false
}

// Len returns the number of parameters.
func (ps *ParameterSet) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.params)
}

// Names returns the parameter names in insertion order.
func (ps *ParameterSet) Names() []string {
	names := make([]string, len(ps.params))
	for index, p := range ps.params {
		names[index] = p.Name
	}
	return names
}

// Params returns a copy of the parameter list.
func (ps *ParameterSet) Params() []Param {
	if ps == nil {
		return nil
	}
	return append([]Param(nil), ps.params...)
}

// Lines renders each parameter on its own line.
func (ps *ParameterSet) Lines() []string {
	lines := make([]string, 0, ps.Len())
	for _, p := range ps.Params() {
		lines = append(lines, p.String())
	}
	return lines
}

// WriteTo writes each parameter on its own line prefixed by a tab.
func (ps *ParameterSet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, line := range ps.Lines() {
		n, err := fmt.Fprintf(w, "\t%s\n", line)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String renders the parameter set on a single line.
func (ps *ParameterSet) String() string {
	return strings.Join(ps.Lines(), " ")
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case float32:
		return formatFloat(t)
	case []float32:
		out := make([]string, len(t))
		for index, f := range t {
			out[index] = formatFloat(f)
		}
		return strings.Join(out, " ")
	case int:
		return strconv.Itoa(t)
	case []int:
		out := make([]string, len(t))
		for index, i := range t {
			out[index] = strconv.Itoa(i)
		}
		return strings.Join(out, " ")
	case string:
		return strconv.Quote(t)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', 6, 32)
}
