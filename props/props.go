// Package props implements the dotted key property bags used by the LuxCore
// scene API.
package props

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/achilleasa/luxport/types"
)

// Property binds a dotted key to one or more values.
type Property struct {
	Name   string
	Values []interface{}
}

// NewProperty creates a property. Vectors are expanded into their
// components.
func NewProperty(name string, values ...interface{}) Property {
	p := Property{Name: name, Values: make([]interface{}, 0, len(values))}
	for _, v := range values {
		switch t := v.(type) {
		case types.Vec3:
			p.Values = append(p.Values, t[0], t[1], t[2])
		case types.Vec2:
			p.Values = append(p.Values, t[0], t[1])
		case []float32:
			for _, f := range t {
				p.Values = append(p.Values, f)
			}
		case []int:
			for _, i := range t {
				p.Values = append(p.Values, i)
			}
		default:
			p.Values = append(p.Values, v)
		}
	}
	return p
}

// String renders the property as `name = v1 v2 ...`.
func (p Property) String() string {
	out := make([]string, len(p.Values))
	for index, v := range p.Values {
		out[index] = formatValue(v)
	}
	return p.Name + " = " + strings.Join(out, " ")
}

// Float returns the i-th value as a float.
func (p Property) Float(index int) float32 {
	if index >= len(p.Values) {
		return 0
	}
	switch t := p.Values[index].(type) {
	case float32:
		return t
	case float64:
		return float32(t)
	case int:
		return float32(t)
	}
	return 0
}

// Str returns the first value as a string.
func (p Property) Str() string {
	if len(p.Values) == 0 {
		return ""
	}
	if s, ok := p.Values[0].(string); ok {
		return s
	}
	return formatValue(p.Values[0])
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strconv.Quote(t)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

// Properties is an ordered property bag. Setting an existing key replaces
// its value but keeps its position.
type Properties struct {
	index map[string]int
	props []Property
}

// New creates a property bag.
func New(props ...Property) *Properties {
	p := &Properties{index: make(map[string]int)}
	return p.Set(props...)
}

// Set adds or replaces properties.
func (p *Properties) Set(props ...Property) *Properties {
	for _, prop := range props {
		if pos, found := p.index[prop.Name]; found {
			p.props[pos] = prop
			continue
		}
		p.index[prop.Name] = len(p.props)
		p.props = append(p.props, prop)
	}
	return p
}

// SetAll copies all properties from other.
func (p *Properties) SetAll(other *Properties) *Properties {
	if other == nil {
		return p
	}
	return p.Set(other.props...)
}

// Get looks up a property by name.
func (p *Properties) Get(name string) (Property, bool) {
	pos, found := p.index[name]
	if !found {
		return Property{}, false
	}
	return p.props[pos], true
}

// Has returns true if name is set.
func (p *Properties) Has(name string) bool {
	_, found := p.index[name]
	return found
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	return len(p.props)
}

// Names returns the property names in insertion order.
func (p *Properties) Names() []string {
	names := make([]string, len(p.props))
	for pos, prop := range p.props {
		names[pos] = prop.Name
	}
	return names
}

// DeletePrefix removes all properties whose name starts with prefix and
// returns the number of removed entries.
func (p *Properties) DeletePrefix(prefix string) int {
	kept := p.props[:0]
	removed := 0
	for _, prop := range p.props {
		if strings.HasPrefix(prop.Name, prefix) {
			removed++
			continue
		}
		kept = append(kept, prop)
	}
	p.props = kept

	p.index = make(map[string]int, len(p.props))
	for pos, prop := range p.props {
		p.index[prop.Name] = pos
	}
	return removed
}

// WriteTo writes one property per line.
func (p *Properties) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, prop := range p.props {
		n, err := fmt.Fprintln(w, prop.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String renders the bag in its text form.
func (p *Properties) String() string {
	var sb strings.Builder
	p.WriteTo(&sb)
	return sb.String()
}

// Save writes the bag to a file.
func (p *Properties) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("props: could not create %s: %s", path, err.Error())
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err = p.WriteTo(w); err != nil {
		return fmt.Errorf("props: could not write %s: %s", path, err.Error())
	}
	return w.Flush()
}
