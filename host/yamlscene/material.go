package yamlscene

import (
	"fmt"

	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/types"
	"gopkg.in/yaml.v3"
)

// buildMaterial decodes a material and resolves the links of its node
// tree by node name.
func buildMaterial(md *materialDoc) (*host.Material, error) {
	mat := &host.Material{
		Name:         md.Name,
		DiffuseColor: md.DiffuseColor,
	}
	if len(md.Nodes) == 0 {
		return mat, nil
	}

	tree := &host.NodeTree{}
	byName := make(map[string]*host.Node, len(md.Nodes))
	for _, nd := range md.Nodes {
		if _, exists := byName[nd.Name]; exists {
			return nil, fmt.Errorf("yamlscene: material %q: node %q already defined", md.Name, nd.Name)
		}

		value, err := socketValue(&nd.Value)
		if err != nil {
			return nil, fmt.Errorf("yamlscene: material %q: node %q: %s", md.Name, nd.Name, err.Error())
		}
		n := &host.Node{
			Name:      nd.Name,
			Kind:      host.ParseNodeKind(nd.Type),
			TypeName:  nd.Type,
			Value:     value,
			Image:     nd.Image,
			BlendType: nd.BlendType,
		}
		byName[n.Name] = n
		tree.Nodes = append(tree.Nodes, n)
	}

	for index, nd := range md.Nodes {
		n := tree.Nodes[index]
		for _, sd := range nd.Inputs {
			def, err := socketValue(&sd.Value)
			if err != nil {
				return nil, fmt.Errorf("yamlscene: material %q: input %q of node %q: %s", md.Name, sd.Name, nd.Name, err.Error())
			}
			s := &host.Socket{Name: sd.Name, Default: def}
			if sd.Link != nil {
				from, exists := byName[sd.Link.Node]
				if !exists {
					return nil, fmt.Errorf("yamlscene: material %q: input %q of node %q links to unknown node %q", md.Name, sd.Name, nd.Name, sd.Link.Node)
				}
				s.Link = &host.Link{From: from, Socket: sd.Link.Socket}
			}
			n.Inputs = append(n.Inputs, s)
		}
	}

	if md.Output != "" {
		if tree.Output = byName[md.Output]; tree.Output == nil {
			return nil, fmt.Errorf("yamlscene: material %q: unknown output node %q", md.Name, md.Output)
		}
	} else {
		for _, n := range tree.Nodes {
			if n.Kind == host.NodeOutputMaterial {
				tree.Output = n
				break
			}
		}
	}

	mat.Tree = tree
	return mat, nil
}

// socketValue decodes a scalar into a float value and a 3 or 4 element
// sequence into a color.
func socketValue(node *yaml.Node) (host.SocketValue, error) {
	switch node.Kind {
	case 0:
		return host.SocketValue{}, nil
	case yaml.ScalarNode:
		var f float32
		if err := node.Decode(&f); err != nil {
			return host.SocketValue{}, err
		}
		return host.FloatValue(f), nil
	case yaml.SequenceNode:
		var c []float32
		if err := node.Decode(&c); err != nil {
			return host.SocketValue{}, err
		}
		switch len(c) {
		case 3:
			return host.ColorValue(types.XYZ(c[0], c[1], c[2])), nil
		case 4:
			return host.SocketValue{Kind: host.ValueColor, Color: types.XYZW(c[0], c[1], c[2], c[3])}, nil
		}
		return host.SocketValue{}, fmt.Errorf("expected 3 or 4 color components; got %d", len(c))
	}
	return host.SocketValue{}, fmt.Errorf("unsupported value at line %d", node.Line)
}
