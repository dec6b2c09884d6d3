package value

import (
	"gopkg.in/yaml.v3"
)

const strTag = "!!str"

// FromNode converts a decoded YAML node into a value tree.
//
// Document nodes convert to their root. Only !!str scalars become text;
// every other scalar (ints, bools, null, timestamps) becomes KindOther.
// Aliases resolve to the anchored node. Mapping keys are kept as their scalar
// text and are never converted themselves.
func FromNode(n *yaml.Node) *Value {
	if n == nil {
		return nil
	}

	var v *Value
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return FromNode(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return Other("")
		}
		return FromNode(n.Alias)
	case yaml.ScalarNode:
		if n.ShortTag() == strTag {
			v = Text(n.Value)
		} else {
			v = Other(n.Value)
		}
	case yaml.SequenceNode:
		items := make([]*Value, 0, len(n.Content))
		for _, c := range n.Content {
			items = append(items, FromNode(c))
		}
		v = Sequence(items...)
	case yaml.MappingNode:
		entries := make([]Entry, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			entries = append(entries, E(n.Content[i].Value, FromNode(n.Content[i+1])))
		}
		v = Mapping(entries...)
	default:
		v = Other(n.Value)
	}

	v.pos = Position{Line: n.Line, Column: n.Column}
	return v
}

// Parse decodes a single YAML document and converts it into a value tree.
func Parse(data []byte) (*Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return FromNode(&doc), nil
}
