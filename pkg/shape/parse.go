package shape

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseRecord decodes a YAML or JSON object into a Record, keeping the key
// order of the document. Nested objects become nested records and arrays
// become []any.
func ParseRecord(data []byte) (*Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}
	if doc.Kind == 0 {
		return &Record{}, nil
	}

	v, err := nodeValue(&doc)
	if err != nil {
		return nil, err
	}
	r, ok := v.(*Record)
	if !ok {
		return nil, fmt.Errorf("failed to parse record: top level is %s, not an object", describe(v))
	}
	return r, nil
}

// MarshalYAML lets records be encoded with their key order intact.
func (m *Map[V]) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	var err error
	m.Each(func(k string, v V) bool {
		var valueNode yaml.Node
		if err = valueNode.Encode(any(v)); err != nil {
			return false
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&valueNode,
		)
		return true
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.MappingNode:
		r := &Record{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			r.Set(key, v)
		}
		return r, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("failed to parse record value at line %d: %w", n.Line, err)
		}
		return v, nil
	}
}
