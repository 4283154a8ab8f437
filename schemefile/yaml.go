package schemefile

import (
	"fmt"

	di "github.com/reoring/defaultinput"
	"gopkg.in/yaml.v3"
)

// LoadYAML parses a YAML scheme table. Defaults keep the order of their
// mapping keys as written.
func LoadYAML(data []byte) (*Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, parseIssues(err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	var generic any
	if err := root.Decode(&generic); err != nil {
		return nil, parseIssues(err)
	}
	normalized, err := normalize(generic)
	if err != nil {
		return nil, parseIssues(err)
	}
	if err := validate(normalized); err != nil {
		return nil, err
	}
	return build(normalized, func(fi, pj int) (di.Scheme, error) {
		n := mappingValue(seqItem(mappingValue(seqItem(mappingValue(root, "functions"), fi), "params"), pj), "default")
		if n == nil {
			return di.Scheme{}, fmt.Errorf("default of functions[%d].params[%d] not found", fi, pj)
		}
		return schemeFromYAML(n)
	})
}

// schemeFromYAML converts a node into a Scheme; mappings become structured
// schemes in key order, everything else a scalar.
func schemeFromYAML(n *yaml.Node) (di.Scheme, error) {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		var v any
		if err := n.Decode(&v); err != nil {
			return di.Scheme{}, err
		}
		return di.Scalar(v), nil
	}
	b := di.Object()
	for i := 0; i+1 < len(n.Content); i += 2 {
		child, err := schemeFromYAML(n.Content[i+1])
		if err != nil {
			return di.Scheme{}, err
		}
		b.Field(n.Content[i].Value, child)
	}
	return b.Build()
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func seqItem(n *yaml.Node, i int) *yaml.Node {
	if n == nil || n.Kind != yaml.SequenceNode || i >= len(n.Content) {
		return nil
	}
	return n.Content[i]
}
