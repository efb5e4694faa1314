// Package yaml_adapter is the YAML implementation of the config.Adapter
// interface.
//
// Documents are decoded through the yaml.Node AST rather than Go maps, which
// keeps both the document order of mapping entries and any duplicated keys.
// Mappings become keyed children, sequences become children with empty keys,
// and scalars become leaf values. Every tree shape can be rendered back to
// YAML, so Serialize fails only on writer errors.
package yaml_adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Dwoggurd/Ptree-Loader/internal/config"
	"github.com/Dwoggurd/Ptree-Loader/internal/ctxlog"
)

// Adapter translates between YAML documents and the config.Node tree.
type Adapter struct{}

// New creates a new YAML adapter.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Name() string {
	return "yaml"
}

func (a *Adapter) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// Parse reads path and translates its first YAML document into a tree. An
// empty file parses as an empty tree.
func (a *Adapter) Parse(ctx context.Context, path string) (*config.Node, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML adapter parsing file.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &config.ParseError{Path: path, Err: err}
	}

	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &config.Node{}, nil
		}
		return nil, &config.ParseError{Path: path, Err: err}
	}

	root, err := yamlToNode(&doc)
	if err != nil {
		return nil, &config.ParseError{Path: path, Err: err}
	}
	return root, nil
}

func yamlToNode(n *yaml.Node) (*config.Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return &config.Node{}, nil
		}
		return yamlToNode(n.Content[0])
	case yaml.MappingNode:
		node := &config.Node{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key is not a scalar", key.Line)
			}
			child, err := yamlToNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			node.Add(key.Value, child)
		}
		return node, nil
	case yaml.SequenceNode:
		node := &config.Node{}
		for _, item := range n.Content {
			child, err := yamlToNode(item)
			if err != nil {
				return nil, err
			}
			node.Add("", child)
		}
		return node, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return &config.Node{}, nil
		}
		return &config.Node{Value: n.Value}, nil
	case yaml.AliasNode:
		return yamlToNode(n.Alias)
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

// Serialize renders the tree as a single YAML document. All scalars are
// emitted with a string tag, so values that look numeric stay strings on the
// way back in. A node that carries both a value and children is rendered
// from its children; the value is dropped.
func (a *Adapter) Serialize(root *config.Node, w io.Writer) error {
	doc := nodeToYAML(root)
	if root.Len() == 0 && root.Value == "" {
		// An empty tree renders as an empty mapping, not an empty scalar.
		doc = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return &config.SerializeError{Err: err}
	}
	if err := enc.Close(); err != nil {
		return &config.SerializeError{Err: err}
	}
	return nil
}

func nodeToYAML(node *config.Node) *yaml.Node {
	if node.Len() == 0 {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: node.Value}
	}
	if allUnnamed(node) {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, c := range node.Children {
			seq.Content = append(seq.Content, nodeToYAML(c.Node))
		}
		return seq
	}
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, c := range node.Children {
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Key},
			nodeToYAML(c.Node))
	}
	return m
}

// allUnnamed reports whether every child has an empty key, the tree shape
// that renders as a sequence.
func allUnnamed(node *config.Node) bool {
	for _, c := range node.Children {
		if c.Key != "" {
			return false
		}
	}
	return true
}
