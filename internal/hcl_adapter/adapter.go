// Package hcl_adapter is the HCL implementation of the config.Adapter
// interface.
//
// Attributes become leaf children and blocks become subtrees, interleaved in
// source order. Block labels nest: a block "server" with label "web" parses
// as a "server" child holding a single "web" child holding the body.
// Attribute values are evaluated as constants; expressions that reference
// variables or call functions fail the parse.
//
// Two trees cannot be rendered back to HCL: children with empty keys outside
// a uniform list, and duplicate leaf keys under one parent, since an HCL body
// allows each attribute name only once. Both yield a SerializeError.
package hcl_adapter

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/Dwoggurd/Ptree-Loader/internal/config"
	"github.com/Dwoggurd/Ptree-Loader/internal/ctxlog"
)

// Adapter translates between HCL documents and the config.Node tree.
type Adapter struct{}

// New creates a new HCL adapter.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Name() string {
	return "hcl"
}

func (a *Adapter) Extensions() []string {
	return []string{".hcl"}
}

// Parse reads path as native HCL syntax and translates the body into a tree.
func (a *Adapter) Parse(ctx context.Context, path string) (*config.Node, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL adapter parsing file.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, &config.ParseError{Path: path, Err: diags}
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, &config.ParseError{Path: path, Err: fmt.Errorf("not native HCL syntax")}
	}

	root, err := bodyToNode(body)
	if err != nil {
		return nil, &config.ParseError{Path: path, Err: err}
	}
	return root, nil
}

// bodyToNode translates one HCL body. Attributes are stored in a map, so
// they are interleaved with the block list by source byte offset to recover
// document order.
func bodyToNode(body *hclsyntax.Body) (*config.Node, error) {
	type entry struct {
		offset int
		key    string
		node   *config.Node
	}
	entries := make([]entry, 0, len(body.Attributes)+len(body.Blocks))

	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		node, err := ctyToNode(val)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		entries = append(entries, entry{attr.SrcRange.Start.Byte, name, node})
	}

	for _, block := range body.Blocks {
		node, err := bodyToNode(block.Body)
		if err != nil {
			return nil, err
		}
		for i := len(block.Labels) - 1; i >= 0; i-- {
			labeled := &config.Node{}
			labeled.Add(block.Labels[i], node)
			node = labeled
		}
		entries = append(entries, entry{block.TypeRange.Start.Byte, block.Type, node})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].offset < entries[j].offset })

	root := &config.Node{}
	for _, e := range entries {
		root.Add(e.key, e.node)
	}
	return root, nil
}

// ctyToNode translates an evaluated attribute value. Scalars become leaf
// values, tuples and lists become children with empty keys, objects and maps
// become keyed children.
func ctyToNode(val cty.Value) (*config.Node, error) {
	if val.IsNull() {
		return &config.Node{}, nil
	}

	ty := val.Type()
	switch {
	case ty.IsPrimitiveType():
		str, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, err
		}
		return &config.Node{Value: str.AsString()}, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		node := &config.Node{}
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			child, err := ctyToNode(elem)
			if err != nil {
				return nil, err
			}
			node.Add("", child)
		}
		return node, nil
	case ty.IsObjectType() || ty.IsMapType():
		node := &config.Node{}
		for it := val.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			child, err := ctyToNode(elem)
			if err != nil {
				return nil, err
			}
			node.Add(key.AsString(), child)
		}
		return node, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

// Serialize renders the tree as HCL. Leaves become string attributes, nodes
// whose children all have empty keys become list attributes, and everything
// else becomes a block. A node that carries both a value and children is
// rendered as a block; the value is dropped.
func (a *Adapter) Serialize(root *config.Node, w io.Writer) error {
	file := hclwrite.NewEmptyFile()
	if err := writeBody(file.Body(), root); err != nil {
		return err
	}
	if _, err := file.WriteTo(w); err != nil {
		return &config.SerializeError{Err: err}
	}
	return nil
}

func writeBody(body *hclwrite.Body, node *config.Node) error {
	seenAttr := make(map[string]bool)

	for _, c := range node.Children {
		if c.Key == "" {
			return &config.SerializeError{Err: fmt.Errorf("unnamed child cannot be rendered outside a list")}
		}
		if !hclsyntax.ValidIdentifier(c.Key) {
			return &config.SerializeError{Err: fmt.Errorf("key %q is not a valid HCL identifier", c.Key)}
		}

		switch {
		case c.Node.Len() == 0:
			if seenAttr[c.Key] {
				return &config.SerializeError{Err: fmt.Errorf("duplicate attribute %q", c.Key)}
			}
			seenAttr[c.Key] = true
			body.SetAttributeValue(c.Key, cty.StringVal(c.Node.Value))
		case unnamedLeavesOnly(c.Node):
			if seenAttr[c.Key] {
				return &config.SerializeError{Err: fmt.Errorf("duplicate attribute %q", c.Key)}
			}
			seenAttr[c.Key] = true
			elems := make([]cty.Value, 0, c.Node.Len())
			for _, el := range c.Node.Children {
				elems = append(elems, cty.StringVal(el.Node.Value))
			}
			body.SetAttributeValue(c.Key, cty.TupleVal(elems))
		default:
			block := body.AppendNewBlock(c.Key, nil)
			if err := writeBody(block.Body(), c.Node); err != nil {
				return err
			}
		}
	}
	return nil
}

// unnamedLeavesOnly reports whether every child is a leaf with an empty key,
// the tree shape of a parsed list attribute.
func unnamedLeavesOnly(node *config.Node) bool {
	for _, c := range node.Children {
		if c.Key != "" || c.Node.Len() != 0 {
			return false
		}
	}
	return true
}
