// Package json_adapter is the JSON implementation of the config.Adapter
// interface.
//
// Input runs through a JSONC filter first, so comments and trailing commas
// are tolerated. The document is then consumed as a token stream rather than
// decoded into Go maps, which keeps object member order and duplicate keys.
// Objects become keyed children, arrays become children with empty keys, and
// every scalar becomes a string leaf: numbers keep their literal spelling,
// booleans become "true" or "false", and null becomes an empty value.
//
// Serialize quotes every leaf as a JSON string. Any tree shape can be
// rendered, so serialization fails only on writer errors.
package json_adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/Dwoggurd/Ptree-Loader/internal/config"
	"github.com/Dwoggurd/Ptree-Loader/internal/ctxlog"
)

// Adapter translates between JSON documents and the config.Node tree.
type Adapter struct{}

// New creates a new JSON adapter.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Name() string {
	return "json"
}

func (a *Adapter) Extensions() []string {
	return []string{".json", ".jsonc"}
}

// Parse reads path and translates the document into a tree. The top-level
// value must be an object or an array.
func (a *Adapter) Parse(ctx context.Context, path string) (*config.Node, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("JSON adapter parsing file.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &config.ParseError{Path: path, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	root, err := parseTopLevel(dec)
	if err != nil {
		return nil, &config.ParseError{Path: path, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &config.ParseError{Path: path, Err: fmt.Errorf("unexpected data after top-level value")}
	}
	return root, nil
}

func parseTopLevel(dec *json.Decoder) (*config.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); ok {
		switch d {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
	}
	return nil, fmt.Errorf("top-level value must be an object or array")
}

func parseObject(dec *json.Decoder) (*config.Node, error) {
	node := &config.Node{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key token %v", keyTok)
		}
		child, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		node.Add(key, child)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return node, nil
}

func parseArray(dec *json.Decoder) (*config.Node, error) {
	node := &config.Node{}
	for dec.More() {
		child, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		node.Add("", child)
	}
	// Consume the closing bracket.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return node, nil
}

func parseValue(dec *json.Decoder) (*config.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", v.String())
	case string:
		return &config.Node{Value: v}, nil
	case json.Number:
		return &config.Node{Value: v.String()}, nil
	case bool:
		return &config.Node{Value: strconv.FormatBool(v)}, nil
	case nil:
		return &config.Node{}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// Serialize renders the tree as pretty-printed JSON. Nodes whose children
// all have empty keys become arrays; everything else becomes an object. A
// node that carries both a value and children is rendered from its children;
// the value is dropped.
func (a *Adapter) Serialize(root *config.Node, w io.Writer) error {
	var b strings.Builder
	if root.Len() == 0 {
		b.WriteString("{}")
	} else {
		appendNode(&b, root, 0)
	}
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return &config.SerializeError{Err: err}
	}
	return nil
}

func appendNode(b *strings.Builder, node *config.Node, depth int) {
	switch {
	case node.Len() == 0:
		b.WriteString(quote(node.Value))
	case allUnnamed(node):
		b.WriteString("[\n")
		for i, c := range node.Children {
			b.WriteString(pad(depth + 1))
			appendNode(b, c.Node, depth+1)
			if i < node.Len()-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(pad(depth))
		b.WriteString("]")
	default:
		b.WriteString("{\n")
		for i, c := range node.Children {
			b.WriteString(pad(depth + 1))
			b.WriteString(quote(c.Key))
			b.WriteString(": ")
			appendNode(b, c.Node, depth+1)
			if i < node.Len()-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(pad(depth))
		b.WriteString("}")
	}
}

func quote(s string) string {
	out, _ := json.Marshal(s)
	return string(out)
}

func pad(depth int) string {
	return strings.Repeat("    ", depth)
}

// allUnnamed reports whether every child has an empty key, the tree shape
// that renders as an array.
func allUnnamed(node *config.Node) bool {
	for _, c := range node.Children {
		if c.Key != "" {
			return false
		}
	}
	return true
}
