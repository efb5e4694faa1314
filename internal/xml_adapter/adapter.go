// Package xml_adapter is the XML implementation of the config.Adapter
// interface.
//
// The single root element is a container: its children become the top level
// of the tree, so include directives and ordinary keys sit directly under
// the root element in a document. Child elements become keyed children in
// document order, repeated element names included. Attributes are collected
// under a "<xmlattr>" child, and text content is whitespace-trimmed into the
// node value. Namespace prefixes are dropped.
//
// Serialize wraps the tree in a synthetic "ptree" root element, which Parse
// strips again, so a tree survives a render and reparse unchanged. Children
// with empty keys and keys that are not well-formed element names cannot be
// rendered and yield a SerializeError.
package xml_adapter

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/Dwoggurd/Ptree-Loader/internal/config"
	"github.com/Dwoggurd/Ptree-Loader/internal/ctxlog"
)

// AttrKey is the child key that collects an element's attributes.
const AttrKey = "<xmlattr>"

// Adapter translates between XML documents and the config.Node tree.
type Adapter struct{}

// New creates a new XML adapter.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Name() string {
	return "xml"
}

func (a *Adapter) Extensions() []string {
	return []string{".xml"}
}

// Parse reads path and translates the document into a tree.
func (a *Adapter) Parse(ctx context.Context, path string) (*config.Node, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("XML adapter parsing file.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &config.ParseError{Path: path, Err: err}
	}

	dec := xml.NewDecoder(bytes.NewReader(data))

	var root *config.Node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &config.ParseError{Path: path, Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if root != nil {
			return nil, &config.ParseError{Path: path, Err: fmt.Errorf("unexpected second root element <%s>", start.Name.Local)}
		}
		root, err = elementToNode(dec, start)
		if err != nil {
			return nil, &config.ParseError{Path: path, Err: err}
		}
	}
	if root == nil {
		return nil, &config.ParseError{Path: path, Err: fmt.Errorf("document has no root element")}
	}
	return root, nil
}

// elementToNode consumes tokens up to the element's end tag.
func elementToNode(dec *xml.Decoder, start xml.StartElement) (*config.Node, error) {
	node := &config.Node{}
	if len(start.Attr) > 0 {
		attrs := node.Add(AttrKey, nil)
		for _, attr := range start.Attr {
			attrs.Add(attr.Name.Local, &config.Node{Value: attr.Value})
		}
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := elementToNode(dec, t)
			if err != nil {
				return nil, err
			}
			node.Add(t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			node.Value = strings.TrimSpace(text.String())
			return node, nil
		}
	}
}

// Serialize renders the tree as an XML document rooted at a synthetic
// "ptree" element. A node that carries both a value and children is rendered
// from its children; the value is dropped.
func (a *Adapter) Serialize(root *config.Node, w io.Writer) error {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	header := xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="utf-8"`)}
	if err := enc.EncodeToken(header); err != nil {
		return &config.SerializeError{Err: err}
	}
	// The encoder writes nothing between a ProcInst and the root element.
	if err := enc.EncodeToken(xml.CharData("\n")); err != nil {
		return &config.SerializeError{Err: err}
	}
	if err := encodeNode(enc, "ptree", root); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return &config.SerializeError{Err: err}
	}
	buf.WriteString("\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &config.SerializeError{Err: err}
	}
	return nil
}

func encodeNode(enc *xml.Encoder, key string, node *config.Node) error {
	if !validElementName(key) {
		return &config.SerializeError{Err: fmt.Errorf("key %q is not a well-formed element name", key)}
	}

	start := xml.StartElement{Name: xml.Name{Local: key}}
	var children []config.Child
	for _, c := range node.Children {
		if c.Key == AttrKey {
			for _, attr := range c.Node.Children {
				if attr.Node.Len() != 0 {
					return &config.SerializeError{Err: fmt.Errorf("attribute %q has child nodes", attr.Key)}
				}
				if !validElementName(attr.Key) {
					return &config.SerializeError{Err: fmt.Errorf("attribute name %q is not well-formed", attr.Key)}
				}
				start.Attr = append(start.Attr, xml.Attr{
					Name:  xml.Name{Local: attr.Key},
					Value: attr.Node.Value,
				})
			}
			continue
		}
		children = append(children, c)
	}

	if err := enc.EncodeToken(start); err != nil {
		return &config.SerializeError{Err: err}
	}
	if len(children) == 0 {
		if node.Value != "" {
			if err := enc.EncodeToken(xml.CharData(node.Value)); err != nil {
				return &config.SerializeError{Err: err}
			}
		}
	} else {
		for _, c := range children {
			if err := encodeNode(enc, c.Key, c.Node); err != nil {
				return err
			}
		}
	}
	if err := enc.EncodeToken(xml.EndElement{Name: start.Name}); err != nil {
		return &config.SerializeError{Err: err}
	}
	return nil
}

// validElementName checks the subset of XML name rules the tree model can
// produce: a leading letter or underscore, then letters, digits, hyphens,
// underscores and dots.
func validElementName(s string) bool {
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}
		if i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.') {
			continue
		}
		return false
	}
	return s != ""
}
