package config

import (
	"context"
	"io"
)

// Adapter is the interface for a format-specific tree codec. Implementations
// translate between on-disk documents and the format-agnostic Node tree.
type Adapter interface {
	// Name reports the short format name used for explicit format selection
	// on the command line, e.g. "hcl".
	Name() string

	// Extensions lists the file extensions claimed by the format, each in
	// lower case with the leading dot, e.g. ".yaml".
	Extensions() []string

	// Parse reads the file at path and translates it into a Node tree.
	Parse(ctx context.Context, path string) (*Node, error)

	// Serialize renders the tree rooted at root to w in the adapter's
	// textual format.
	Serialize(root *Node, w io.Writer) error
}
