package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Dwoggurd/Ptree-Loader/internal/config"
)

// FakeAdapter is a line-oriented config.Adapter for tests. Each non-blank
// line of a document becomes one top-level child: the first field is the
// key, the remaining fields join into the value. A document whose first
// line is "!boom" fails to parse, which lets tests exercise partial
// failures without crafting malformed real-world syntax.
//
// Serialize renders top-level children only; the fake is meant for flat
// fixture trees.
type FakeAdapter struct {
	// SerializeErr, when set, makes every Serialize call fail with a
	// config.SerializeError wrapping it.
	SerializeErr error
}

func (a *FakeAdapter) Name() string {
	return "fake"
}

func (a *FakeAdapter) Extensions() []string {
	return []string{".fake"}
}

func (a *FakeAdapter) Parse(_ context.Context, path string) (*config.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &config.ParseError{Path: path, Err: err}
	}
	text := string(data)
	if strings.HasPrefix(text, "!boom") {
		return nil, &config.ParseError{Path: path, Err: errors.New("forced parse failure")}
	}

	root := &config.Node{}
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		switch len(fields) {
		case 0:
		case 1:
			root.Add(fields[0], &config.Node{})
		default:
			root.Add(fields[0], &config.Node{Value: strings.Join(fields[1:], " ")})
		}
	}
	return root, nil
}

func (a *FakeAdapter) Serialize(root *config.Node, w io.Writer) error {
	if a.SerializeErr != nil {
		return &config.SerializeError{Err: a.SerializeErr}
	}
	for _, c := range root.Children {
		var err error
		if c.Node.Value != "" {
			_, err = fmt.Fprintf(w, "%s %s\n", c.Key, c.Node.Value)
		} else {
			_, err = fmt.Fprintf(w, "%s\n", c.Key)
		}
		if err != nil {
			return &config.SerializeError{Err: err}
		}
	}
	return nil
}
