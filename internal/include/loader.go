package include

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/Dwoggurd/Ptree-Loader/internal/config"
	"github.com/Dwoggurd/Ptree-Loader/internal/ctxlog"
	"github.com/Dwoggurd/Ptree-Loader/internal/diag"
	"github.com/Dwoggurd/Ptree-Loader/internal/fsutil"
)

const (
	// IncludeKey marks a child as an include directive. Matching is
	// case-sensitive; a key like "includefile" is ordinary data.
	IncludeKey = "IncludeFile"

	// DefaultDepthLimit bounds how deeply include chains may nest.
	DefaultDepthLimit = 20
)

// Option configures a Loader.
type Option func(*Loader)

// WithDepthLimit overrides DefaultDepthLimit. A limit below one refuses
// every load.
func WithDepthLimit(limit int) Option {
	return func(l *Loader) {
		l.depthLimit = limit
	}
}

// Loader expands include directives into a bound destination tree.
type Loader struct {
	root       *config.Node
	adapter    config.Adapter
	depthLimit int
	diag       diag.Recorder
	loaded     []string
	missing    []string
}

// New returns a Loader that merges everything it loads into root, using
// adapter to parse and serialize files.
func New(root *config.Node, adapter config.Adapter, opts ...Option) *Loader {
	l := &Loader{
		root:       root,
		adapter:    adapter,
		depthLimit: DefaultDepthLimit,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves path against the process working directory and merges the
// file, with all of its includes expanded, into the bound tree. Load never
// returns an error: every failure is recorded as a diagnostic line, and the
// load continues with whatever remains. Inspect Report for the trace.
//
// Calling Load again merges further files into the same tree. Each call
// starts a fresh include chain; the depth limit applies per chain.
func (l *Loader) Load(ctx context.Context, path string) {
	l.load(ctx, path, "", 1)
}

// load resolves one file at the given nesting depth. The top-level document
// of a chain is depth one; each include directive loads its target at the
// parent's depth plus one.
func (l *Loader) load(ctx context.Context, path, baseDir string, depth int) {
	log := ctxlog.FromContext(ctx)

	if depth > l.depthLimit {
		l.diag.Appendf("Recursive include loop detected. Exiting...")
		log.Warn("Include depth limit exceeded.", "path", path, "depth", depth, "limit", l.depthLimit)
		return
	}

	effective := fsutil.EffectivePath(path, baseDir)
	if !fsutil.Exists(effective) {
		l.diag.Appendf("Path not found: %s", effective)
		log.Warn("Include path not found.", "path", effective)
		l.missing = append(l.missing, effective)
		return
	}

	l.diag.Appendf("Loading: %s", effective)
	log.Debug("Loading configuration file.", "path", effective, "depth", depth)
	l.loaded = append(l.loaded, effective)

	parsed, err := l.adapter.Parse(ctx, effective)
	if err != nil {
		l.diag.Appendf("Error: %v", err)
		log.Error("Parsing configuration file failed.", "path", effective, "error", err)
		return
	}

	dir := filepath.Dir(effective)
	for _, child := range parsed.Children {
		// Directives merge like any other child; resolution never removes
		// them from the tree.
		l.root.Add(child.Key, child.Node)
		if child.Key == IncludeKey {
			l.load(ctx, child.Node.Value, dir, depth+1)
		}
	}
}

// Report renders every diagnostic recorded so far, framed by the delimiter.
func (l *Loader) Report() string {
	return l.diag.Report()
}

// DumpTree serializes the bound tree, framed by the diagnostic delimiter.
// Unlike Load, a serialization failure is returned to the caller.
func (l *Loader) DumpTree() (string, error) {
	var sb strings.Builder
	if err := l.adapter.Serialize(l.root, &sb); err != nil {
		return "", err
	}
	out := sb.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return diag.Delimiter + "\n" + out + diag.Delimiter + "\n", nil
}

// Loaded returns the effective paths of every file read so far, in load
// order. Files that failed to parse are listed; files that were never found
// are not. Loading the same file twice lists it twice.
func (l *Loader) Loaded() []string {
	out := make([]string, len(l.loaded))
	copy(out, l.loaded)
	return out
}

// Missing returns the effective paths that were resolved but not found, in
// resolution order. Targets refused by the depth limit are not listed.
func (l *Loader) Missing() []string {
	out := make([]string, len(l.missing))
	copy(out, l.missing)
	return out
}
