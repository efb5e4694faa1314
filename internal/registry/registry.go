// Package registry provides the central lookup for format adapters.
//
// Each adapter claims a format name and a set of file extensions at startup.
// The registry resolves the -format flag and file extensions to the adapter
// that handles them, and both namespaces are guarded: registering the same
// name or extension twice is a programming error and panics.
package registry

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Dwoggurd/Ptree-Loader/internal/config"
)

// Registry maps format names and file extensions to adapters for a single
// application instance.
type Registry struct {
	byName map[string]config.Adapter
	byExt  map[string]config.Adapter
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		byName: make(map[string]config.Adapter),
		byExt:  make(map[string]config.Adapter),
	}
}

// Register claims the adapter's name and extensions. Names and extensions
// are matched case-insensitively.
func (r *Registry) Register(adapter config.Adapter) {
	name := strings.ToLower(adapter.Name())
	if _, exists := r.byName[name]; exists {
		panic(fmt.Sprintf("format adapter with name '%s' already registered", name))
	}
	slog.Debug("Registering format adapter.", "name", name, "extensions", adapter.Extensions())
	r.byName[name] = adapter

	for _, ext := range adapter.Extensions() {
		ext = normalizeExt(ext)
		if _, exists := r.byExt[ext]; exists {
			panic(fmt.Sprintf("file extension '%s' already registered", ext))
		}
		r.byExt[ext] = adapter
	}
}

// ByName returns the adapter registered under the given format name.
func (r *Registry) ByName(name string) (config.Adapter, bool) {
	adapter, ok := r.byName[strings.ToLower(name)]
	return adapter, ok
}

// ByExtension returns the adapter that claims the given file extension. The
// leading dot is optional.
func (r *Registry) ByExtension(ext string) (config.Adapter, bool) {
	adapter, ok := r.byExt[normalizeExt(ext)]
	return adapter, ok
}

// ForPath returns the adapter that claims the path's file extension.
func (r *Registry) ForPath(path string) (config.Adapter, bool) {
	return r.ByExtension(filepath.Ext(path))
}

// Names lists the registered format names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
