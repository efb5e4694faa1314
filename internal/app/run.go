package app

import (
	"context"
	"fmt"

	"github.com/Dwoggurd/Ptree-Loader/internal/config"
	"github.com/Dwoggurd/Ptree-Loader/internal/ctxlog"
	"github.com/Dwoggurd/Ptree-Loader/internal/include"
)

// Run executes the main application logic: load the configuration file with
// its includes expanded, print the diagnostic report, then print the merged
// tree. With watch enabled, the cycle repeats whenever a loaded file
// changes, until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App run started.", "path", a.config.Path, "format", a.adapter.Name())

	ldr, err := a.loadOnce(ctx)
	if !a.config.Watch {
		return err
	}
	if err != nil {
		// In watch mode a failed render is not fatal; the next change
		// may fix it.
		a.logger.Error("Rendering merged tree failed.", "error", err)
	}
	return a.watch(ctx, ldr)
}

// loadOnce runs one full load, report and dump cycle against a fresh tree.
// The returned loader is valid even when the dump failed, so callers can
// still ask it which files were read.
func (a *App) loadOnce(ctx context.Context) (*include.Loader, error) {
	root := &config.Node{}
	ldr := include.New(root, a.adapter)
	ldr.Load(ctx, a.config.Path)

	fmt.Fprint(a.outW, ldr.Report())

	dump, err := ldr.DumpTree()
	if err != nil {
		return ldr, fmt.Errorf("rendering merged tree: %w", err)
	}
	fmt.Fprint(a.outW, dump)
	return ldr, nil
}
