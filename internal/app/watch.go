package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Dwoggurd/Ptree-Loader/internal/ctxlog"
	"github.com/Dwoggurd/Ptree-Loader/internal/include"
)

// debounceDelay is how long the watcher waits after the last file event
// before reloading, so editors that write in several steps trigger a single
// reload.
const debounceDelay = 500 * time.Millisecond

// watch re-runs the load cycle whenever a file of the last load changes.
// Whole directories are watched, which survives the delete-and-rename dance
// most editors perform on save; events are then filtered against the files
// the load read or reported missing, so a neighbor in a watched directory
// does not trigger a reload, while an include target that appears after a
// failed resolution does.
func (a *App) watch(ctx context.Context, ldr *include.Loader) error {
	log := ctxlog.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]struct{})
	relevant := make(map[string]struct{})
	resync := func(ldr *include.Loader) {
		clear(relevant)
		for _, path := range append(ldr.Loaded(), ldr.Missing()...) {
			relevant[path] = struct{}{}
			dir := filepath.Dir(path)
			if _, ok := watched[dir]; ok {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				log.Warn("Unable to watch directory.", "dir", dir, "error", err)
				continue
			}
			log.Debug("Watching directory.", "dir", dir)
			watched[dir] = struct{}{}
		}
	}
	resync(ldr)
	log.Info("Watching for configuration changes.", "directories", len(watched))

	var debounce *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			log.Info("Watch stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
				!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
				continue
			}
			// Accept events naming a file of the last load or a watched
			// directory itself.
			if _, ok := relevant[event.Name]; !ok {
				if _, ok := watched[event.Name]; !ok {
					continue
				}
			}
			log.Debug("File event received.", "event", event.String())
			if debounce == nil {
				debounce = time.AfterFunc(debounceDelay, func() {
					select {
					case reload <- struct{}{}:
					default:
					}
				})
			} else {
				debounce.Reset(debounceDelay)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("File watcher error.", "error", err)

		case <-reload:
			log.Info("Configuration changed, reloading.")
			next, err := a.loadOnce(ctx)
			if err != nil {
				log.Error("Rendering merged tree failed.", "error", err)
			}
			// A reload can change which files the tree is built from.
			resync(next)
		}
	}
}
