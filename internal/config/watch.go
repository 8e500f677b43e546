package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

var watchLogger = slog.Default().With("component", "config.watch")

// debounceDelay coalesces the burst of events editors emit on save.
const debounceDelay = 500 * time.Millisecond

// Watch reloads the config file whenever it changes and hands the
// validated result to onChange. Warnings from revalidation are logged.
// The returned function stops watching.
func Watch(path string, onChange func(*Config)) (func(), error) {
	if path == "" {
		path = DefaultPath()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}

	// Watch the directory: editors that write-then-rename would otherwise
	// detach the watch from the file, and it also covers a config file
	// that doesn't exist yet.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching config dir: %w", err)
	}

	var mu sync.Mutex
	var pending *time.Timer

	reload := func() {
		cfg, warnings, err := Load(path)
		if err != nil {
			watchLogger.Warn("config reload failed", "path", path, "error", err)
			return
		}
		for _, warning := range warnings {
			watchLogger.Warn("config corrected", "option", warning.Option, "reason", warning.Reason)
		}
		if onChange != nil {
			onChange(cfg)
		}
	}

	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Name != path {
					continue
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
					continue
				}
				mu.Lock()
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(debounceDelay, reload)
				mu.Unlock()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				watchLogger.Warn("config watcher error", "error", err)
			}
		}
	}()

	return func() {
		mu.Lock()
		if pending != nil {
			pending.Stop()
		}
		mu.Unlock()
		w.Close()
	}, nil
}
