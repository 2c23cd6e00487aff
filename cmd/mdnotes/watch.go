package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	hclog "github.com/hashicorp/go-hclog"
)

// watchFiles calls run after any of paths changes and the quiet period has
// passed. Parent directories are watched so atomic saves (write to temp,
// rename over) are still seen.
func watchFiles(ctx context.Context, paths []string, quiet time.Duration, logger hclog.Logger, run func(context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	targets := make(map[string]bool, len(paths))
	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	match := func(name string) bool {
		abs, err := filepath.Abs(name)
		return err == nil && targets[abs]
	}
	return debounceEvents(ctx, watcher.Events, watcher.Errors, match, quiet, logger, run)
}

func debounceEvents(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, match func(string) bool, quiet time.Duration, logger hclog.Logger, run func(context.Context)) error {
	timer := time.NewTimer(quiet)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod || !match(event.Name) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			timer.Reset(quiet)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-timer.C:
			run(ctx)
		}
	}
}
