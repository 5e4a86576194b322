package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches the burst of events one editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watch calls onChange with each watched path after it is written, created
// or replaced, at most once per debounce window. It blocks until ctx is done.
//
// Parent directories are watched rather than the files themselves so that
// editors which save by renaming a temp file over the original keep firing.
func Watch(ctx context.Context, paths []string, debounce time.Duration, logger *slog.Logger, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// absolute path -> path as given by the caller
	watched := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	tick := debounce / 4
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if _, ok := watched[filepath.Clean(event.Name)]; ok {
				pending[filepath.Clean(event.Name)] = time.Now()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)

		case now := <-ticker.C:
			for abs, at := range pending {
				if now.Sub(at) < debounce {
					continue
				}
				delete(pending, abs)
				logger.Debug("change detected", "path", watched[abs])
				onChange(watched[abs])
			}
		}
	}
}
