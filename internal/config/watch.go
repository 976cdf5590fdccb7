package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay debounces bursts of writes from editors.
const reloadDelay = 200 * time.Millisecond

// Watch reloads filename whenever it changes and passes each valid result to
// onChange. Files that fail to parse or validate are logged and skipped, so
// the last good configuration stays in effect. Watch blocks until ctx is
// cancelled.
func Watch(ctx context.Context, filename string, logger *slog.Logger, onChange func(*Config)) error {
	return watch(ctx, filename, logger, nil, onChange)
}

// watch is Watch with a hook called once the watcher is registered.
func watch(ctx context.Context, filename string, logger *slog.Logger, ready func(), onChange func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	path, err := filepath.Abs(filename)
	if err != nil {
		return err
	}
	// Watch the directory: editors often replace the file by rename.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	logger.Info("config: watching", slog.String("path", path))
	if ready != nil {
		ready()
	}

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(reloadDelay)
			fire = timer.C
		} else {
			timer.Reset(reloadDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case <-fire:
			cfg := NewDefaultConfig()
			if err := Load(path, cfg); err != nil {
				logger.Warn("config: reload rejected", slog.String("error", err.Error()))
				continue
			}
			logger.Info("config: reloaded", slog.String("path", path))
			onChange(cfg)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config: watcher error", slog.String("error", err.Error()))
		}
	}
}
