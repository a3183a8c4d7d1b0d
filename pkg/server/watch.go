package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vango-dev/routeview/pkg/router"
)

// DefaultWatchDebounce coalesces bursts of writes from editors.
const DefaultWatchDebounce = 200 * time.Millisecond

// BuildFunc builds a fresh router, typically from a route table file.
type BuildFunc func() (*router.Router, error)

// WatchRoutes rebuilds the router whenever file changes and installs it
// with SetRouter. A failed build is logged and the previous router stays
// in service. WatchRoutes blocks until ctx is cancelled.
func (s *Server) WatchRoutes(ctx context.Context, file string, build BuildFunc, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	dir := filepath.Dir(file)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	base := filepath.Base(file)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			s.reload(file, build)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("route watcher error", "file", file, "error", err)

		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		}
	}
}

func (s *Server) reload(file string, build BuildFunc) {
	r, err := build()
	if err != nil {
		s.logger.Error("route table reload failed", "file", file, "error", err)
		return
	}
	s.SetRouter(r)
	s.logger.Info("route table reloaded", "file", file, "routes", len(r.Routes()))
}
