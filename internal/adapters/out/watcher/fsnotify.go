// Package watcher implements the GroupWatcher port with fsnotify, so the
// artifacts track group directories without manual rescans.
package watcher

import (
	"context"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/fsnotify/fsnotify"

	"devrouter/internal/boundaries/out"
)

// debounce collapses bursts of filesystem events (an unpack, a git clone)
// into one rescan.
const debounce = 500 * time.Millisecond

// FSNotify watches group directories for subdirectory changes.
type FSNotify struct {
	log zerowrap.Logger
}

var _ out.GroupWatcher = (*FSNotify)(nil)

// New creates an fsnotify-backed group watcher.
func New(log zerowrap.Logger) *FSNotify {
	return &FSNotify{log: log}
}

// WaitChange blocks until a debounced batch of create/remove/rename events
// is observed under any of the given paths, then returns nil so the caller
// can rescan and re-arm with a fresh group set. Paths that cannot be watched
// are skipped; they degrade to manual rescans.
func (f *FSNotify) WaitChange(ctx context.Context, paths []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := 0
	for _, path := range paths {
		if err := w.Add(path); err != nil {
			f.log.Debug().
				Str(zerowrap.FieldLayer, "adapter").
				Str(zerowrap.FieldAdapter, "watcher").
				Str(zerowrap.FieldPath, path).
				Err(err).
				Msg("cannot watch group directory")
			continue
		}
		watched++
	}
	if watched == 0 {
		// Nothing watchable: park until the context ends so the caller's
		// loop does not spin.
		<-ctx.Done()
		return ctx.Err()
	}

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			f.log.Warn().
				Str(zerowrap.FieldLayer, "adapter").
				Str(zerowrap.FieldAdapter, "watcher").
				Err(err).
				Msg("watch error")
		case <-fire:
			return nil
		}
	}
}
