package out

import "context"

// GroupWatcher is the outbound port for observing group directories.
type GroupWatcher interface {
	// WaitChange blocks until a debounced batch of filesystem changes is
	// observed under any of the given paths, then returns nil. It returns
	// ctx.Err() when the context is cancelled first. Callers loop: re-read
	// the group set, wait again.
	WaitChange(ctx context.Context, paths []string) error
}
