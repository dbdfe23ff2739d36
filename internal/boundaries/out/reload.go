package out

import "context"

// ReloadTrigger is the outbound port for asking the external web server to
// pick up regenerated configuration. Strictly best-effort: a missing reload
// mechanism is a no-op and a failed one is logged, never surfaced, because
// the new configuration is already durable on disk.
type ReloadTrigger interface {
	Notify(ctx context.Context)
}
