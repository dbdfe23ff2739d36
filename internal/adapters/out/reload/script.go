// Package reload implements the ReloadTrigger port by invoking a privileged
// graceful-reload helper script through sudo.
package reload

import (
	"context"
	"os"
	"strings"

	"github.com/bnema/zerowrap"

	"devrouter/internal/boundaries/out"
)

const sudoPath = "/usr/bin/sudo"

// Script triggers a web-server reload via an external helper script. The
// script is expected to be whitelisted for passwordless sudo; everything
// about the invocation is best-effort.
type Script struct {
	path string
	exec out.CommandExecutor
	log  zerowrap.Logger
}

// New creates a script-based reload trigger. An empty path disables it.
func New(path string, exec out.CommandExecutor, log zerowrap.Logger) *Script {
	return &Script{path: path, exec: exec, log: log}
}

// Notify runs the reload script. A missing script is a no-op; a failing or
// timed-out script is logged and swallowed, because the regenerated
// configuration is already durable on disk.
func (s *Script) Notify(ctx context.Context) {
	if s.path == "" {
		return
	}
	if _, err := os.Stat(s.path); err != nil {
		s.log.Debug().
			Str(zerowrap.FieldLayer, "adapter").
			Str(zerowrap.FieldAdapter, "reload").
			Str(zerowrap.FieldPath, s.path).
			Msg("reload script absent, skipping")
		return
	}

	// -n: never prompt; a misconfigured sudoers entry fails fast instead of
	// hanging the cycle.
	output, err := s.exec.Run(ctx, sudoPath, "-n", s.path)
	if err != nil {
		s.log.Warn().
			Str(zerowrap.FieldLayer, "adapter").
			Str(zerowrap.FieldAdapter, "reload").
			Str(zerowrap.FieldPath, s.path).
			Str("output", strings.TrimSpace(output)).
			Err(err).
			Msg("reload script failed; configuration is on disk but the server may serve stale routes")
		return
	}

	s.log.Info().
		Str(zerowrap.FieldLayer, "adapter").
		Str(zerowrap.FieldAdapter, "reload").
		Str(zerowrap.FieldPath, s.path).
		Msg("web server reload triggered")
}
