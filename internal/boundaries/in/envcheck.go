package in

import "context"

// EnvCheck is one line of the environment report.
type EnvCheck struct {
	Category string `json:"category"` // "required" or "optional"
	Name     string `json:"name"`
	Status   string `json:"status"` // "ok", "warning" or "missing"
	Command  string `json:"command,omitempty"`
}

// EnvReport is the full environment diagnostics payload.
type EnvReport struct {
	OS     string     `json:"os"` // "macos", "linux", "wsl2" or "unknown"
	Checks []EnvCheck `json:"checks"`
}

// EnvService is the inbound port for environment diagnostics: OS family,
// required web-server modules and certificate tooling. Purely informational.
type EnvService interface {
	Check(ctx context.Context) EnvReport
}
