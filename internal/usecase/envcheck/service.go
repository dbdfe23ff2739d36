// Package envcheck implements environment diagnostics: OS family, loaded
// web-server modules and certificate tooling. Purely informational; nothing
// here ever blocks a routing operation.
package envcheck

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strings"

	"devrouter/internal/boundaries/in"
	"devrouter/internal/boundaries/out"
)

// requiredModules are the Apache modules the generated artifacts rely on,
// in report order.
var requiredModules = []string{"rewrite", "proxy", "proxy_http", "proxy_wstunnel", "headers"}

var moduleLine = regexp.MustCompile(`^\s*(\w+)_module`)

// Service implements the EnvService inbound port.
type Service struct {
	exec   out.CommandExecutor
	issuer out.CertIssuer
}

// NewService creates a new environment-check service.
func NewService(exec out.CommandExecutor, issuer out.CertIssuer) *Service {
	return &Service{exec: exec, issuer: issuer}
}

// Check builds the full environment report.
func (s *Service) Check(ctx context.Context) in.EnvReport {
	osFamily := detectOS()
	modules := s.loadedModules(ctx)

	report := in.EnvReport{OS: osFamily}

	for _, mod := range requiredModules {
		check := in.EnvCheck{
			Category: "required",
			Name:     "mod_" + mod,
			Status:   "ok",
		}
		if !modules[mod] {
			check.Status = "missing"
			check.Command = enableCommand(mod, osFamily)
		}
		report.Checks = append(report.Checks, check)
	}

	sslCheck := in.EnvCheck{Category: "optional", Name: "mod_ssl", Status: "ok"}
	if !modules["ssl"] {
		sslCheck.Status = "missing"
		sslCheck.Command = enableCommand("ssl", osFamily)
	}
	report.Checks = append(report.Checks, sslCheck)

	report.Checks = append(report.Checks, s.mkcertCheck(ctx, osFamily))

	return report
}

// loadedModules asks the server which modules are loaded, trying apachectl
// first and falling back to httpd. Failures just mean an empty module set.
func (s *Service) loadedModules(ctx context.Context) map[string]bool {
	output, err := s.exec.Run(ctx, "apachectl", "-M")
	if err != nil {
		output, err = s.exec.Run(ctx, "httpd", "-M")
		if err != nil {
			return map[string]bool{}
		}
	}

	modules := make(map[string]bool)
	for _, line := range strings.Split(output, "\n") {
		if m := moduleLine.FindStringSubmatch(line); m != nil {
			modules[m[1]] = true
		}
	}
	return modules
}

func (s *Service) mkcertCheck(ctx context.Context, osFamily string) in.EnvCheck {
	check := in.EnvCheck{Category: "optional", Name: "mkcert"}

	status := s.issuer.Status(ctx)
	switch {
	case !status.Installed:
		check.Status = "missing"
		switch osFamily {
		case "macos":
			check.Command = "brew install mkcert && mkcert -install"
		case "linux", "wsl2":
			check.Command = "sudo apt install mkcert && mkcert -install"
		default:
			check.Command = "install mkcert"
		}
	case !status.CAInstalled:
		check.Status = "warning"
		check.Command = "mkcert -install"
	default:
		check.Status = "ok"
	}
	return check
}

func detectOS() string {
	switch runtime.GOOS {
	case "darwin":
		return "macos"
	case "linux":
		if version, err := os.ReadFile("/proc/version"); err == nil &&
			strings.Contains(strings.ToLower(string(version)), "microsoft") {
			return "wsl2"
		}
		return "linux"
	default:
		return "unknown"
	}
}

func enableCommand(module, osFamily string) string {
	switch osFamily {
	case "macos":
		return fmt.Sprintf("uncomment the LoadModule %s_module line in httpd.conf", module)
	case "linux", "wsl2":
		return fmt.Sprintf("sudo a2enmod %s && sudo systemctl restart apache2", module)
	default:
		return fmt.Sprintf("enable the %s module in your Apache configuration", module)
	}
}
