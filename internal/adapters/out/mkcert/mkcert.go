// Package mkcert implements the CertIssuer port on top of the mkcert CLI.
package mkcert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/zerowrap"

	"devrouter/internal/boundaries/out"
)

const binary = "mkcert"

// CLI drives mkcert through the CommandExecutor port, so callers can run
// without spawning processes in tests.
type CLI struct {
	exec out.CommandExecutor
	log  zerowrap.Logger
}

// New creates a mkcert-backed certificate issuer.
func New(exec out.CommandExecutor, log zerowrap.Logger) *CLI {
	return &CLI{exec: exec, log: log}
}

// Status probes whether mkcert is installed and its local CA registered.
// The CA check follows mkcert's own convention: rootCA.pem under -CAROOT.
func (c *CLI) Status(ctx context.Context) out.MkcertStatus {
	status := out.MkcertStatus{}

	if _, err := c.exec.LookPath(binary); err != nil {
		return status
	}
	status.Installed = true

	output, err := c.exec.Run(ctx, binary, "-CAROOT")
	if err != nil {
		return status
	}
	caroot := strings.TrimSpace(output)
	if caroot == "" {
		return status
	}
	if _, err := os.Stat(filepath.Join(caroot, "rootCA.pem")); err == nil {
		status.CAInstalled = true
	}
	return status
}

// Issue mints a certificate/key pair covering the given SANs.
func (c *CLI) Issue(ctx context.Context, certFile, keyFile string, sans []string) error {
	if err := os.MkdirAll(filepath.Dir(certFile), 0750); err != nil {
		return fmt.Errorf("failed to create certificate directory: %w", err)
	}

	args := append([]string{"-cert-file", certFile, "-key-file", keyFile}, sans...)
	output, err := c.exec.Run(ctx, binary, args...)
	if err != nil {
		return fmt.Errorf("certificate issuance failed: %w: %s", err, strings.TrimSpace(output))
	}

	c.log.Info().
		Str(zerowrap.FieldLayer, "adapter").
		Str(zerowrap.FieldAdapter, "mkcert").
		Str("cert_file", certFile).
		Int(zerowrap.FieldCount, len(sans)).
		Msg("certificate issued")
	return nil
}
