package out

import "context"

// MkcertStatus describes the availability of the local certificate tooling.
type MkcertStatus struct {
	Installed   bool
	CAInstalled bool
}

// CertIssuer is the outbound port for the local certificate-minting tool.
type CertIssuer interface {
	// Status probes whether the tool and its local CA are available.
	Status(ctx context.Context) MkcertStatus

	// Issue mints a certificate/key pair covering the given subject
	// alternative names.
	Issue(ctx context.Context, certFile, keyFile string, sans []string) error
}
