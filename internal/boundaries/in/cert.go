package in

import (
	"context"

	"devrouter/internal/domain"
)

// CertStatus reports TLS eligibility for the whole installation.
type CertStatus struct {
	MkcertInstalled bool               `json:"mkcertInstalled"`
	CAInstalled     bool               `json:"caInstalled"`
	CertExists      bool               `json:"certExists"`
	Domains         []CertDomainStatus `json:"domains"`
}

// CertDomainStatus is the per-domain SSL flag view.
type CertDomainStatus struct {
	Domain string `json:"domain"`
	SSL    bool   `json:"ssl"`
}

// CertEnableResult describes a successful HTTPS enablement.
type CertEnableResult struct {
	Domains []domain.BaseDomain `json:"baseDomains"`
	SANs    []string            `json:"sans"`
}

// CertService is the inbound port for HTTPS enablement.
type CertService interface {
	// Status reports tool availability, certificate presence and per-domain
	// SSL flags.
	Status(ctx context.Context) (CertStatus, error)

	// Enable turns on SSL for a base domain, re-issues the certificate for
	// all SSL-enabled domains and re-triggers the server reload.
	Enable(ctx context.Context, name string) (CertEnableResult, error)
}
