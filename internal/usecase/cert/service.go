// Package cert implements the HTTPS enablement use case: flipping a base
// domain's SSL flag through the normal mutation cycle, then re-issuing the
// local certificate to cover every SSL-enabled domain.
package cert

import (
	"context"
	"fmt"
	"os"

	"github.com/bnema/zerowrap"

	"devrouter/internal/boundaries/in"
	"devrouter/internal/boundaries/out"
	"devrouter/internal/domain"
)

// Config holds the certificate/key pair referenced by the secure artifact.
type Config struct {
	CertFile string
	KeyFile  string
}

// Service implements the CertService inbound port.
type Service struct {
	routing in.RoutingService
	store   out.StateStore
	issuer  out.CertIssuer
	reload  out.ReloadTrigger
	config  Config
}

// NewService creates a new cert service.
func NewService(
	routing in.RoutingService,
	store out.StateStore,
	issuer out.CertIssuer,
	reload out.ReloadTrigger,
	config Config,
) *Service {
	return &Service{
		routing: routing,
		store:   store,
		issuer:  issuer,
		reload:  reload,
		config:  config,
	}
}

// Status reports tool availability, certificate presence and the per-domain
// SSL flags.
func (s *Service) Status(ctx context.Context) (in.CertStatus, error) {
	state, _, err := s.store.Load(ctx)
	if err != nil {
		return in.CertStatus{}, err
	}

	mkcert := s.issuer.Status(ctx)
	status := in.CertStatus{
		MkcertInstalled: mkcert.Installed,
		CAInstalled:     mkcert.CAInstalled,
		CertExists:      fileExists(s.config.CertFile) && fileExists(s.config.KeyFile),
		Domains:         make([]in.CertDomainStatus, 0, len(state.BaseDomains)),
	}
	for _, bd := range state.BaseDomains {
		status.Domains = append(status.Domains, in.CertDomainStatus{
			Domain: bd.Domain,
			SSL:    bd.SSL,
		})
	}
	return status, nil
}

// Enable turns on SSL for a base domain. The flag flip goes through the
// routing service, so the secure artifact is re-synthesized and the server
// notified; then a wildcard certificate covering every SSL-enabled domain is
// re-issued and the server reloaded once more to pick it up.
func (s *Service) Enable(ctx context.Context, name string) (in.CertEnableResult, error) {
	mkcert := s.issuer.Status(ctx)
	if !mkcert.Installed {
		return in.CertEnableResult{}, domain.ErrMkcertNotInstalled
	}
	if !mkcert.CAInstalled {
		return in.CertEnableResult{}, domain.ErrMkcertCANotFound
	}

	domains, err := s.routing.EnableSSL(ctx, name)
	if err != nil {
		return in.CertEnableResult{}, err
	}

	var sans []string
	for _, bd := range domains {
		if bd.SSL {
			sans = append(sans, "*."+bd.Domain)
		}
	}
	if len(sans) == 0 {
		return in.CertEnableResult{}, domain.ErrNoSSLDomains
	}

	if err := s.issuer.Issue(ctx, s.config.CertFile, s.config.KeyFile, sans); err != nil {
		return in.CertEnableResult{}, fmt.Errorf("failed to issue certificate: %w", err)
	}

	logger := zerowrap.FromCtx(ctx)
	logger.Info().
		Str(zerowrap.FieldLayer, "usecase").
		Str(zerowrap.FieldUseCase, "EnableSSL").
		Str("domain", name).
		Int(zerowrap.FieldCount, len(sans)).
		Msg("HTTPS enabled")

	s.reload.Notify(ctx)

	return in.CertEnableResult{Domains: domains, SANs: sans}, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
