package out

import "devrouter/internal/domain"

// ArtifactRenderer is the outbound port for synthesizing the configuration
// artifacts consumed by the external web server. Implementations are pure:
// no I/O, and byte-identical output for unchanged input, so operators can
// diff regenerated artifacts.
type ArtifactRenderer interface {
	// RenderHTTP renders the primary artifact: per-domain admin redirects
	// followed by one entry per (resolved route, base domain) pair.
	RenderHTTP(state *domain.State, resolved []domain.ResolvedRoute) string

	// RenderSSL renders the TLS-restricted artifact, covering only base
	// domains with SSL enabled. With no SSL domain it renders just the
	// header.
	RenderSSL(state *domain.State, resolved []domain.ResolvedRoute) string
}
