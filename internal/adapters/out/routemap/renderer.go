// Package routemap renders the routing state as a flat line-oriented map,
// one "{slug}.{domain} {target}" entry per pair and "{domain} R:{target}"
// redirect lines for bare base domains. It is the format-stable alternative
// to the Apache renderer for servers that consume plain mapping tables.
package routemap

import (
	"fmt"
	"strings"

	"devrouter/internal/domain"
)

const header = "# Generated by devrouter. Do not edit by hand."

// Renderer implements the ArtifactRenderer port as a plain mapping table.
type Renderer struct {
	adminURL string
}

// New creates a route-map renderer redirecting bare domains to adminURL.
func New(adminURL string) *Renderer {
	return &Renderer{adminURL: adminURL}
}

// RenderHTTP renders redirect lines for every base domain followed by the
// full (route x domain) mapping.
func (r *Renderer) RenderHTTP(state *domain.State, resolved []domain.ResolvedRoute) string {
	return r.render(state.DomainNames(), resolved)
}

// RenderSSL renders the same mapping restricted to SSL-enabled domains.
func (r *Renderer) RenderSSL(state *domain.State, resolved []domain.ResolvedRoute) string {
	names := state.SSLDomainNames()
	if len(names) == 0 {
		return header + "\n"
	}
	return r.render(names, resolved)
}

func (r *Renderer) render(domains []string, resolved []domain.ResolvedRoute) string {
	var b strings.Builder
	b.WriteString(header + "\n")

	for _, d := range domains {
		fmt.Fprintf(&b, "%s R:%s\n", d, r.adminURL)
	}
	for _, route := range resolved {
		for _, d := range domains {
			fmt.Fprintf(&b, "%s.%s %s\n", route.Slug, d, route.Target)
		}
	}

	return b.String()
}
