// Package apacheconf renders the routing state as Apache VirtualHost
// definitions. Rendering is pure and deterministic: the same state and
// resolved routes always produce byte-identical output, so operators can
// diff regenerated files.
package apacheconf

import (
	"fmt"
	"net/url"
	"strings"

	"devrouter/internal/domain"
)

const header = "# Generated by devrouter. Do not edit by hand."

// Renderer implements the ArtifactRenderer port for Apache httpd.
type Renderer struct {
	adminURL string
	certFile string
	keyFile  string
}

// New creates an Apache renderer. adminURL is where bare base-domain access
// is redirected; certFile/keyFile are the fixed pair referenced by every
// HTTPS VirtualHost.
func New(adminURL, certFile, keyFile string) *Renderer {
	return &Renderer{
		adminURL: adminURL,
		certFile: certFile,
		keyFile:  keyFile,
	}
}

// RenderHTTP renders the primary artifact: one redirect VirtualHost per base
// domain, then one VirtualHost per (resolved route, base domain) pair.
func (r *Renderer) RenderHTTP(state *domain.State, resolved []domain.ResolvedRoute) string {
	lines := []string{header, ""}
	domains := state.DomainNames()

	for _, d := range domains {
		lines = append(lines, r.redirectVHost(d, 80, "http")...)
		lines = append(lines, "")
	}

	for _, route := range resolved {
		for _, d := range domains {
			serverName := fmt.Sprintf("%s.%s", route.Slug, d)
			lines = append(lines, r.routeVHost(serverName, route, false)...)
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n")
}

// RenderSSL renders the TLS-restricted artifact: the same structure as
// RenderHTTP but covering only base domains with SSL enabled. With no SSL
// domain only the header is emitted.
func (r *Renderer) RenderSSL(state *domain.State, resolved []domain.ResolvedRoute) string {
	lines := []string{header, ""}
	domains := state.SSLDomainNames()

	if len(domains) == 0 {
		return strings.Join(lines, "\n")
	}

	for _, d := range domains {
		lines = append(lines, r.redirectVHost(d, 443, "https")...)
		lines = append(lines, "")
	}

	for _, route := range resolved {
		for _, d := range domains {
			serverName := fmt.Sprintf("%s.%s", route.Slug, d)
			lines = append(lines, r.routeVHost(serverName, route, true)...)
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n")
}

// redirectVHost sends bare base-domain access to the admin endpoint.
func (r *Renderer) redirectVHost(domainName string, port int, scheme string) []string {
	lines := []string{
		"# --- base domain: redirect to admin ---",
		fmt.Sprintf("<VirtualHost *:%d>", port),
		fmt.Sprintf("    ServerName %s", domainName),
	}
	if scheme == "https" {
		lines = append(lines, r.sslLines()...)
	}
	lines = append(lines,
		"    RewriteEngine On",
		fmt.Sprintf("    RewriteRule ^ %s [R=302,L]", r.adminURL),
		"</VirtualHost>",
	)
	return lines
}

func (r *Renderer) routeVHost(serverName string, route domain.ResolvedRoute, ssl bool) []string {
	switch route.Type {
	case domain.RouteTypeDirectory:
		return r.directoryVHost(serverName, route.Target, ssl)
	case domain.RouteTypeProxy:
		return r.proxyVHost(serverName, route.Target, ssl)
	default:
		// Unknown types are skipped rather than breaking the whole artifact.
		return nil
	}
}

func (r *Renderer) directoryVHost(serverName, target string, ssl bool) []string {
	port := 80
	if ssl {
		port = 443
	}
	lines := []string{
		"# --- directory route ---",
		fmt.Sprintf("<VirtualHost *:%d>", port),
		fmt.Sprintf("    ServerName %s", serverName),
	}
	if ssl {
		lines = append(lines, r.sslLines()...)
	}
	lines = append(lines,
		fmt.Sprintf("    DocumentRoot %s", target),
		fmt.Sprintf("    <Directory %s>", target),
		"        Options FollowSymLinks Indexes",
		"        AllowOverride All",
		"        Require all granted",
		"    </Directory>",
		"    DirectoryIndex index.php index.html index.htm",
		"</VirtualHost>",
	)
	return lines
}

func (r *Renderer) proxyVHost(serverName, target string, ssl bool) []string {
	port := 80
	forwardedProto := "http"
	wsTarget := deriveWSTarget(target, false)
	if ssl {
		port = 443
		forwardedProto = "https"
		wsTarget = deriveWSTarget(target, true)
	}

	lines := []string{
		"# --- reverse proxy route (WebSocket aware) ---",
		"<IfModule mod_proxy.c>",
		fmt.Sprintf("<VirtualHost *:%d>", port),
		fmt.Sprintf("    ServerName %s", serverName),
	}
	if ssl {
		lines = append(lines, r.sslLines()...)
	}
	lines = append(lines,
		"    ProxyPreserveHost On",
		"    RewriteEngine On",
		"    RewriteCond %{HTTP:Upgrade} =websocket [NC]",
		fmt.Sprintf("    RewriteRule ^(.*)$ %s$1 [P,L]", wsTarget),
		fmt.Sprintf("    ProxyPass / %s/", target),
		fmt.Sprintf("    ProxyPassReverse / %s/", target),
		fmt.Sprintf("    RequestHeader set X-Forwarded-Proto %q", forwardedProto),
		"</VirtualHost>",
		"</IfModule>",
	)
	return lines
}

func (r *Renderer) sslLines() []string {
	return []string{
		"    SSLEngine on",
		fmt.Sprintf("    SSLCertificateFile %s", r.certFile),
		fmt.Sprintf("    SSLCertificateKeyFile %s", r.keyFile),
	}
}

// deriveWSTarget computes the ws/wss URL for upgraded connections from the
// proxy target host and port, defaulting the port to 80 or 443 based on the
// target scheme. Behind an HTTPS VirtualHost the upgrade always goes wss.
func deriveWSTarget(target string, forceWSS bool) string {
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{}
	}

	host := u.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}

	scheme := "ws"
	if forceWSS || u.Scheme == "https" {
		scheme = "wss"
	}

	return fmt.Sprintf("%s://%s:%s", scheme, host, port)
}
