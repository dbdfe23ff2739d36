package apacheconf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devrouter/internal/domain"
)

func newTestRenderer() *Renderer {
	return New("http://localhost:8880/", "/etc/certs/dev.pem", "/etc/certs/dev-key.pem")
}

func testState() *domain.State {
	return &domain.State{
		BaseDomains: []domain.BaseDomain{
			{Domain: "dev.test", Current: true, SSL: true},
			{Domain: "plain.test"},
		},
	}
}

func testResolved() []domain.ResolvedRoute {
	return []domain.ResolvedRoute{
		{Slug: "blog", Target: "/srv/www/blog", Type: domain.RouteTypeDirectory},
		{Slug: "api", Target: "http://localhost:3000", Type: domain.RouteTypeProxy},
	}
}

func TestRenderHTTPCoversAllPairs(t *testing.T) {
	out := newTestRenderer().RenderHTTP(testState(), testResolved())

	assert.True(t, strings.HasPrefix(out, header))

	// One redirect vhost per base domain.
	assert.Contains(t, out, "ServerName dev.test\n")
	assert.Contains(t, out, "ServerName plain.test\n")
	assert.Contains(t, out, "RewriteRule ^ http://localhost:8880/ [R=302,L]")

	// Every (route, domain) pair gets a vhost.
	for _, name := range []string{"blog.dev.test", "blog.plain.test", "api.dev.test", "api.plain.test"} {
		assert.Contains(t, out, "ServerName "+name+"\n", name)
	}

	// No SSL directives in the plain artifact.
	assert.NotContains(t, out, "SSLEngine")
	assert.NotContains(t, out, ":443")
}

func TestRenderHTTPDirectoryRoute(t *testing.T) {
	out := newTestRenderer().RenderHTTP(testState(), testResolved())

	assert.Contains(t, out, "DocumentRoot /srv/www/blog")
	assert.Contains(t, out, "<Directory /srv/www/blog>")
	assert.Contains(t, out, "DirectoryIndex index.php index.html index.htm")
}

func TestRenderHTTPProxyRoute(t *testing.T) {
	out := newTestRenderer().RenderHTTP(testState(), testResolved())

	assert.Contains(t, out, "<IfModule mod_proxy.c>")
	assert.Contains(t, out, "ProxyPreserveHost On")
	assert.Contains(t, out, "ProxyPass / http://localhost:3000/")
	assert.Contains(t, out, "ProxyPassReverse / http://localhost:3000/")
	assert.Contains(t, out, "RewriteCond %{HTTP:Upgrade} =websocket [NC]")
	assert.Contains(t, out, "RewriteRule ^(.*)$ ws://localhost:3000$1 [P,L]")
	assert.Contains(t, out, `RequestHeader set X-Forwarded-Proto "http"`)
}

func TestRenderSSLRestrictedToSSLDomains(t *testing.T) {
	out := newTestRenderer().RenderSSL(testState(), testResolved())

	assert.Contains(t, out, "ServerName blog.dev.test\n")
	assert.Contains(t, out, "ServerName api.dev.test\n")
	assert.NotContains(t, out, "plain.test")

	assert.Contains(t, out, "<VirtualHost *:443>")
	assert.Contains(t, out, "SSLEngine on")
	assert.Contains(t, out, "SSLCertificateFile /etc/certs/dev.pem")
	assert.Contains(t, out, "SSLCertificateKeyFile /etc/certs/dev-key.pem")
	assert.Contains(t, out, `RequestHeader set X-Forwarded-Proto "https"`)
	assert.Contains(t, out, "RewriteRule ^(.*)$ wss://localhost:3000$1 [P,L]")
}

func TestRenderSSLNoDomainsHeaderOnly(t *testing.T) {
	state := &domain.State{
		BaseDomains: []domain.BaseDomain{{Domain: "plain.test", Current: true}},
	}

	out := newTestRenderer().RenderSSL(state, testResolved())
	assert.Equal(t, header+"\n", out)
}

func TestRenderSkipsUnknownRouteTypes(t *testing.T) {
	resolved := []domain.ResolvedRoute{
		{Slug: "weird", Target: "/srv/weird", Type: "strange"},
		{Slug: "blog", Target: "/srv/blog", Type: domain.RouteTypeDirectory},
	}

	out := newTestRenderer().RenderHTTP(testState(), resolved)
	assert.NotContains(t, out, "weird")
	assert.Contains(t, out, "blog.dev.test")
}

func TestRenderIsDeterministic(t *testing.T) {
	r := newTestRenderer()
	first := r.RenderHTTP(testState(), testResolved())
	second := r.RenderHTTP(testState(), testResolved())
	require.Equal(t, first, second)
}

func TestDeriveWSTarget(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		forceWSS bool
		want     string
	}{
		{"explicit port", "http://localhost:3000", false, "ws://localhost:3000"},
		{"default http port", "http://localhost", false, "ws://localhost:80"},
		{"default https port", "https://localhost", false, "wss://localhost:443"},
		{"forced wss", "http://localhost:3000", true, "wss://localhost:3000"},
		{"empty host", "http://", false, "ws://localhost:80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveWSTarget(tt.target, tt.forceWSS))
		})
	}
}
