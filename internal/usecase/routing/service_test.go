package routing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/zerowrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devrouter/internal/adapters/out/statestore"
	"devrouter/internal/domain"
)

// fakeRenderer returns fixed artifact bodies and remembers the last inputs.
type fakeRenderer struct {
	lastResolved []domain.ResolvedRoute
}

func (f *fakeRenderer) RenderHTTP(_ *domain.State, resolved []domain.ResolvedRoute) string {
	f.lastResolved = resolved
	return "http artifact"
}

func (f *fakeRenderer) RenderSSL(*domain.State, []domain.ResolvedRoute) string {
	return "ssl artifact"
}

// fakeReload counts notifications.
type fakeReload struct {
	notified int
}

func (f *fakeReload) Notify(context.Context) { f.notified++ }

type serviceFixture struct {
	svc      *Service
	renderer *fakeRenderer
	reload   *fakeReload
	httpConf string
	sslConf  string
}

func newServiceFixture(t *testing.T, scanner *fakeScanner) *serviceFixture {
	t.Helper()

	dir := t.TempDir()
	log := zerowrap.New(zerowrap.Config{Level: "warn"})
	store, err := statestore.New(filepath.Join(dir, "data"), log)
	require.NoError(t, err)

	if scanner == nil {
		scanner = &fakeScanner{}
	}
	renderer := &fakeRenderer{}
	reload := &fakeReload{}
	cfg := Config{
		HTTPConfPath: filepath.Join(dir, "apache", "routes.conf"),
		SSLConfPath:  filepath.Join(dir, "apache", "routes-ssl.conf"),
	}

	return &serviceFixture{
		svc:      NewService(store, scanner, renderer, reload, cfg),
		renderer: renderer,
		reload:   reload,
		httpConf: cfg.HTTPConfPath,
		sslConf:  cfg.SSLConfPath,
	}
}

func TestAddDomain(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	domains, err := f.svc.AddDomain(ctx, "  Dev.Example.COM ")
	require.NoError(t, err)

	require.Len(t, domains, 2)
	assert.Equal(t, domain.SeedDomain, domains[0].Domain)
	assert.True(t, domains[0].Current)
	assert.Equal(t, "dev.example.com", domains[1].Domain)
	assert.False(t, domains[1].Current)

	_, err = f.svc.AddDomain(ctx, "dev.example.com")
	assert.ErrorIs(t, err, domain.ErrDomainExists)

	_, err = f.svc.AddDomain(ctx, "bad domain")
	assert.ErrorIs(t, err, domain.ErrInvalidDomain)
}

func TestSetCurrentDomain(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.AddDomain(ctx, "dev.example.com")
	require.NoError(t, err)

	domains, err := f.svc.SetCurrentDomain(ctx, "dev.example.com")
	require.NoError(t, err)
	assert.False(t, domains[0].Current)
	assert.True(t, domains[1].Current)

	_, err = f.svc.SetCurrentDomain(ctx, "missing.test")
	assert.ErrorIs(t, err, domain.ErrDomainNotFound)
}

func TestDeleteDomainProtectsCurrent(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.DeleteDomain(ctx, domain.SeedDomain)
	assert.ErrorIs(t, err, domain.ErrCurrentDomainProtected)

	_, err = f.svc.AddDomain(ctx, "dev.example.com")
	require.NoError(t, err)

	domains, err := f.svc.DeleteDomain(ctx, "dev.example.com")
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Equal(t, domain.SeedDomain, domains[0].Domain)
}

func TestEnableSSL(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	domains, err := f.svc.EnableSSL(ctx, domain.SeedDomain)
	require.NoError(t, err)
	assert.True(t, domains[0].SSL)

	_, err = f.svc.EnableSSL(ctx, "missing.test")
	assert.ErrorIs(t, err, domain.ErrDomainNotFound)
}

func TestAddGroup(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()
	groupDir := t.TempDir()

	groups, err := f.svc.AddGroup(ctx, groupDir+string(os.PathSeparator))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, groupDir, groups[0].Path)
	assert.True(t, groups[0].Exists)

	_, err = f.svc.AddGroup(ctx, groupDir)
	assert.ErrorIs(t, err, domain.ErrGroupExists)

	_, err = f.svc.AddGroup(ctx, filepath.Join(groupDir, "does-not-exist"))
	assert.ErrorIs(t, err, domain.ErrTargetNotDirectory)
}

func TestReorderGroups(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()
	first := t.TempDir()
	second := t.TempDir()

	_, err := f.svc.AddGroup(ctx, first)
	require.NoError(t, err)
	_, err = f.svc.AddGroup(ctx, second)
	require.NoError(t, err)

	groups, err := f.svc.ReorderGroups(ctx, []string{second, first})
	require.NoError(t, err)
	assert.Equal(t, second, groups[0].Path)
	assert.Equal(t, first, groups[1].Path)

	_, err = f.svc.ReorderGroups(ctx, []string{second})
	assert.ErrorIs(t, err, domain.ErrGroupOrderMismatch)

	_, err = f.svc.ReorderGroups(ctx, []string{second, second})
	assert.ErrorIs(t, err, domain.ErrGroupOrderMismatch)

	_, err = f.svc.ReorderGroups(ctx, []string{second, "/nope"})
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}

func TestAddRouteValidation(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()
	docRoot := t.TempDir()

	tests := []struct {
		name    string
		route   domain.Route
		wantErr error
	}{
		{
			name:    "bad slug",
			route:   domain.Route{Slug: "-bad-", Target: docRoot, Type: domain.RouteTypeDirectory},
			wantErr: domain.ErrInvalidSlug,
		},
		{
			name:    "missing directory",
			route:   domain.Route{Slug: "app", Target: filepath.Join(docRoot, "nope"), Type: domain.RouteTypeDirectory},
			wantErr: domain.ErrTargetNotDirectory,
		},
		{
			name:    "relative directory",
			route:   domain.Route{Slug: "app", Target: "relative/path", Type: domain.RouteTypeDirectory},
			wantErr: domain.ErrTargetNotDirectory,
		},
		{
			name:    "proxy without scheme",
			route:   domain.Route{Slug: "api", Target: "localhost:3000", Type: domain.RouteTypeProxy},
			wantErr: domain.ErrInvalidProxyTarget,
		},
		{
			name:    "proxy bad scheme",
			route:   domain.Route{Slug: "api", Target: "ftp://localhost", Type: domain.RouteTypeProxy},
			wantErr: domain.ErrInvalidProxyTarget,
		},
		{
			name:    "unknown type",
			route:   domain.Route{Slug: "api", Target: docRoot, Type: "weird"},
			wantErr: domain.ErrInvalidRouteType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddRoute(ctx, tt.route)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAddRoute(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()
	docRoot := t.TempDir()

	routes, err := f.svc.AddRoute(ctx, domain.Route{
		Slug: " Blog ", Target: docRoot, Type: domain.RouteTypeDirectory,
	})
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "blog", routes[0].Slug)

	routes, err = f.svc.AddRoute(ctx, domain.Route{
		Slug: "api", Target: "http://localhost:3000/", Type: domain.RouteTypeProxy,
	})
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, "http://localhost:3000", routes[1].Target)

	_, err = f.svc.AddRoute(ctx, domain.Route{
		Slug: "blog", Target: docRoot, Type: domain.RouteTypeDirectory,
	})
	assert.ErrorIs(t, err, domain.ErrRouteExists)
}

func TestDeleteRoute(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.AddRoute(ctx, domain.Route{
		Slug: "api", Target: "http://localhost:3000", Type: domain.RouteTypeProxy,
	})
	require.NoError(t, err)

	routes, err := f.svc.DeleteRoute(ctx, "API")
	require.NoError(t, err)
	assert.Empty(t, routes)

	_, err = f.svc.DeleteRoute(ctx, "api")
	assert.ErrorIs(t, err, domain.ErrRouteNotFound)
}

func TestMutationWritesArtifactsAndNotifies(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.AddDomain(ctx, "dev.example.com")
	require.NoError(t, err)

	httpConf, err := os.ReadFile(f.httpConf)
	require.NoError(t, err)
	assert.Equal(t, "http artifact", string(httpConf))

	sslConf, err := os.ReadFile(f.sslConf)
	require.NoError(t, err)
	assert.Equal(t, "ssl artifact", string(sslConf))

	assert.Equal(t, 1, f.reload.notified)
}

func TestFailedMutationDoesNotPersist(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.DeleteDomain(ctx, "missing.test")
	require.ErrorIs(t, err, domain.ErrDomainNotFound)

	assert.Equal(t, 0, f.reload.notified)
	_, statErr := os.Stat(f.httpConf)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRescanPicksUpGroupChanges(t *testing.T) {
	scanner := &fakeScanner{results: map[string]domain.ScanResult{}}
	f := newServiceFixture(t, scanner)
	ctx := context.Background()
	groupDir := t.TempDir()

	_, err := f.svc.AddGroup(ctx, groupDir)
	require.NoError(t, err)

	scanner.results[groupDir] = domain.ScanResult{Valid: []domain.ScanEntry{
		{Slug: "newapp", Target: filepath.Join(groupDir, "newapp")},
	}}

	groups, err := f.svc.Rescan(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Subdirs, 1)
	assert.Equal(t, "newapp", groups[0].Subdirs[0].Slug)

	require.Len(t, f.renderer.lastResolved, 1)
	assert.Equal(t, "newapp", f.renderer.lastResolved[0].Slug)
}
