package routing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devrouter/internal/domain"
)

// fakeScanner serves canned scan results per group path.
type fakeScanner struct {
	results map[string]domain.ScanResult
}

func (f *fakeScanner) Scan(_ context.Context, path string) domain.ScanResult {
	if r, ok := f.results[path]; ok {
		return r
	}
	return domain.ScanResult{Valid: []domain.ScanEntry{}, Skipped: []domain.SkippedEntry{}}
}

func newResolverService(scanner *fakeScanner) *Service {
	return NewService(nil, scanner, nil, nil, Config{})
}

func TestResolveExplicitBeforeGroups(t *testing.T) {
	scanner := &fakeScanner{results: map[string]domain.ScanResult{
		"/srv/work": {Valid: []domain.ScanEntry{
			{Slug: "api", Target: "/srv/work/api"},
			{Slug: "blog", Target: "/srv/work/blog"},
		}},
	}}
	svc := newResolverService(scanner)

	state := &domain.State{
		Groups: []domain.Group{{Path: "/srv/work"}},
		Routes: []domain.Route{
			{Slug: "api", Target: "http://localhost:3000", Type: domain.RouteTypeProxy},
		},
	}

	resolved := svc.Resolve(context.Background(), state)

	require.Len(t, resolved, 2)
	assert.Equal(t, "api", resolved[0].Slug)
	assert.Equal(t, "http://localhost:3000", resolved[0].Target)
	assert.Equal(t, domain.SourceExplicit, resolved[0].Source)
	assert.Equal(t, "blog", resolved[1].Slug)
	assert.Equal(t, domain.SourceGroup, resolved[1].Source)
	assert.Equal(t, "/srv/work", resolved[1].SourceLabel)
}

func TestResolveGroupPriorityOrder(t *testing.T) {
	scanner := &fakeScanner{results: map[string]domain.ScanResult{
		"/srv/first": {Valid: []domain.ScanEntry{
			{Slug: "shared", Target: "/srv/first/shared"},
		}},
		"/srv/second": {Valid: []domain.ScanEntry{
			{Slug: "shared", Target: "/srv/second/shared"},
			{Slug: "only", Target: "/srv/second/only"},
		}},
	}}
	svc := newResolverService(scanner)

	state := &domain.State{
		Groups: []domain.Group{{Path: "/srv/first"}, {Path: "/srv/second"}},
	}

	resolved := svc.Resolve(context.Background(), state)

	require.Len(t, resolved, 2)
	assert.Equal(t, "/srv/first/shared", resolved[0].Target)
	assert.Equal(t, "/srv/first", resolved[0].SourceLabel)
	assert.Equal(t, "only", resolved[1].Slug)

	// Flipping priority flips the winner.
	state.Groups = []domain.Group{{Path: "/srv/second"}, {Path: "/srv/first"}}
	resolved = svc.Resolve(context.Background(), state)

	require.Len(t, resolved, 2)
	assert.Equal(t, "/srv/second/shared", resolved[0].Target)
}

func TestResolveGroupRoutesAreDirectoryType(t *testing.T) {
	scanner := &fakeScanner{results: map[string]domain.ScanResult{
		"/srv/work": {Valid: []domain.ScanEntry{{Slug: "app", Target: "/srv/work/app"}}},
	}}
	svc := newResolverService(scanner)

	resolved := svc.Resolve(context.Background(), &domain.State{
		Groups: []domain.Group{{Path: "/srv/work"}},
	})

	require.Len(t, resolved, 1)
	assert.Equal(t, domain.RouteTypeDirectory, resolved[0].Type)
}

func TestBuildGroupsInfoConflictAnnotations(t *testing.T) {
	scanner := &fakeScanner{results: map[string]domain.ScanResult{
		"/srv/first": {Valid: []domain.ScanEntry{
			{Slug: "api", Target: "/srv/first/api"},
			{Slug: "shared", Target: "/srv/first/shared"},
		}},
		"/srv/second": {Valid: []domain.ScanEntry{
			{Slug: "shared", Target: "/srv/second/shared"},
		}},
	}}
	svc := newResolverService(scanner)

	state := &domain.State{
		Groups: []domain.Group{{Path: "/srv/first"}, {Path: "/srv/second"}},
		Routes: []domain.Route{
			{Slug: "api", Target: "http://localhost:3000", Type: domain.RouteTypeProxy},
		},
	}

	infos := svc.BuildGroupsInfo(context.Background(), state)
	require.Len(t, infos, 2)

	first := infos[0]
	require.Len(t, first.Subdirs, 2)
	assert.Equal(t, domain.SubdirShadowed, first.Subdirs[0].Status)
	assert.Equal(t, domain.ConflictExplicit, first.Subdirs[0].ConflictWith)
	assert.Equal(t, domain.SubdirActive, first.Subdirs[1].Status)
	assert.Empty(t, first.Subdirs[1].ConflictWith)

	second := infos[1]
	require.Len(t, second.Subdirs, 1)
	assert.Equal(t, domain.SubdirShadowed, second.Subdirs[0].Status)
	assert.Equal(t, "/srv/first", second.Subdirs[0].ConflictWith)
}

// The flat table and the annotated view must agree: every active subdir
// appears in the resolved table and every shadowed one does not.
func TestResolveAndGroupsInfoAgree(t *testing.T) {
	scanner := &fakeScanner{results: map[string]domain.ScanResult{
		"/srv/a": {Valid: []domain.ScanEntry{
			{Slug: "one", Target: "/srv/a/one"},
			{Slug: "two", Target: "/srv/a/two"},
		}},
		"/srv/b": {Valid: []domain.ScanEntry{
			{Slug: "two", Target: "/srv/b/two"},
			{Slug: "three", Target: "/srv/b/three"},
		}},
	}}
	svc := newResolverService(scanner)

	state := &domain.State{
		Groups: []domain.Group{{Path: "/srv/a"}, {Path: "/srv/b"}},
		Routes: []domain.Route{
			{Slug: "one", Target: "http://localhost:9000", Type: domain.RouteTypeProxy},
		},
	}

	resolved := svc.Resolve(context.Background(), state)
	infos := svc.BuildGroupsInfo(context.Background(), state)

	resolvedTargets := make(map[string]string)
	for _, r := range resolved {
		resolvedTargets[r.Slug] = r.Target
	}

	for _, info := range infos {
		for _, sub := range info.Subdirs {
			if sub.Status == domain.SubdirActive {
				assert.Equal(t, sub.Target, resolvedTargets[sub.Slug],
					"active subdir %s must win in the resolved table", sub.Slug)
			} else {
				assert.NotEqual(t, sub.Target, resolvedTargets[sub.Slug],
					"shadowed subdir %s must not appear in the resolved table", sub.Slug)
			}
		}
	}
}

func TestBuildGroupsInfoSkippedNeverNil(t *testing.T) {
	scanner := &fakeScanner{results: map[string]domain.ScanResult{
		"/srv/work": {Valid: []domain.ScanEntry{{Slug: "app", Target: "/srv/work/app"}}},
	}}
	svc := newResolverService(scanner)

	infos := svc.BuildGroupsInfo(context.Background(), &domain.State{
		Groups: []domain.Group{{Path: "/srv/work"}},
	})

	require.Len(t, infos, 1)
	assert.NotNil(t, infos[0].Skipped)
	assert.False(t, infos[0].Exists)
}
