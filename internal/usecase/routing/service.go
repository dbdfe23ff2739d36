// Package routing implements the route-resolution and configuration-
// synthesis use case: the load-mutate-resolve-synthesize-persist-notify
// cycle behind every routing-state operation.
package routing

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/zerowrap"

	"devrouter/internal/boundaries/out"
	"devrouter/internal/domain"
)

// Config holds the artifact locations the service persists to.
type Config struct {
	HTTPConfPath string
	SSLConfPath  string
}

// Service implements the RoutingService inbound port.
type Service struct {
	store    out.StateStore
	scanner  out.GroupScanner
	renderer out.ArtifactRenderer
	reload   out.ReloadTrigger
	config   Config
}

// NewService creates a new routing service.
func NewService(
	store out.StateStore,
	scanner out.GroupScanner,
	renderer out.ArtifactRenderer,
	reload out.ReloadTrigger,
	config Config,
) *Service {
	return &Service{
		store:    store,
		scanner:  scanner,
		renderer: renderer,
		reload:   reload,
		config:   config,
	}
}

// persist saves the state, re-synthesizes both artifacts and notifies the
// external server. Any write failure aborts: the mutation is not durable and
// must be reported as a request failure.
func (s *Service) persist(ctx context.Context, state *domain.State) error {
	if err := s.store.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}

	resolved := s.Resolve(ctx, state)

	httpConf := s.renderer.RenderHTTP(state, resolved)
	if err := s.store.WriteArtifact(ctx, s.config.HTTPConfPath, []byte(httpConf)); err != nil {
		return fmt.Errorf("failed to write routing artifact: %w", err)
	}

	sslConf := s.renderer.RenderSSL(state, resolved)
	if err := s.store.WriteArtifact(ctx, s.config.SSLConfPath, []byte(sslConf)); err != nil {
		return fmt.Errorf("failed to write TLS routing artifact: %w", err)
	}

	logger := zerowrap.FromCtx(ctx)
	logger.Debug().
		Str(zerowrap.FieldLayer, "usecase").
		Int(zerowrap.FieldCount, len(resolved)).
		Msg("state persisted and artifacts regenerated")

	// Fire and forget: the artifacts are durable even if the live server
	// does not pick them up right away.
	s.reload.Notify(ctx)
	return nil
}

// mutate runs one serialized mutation cycle. The lock covers load, mutation
// and persistence so concurrent writers cannot lose updates.
func (s *Service) mutate(ctx context.Context, fn func(state *domain.State) error) (*domain.State, error) {
	release, err := s.store.Lock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock state: %w", err)
	}
	defer release()

	state, warning, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if warning != "" {
		logger := zerowrap.FromCtx(ctx)
		logger.Warn().
			Str(zerowrap.FieldLayer, "usecase").
			Msg(warning)
	}

	if err := fn(state); err != nil {
		return nil, err
	}

	if err := s.persist(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// ListDomains returns all base domains plus any recovery warning.
func (s *Service) ListDomains(ctx context.Context) ([]domain.BaseDomain, string, error) {
	state, warning, err := s.store.Load(ctx)
	if err != nil {
		return nil, "", err
	}
	return state.BaseDomains, warning, nil
}

// AddDomain registers a new base domain. The first domain ever registered
// automatically becomes current.
func (s *Service) AddDomain(ctx context.Context, name string) ([]domain.BaseDomain, error) {
	name = normalizeDomain(name)
	if !domain.ValidDomain(name) {
		return nil, domain.ErrInvalidDomain
	}

	state, err := s.mutate(ctx, func(state *domain.State) error {
		if state.FindDomain(name) >= 0 {
			return fmt.Errorf("%w: %s", domain.ErrDomainExists, name)
		}
		state.BaseDomains = append(state.BaseDomains, domain.BaseDomain{
			Domain:  name,
			Current: len(state.BaseDomains) == 0,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger := zerowrap.FromCtx(ctx)
	logger.Info().
		Str(zerowrap.FieldLayer, "usecase").
		Str(zerowrap.FieldUseCase, "AddDomain").
		Str("domain", name).
		Msg("base domain registered")
	return state.BaseDomains, nil
}

// SetCurrentDomain marks the given domain as current and clears the flag on
// every other domain.
func (s *Service) SetCurrentDomain(ctx context.Context, name string) ([]domain.BaseDomain, error) {
	name = normalizeDomain(name)

	state, err := s.mutate(ctx, func(state *domain.State) error {
		if state.FindDomain(name) < 0 {
			return fmt.Errorf("%w: %s", domain.ErrDomainNotFound, name)
		}
		for i := range state.BaseDomains {
			state.BaseDomains[i].Current = state.BaseDomains[i].Domain == name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state.BaseDomains, nil
}

// DeleteDomain removes a base domain. The current domain is protected.
func (s *Service) DeleteDomain(ctx context.Context, name string) ([]domain.BaseDomain, error) {
	name = normalizeDomain(name)

	state, err := s.mutate(ctx, func(state *domain.State) error {
		i := state.FindDomain(name)
		if i < 0 {
			return fmt.Errorf("%w: %s", domain.ErrDomainNotFound, name)
		}
		if state.BaseDomains[i].Current {
			return domain.ErrCurrentDomainProtected
		}
		state.BaseDomains = append(state.BaseDomains[:i], state.BaseDomains[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state.BaseDomains, nil
}

// EnableSSL flips the SSL flag of a base domain. The secure artifact is
// re-synthesized as part of the persist step.
func (s *Service) EnableSSL(ctx context.Context, name string) ([]domain.BaseDomain, error) {
	name = normalizeDomain(name)

	state, err := s.mutate(ctx, func(state *domain.State) error {
		i := state.FindDomain(name)
		if i < 0 {
			return fmt.Errorf("%w: %s", domain.ErrDomainNotFound, name)
		}
		state.BaseDomains[i].SSL = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state.BaseDomains, nil
}

// ListGroups returns the annotated per-group view plus any recovery warning.
func (s *Service) ListGroups(ctx context.Context) ([]domain.GroupInfo, string, error) {
	state, warning, err := s.store.Load(ctx)
	if err != nil {
		return nil, "", err
	}
	return s.BuildGroupsInfo(ctx, state), warning, nil
}

// AddGroup registers a directory as a group. The directory must exist at
// registration time; disappearing later degrades to zero candidates.
func (s *Service) AddGroup(ctx context.Context, path string) ([]domain.GroupInfo, error) {
	path = normalizeGroupPath(path)
	if !dirExists(path) {
		return nil, fmt.Errorf("%w: %s", domain.ErrTargetNotDirectory, path)
	}

	state, err := s.mutate(ctx, func(state *domain.State) error {
		if state.FindGroup(path) >= 0 {
			return fmt.Errorf("%w: %s", domain.ErrGroupExists, path)
		}
		state.Groups = append(state.Groups, domain.Group{Path: path})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger := zerowrap.FromCtx(ctx)
	logger.Info().
		Str(zerowrap.FieldLayer, "usecase").
		Str(zerowrap.FieldUseCase, "AddGroup").
		Str(zerowrap.FieldPath, path).
		Msg("group registered")
	return s.BuildGroupsInfo(ctx, state), nil
}

// ReorderGroups replaces the group priority order. The new order must cover
// exactly the currently registered paths.
func (s *Service) ReorderGroups(ctx context.Context, order []string) ([]domain.GroupInfo, error) {
	state, err := s.mutate(ctx, func(state *domain.State) error {
		if len(order) != len(state.Groups) {
			return domain.ErrGroupOrderMismatch
		}
		seen := make(map[string]bool, len(order))
		for _, path := range order {
			if state.FindGroup(path) < 0 {
				return fmt.Errorf("%w: %s", domain.ErrGroupNotFound, path)
			}
			if seen[path] {
				return domain.ErrGroupOrderMismatch
			}
			seen[path] = true
		}

		groups := make([]domain.Group, 0, len(order))
		for _, path := range order {
			groups = append(groups, domain.Group{Path: path})
		}
		state.Groups = groups
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.BuildGroupsInfo(ctx, state), nil
}

// DeleteGroup removes a group registration. The directory itself is left
// alone.
func (s *Service) DeleteGroup(ctx context.Context, path string) ([]domain.GroupInfo, error) {
	path = normalizeGroupPath(path)

	state, err := s.mutate(ctx, func(state *domain.State) error {
		i := state.FindGroup(path)
		if i < 0 {
			return fmt.Errorf("%w: %s", domain.ErrGroupNotFound, path)
		}
		state.Groups = append(state.Groups[:i], state.Groups[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.BuildGroupsInfo(ctx, state), nil
}

// ListRoutes returns all explicit routes plus any recovery warning.
func (s *Service) ListRoutes(ctx context.Context) ([]domain.Route, string, error) {
	state, warning, err := s.store.Load(ctx)
	if err != nil {
		return nil, "", err
	}
	return state.Routes, warning, nil
}

// AddRoute registers an explicit route. Directory targets must exist; proxy
// targets must be absolute http(s) URLs with a host, so the WebSocket
// rewrite in the artifact always has something derivable to point at.
func (s *Service) AddRoute(ctx context.Context, route domain.Route) ([]domain.Route, error) {
	route.Slug = strings.ToLower(strings.TrimSpace(route.Slug))
	route.Target = strings.TrimSpace(route.Target)

	if !domain.ValidSlug(route.Slug) {
		return nil, domain.ErrInvalidSlug
	}
	switch route.Type {
	case domain.RouteTypeDirectory:
		if !filepath.IsAbs(route.Target) || !dirExists(route.Target) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTargetNotDirectory, route.Target)
		}
	case domain.RouteTypeProxy:
		// Trailing slashes are stripped so the synthesized ProxyPass
		// directives can append their own.
		route.Target = strings.TrimRight(route.Target, "/")
		if !validProxyTarget(route.Target) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProxyTarget, route.Target)
		}
	default:
		return nil, domain.ErrInvalidRouteType
	}

	state, err := s.mutate(ctx, func(state *domain.State) error {
		if state.FindRoute(route.Slug) >= 0 {
			return fmt.Errorf("%w: %s", domain.ErrRouteExists, route.Slug)
		}
		state.Routes = append(state.Routes, route)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger := zerowrap.FromCtx(ctx)
	logger.Info().
		Str(zerowrap.FieldLayer, "usecase").
		Str(zerowrap.FieldUseCase, "AddRoute").
		Str("slug", route.Slug).
		Str("target", route.Target).
		Str("type", string(route.Type)).
		Msg("route registered")
	return state.Routes, nil
}

// DeleteRoute removes an explicit route.
func (s *Service) DeleteRoute(ctx context.Context, slug string) ([]domain.Route, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))

	state, err := s.mutate(ctx, func(state *domain.State) error {
		i := state.FindRoute(slug)
		if i < 0 {
			return fmt.Errorf("%w: %s", domain.ErrRouteNotFound, slug)
		}
		state.Routes = append(state.Routes[:i], state.Routes[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state.Routes, nil
}

// Rescan re-runs group discovery and regenerates the artifacts from the
// unchanged registered state.
func (s *Service) Rescan(ctx context.Context) ([]domain.GroupInfo, error) {
	state, err := s.mutate(ctx, func(*domain.State) error { return nil })
	if err != nil {
		return nil, err
	}
	return s.BuildGroupsInfo(ctx, state), nil
}

// Resolved returns the current flat resolved-route table.
func (s *Service) Resolved(ctx context.Context) ([]domain.ResolvedRoute, error) {
	state, _, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, state), nil
}

func normalizeDomain(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// normalizeGroupPath trims trailing slashes so the same directory always
// compares equal regardless of how the caller spelled it.
func normalizeGroupPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return path
	}
	return filepath.Clean(path)
}

func validProxyTarget(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
