package in

import (
	"context"

	"devrouter/internal/domain"
)

// RoutingService is the inbound port for every routing-state operation. Each
// mutation runs as one serialized load-mutate-resolve-synthesize-persist-
// notify cycle; list operations are lock-free reads.
//
// The warning returned by list operations is non-empty when the state had to
// be recovered from the backup chain. It never turns a response into a
// failure.
type RoutingService interface {
	ListDomains(ctx context.Context) (domains []domain.BaseDomain, warning string, err error)
	AddDomain(ctx context.Context, name string) ([]domain.BaseDomain, error)
	SetCurrentDomain(ctx context.Context, name string) ([]domain.BaseDomain, error)
	DeleteDomain(ctx context.Context, name string) ([]domain.BaseDomain, error)

	// EnableSSL flips the SSL flag of a base domain and re-synthesizes the
	// artifacts. Certificate issuance itself belongs to the CertService.
	EnableSSL(ctx context.Context, name string) ([]domain.BaseDomain, error)

	ListGroups(ctx context.Context) (groups []domain.GroupInfo, warning string, err error)
	AddGroup(ctx context.Context, path string) ([]domain.GroupInfo, error)
	ReorderGroups(ctx context.Context, order []string) ([]domain.GroupInfo, error)
	DeleteGroup(ctx context.Context, path string) ([]domain.GroupInfo, error)

	ListRoutes(ctx context.Context) (routes []domain.Route, warning string, err error)
	AddRoute(ctx context.Context, route domain.Route) ([]domain.Route, error)
	DeleteRoute(ctx context.Context, slug string) ([]domain.Route, error)

	// Rescan re-runs group discovery and regenerates the artifacts without
	// mutating the registered state.
	Rescan(ctx context.Context) ([]domain.GroupInfo, error)

	// Resolved returns the current flat resolved-route table.
	Resolved(ctx context.Context) ([]domain.ResolvedRoute, error)
}
