package domain

// RouteType distinguishes how a route target is served.
type RouteType string

const (
	// RouteTypeDirectory serves a local directory as a static document root.
	RouteTypeDirectory RouteType = "directory"
	// RouteTypeProxy reverse-proxies to a local HTTP service.
	RouteTypeProxy RouteType = "proxy"
)

// SeedDomain is the base domain seeded on first run. It resolves to loopback
// for any subdomain without touching /etc/hosts.
const SeedDomain = "127.0.0.1.nip.io"

// BaseDomain is a registered root domain under which slugs are composed.
type BaseDomain struct {
	Domain  string `json:"domain"`
	Current bool   `json:"current"`
	SSL     bool   `json:"ssl"`
}

// Group is a directory whose immediate subdirectories are auto-discovered as
// routes. Collection order is priority order, lowest index wins.
type Group struct {
	Path string `json:"path"`
}

// Route is an explicit slug to target mapping. Explicit routes always take
// precedence over group-derived candidates.
type Route struct {
	Slug   string    `json:"slug"`
	Target string    `json:"target"`
	Type   RouteType `json:"type"`
}

// State is the single persisted routing aggregate.
type State struct {
	BaseDomains []BaseDomain `json:"baseDomains"`
	Groups      []Group      `json:"groups"`
	Routes      []Route      `json:"routes"`
}

// NewInitialState returns the state seeded on first run: one current,
// non-SSL base domain and no groups or routes.
func NewInitialState() *State {
	return &State{
		BaseDomains: []BaseDomain{
			{Domain: SeedDomain, Current: true, SSL: false},
		},
		Groups: []Group{},
		Routes: []Route{},
	}
}

// FindDomain returns the index of the base domain with the given name, or -1.
func (s *State) FindDomain(name string) int {
	for i, bd := range s.BaseDomains {
		if bd.Domain == name {
			return i
		}
	}
	return -1
}

// FindGroup returns the index of the group with the given path, or -1.
func (s *State) FindGroup(path string) int {
	for i, g := range s.Groups {
		if g.Path == path {
			return i
		}
	}
	return -1
}

// FindRoute returns the index of the explicit route with the given slug, or -1.
func (s *State) FindRoute(slug string) int {
	for i, r := range s.Routes {
		if r.Slug == slug {
			return i
		}
	}
	return -1
}

// DomainNames returns all base domain names in registration order.
func (s *State) DomainNames() []string {
	names := make([]string, 0, len(s.BaseDomains))
	for _, bd := range s.BaseDomains {
		names = append(names, bd.Domain)
	}
	return names
}

// SSLDomainNames returns the names of base domains with SSL enabled, in
// registration order.
func (s *State) SSLDomainNames() []string {
	var names []string
	for _, bd := range s.BaseDomains {
		if bd.SSL {
			names = append(names, bd.Domain)
		}
	}
	return names
}

// GroupPaths returns all group paths in priority order.
func (s *State) GroupPaths() []string {
	paths := make([]string, 0, len(s.Groups))
	for _, g := range s.Groups {
		paths = append(paths, g.Path)
	}
	return paths
}
