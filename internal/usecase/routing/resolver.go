package routing

import (
	"context"

	"devrouter/internal/domain"
)

// claim records who owns a slug: an explicit route or the first group that
// contributed it.
type claim struct {
	source domain.RouteSource
	label  string // group path when source is group
}

// claimSet is the single precedence primitive shared by Resolve and
// BuildGroupsInfo. Both walk the state in the same order and attempt the
// same claims, so the two views cannot drift apart.
type claimSet map[string]claim

// tryClaim claims slug for the given source if it is still free. It returns
// the winning claim and whether this call took it.
func (c claimSet) tryClaim(slug string, source domain.RouteSource, label string) (claim, bool) {
	if owner, ok := c[slug]; ok {
		return owner, false
	}
	cl := claim{source: source, label: label}
	c[slug] = cl
	return cl, true
}

// claimExplicit seeds the set with every explicit route slug.
func (c claimSet) claimExplicit(state *domain.State) {
	for _, r := range state.Routes {
		c.tryClaim(r.Slug, domain.SourceExplicit, "")
	}
}

// conflictLabel renders a claim as the conflictWith value shown to operators.
func (cl claim) conflictLabel() string {
	if cl.source == domain.SourceExplicit {
		return domain.ConflictExplicit
	}
	return cl.label
}

// Resolve merges explicit routes with group scans into the flat route table
// used for artifact synthesis. Ordering: explicit routes in registration
// order, then groups in priority order, within a group in scan order. The
// first claimant of a slug wins; later candidates are silently shadowed.
func (s *Service) Resolve(ctx context.Context, state *domain.State) []domain.ResolvedRoute {
	resolved := make([]domain.ResolvedRoute, 0, len(state.Routes))
	claims := make(claimSet)

	for _, r := range state.Routes {
		claims.tryClaim(r.Slug, domain.SourceExplicit, "")
		resolved = append(resolved, domain.ResolvedRoute{
			Slug:   r.Slug,
			Target: r.Target,
			Type:   r.Type,
			Source: domain.SourceExplicit,
		})
	}

	for _, g := range state.Groups {
		result := s.scanner.Scan(ctx, g.Path)
		for _, entry := range result.Valid {
			if _, won := claims.tryClaim(entry.Slug, domain.SourceGroup, g.Path); !won {
				continue
			}
			resolved = append(resolved, domain.ResolvedRoute{
				Slug:        entry.Slug,
				Target:      entry.Target,
				Type:        domain.RouteTypeDirectory,
				Source:      domain.SourceGroup,
				SourceLabel: g.Path,
			})
		}
	}

	return resolved
}

// BuildGroupsInfo computes the annotated per-group view: the same claim
// bookkeeping as Resolve, but recording for every candidate whether it is
// active or shadowed and what claimed its slug first.
func (s *Service) BuildGroupsInfo(ctx context.Context, state *domain.State) []domain.GroupInfo {
	claims := make(claimSet)
	claims.claimExplicit(state)

	infos := make([]domain.GroupInfo, 0, len(state.Groups))
	for _, g := range state.Groups {
		result := s.scanner.Scan(ctx, g.Path)

		subdirs := make([]domain.SubdirInfo, 0, len(result.Valid))
		for _, entry := range result.Valid {
			info := domain.SubdirInfo{
				Slug:   entry.Slug,
				Target: entry.Target,
				Status: domain.SubdirActive,
			}
			if owner, won := claims.tryClaim(entry.Slug, domain.SourceGroup, g.Path); !won {
				info.Status = domain.SubdirShadowed
				info.ConflictWith = owner.conflictLabel()
			}
			subdirs = append(subdirs, info)
		}

		skipped := result.Skipped
		if skipped == nil {
			skipped = []domain.SkippedEntry{}
		}

		infos = append(infos, domain.GroupInfo{
			Path:    g.Path,
			Exists:  dirExists(g.Path),
			Subdirs: subdirs,
			Skipped: skipped,
		})
	}

	return infos
}
