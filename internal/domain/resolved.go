package domain

// RouteSource identifies where a resolved route came from.
type RouteSource string

const (
	// SourceExplicit marks a route registered manually.
	SourceExplicit RouteSource = "explicit"
	// SourceGroup marks a route discovered by scanning a group directory.
	SourceGroup RouteSource = "group"
)

// ConflictExplicit is the conflictWith label used when an explicit route
// shadows a group candidate.
const ConflictExplicit = "explicit"

// ResolvedRoute is the final slug to target mapping after merging explicit
// routes with group scans. It is derived on every pass and never persisted.
type ResolvedRoute struct {
	Slug        string      `json:"slug"`
	Target      string      `json:"target"`
	Type        RouteType   `json:"type"`
	Source      RouteSource `json:"source"`
	SourceLabel string      `json:"sourceLabel,omitempty"`
}

// SubdirStatus tells whether a group candidate won or lost the slug contest.
type SubdirStatus string

const (
	// SubdirActive means the candidate is the first claimant of its slug.
	SubdirActive SubdirStatus = "active"
	// SubdirShadowed means an earlier source already claimed the slug.
	SubdirShadowed SubdirStatus = "shadowed"
)

// ScanEntry is a usable route candidate found inside a group directory.
type ScanEntry struct {
	Slug   string `json:"slug"`
	Target string `json:"target"`
}

// SkippedEntry records a group subdirectory that cannot become a route.
type SkippedEntry struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ScanResult is the outcome of scanning one group directory.
type ScanResult struct {
	Valid   []ScanEntry    `json:"valid"`
	Skipped []SkippedEntry `json:"skipped"`
}

// SubdirInfo is the annotated per-candidate view used for presentation.
type SubdirInfo struct {
	Slug         string       `json:"slug"`
	Target       string       `json:"target"`
	Status       SubdirStatus `json:"status"`
	ConflictWith string       `json:"conflictWith,omitempty"`
}

// GroupInfo is the annotated per-group view: every candidate with its
// active/shadowed status plus the entries the scanner skipped.
type GroupInfo struct {
	Path    string         `json:"path"`
	Exists  bool           `json:"exists"`
	Subdirs []SubdirInfo   `json:"subdirs"`
	Skipped []SkippedEntry `json:"skipped"`
}
