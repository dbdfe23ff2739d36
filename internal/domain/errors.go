package domain

import "errors"

// Domain errors represent business-level failure conditions. All of them are
// detected before any state mutation; a request that hits one leaves the
// persisted state untouched.
var (
	// Validation errors
	ErrInvalidSlug        = errors.New("invalid slug: only lowercase letters, digits and hyphens are allowed, and it must not start or end with a hyphen")
	ErrInvalidDomain      = errors.New("invalid domain: only letters, digits, hyphens and dots are allowed")
	ErrInvalidRouteType   = errors.New("invalid route type: must be \"directory\" or \"proxy\"")
	ErrTargetNotDirectory = errors.New("target directory does not exist")
	ErrInvalidProxyTarget = errors.New("proxy target must be an absolute http:// or https:// URL")

	// Conflict errors
	ErrDomainExists       = errors.New("domain is already registered")
	ErrGroupExists        = errors.New("group is already registered")
	ErrRouteExists        = errors.New("slug is already registered")
	ErrGroupOrderMismatch = errors.New("order must contain every registered group path exactly once")

	// Not-found errors
	ErrDomainNotFound = errors.New("domain is not registered")
	ErrGroupNotFound  = errors.New("group is not registered")
	ErrRouteNotFound  = errors.New("slug is not registered")

	// Invariant-protection errors
	ErrCurrentDomainProtected = errors.New("the current domain cannot be deleted; set another domain as current first")

	// Certificate tooling errors
	ErrMkcertNotInstalled = errors.New("mkcert is not installed")
	ErrMkcertCANotFound   = errors.New("mkcert local CA is not installed; run mkcert -install first")
	ErrNoSSLDomains       = errors.New("no base domain has SSL enabled")
)
