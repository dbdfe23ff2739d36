package domain

import "regexp"

// Slugs are subdomain labels: lowercase letters, digits and hyphens, no
// leading or trailing hyphen. Base domains additionally allow dots. Both
// patterns deliberately reject anything that could break the generated
// Apache configuration.
var (
	slugPattern   = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)
	domainPattern = regexp.MustCompile(`(?i)^[a-z0-9]([a-z0-9.-]*[a-z0-9])?$`)
)

// maxDomainLength is the DNS limit for a full domain name.
const maxDomainLength = 253

// ValidSlug reports whether s is a usable slug. Callers lowercase before
// validating; the pattern itself is case-sensitive.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// ValidDomain reports whether s is a usable base domain name.
func ValidDomain(s string) bool {
	if s == "" || len(s) > maxDomainLength {
		return false
	}
	return domainPattern.MatchString(s)
}
