package out

import (
	"context"

	"devrouter/internal/domain"
)

// GroupScanner is the outbound port for discovering route candidates inside
// a group directory.
type GroupScanner interface {
	// Scan enumerates the immediate subdirectories of path, splitting them
	// into usable candidates and skipped entries. An unreadable path is not
	// an error: the group simply contributes nothing.
	Scan(ctx context.Context, path string) domain.ScanResult
}
