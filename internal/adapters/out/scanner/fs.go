// Package scanner implements the GroupScanner port on the local filesystem.
package scanner

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bnema/zerowrap"

	"devrouter/internal/domain"
)

// docRootDir is the subdirectory promoted to document root when present.
const docRootDir = "public"

const skipReasonPattern = "name does not match the slug pattern (lowercase letters, digits and hyphens only)"

// FS scans group directories for route candidates.
type FS struct {
	log zerowrap.Logger
}

// New creates a filesystem group scanner.
func New(log zerowrap.Logger) *FS {
	return &FS{log: log}
}

// Scan enumerates the immediate subdirectories of path. Entries are returned
// in lexicographic order, which keeps resolution reproducible across
// platforms. An unreadable path contributes nothing and is not an error.
func (f *FS) Scan(ctx context.Context, path string) domain.ScanResult {
	result := domain.ScanResult{
		Valid:   []domain.ScanEntry{},
		Skipped: []domain.SkippedEntry{},
	}

	// os.ReadDir sorts by filename.
	entries, err := os.ReadDir(path)
	if err != nil {
		f.log.Debug().
			Str(zerowrap.FieldLayer, "adapter").
			Str(zerowrap.FieldAdapter, "scanner").
			Str(zerowrap.FieldPath, path).
			Err(err).
			Msg("group directory unreadable, contributing no candidates")
		return result
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()

		if !domain.ValidSlug(name) {
			result.Skipped = append(result.Skipped, domain.SkippedEntry{
				Name:   name,
				Reason: skipReasonPattern,
			})
			continue
		}

		target := filepath.Join(path, name)
		if info, err := os.Stat(filepath.Join(target, docRootDir)); err == nil && info.IsDir() {
			target = filepath.Join(target, docRootDir)
		}

		result.Valid = append(result.Valid, domain.ScanEntry{
			Slug:   name,
			Target: target,
		})
	}

	return result
}
