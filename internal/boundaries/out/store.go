package out

import (
	"context"

	"devrouter/internal/domain"
)

// StateStore is the outbound port for durable routing state.
//
// Load never hard-fails on corruption: it falls back to the backup (restoring
// it as the new primary) and finally to a freshly seeded state, reporting the
// degradation through the warning string. Write failures are real errors.
type StateStore interface {
	// Lock acquires the advisory exclusive lock that serializes the whole
	// load-mutate-persist cycle across processes. The returned release
	// function must be called exactly once.
	Lock(ctx context.Context) (release func(), err error)

	// Load reads the persisted state. The warning is empty on a clean read,
	// non-empty when the backup chain had to kick in.
	Load(ctx context.Context) (state *domain.State, warning string, err error)

	// Save persists the state: backup of the current primary first, then an
	// atomic tmp-and-rename replacement of the primary.
	Save(ctx context.Context, state *domain.State) error

	// WriteArtifact atomically writes a derived configuration artifact.
	WriteArtifact(ctx context.Context, path string, content []byte) error
}
