// Package statestore implements the StateStore port on the local filesystem:
// one JSON primary, a one-generation backup, tmp-and-rename writes and an
// advisory flock serializing mutation cycles across processes.
package statestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/gofrs/flock"

	"devrouter/internal/domain"
)

const (
	stateFileName  = "routes.json"
	backupFileName = "routes.json.bak"
	lockFileName   = "routes.json.lock"
)

// lockRetryDelay is how often a blocked writer re-attempts the flock.
const lockRetryDelay = 50 * time.Millisecond

// Recovery warnings attached to successful loads.
const (
	WarnRestoredFromBackup = "state file was unreadable and has been restored from the backup"
	WarnStateReset         = "state file and backup were both unusable; starting from a fresh initial state"
)

// FileStore implements the StateStore port.
type FileStore struct {
	dataDir    string
	path       string
	backupPath string
	lock       *flock.Flock
	log        zerowrap.Logger
}

// New creates a file store rooted at dataDir, creating the directory if
// needed.
func New(dataDir string, log zerowrap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}

	log.Debug().
		Str(zerowrap.FieldLayer, "adapter").
		Str(zerowrap.FieldAdapter, "statestore").
		Str("data_dir", dataDir).
		Msg("state store initialized")

	return &FileStore{
		dataDir:    dataDir,
		path:       filepath.Join(dataDir, stateFileName),
		backupPath: filepath.Join(dataDir, backupFileName),
		lock:       flock.New(filepath.Join(dataDir, lockFileName)),
		log:        log,
	}, nil
}

// StatePath returns the location of the primary state file.
func (s *FileStore) StatePath() string { return s.path }

// Lock acquires the advisory exclusive lock for one mutation cycle.
func (s *FileStore) Lock(ctx context.Context) (func(), error) {
	ok, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire state lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("failed to acquire state lock")
	}
	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.log.Warn().
				Str(zerowrap.FieldLayer, "adapter").
				Str(zerowrap.FieldAdapter, "statestore").
				Err(err).
				Msg("failed to release state lock")
		}
	}, nil
}

// Load reads the state through the recovery chain: primary, then backup
// (restoring it as the new primary), then a freshly seeded initial state.
// Corruption is reported as a warning, never as an error.
func (s *FileStore) Load(ctx context.Context) (*domain.State, string, error) {
	if state, ok := s.readState(s.path); ok {
		return state, "", nil
	}

	if state, ok := s.readState(s.backupPath); ok {
		// Write the backup back as the new primary so the next load is clean.
		if err := s.writeState(state, s.path); err != nil {
			return nil, "", fmt.Errorf("failed to restore state from backup: %w", err)
		}
		s.log.Warn().
			Str(zerowrap.FieldLayer, "adapter").
			Str(zerowrap.FieldAdapter, "statestore").
			Str(zerowrap.FieldPath, s.path).
			Msg("state restored from backup")
		return state, WarnRestoredFromBackup, nil
	}

	state := domain.NewInitialState()
	if err := s.writeState(state, s.path); err != nil {
		return nil, "", fmt.Errorf("failed to seed initial state: %w", err)
	}
	s.log.Warn().
		Str(zerowrap.FieldLayer, "adapter").
		Str(zerowrap.FieldAdapter, "statestore").
		Str(zerowrap.FieldPath, s.path).
		Msg("state reset to initial")
	return state, WarnStateReset, nil
}

// Save backs up the current primary, then atomically replaces it. A good
// backup is never overwritten with nothing: the copy only happens when a
// primary exists.
func (s *FileStore) Save(ctx context.Context, state *domain.State) error {
	if _, err := os.Stat(s.path); err == nil {
		current, err := os.ReadFile(s.path)
		if err != nil {
			return fmt.Errorf("failed to read state for backup: %w", err)
		}
		if err := s.atomicWrite(s.backupPath, current); err != nil {
			return fmt.Errorf("failed to write state backup: %w", err)
		}
	}
	return s.writeState(state, s.path)
}

// WriteArtifact atomically writes a derived configuration artifact.
func (s *FileStore) WriteArtifact(ctx context.Context, path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := s.atomicWrite(path, content); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return nil
}

// readState parses a state file and checks the expected top-level shape.
func (s *FileStore) readState(path string) (*domain.State, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, false
	}
	// A state without the baseDomains key is not a state file.
	if state.BaseDomains == nil {
		return nil, false
	}
	if state.Groups == nil {
		state.Groups = []domain.Group{}
	}
	if state.Routes == nil {
		state.Routes = []domain.Route{}
	}
	return &state, true
}

func (s *FileStore) writeState(state *domain.State, path string) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	data = append(data, '\n')
	if err := s.atomicWrite(path, data); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// atomicWrite writes to a temporary file in the target directory and renames
// it over the destination, so readers never observe a partial file.
func (s *FileStore) atomicWrite(path string, content []byte) error {
	tmpPath := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := os.WriteFile(tmpPath, content, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
