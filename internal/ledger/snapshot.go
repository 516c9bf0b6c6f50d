package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/onasu66/totalcash/internal/types"
)

// State is the whole persisted snapshot: the live day plus the bounded
// archive. It is loaded wholesale at startup and rewritten wholesale on
// every mutation; the snapshot file is the sole source of truth across
// restarts.
type State struct {
	LiveDate string                         `json:"live_date"`
	LiveDay  []types.Transaction            `json:"live_day"`
	Archive  map[string][]types.Transaction `json:"archive"`
}

// Store persists and reloads a ledger State.
type Store interface {
	Load() (State, error)
	Save(State) error
}

const snapshotFile = "ledger.json"

// FileStore keeps the snapshot as a single JSON file under a data directory.
type FileStore struct {
	path string
}

// NewFileStore creates the data directory if needed and returns a store
// writing to ledger.json inside it.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dataDir, snapshotFile)}, nil
}

// Load reads the snapshot. A missing file returns an empty State with no
// error; a malformed one returns the decode error so the caller can decide
// to start fresh.
func (f *FileStore) Load() (State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s, nil
}

// Save rewrites the whole snapshot.
func (f *FileStore) Save(s State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
