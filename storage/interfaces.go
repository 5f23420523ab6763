package storage

import (
	"context"

	"github.com/codespark/inspire/core"
)

// Entry is one persisted index entry: a repository and its embedding vector.
// Entries are kept in insertion-sequence order so a loaded index reproduces
// the saved index's tie-break behavior exactly.
type Entry struct {
	Repository core.Repository
	Vector     []float32
}

// Snapshot is the full persisted state of a vector index: the manifest
// fields that must match the engine's configuration, and the entries in
// insertion order.
type Snapshot struct {
	Dimension  int
	Metric     string
	Normalized bool
	Entries    []Entry
}

// SnapshotStore persists whole index snapshots. A Save followed by a Load on
// a fresh engine must reconstruct an index that is behaviorally
// indistinguishable from the saved one. Load is all-or-nothing: it either
// returns a fully validated snapshot or an error wrapping
// core.ErrPersistence, never a partial one.
type SnapshotStore interface {
	// Save replaces whatever snapshot the store holds with this one.
	Save(ctx context.Context, snapshot *Snapshot) error

	// Load reads the stored snapshot. A store holding no snapshot, or a
	// corrupt/mismatched one, fails with core.ErrPersistence.
	Load(ctx context.Context) (*Snapshot, error)

	// Close releases resources held by the store.
	Close() error
}
