package index

import (
	"fmt"
	"slices"

	"github.com/codespark/inspire/core"
)

// Entry pairs a stored vector with the repository it represents and the
// insertion sequence number. The sequence is only a stable tie-break for
// equal distances, never a ranking signal.
type Entry struct {
	Seq        uint64
	Vector     []float32
	Repository *core.Repository
}

// Hit is one nearest-neighbor result.
type Hit struct {
	Entry      *Entry
	Distance   float64
	Similarity float64
}

// Index is an append-only collection of (vector, repository) entries
// supporting exact k-nearest-neighbor retrieval by linear scan. Entries keep
// insertion order; the only removal primitive is Clear.
//
// The Index is not internally synchronized: it is designed for a single
// logical owner. Concurrent KNN calls are safe only while InsertBatch, Clear,
// and Replace are externally serialized against them.
type Index struct {
	dimension int
	metric    Metric
	entries   []Entry
	nextSeq   uint64
}

// New creates an empty index for vectors of the given dimension.
func New(dimension int, metric Metric) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d",
			core.ErrInvalidArgument, dimension)
	}
	if !metric.Valid() {
		return nil, fmt.Errorf("%w: unknown metric %d", core.ErrInvalidArgument, int(metric))
	}
	return &Index{dimension: dimension, metric: metric}, nil
}

// Dimension returns the vector dimension the index accepts.
func (idx *Index) Dimension() int { return idx.dimension }

// Metric returns the distance metric the index ranks by.
func (idx *Index) Metric() Metric { return idx.metric }

// Len returns the number of stored entries.
func (idx *Index) Len() int { return len(idx.entries) }

// InsertBatch appends one entry per (vector, repository) pair, in order.
// The whole batch is validated before any entry is appended, so a dimension
// mismatch never leaves a partial batch behind. Empty input is a no-op.
func (idx *Index) InsertBatch(vectors [][]float32, repos []*core.Repository) error {
	if len(vectors) != len(repos) {
		return fmt.Errorf("%w: %d vectors for %d repositories",
			core.ErrInvalidArgument, len(vectors), len(repos))
	}
	if len(vectors) == 0 {
		return nil
	}

	for i, vector := range vectors {
		if len(vector) != idx.dimension {
			return fmt.Errorf("%w: vector %d has dimension %d, expected %d",
				core.ErrDimensionMismatch, i, len(vector), idx.dimension)
		}
	}

	for i, vector := range vectors {
		idx.entries = append(idx.entries, Entry{
			Seq:        idx.nextSeq,
			Vector:     vector,
			Repository: repos[i],
		})
		idx.nextSeq++
	}
	return nil
}

// KNN returns up to min(k, Len()) hits ordered by ascending distance.
// Equal distances are ordered by ascending insertion sequence, so identical
// queries against an unchanged index always return the same order.
// An empty index yields an empty result, not an error.
func (idx *Index) KNN(query []float32, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be >= 1, got %d", core.ErrInvalidArgument, k)
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, expected %d",
			core.ErrDimensionMismatch, len(query), idx.dimension)
	}
	if len(idx.entries) == 0 {
		return []Hit{}, nil
	}

	hits := make([]Hit, 0, len(idx.entries))
	for i := range idx.entries {
		entry := &idx.entries[i]
		d := idx.metric.Distance(query, entry.Vector)
		hits = append(hits, Hit{
			Entry:      entry,
			Distance:   d,
			Similarity: Similarity(d),
		})
	}

	slices.SortFunc(hits, func(a, b Hit) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		// Deterministic total order on ties.
		if a.Entry.Seq < b.Entry.Seq {
			return -1
		}
		if a.Entry.Seq > b.Entry.Seq {
			return 1
		}
		return 0
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Clear removes all entries and resets the sequence counter.
func (idx *Index) Clear() {
	idx.entries = nil
	idx.nextSeq = 0
}

// Entries returns the stored entries in insertion order.
// The returned slice is the index's own backing storage; callers must not
// mutate it. Used by persistence to snapshot the index.
func (idx *Index) Entries() []Entry {
	return idx.entries
}

// Replace swaps in a fully-built entry set, renumbering sequences to match
// the given order. It validates every vector before touching the current
// state, so a failed Replace leaves the index unchanged. Used by snapshot
// loading.
func (idx *Index) Replace(entries []Entry) error {
	for i := range entries {
		if len(entries[i].Vector) != idx.dimension {
			return fmt.Errorf("%w: entry %d has dimension %d, expected %d",
				core.ErrDimensionMismatch, i, len(entries[i].Vector), idx.dimension)
		}
	}

	next := make([]Entry, len(entries))
	copy(next, entries)
	for i := range next {
		next[i].Seq = uint64(i)
	}

	idx.entries = next
	idx.nextSeq = uint64(len(next))
	return nil
}
