package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs. Repository IDs
// are derived from the full name, so re-ingesting the same export is stable.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Repository is a single indexable item: the metadata of a source repository
// plus the textual fields the vectorizer composes into embedding input.
// A Repository is immutable once embedded; re-embedding requires clearing the
// index and inserting again.
type Repository struct {
	Id            ID
	Name          string
	FullName      string
	Description   string
	HTMLURL       string
	Language      string
	ReadmeExcerpt string
	Stars         int64
	CreatedAt     time.Time
	PushedAt      time.Time // zero value means last activity is unknown
	HasWiki       bool
	HasReadme     bool
}

// HasDescription reports whether the repository carries a description.
// It is one of the three documentation signals used by the quality scorer.
func (r *Repository) HasDescription() bool {
	return r.Description != ""
}

// SearchResult is one ranked hit returned by the engine.
// Similarity is the retrieval score, Quality the inspiration score, and Final
// the blended value the result list is ordered by. Seq is the insertion
// sequence number of the underlying index entry and breaks ties.
type SearchResult struct {
	Repository *Repository
	Similarity float64
	Quality    float64
	Final      float64
	Seq        uint64
}
