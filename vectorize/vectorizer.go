package vectorize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codespark/inspire/ai"
	"github.com/codespark/inspire/core"
)

// Per-field character caps applied before embedding, to bound model cost.
const (
	maxNameChars        = 256
	maxDescriptionChars = 1024
	maxReadmeChars      = 2000
	maxLanguageChars    = 64
)

// Vectorizer turns repositories and queries into fixed-dimension vectors.
//
// Blank (empty or whitespace-only) text never reaches the embedder: it maps
// to the all-zero vector of the configured dimension, so downstream code has
// no "missing embedding" case. When normalization is enabled every non-zero
// output has unit L2 norm; the zero vector is left as-is (it has no
// direction, see Normalize).
type Vectorizer struct {
	embedder  ai.Embedder
	dimension int
	normalize bool
	logger    *slog.Logger
}

// Option configures a Vectorizer.
type Option func(*Vectorizer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(v *Vectorizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		v.logger = logger
		return nil
	}
}

// New creates a new Vectorizer over the given embedder.
// dimension must be positive and match what the embedder produces.
func New(embedder ai.Embedder, dimension int, normalize bool, opts ...Option) (*Vectorizer, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d",
			core.ErrInvalidArgument, dimension)
	}

	v := &Vectorizer{
		embedder:  embedder,
		dimension: dimension,
		normalize: normalize,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// Dimension returns the configured embedding dimension.
func (v *Vectorizer) Dimension() int {
	return v.dimension
}

// Normalized reports whether output vectors are L2-normalized.
func (v *Vectorizer) Normalized() bool {
	return v.normalize
}

// ComposeText combines a repository's textual fields into the single string
// that is embedded. Field order is fixed (name, description, readme excerpt,
// language) and each field is truncated to a hard character cap; empty
// fields are omitted.
func ComposeText(repo *core.Repository) string {
	var parts []string

	if repo.Name != "" {
		parts = append(parts, "Repository: "+truncate(repo.Name, maxNameChars))
	}
	if repo.Description != "" {
		parts = append(parts, "Description: "+truncate(repo.Description, maxDescriptionChars))
	}
	if repo.ReadmeExcerpt != "" {
		parts = append(parts, "README: "+truncate(repo.ReadmeExcerpt, maxReadmeChars))
	}
	if repo.Language != "" {
		parts = append(parts, "Language: "+truncate(repo.Language, maxLanguageChars))
	}

	return strings.Join(parts, " ")
}

// EmbedQuery embeds a single free-text query.
// Blank text yields the zero vector without calling the embedder.
func (v *Vectorizer) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := v.embedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedRepositories embeds the composed text of each repository.
// The result has the same length and order as the input. The batch is
// atomic: any failure returns an error and no vectors.
func (v *Vectorizer) EmbedRepositories(ctx context.Context, repos []*core.Repository) ([][]float32, error) {
	texts := make([]string, len(repos))
	for i, repo := range repos {
		texts[i] = ComposeText(repo)
	}
	return v.embedTexts(ctx, texts)
}

// embedTexts embeds a batch of raw texts. Blank entries are filled with zero
// vectors; the remaining texts go to the embedder in a single call so the
// batch fails or succeeds as a whole.
func (v *Vectorizer) embedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	var live []string
	var liveIdx []int
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			out[i] = make([]float32, v.dimension)
			continue
		}
		live = append(live, text)
		liveIdx = append(liveIdx, i)
	}

	if len(live) == 0 {
		return out, nil
	}

	v.logger.Debug("embedding batch", "texts", len(live), "blank", len(texts)-len(live))

	vectors, err := v.embedder.EmbedTexts(ctx, live)
	if err != nil {
		if isTyped(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", core.ErrEmbedding, err)
	}

	if len(vectors) != len(live) {
		return nil, fmt.Errorf("%w: expected %d embeddings, received %d",
			core.ErrEmbedding, len(live), len(vectors))
	}

	for j, vector := range vectors {
		if len(vector) != v.dimension {
			return nil, fmt.Errorf("%w: embedding has dimension %d, expected %d",
				core.ErrDimensionMismatch, len(vector), v.dimension)
		}
		if v.normalize {
			vector = Normalize(vector)
		}
		out[liveIdx[j]] = vector
	}

	return out, nil
}

// isTyped reports whether the embedder already classified the failure.
func isTyped(err error) bool {
	return errors.Is(err, core.ErrEmbedding) || errors.Is(err, core.ErrDimensionMismatch)
}

// truncate caps s at n characters.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
