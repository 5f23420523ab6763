package vectorize

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/codespark/inspire/ai/mock"
	"github.com/codespark/inspire/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVectorizer(t *testing.T, normalize bool) (*Vectorizer, *mock.MockEmbedder) {
	t.Helper()
	embedder := mock.NewMockEmbedder()
	v, err := New(embedder, 384, normalize)
	require.NoError(t, err)
	return v, embedder
}

func TestNew(t *testing.T) {
	t.Run("nil embedder", func(t *testing.T) {
		_, err := New(nil, 384, true)
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("non-positive dimension", func(t *testing.T) {
		_, err := New(mock.NewMockEmbedder(), 0, true)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})
}

func TestComposeText(t *testing.T) {
	t.Run("field order", func(t *testing.T) {
		repo := &core.Repository{
			Name:          "go",
			Description:   "The Go programming language",
			ReadmeExcerpt: "Go is an open source language.",
			Language:      "Go",
		}
		text := ComposeText(repo)
		assert.Equal(t,
			"Repository: go Description: The Go programming language "+
				"README: Go is an open source language. Language: Go",
			text)
	})

	t.Run("empty fields omitted", func(t *testing.T) {
		repo := &core.Repository{Name: "go"}
		assert.Equal(t, "Repository: go", ComposeText(repo))
	})

	t.Run("readme capped at 2000 chars", func(t *testing.T) {
		repo := &core.Repository{
			Name:          "go",
			ReadmeExcerpt: strings.Repeat("a", 5000),
		}
		text := ComposeText(repo)
		assert.Contains(t, text, "README: "+strings.Repeat("a", 2000))
		assert.NotContains(t, text, strings.Repeat("a", 2001))
	})
}

func TestEmbedQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns vector of configured dimension", func(t *testing.T) {
		v, _ := newTestVectorizer(t, false)
		vector, err := v.EmbedQuery(ctx, "web framework with routing")
		require.NoError(t, err)
		assert.Len(t, vector, 384)
	})

	t.Run("blank text yields zero vector without embedder call", func(t *testing.T) {
		v, embedder := newTestVectorizer(t, true)
		for _, text := range []string{"", "   ", "\t\n"} {
			vector, err := v.EmbedQuery(ctx, text)
			require.NoError(t, err)
			assert.Len(t, vector, 384)
			assert.True(t, IsZero(vector))
		}
		assert.Equal(t, 0, embedder.CallCount())
	})

	t.Run("normalization yields unit norm", func(t *testing.T) {
		v, _ := newTestVectorizer(t, true)
		vector, err := v.EmbedQuery(ctx, "some query")
		require.NoError(t, err)

		var sum float64
		for _, val := range vector {
			sum += float64(val) * float64(val)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
	})

	t.Run("embedder failure wraps ErrEmbedding", func(t *testing.T) {
		v, embedder := newTestVectorizer(t, false)
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("connection refused")
		}
		_, err := v.EmbedQuery(ctx, "query")
		assert.ErrorIs(t, err, core.ErrEmbedding)
	})

	t.Run("wrong dimension wraps ErrDimensionMismatch", func(t *testing.T) {
		v, embedder := newTestVectorizer(t, false)
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{make([]float32, 128)}, nil
		}
		_, err := v.EmbedQuery(ctx, "query")
		assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	})
}

func TestEmbedRepositories(t *testing.T) {
	ctx := context.Background()

	t.Run("order and length preserved", func(t *testing.T) {
		v, _ := newTestVectorizer(t, false)
		repos := []*core.Repository{
			{FullName: "a/a", Name: "a", Description: "first"},
			{FullName: "b/b"}, // composes to blank text
			{FullName: "c/c", Name: "c", Description: "third"},
		}
		vectors, err := v.EmbedRepositories(ctx, repos)
		require.NoError(t, err)
		require.Len(t, vectors, 3)

		assert.False(t, IsZero(vectors[0]))
		assert.True(t, IsZero(vectors[1]))
		assert.False(t, IsZero(vectors[2]))
	})

	t.Run("batch is atomic on failure", func(t *testing.T) {
		v, embedder := newTestVectorizer(t, false)
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("model overloaded")
		}
		vectors, err := v.EmbedRepositories(ctx, []*core.Repository{
			{FullName: "a/a", Name: "a"},
			{FullName: "b/b", Name: "b"},
		})
		assert.ErrorIs(t, err, core.ErrEmbedding)
		assert.Nil(t, vectors)
	})

	t.Run("result count mismatch is an embedding error", func(t *testing.T) {
		v, embedder := newTestVectorizer(t, false)
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{make([]float32, 384)}, nil
		}
		_, err := v.EmbedRepositories(ctx, []*core.Repository{
			{FullName: "a/a", Name: "a"},
			{FullName: "b/b", Name: "b"},
		})
		assert.ErrorIs(t, err, core.ErrEmbedding)
	})
}

func TestNormalize(t *testing.T) {
	t.Run("unit norm", func(t *testing.T) {
		result := Normalize([]float32{3, 4})
		assert.InDelta(t, 0.6, result[0], 1e-6)
		assert.InDelta(t, 0.8, result[1], 1e-6)
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		result := Normalize([]float32{0, 0, 0})
		assert.True(t, IsZero(result))
		assert.Len(t, result, 3)
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.Empty(t, Normalize(nil))
	})
}
