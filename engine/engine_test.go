package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/codespark/inspire/ai/mock"
	"github.com/codespark/inspire/core"
	"github.com/codespark/inspire/index"
	"github.com/codespark/inspire/score"
	badgerstore "github.com/codespark/inspire/storage/badger"
	"github.com/codespark/inspire/vectorize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, dim int, metric index.Metric, opts ...Option) (*Engine, *mock.MockEmbedder) {
	t.Helper()

	embedder := mock.NewMockEmbedder()
	embedder.Dimension = dim

	vectorizer, err := vectorize.New(embedder, dim, true)
	require.NoError(t, err)

	idx, err := index.New(dim, metric)
	require.NoError(t, err)

	scorer, err := score.NewScorer(score.DefaultWeights())
	require.NoError(t, err)

	e, err := New(vectorizer, idx, scorer, opts...)
	require.NoError(t, err)
	t.Cleanup(e.Release)

	return e, embedder
}

func testRepo(fullName, description string, stars int64) *core.Repository {
	return &core.Repository{
		Name:        fullName,
		FullName:    fullName,
		Description: description,
		Language:    "Go",
		Stars:       stars,
		CreatedAt:   time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		PushedAt:    time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		HasWiki:     true,
		HasReadme:   true,
	}
}

func TestNew(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.Dimension = 8

	vectorizer, err := vectorize.New(embedder, 8, true)
	require.NoError(t, err)

	idx, err := index.New(8, index.MetricSquaredL2)
	require.NoError(t, err)

	scorer, err := score.NewScorer(score.DefaultWeights())
	require.NoError(t, err)

	t.Run("valid configuration", func(t *testing.T) {
		e, err := New(vectorizer, idx, scorer)
		require.NoError(t, err)
		assert.NotNil(t, e)
		e.Release()
	})

	t.Run("nil vectorizer", func(t *testing.T) {
		_, err := New(nil, idx, scorer)
		assert.Equal(t, ErrVectorizerRequired, err)
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := New(vectorizer, nil, scorer)
		assert.Equal(t, ErrIndexRequired, err)
	})

	t.Run("nil scorer", func(t *testing.T) {
		_, err := New(vectorizer, idx, nil)
		assert.Equal(t, ErrScorerRequired, err)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		other, err := index.New(16, index.MetricSquaredL2)
		require.NoError(t, err)

		_, err = New(vectorizer, other, scorer)
		assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	})

	t.Run("blend weight bounds", func(t *testing.T) {
		for _, weight := range []float64{0, 0.5, 1} {
			e, err := New(vectorizer, idx, scorer, WithBlendWeight(weight))
			require.NoError(t, err)
			e.Release()
		}

		_, err := New(vectorizer, idx, scorer, WithBlendWeight(-0.1))
		assert.ErrorIs(t, err, core.ErrInvalidArgument)

		_, err = New(vectorizer, idx, scorer, WithBlendWeight(1.1))
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})

	t.Run("pool and chunk options", func(t *testing.T) {
		e, err := New(vectorizer, idx, scorer, WithPoolSize(2), WithEmbedChunkSize(4))
		require.NoError(t, err)
		assert.NotNil(t, e)
		e.Release()
	})
}

func TestAddItems(t *testing.T) {
	ctx := context.Background()

	t.Run("adds and derives ids", func(t *testing.T) {
		e, _ := newTestEngine(t, 8, index.MetricSquaredL2)

		repos := []*core.Repository{
			testRepo("alpha/cache", "an LRU cache", 100),
			testRepo("beta/queue", "a message queue", 200),
		}
		require.NoError(t, e.AddItems(ctx, repos))

		assert.Equal(t, 2, e.Len())
		assert.Equal(t, core.IDFromContent("alpha/cache"), repos[0].Id)
		assert.Equal(t, core.IDFromContent("beta/queue"), repos[1].Id)
	})

	t.Run("keeps explicit ids", func(t *testing.T) {
		e, _ := newTestEngine(t, 8, index.MetricSquaredL2)

		repo := testRepo("alpha/cache", "an LRU cache", 100)
		repo.Id = core.ID(42)
		require.NoError(t, e.AddItems(ctx, []*core.Repository{repo}))
		assert.Equal(t, core.ID(42), repo.Id)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		e, _ := newTestEngine(t, 8, index.MetricSquaredL2)
		require.NoError(t, e.AddItems(ctx, nil))
		assert.Equal(t, 0, e.Len())
	})

	t.Run("validation failure inserts nothing", func(t *testing.T) {
		e, embedder := newTestEngine(t, 8, index.MetricSquaredL2)

		repos := []*core.Repository{
			testRepo("alpha/cache", "an LRU cache", 100),
			{FullName: ""},
		}
		err := e.AddItems(ctx, repos)
		assert.ErrorIs(t, err, core.ErrInvalidRepository)
		assert.Equal(t, 0, e.Len())
		assert.Equal(t, 0, embedder.CallCount())
	})

	t.Run("embedding failure inserts nothing", func(t *testing.T) {
		e, embedder := newTestEngine(t, 8, index.MetricSquaredL2)
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("model unavailable")
		}

		err := e.AddItems(ctx, []*core.Repository{testRepo("alpha/cache", "an LRU cache", 100)})
		assert.ErrorIs(t, err, core.ErrEmbedding)
		assert.Equal(t, 0, e.Len())
	})

	t.Run("batch larger than chunk size", func(t *testing.T) {
		// Pool size 1 keeps the chunks sequential so the mock's call
		// counter stays race-free.
		e, _ := newTestEngine(t, 8, index.MetricSquaredL2, WithPoolSize(1), WithEmbedChunkSize(3))

		repos := make([]*core.Repository, 10)
		for i := range repos {
			name := fmt.Sprintf("org/repo-%d", i)
			repos[i] = testRepo(name, "repository number "+name, int64(i))
		}
		require.NoError(t, e.AddItems(ctx, repos))
		assert.Equal(t, 10, e.Len())

		// Each repository must sit behind its own vector, in input order.
		results, err := e.Search(ctx, vectorize.ComposeText(repos[7]), 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "org/repo-7", results[0].Repository.FullName)
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("k must be positive", func(t *testing.T) {
		e, _ := newTestEngine(t, 8, index.MetricSquaredL2)
		_, err := e.Search(ctx, "query", 0)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)

		_, err = e.Search(ctx, "query", -3)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})

	t.Run("empty index returns empty results", func(t *testing.T) {
		e, embedder := newTestEngine(t, 8, index.MetricSquaredL2)
		results, err := e.Search(ctx, "query", 5)
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Equal(t, 0, embedder.CallCount())
	})

	t.Run("exact text match ranks first under pure similarity", func(t *testing.T) {
		e, _ := newTestEngine(t, 8, index.MetricSquaredL2, WithBlendWeight(0))

		repos := []*core.Repository{
			testRepo("alpha/cache", "an in-memory LRU cache", 100),
			testRepo("beta/queue", "a durable message queue", 200),
			testRepo("gamma/proxy", "a reverse proxy", 300),
		}
		require.NoError(t, e.AddItems(ctx, repos))

		results, err := e.Search(ctx, vectorize.ComposeText(repos[1]), 3)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "beta/queue", results[0].Repository.FullName)
		assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
		assert.Equal(t, results[0].Final, results[0].Similarity)
	})

	t.Run("pure quality ranking orders by score", func(t *testing.T) {
		e, _ := newTestEngine(t, 8, index.MetricSquaredL2, WithBlendWeight(1))

		low := testRepo("low/stars", "a small project", 10)
		high := testRepo("high/stars", "a popular project", 900)
		require.NoError(t, e.AddItems(ctx, []*core.Repository{low, high}))

		results, err := e.Search(ctx, "project", 2)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, "high/stars", results[0].Repository.FullName)
		assert.Greater(t, results[0].Quality, results[1].Quality)
		assert.Equal(t, results[0].Final, results[0].Quality)
	})

	t.Run("equal final scores break ties by insertion order", func(t *testing.T) {
		e, _ := newTestEngine(t, 8, index.MetricSquaredL2, WithBlendWeight(1))

		// Identical metadata apart from the name, so quality is equal.
		first := testRepo("org/first", "twin project", 500)
		second := testRepo("org/second", "twin project", 500)
		require.NoError(t, e.AddItems(ctx, []*core.Repository{first, second}))

		results, err := e.Search(ctx, "twin project", 2)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, results[0].Final, results[1].Final)
		assert.Equal(t, "org/first", results[0].Repository.FullName)
		assert.Less(t, results[0].Seq, results[1].Seq)
	})

	t.Run("results capped at k", func(t *testing.T) {
		e, _ := newTestEngine(t, 8, index.MetricSquaredL2)

		repos := []*core.Repository{
			testRepo("a/a", "one", 1),
			testRepo("b/b", "two", 2),
			testRepo("c/c", "three", 3),
		}
		require.NoError(t, e.AddItems(ctx, repos))

		results, err := e.Search(ctx, "one", 2)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("k larger than index returns all", func(t *testing.T) {
		e, _ := newTestEngine(t, 8, index.MetricSquaredL2)
		require.NoError(t, e.AddItems(ctx, []*core.Repository{testRepo("a/a", "one", 1)}))

		results, err := e.Search(ctx, "one", 10)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("embedding failure surfaces", func(t *testing.T) {
		e, embedder := newTestEngine(t, 8, index.MetricSquaredL2)
		require.NoError(t, e.AddItems(ctx, []*core.Repository{testRepo("a/a", "one", 1)}))

		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("model unavailable")
		}
		_, err := e.Search(ctx, "query", 1)
		assert.ErrorIs(t, err, core.ErrEmbedding)
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, 8, index.MetricSquaredL2)

	require.NoError(t, e.AddItems(ctx, []*core.Repository{
		testRepo("a/a", "one", 1),
		testRepo("b/b", "two", 2),
	}))
	require.Equal(t, 2, e.Len())

	e.Clear()
	assert.Equal(t, 0, e.Len())

	results, err := e.Search(ctx, "one", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip reproduces search results", func(t *testing.T) {
		store, err := badgerstore.NewMemoryStore()
		require.NoError(t, err)
		defer store.Close()

		saved, _ := newTestEngine(t, 8, index.MetricSquaredL2, WithBlendWeight(0))
		repos := []*core.Repository{
			testRepo("alpha/cache", "an in-memory LRU cache", 100),
			testRepo("beta/queue", "a durable message queue", 200),
			testRepo("gamma/proxy", "a reverse proxy", 300),
		}
		require.NoError(t, saved.AddItems(ctx, repos))
		require.NoError(t, saved.Save(ctx, store))

		loaded, _ := newTestEngine(t, 8, index.MetricSquaredL2, WithBlendWeight(0))
		require.NoError(t, loaded.Load(ctx, store))
		require.Equal(t, saved.Len(), loaded.Len())

		query := "message queue"
		want, err := saved.Search(ctx, query, 3)
		require.NoError(t, err)
		got, err := loaded.Search(ctx, query, 3)
		require.NoError(t, err)

		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].Repository.FullName, got[i].Repository.FullName)
			assert.Equal(t, want[i].Similarity, got[i].Similarity)
			assert.Equal(t, want[i].Seq, got[i].Seq)
		}
	})

	t.Run("load rejects dimension mismatch", func(t *testing.T) {
		store, err := badgerstore.NewMemoryStore()
		require.NoError(t, err)
		defer store.Close()

		saved, _ := newTestEngine(t, 8, index.MetricSquaredL2)
		require.NoError(t, saved.AddItems(ctx, []*core.Repository{testRepo("a/a", "one", 1)}))
		require.NoError(t, saved.Save(ctx, store))

		other, _ := newTestEngine(t, 16, index.MetricSquaredL2)
		err = other.Load(ctx, store)
		assert.ErrorIs(t, err, core.ErrPersistence)
		assert.Equal(t, 0, other.Len())
	})

	t.Run("load rejects metric mismatch", func(t *testing.T) {
		store, err := badgerstore.NewMemoryStore()
		require.NoError(t, err)
		defer store.Close()

		saved, _ := newTestEngine(t, 8, index.MetricSquaredL2)
		require.NoError(t, saved.AddItems(ctx, []*core.Repository{testRepo("a/a", "one", 1)}))
		require.NoError(t, saved.Save(ctx, store))

		other, _ := newTestEngine(t, 8, index.MetricInnerProduct)
		err = other.Load(ctx, store)
		assert.ErrorIs(t, err, core.ErrPersistence)
		assert.Equal(t, 0, other.Len())
	})

	t.Run("failed load leaves existing entries", func(t *testing.T) {
		store, err := badgerstore.NewMemoryStore()
		require.NoError(t, err)
		defer store.Close()

		e, _ := newTestEngine(t, 8, index.MetricSquaredL2)
		require.NoError(t, e.AddItems(ctx, []*core.Repository{testRepo("a/a", "one", 1)}))

		// Nothing was ever saved to this store.
		err = e.Load(ctx, store)
		assert.ErrorIs(t, err, core.ErrPersistence)
		assert.Equal(t, 1, e.Len())
	})

	t.Run("save and load empty index", func(t *testing.T) {
		store, err := badgerstore.NewMemoryStore()
		require.NoError(t, err)
		defer store.Close()

		saved, _ := newTestEngine(t, 8, index.MetricSquaredL2)
		require.NoError(t, saved.Save(ctx, store))

		loaded, _ := newTestEngine(t, 8, index.MetricSquaredL2)
		require.NoError(t, loaded.Load(ctx, store))
		assert.Equal(t, 0, loaded.Len())
	})
}
