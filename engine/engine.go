// Copyright 2026 Codespark Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/codespark/inspire/core"
	"github.com/codespark/inspire/index"
	"github.com/codespark/inspire/score"
	"github.com/codespark/inspire/storage"
	"github.com/codespark/inspire/vectorize"
	"github.com/panjf2000/ants/v2"
)

// defaultEmbedChunkSize is the number of repositories embedded per worker
// task when AddItems splits a batch across the pool.
const defaultEmbedChunkSize = 32

// defaultBlendWeight is the weight given to the quality score in the final
// ranking. The remainder goes to retrieval similarity.
const defaultBlendWeight = 0.3

// Engine ranks repositories against free-text queries. It orchestrates the
// vectorizer, the nearest-neighbor index, and the quality scorer: AddItems
// embeds and indexes repositories, Search embeds the query and returns a
// blended, deterministically ordered result list.
//
// The engine inherits the index's concurrency contract: calls are not
// synchronized internally, so concurrent use requires external locking.
type Engine struct {
	vectorizer *vectorize.Vectorizer
	index      *index.Index
	scorer     *score.Scorer
	pool       *ants.Pool
	blend      float64
	chunkSize  int
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithBlendWeight sets the weight of the quality score in the final ranking:
// final = weight*quality + (1-weight)*similarity. A weight of 0 ranks purely
// by similarity, a weight of 1 purely by quality. Must be in [0, 1].
// Default is 0.3.
func WithBlendWeight(weight float64) Option {
	return func(e *Engine) error {
		if weight < 0 || weight > 1 {
			return fmt.Errorf("%w: blend weight %v outside [0, 1]",
				core.ErrInvalidArgument, weight)
		}
		e.blend = weight
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}

		if e.pool != nil {
			e.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		e.pool = pool
		return nil
	}
}

// WithEmbedChunkSize sets how many repositories each embedding worker task
// handles. Default is 32.
func WithEmbedChunkSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}
		e.chunkSize = size
		return nil
	}
}

// New creates a ranking engine over the given components. The index's
// dimension must match the vectorizer's; this is checked once here so every
// later AddItems/Search can assume it.
func New(vectorizer *vectorize.Vectorizer, idx *index.Index, scorer *score.Scorer, opts ...Option) (*Engine, error) {
	if vectorizer == nil {
		return nil, ErrVectorizerRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if scorer == nil {
		return nil, ErrScorerRequired
	}
	if vectorizer.Dimension() != idx.Dimension() {
		return nil, fmt.Errorf("%w: vectorizer dimension %d, index dimension %d",
			core.ErrDimensionMismatch, vectorizer.Dimension(), idx.Dimension())
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		vectorizer: vectorizer,
		index:      idx,
		scorer:     scorer,
		pool:       pool,
		blend:      defaultBlendWeight,
		chunkSize:  defaultEmbedChunkSize,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			e.Release()
			return nil, err
		}
	}

	return e, nil
}

// AddItems embeds and indexes a batch of repositories. The batch is atomic:
// any validation or embedding failure returns an error and leaves the index
// untouched. Repositories with a zero Id get one derived from FullName.
func (e *Engine) AddItems(ctx context.Context, repos []*core.Repository) error {
	if len(repos) == 0 {
		return nil
	}

	for _, repo := range repos {
		if err := core.ValidateRepository(repo); err != nil {
			return err
		}
		if repo.Id == 0 {
			repo.Id = core.IDFromContent(repo.FullName)
		}
	}

	vectors, err := e.embedChunked(ctx, repos)
	if err != nil {
		return err
	}

	if err := e.index.InsertBatch(vectors, repos); err != nil {
		return err
	}

	e.logger.Info("indexed repositories", "added", len(repos), "total", e.index.Len())
	return nil
}

// embedChunked splits repos into chunks and embeds them concurrently on the
// worker pool, preserving input order in the result. Any chunk failure fails
// the whole batch.
func (e *Engine) embedChunked(ctx context.Context, repos []*core.Repository) ([][]float32, error) {
	vectors := make([][]float32, len(repos))
	chunks := (len(repos) + e.chunkSize - 1) / e.chunkSize
	errs := make([]error, chunks)

	var wg sync.WaitGroup
	for c := 0; c < chunks; c++ {
		start := c * e.chunkSize
		end := start + e.chunkSize
		if end > len(repos) {
			end = len(repos)
		}

		c := c
		wg.Add(1)
		task := func() {
			defer wg.Done()
			chunk, err := e.vectorizer.EmbedRepositories(ctx, repos[start:end])
			if err != nil {
				errs[c] = err
				return
			}
			copy(vectors[start:], chunk)
		}

		if err := e.pool.Submit(task); err != nil {
			// Pool rejected the task; run inline so the batch still completes.
			task()
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return vectors, nil
}

// Search embeds the query, retrieves the k nearest repositories, and ranks
// them by the blended score final = blend*quality + (1-blend)*similarity.
// Quality is computed once per call against a single shared clock reading,
// so equal repositories in one result list always score equally. Ties on the
// final score are broken by insertion sequence. An empty index yields an
// empty result list, not an error.
func (e *Engine) Search(ctx context.Context, query string, k int) ([]*core.SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be >= 1, got %d", core.ErrInvalidArgument, k)
	}

	if e.index.Len() == 0 {
		return []*core.SearchResult{}, nil
	}

	embedding, err := e.vectorizer.EmbedQuery(ctx, query)
	if err != nil {
		e.logger.Error("error embedding query", "err", err)
		return nil, err
	}

	hits, err := e.index.KNN(embedding, k)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	results := make([]*core.SearchResult, 0, len(hits))
	for _, hit := range hits {
		quality := e.scorer.Score(hit.Entry.Repository, now)
		results = append(results, &core.SearchResult{
			Repository: hit.Entry.Repository,
			Similarity: hit.Similarity,
			Quality:    quality,
			Final:      e.blend*quality + (1-e.blend)*hit.Similarity,
			Seq:        hit.Entry.Seq,
		})
	}

	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Final != b.Final {
			if a.Final > b.Final {
				return -1
			}
			return 1
		}
		if a.Seq < b.Seq {
			return -1
		}
		if a.Seq > b.Seq {
			return 1
		}
		return 0
	})

	if len(results) > k {
		results = results[:k]
	}

	e.logger.Debug("search complete", "query", query, "k", k, "results", len(results))
	return results, nil
}

// Len returns the number of indexed repositories.
func (e *Engine) Len() int {
	return e.index.Len()
}

// Clear removes all indexed repositories.
func (e *Engine) Clear() {
	e.index.Clear()
}

// Save writes the current index state to the store. The snapshot carries the
// engine's dimension, metric, and normalization flag so a later Load can
// refuse a configuration mismatch.
func (e *Engine) Save(ctx context.Context, store storage.SnapshotStore) error {
	entries := e.index.Entries()

	snapshot := &storage.Snapshot{
		Dimension:  e.index.Dimension(),
		Metric:     e.index.Metric().String(),
		Normalized: e.vectorizer.Normalized(),
		Entries:    make([]storage.Entry, len(entries)),
	}
	for i, entry := range entries {
		snapshot.Entries[i] = storage.Entry{
			Repository: *entry.Repository,
			Vector:     entry.Vector,
		}
	}

	if err := store.Save(ctx, snapshot); err != nil {
		return err
	}

	e.logger.Info("saved snapshot", "entries", len(entries))
	return nil
}

// Load replaces the index contents with a stored snapshot. The load is
// all-or-nothing: the current index is only touched after the snapshot has
// been fully read and validated against the engine's configuration.
func (e *Engine) Load(ctx context.Context, store storage.SnapshotStore) error {
	snapshot, err := store.Load(ctx)
	if err != nil {
		return err
	}

	if snapshot.Dimension != e.index.Dimension() {
		return fmt.Errorf("%w: snapshot dimension %d, engine dimension %d",
			core.ErrPersistence, snapshot.Dimension, e.index.Dimension())
	}
	if snapshot.Metric != e.index.Metric().String() {
		return fmt.Errorf("%w: snapshot metric %q, engine metric %q",
			core.ErrPersistence, snapshot.Metric, e.index.Metric())
	}
	if snapshot.Normalized != e.vectorizer.Normalized() {
		return fmt.Errorf("%w: snapshot normalized=%t, engine normalized=%t",
			core.ErrPersistence, snapshot.Normalized, e.vectorizer.Normalized())
	}

	entries := make([]index.Entry, len(snapshot.Entries))
	for i := range snapshot.Entries {
		repo := snapshot.Entries[i].Repository
		entries[i] = index.Entry{
			Vector:     snapshot.Entries[i].Vector,
			Repository: &repo,
		}
	}

	if err := e.index.Replace(entries); err != nil {
		return fmt.Errorf("%w: %w", core.ErrPersistence, err)
	}

	e.logger.Info("loaded snapshot", "entries", len(entries))
	return nil
}

// Release releases the worker pool.
// The engine should not be used after calling Release.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}
