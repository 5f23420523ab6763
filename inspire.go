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


package inspire

import (
	"context"
	"log/slog"

	"github.com/codespark/inspire/ai"
	"github.com/codespark/inspire/ai/openai"
	"github.com/codespark/inspire/config"
	"github.com/codespark/inspire/core"
	"github.com/codespark/inspire/engine"
	"github.com/codespark/inspire/index"
	"github.com/codespark/inspire/score"
	"github.com/codespark/inspire/storage"
	"github.com/codespark/inspire/storage/badger"
	"github.com/codespark/inspire/vectorize"
)

// Engine is the assembled ranking system: an embedding-backed vector index
// with quality-blended search and snapshot persistence, built from a single
// Config. It is the entry point for embedding callers; the underlying
// packages remain usable directly.
type Engine struct {
	config *config.Config
	engine *engine.Engine
	store  storage.SnapshotStore
	logger *slog.Logger
}

// Option configures the assembled engine.
type Option func(*options)

type options struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// WithEmbedder substitutes the embedding backend. The default is the
// OpenAI-compatible client built from the config's embedding section.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(o *options) {
		o.embedder = embedder
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// New assembles an engine from the configuration. A nil cfg uses the
// defaults (local OpenAI-compatible embedder, squared L2, in-memory
// snapshots). An empty snapshot path selects an in-memory store.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	embedder := o.embedder
	if embedder == nil {
		aiCfg := ai.NewConfig(
			ai.WithHost(cfg.Embedding.Host),
			ai.WithModel(cfg.Embedding.Model),
			ai.WithToken(cfg.Embedding.Token),
			ai.WithDimension(cfg.Embedding.Dimension),
		)
		var err error
		embedder, err = openai.NewEmbedder(aiCfg)
		if err != nil {
			return nil, err
		}
	}

	vectorizer, err := vectorize.New(embedder, cfg.Embedding.Dimension,
		cfg.Embedding.NormalizeOrDefault(), vectorize.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}

	metric, err := index.ParseMetric(cfg.Ranking.Metric)
	if err != nil {
		return nil, err
	}

	idx, err := index.New(cfg.Embedding.Dimension, metric)
	if err != nil {
		return nil, err
	}

	scorer, err := score.NewScorer(cfg.Scoring.Weights())
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(vectorizer, idx, scorer,
		engine.WithBlendWeight(cfg.Ranking.BlendWeightOrDefault()),
		engine.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}

	store, err := badger.OpenStore(cfg.Storage.SnapshotPath, cfg.Storage.SnapshotPath == "")
	if err != nil {
		eng.Release()
		return nil, err
	}

	return &Engine{
		config: cfg,
		engine: eng,
		store:  store,
		logger: o.logger,
	}, nil
}

// AddRepositories embeds and indexes a batch of repositories. The batch is
// atomic: on any error nothing is indexed.
func (e *Engine) AddRepositories(ctx context.Context, repos []*core.Repository) error {
	return e.engine.AddItems(ctx, repos)
}

// Search returns the top k repositories for the query, ranked by the
// configured blend of similarity and quality.
func (e *Engine) Search(ctx context.Context, query string, k int) ([]*core.SearchResult, error) {
	return e.engine.Search(ctx, query, k)
}

// Len returns the number of indexed repositories.
func (e *Engine) Len() int {
	return e.engine.Len()
}

// Clear removes all indexed repositories.
func (e *Engine) Clear() {
	e.engine.Clear()
}

// Save writes the current index to the configured snapshot store.
func (e *Engine) Save(ctx context.Context) error {
	return e.engine.Save(ctx, e.store)
}

// Load replaces the index with the configured store's snapshot.
// It is all-or-nothing: on error the current index is untouched.
func (e *Engine) Load(ctx context.Context) error {
	return e.engine.Load(ctx, e.store)
}

// Close releases the engine's worker pool and the snapshot store.
// The engine should not be used after calling Close.
func (e *Engine) Close() error {
	e.engine.Release()

	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing snapshot store", "err", err)
		return err
	}
	return nil
}
