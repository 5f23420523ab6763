// Package config provides YAML configuration loading for the inspire engine
// and its command-line front end.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/codespark/inspire/index"
	"github.com/codespark/inspire/score"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Storage   StorageConfig   `yaml:"storage"`
}

// EmbeddingConfig holds embedding service settings.
type EmbeddingConfig struct {
	Host      string `yaml:"host"`
	Model     string `yaml:"model"`
	Token     string `yaml:"token"`
	Dimension int    `yaml:"dimension"`
	Normalize *bool  `yaml:"normalize"`
}

// NormalizeOrDefault returns whether vectors are L2-normalized before
// indexing; defaults to true when unset.
func (e *EmbeddingConfig) NormalizeOrDefault() bool {
	if e.Normalize != nil {
		return *e.Normalize
	}
	return true
}

// RankingConfig holds retrieval and blending settings.
type RankingConfig struct {
	// Metric names the distance function: "squared_l2" or "inner_product".
	Metric string `yaml:"metric"`
	// BlendWeight is the weight of the quality score in the final ranking,
	// in [0, 1]. 0 ranks purely by similarity. Defaults to 0.3 when unset.
	BlendWeight *float64 `yaml:"blend_weight"`
}

// BlendWeightOrDefault returns the configured blend weight, or 0.3 when
// unset. A configured 0 is respected.
func (r *RankingConfig) BlendWeightOrDefault() float64 {
	if r.BlendWeight != nil {
		return *r.BlendWeight
	}
	return 0.3
}

// ScoringConfig holds the quality score component weights. When all four are
// zero the standard weighting applies.
type ScoringConfig struct {
	Popularity    float64 `yaml:"popularity"`
	Recency       float64 `yaml:"recency"`
	Documentation float64 `yaml:"documentation"`
	Maturity      float64 `yaml:"maturity"`
}

// Weights converts the scoring section to score.Weights, substituting the
// defaults when the section is entirely unset.
func (s *ScoringConfig) Weights() score.Weights {
	if s.Popularity == 0 && s.Recency == 0 && s.Documentation == 0 && s.Maturity == 0 {
		return score.DefaultWeights()
	}
	return score.Weights{
		Popularity:    s.Popularity,
		Recency:       s.Recency,
		Documentation: s.Documentation,
		Maturity:      s.Maturity,
	}
}

// StorageConfig holds the snapshot location. An empty SnapshotPath selects
// an in-memory store.
type StorageConfig struct {
	SnapshotPath string `yaml:"snapshot_path"`
}

// Load reads and parses the config file at path, applies defaults, expands
// the snapshot path, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.Storage.SnapshotPath = expandPath(cfg.Storage.SnapshotPath, filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field consistency. It assumes defaults have been
// applied.
func (c *Config) Validate() error {
	if c.Embedding.Host == "" {
		return fmt.Errorf("config: embedding.host is required")
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("config: embedding.model is required")
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("config: embedding.dimension must be positive")
	}
	if _, err := index.ParseMetric(c.Ranking.Metric); err != nil {
		return fmt.Errorf("config: ranking.metric: %w", err)
	}
	if w := c.Ranking.BlendWeightOrDefault(); w < 0 || w > 1 {
		return fmt.Errorf("config: ranking.blend_weight %v outside [0, 1]", w)
	}
	if err := c.Scoring.Weights().Validate(); err != nil {
		return fmt.Errorf("config: scoring: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Empty paths stay empty (in-memory
// store); relative paths are resolved against the config file's directory.
func expandPath(path, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return filepath.Join(configDir, path)
}
