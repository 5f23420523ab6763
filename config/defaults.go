package config

import "github.com/codespark/inspire/index"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Embedding.Host == "" {
		cfg.Embedding.Host = "http://localhost:11434/v1"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "all-minilm"
	}
	if cfg.Embedding.Token == "" {
		cfg.Embedding.Token = "none"
	}
	if cfg.Embedding.Dimension == 0 {
		cfg.Embedding.Dimension = 384
	}
	if cfg.Ranking.Metric == "" {
		cfg.Ranking.Metric = index.MetricSquaredL2.String()
	}
	// Normalize and BlendWeight default through their accessors so an
	// explicit false/0 in the file is distinguishable from unset.
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
