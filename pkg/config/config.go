// Package config holds the typed configuration record that would, in a
// full deployment, be produced by a CLI-argument collaborator (spec.md
// §6). DefaultConfig fills the same role as
// pkg/server.DefaultConfig does in the teacher: one initializer, no
// package-level mutable defaults scattered across flag declarations.
package config

import "fmt"

// ScoringFormat names a scoring regime selectable at index-build time.
type ScoringFormat string

const (
	TFIDF ScoringFormat = "tfidf"
	BM25  ScoringFormat = "bm25"
)

// Config is the configuration record threaded through the indexer,
// merger, and query evaluator constructors.
type Config struct {
	CorpusPath      string
	MinTokenLength  int
	StopwordsPath   string // empty uses the built-in default set
	UseStemmer      bool
	MemoryThreshold float64 // fraction in [0,1]; flush when used fraction exceeds this
	IndexDir        string
	Format          ScoringFormat
	Debug           bool // retain block files after merge
	Overwrite       bool // delete-and-recreate an existing index directory
	BM25K1          float64
	BM25B           float64
	TopK            int
}

// DefaultConfig returns a configuration with the parameter defaults
// named in spec.md §4.C8 (k1=1.2, b=0.75) and a conservative memory
// threshold.
func DefaultConfig() *Config {
	return &Config{
		MinTokenLength:  2,
		UseStemmer:      true,
		MemoryThreshold: 0.75,
		IndexDir:        "./index",
		Format:          TFIDF,
		BM25K1:          1.2,
		BM25B:           0.75,
		TopK:            10,
	}
}

// Validate checks numeric ranges, raising a *ConfigurationError (never a
// bare string) for an out-of-range value.
func (c *Config) Validate() error {
	if c.MinTokenLength < 0 {
		return NewConfigurationError("min_token_length", c.MinTokenLength, "must be non-negative")
	}
	if c.MemoryThreshold < 0 || c.MemoryThreshold > 1 {
		return NewConfigurationError("memory_threshold", c.MemoryThreshold, "must be in [0,1]")
	}
	if c.Format != TFIDF && c.Format != BM25 {
		return NewConfigurationError("format", c.Format, fmt.Sprintf("must be one of %q, %q", TFIDF, BM25))
	}
	if c.BM25K1 < 0 {
		return NewConfigurationError("bm25_k1", c.BM25K1, "must be non-negative")
	}
	if c.BM25B < 0 || c.BM25B > 1 {
		return NewConfigurationError("bm25_b", c.BM25B, "must be in [0,1]")
	}
	if c.TopK <= 0 {
		return NewConfigurationError("top_k", c.TopK, "must be positive")
	}
	if c.IndexDir == "" {
		return NewConfigurationError("index_dir", c.IndexDir, "must not be empty")
	}
	return nil
}
