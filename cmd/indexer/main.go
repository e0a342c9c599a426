// Command indexer builds a revidx index from a CSV review corpus
// (spec.md §6): it streams the corpus through the text processor and
// the SPIMI Indexer, merges the resulting blocks into term-range
// segments, and writes properties.json as the final, atomic step.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mnohosten/revidx/pkg/config"
	"github.com/mnohosten/revidx/pkg/corpus"
	"github.com/mnohosten/revidx/pkg/index"
	"github.com/mnohosten/revidx/pkg/memmon"
	"github.com/mnohosten/revidx/pkg/scoring"
	"github.com/mnohosten/revidx/pkg/textproc"
)

func main() {
	cfg := config.DefaultConfig()

	flag.StringVar(&cfg.CorpusPath, "corpus", "", "Path to the CSV review corpus (review_id,text)")
	flag.StringVar(&cfg.IndexDir, "index-dir", cfg.IndexDir, "Output index directory")
	flag.IntVar(&cfg.MinTokenLength, "min-token-length", cfg.MinTokenLength, "Minimum token length kept after tokenization")
	flag.StringVar(&cfg.StopwordsPath, "stopwords", cfg.StopwordsPath, "Path to a custom stopword list, one word per line (default: built-in)")
	flag.BoolVar(&cfg.UseStemmer, "stem", cfg.UseStemmer, "Apply Snowball stemming")
	flag.Float64Var(&cfg.MemoryThreshold, "memory-threshold", cfg.MemoryThreshold, "Fraction of system memory in use that triggers a block flush")
	format := flag.String("format", string(cfg.Format), "Scoring format: tfidf or bm25")
	flag.Float64Var(&cfg.BM25K1, "bm25-k1", cfg.BM25K1, "BM25 k1 parameter")
	flag.Float64Var(&cfg.BM25B, "bm25-b", cfg.BM25B, "BM25 b parameter")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Retain block files after merge for inspection")
	flag.BoolVar(&cfg.Overwrite, "overwrite", cfg.Overwrite, "Delete and recreate an existing index directory")
	flag.Parse()

	cfg.Format = config.ScoringFormat(*format)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "indexer: %v\n", err)
		os.Exit(1)
	}
	if cfg.CorpusPath == "" {
		fmt.Fprintln(os.Stderr, "indexer: -corpus is required")
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "indexer: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	var stopwords *textproc.StopwordSet
	if cfg.StopwordsPath != "" {
		sw, err := textproc.LoadStopwords(cfg.StopwordsPath)
		if err != nil {
			return fmt.Errorf("load stopwords: %w", err)
		}
		stopwords = sw
	}
	processor := textproc.New(cfg.MinTokenLength, stopwords, cfg.UseStemmer)

	format, err := newFormat(cfg)
	if err != nil {
		return err
	}

	createOpt := index.CreateErrorOnExists
	if cfg.Overwrite {
		createOpt = index.CreateOverwrite
	}
	dir, err := index.Create(cfg.IndexDir, createOpt)
	if err != nil {
		return err
	}
	defer dir.Close()

	monitor := memmon.New(cfg.MemoryThreshold)
	source := &processingSource{reader: corpus.Open(cfg.CorpusPath), processor: processor}

	indexer := index.NewSPIMIIndexer(dir, monitor, format)
	result, err := indexer.Run(source)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	if bm25, ok := format.(*scoring.BM25Format); ok {
		bm25.SetAvgDL(averageOf(result.DocumentLengths))
	}

	merger := index.NewMerger(dir, format, result.DocumentLengths, cfg.Debug)
	if _, err := merger.Merge(result.BlockPaths); err != nil {
		return fmt.Errorf("merge blocks: %w", err)
	}

	props := index.Properties{
		MinTokenLength: cfg.MinTokenLength,
		StopwordsHash:  processor.StopwordsHash(),
		UseStemmer:     cfg.UseStemmer,
		Format:         string(cfg.Format),
		BM25K1:         cfg.BM25K1,
		BM25B:          cfg.BM25B,
		AvgDocLength:   averageOf(result.DocumentLengths),
		DocumentCount:  dir.DocumentCount(),
	}
	if err := index.WriteAtomic(dir, props); err != nil {
		return fmt.Errorf("write properties: %w", err)
	}

	fmt.Printf("indexed %d documents into %s\n", dir.DocumentCount(), cfg.IndexDir)
	return nil
}

func newFormat(cfg *config.Config) (scoring.Format, error) {
	switch cfg.Format {
	case config.TFIDF:
		return scoring.NewTFIDF(), nil
	case config.BM25:
		return scoring.NewBM25(cfg.BM25K1, cfg.BM25B, 0), nil
	default:
		return nil, config.NewConfigurationError("format", cfg.Format, "must be tfidf or bm25")
	}
}

func averageOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// processingSource adapts a corpus.Reader into an index.DocumentSource
// by running each raw record through the text processor as it is
// pulled, keeping at most one record materialized at a time.
type processingSource struct {
	reader    *corpus.Reader
	processor *textproc.Processor
}

func (s *processingSource) Next() (textproc.ProcessedDocument, error) {
	record, err := s.reader.Next()
	if err == io.EOF {
		return textproc.ProcessedDocument{}, io.EOF
	}
	if err != nil {
		return textproc.ProcessedDocument{}, fmt.Errorf("%w: %v", config.ErrCorpusUnreadable, err)
	}
	return s.processor.Process(record.ReviewID, record.Text), nil
}
