// Command query is an interactive REPL over a built revidx index
// (spec.md §4.C9): it loads the Segment Index, the ReviewId
// translation table, and Properties once, then repeatedly reads a
// query line from stdin and prints its ranked results.
//
// The query session's processor configuration (minimum token length,
// stemming, stopwords, scoring format) is supplied independently on
// the command line, exactly as spec.md §6 and §4.C10 require: it is
// validated against the index's persisted Properties, not derived
// from them, so a configuration that disagrees with how the index was
// built is rejected before any query runs (spec.md §7's
// PropertyMismatchError).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mnohosten/revidx/pkg/config"
	"github.com/mnohosten/revidx/pkg/index"
	"github.com/mnohosten/revidx/pkg/queryeval"
	"github.com/mnohosten/revidx/pkg/scoring"
	"github.com/mnohosten/revidx/pkg/textproc"
)

const banner = `
revidx query console
Type a query and press enter. Prefix with ":k <n>" to change top-K.
Type 'exit' or 'quit' to leave.

`

type console struct {
	eval    *queryeval.Evaluator
	scanner *bufio.Scanner
	topK    int
}

func main() {
	cfg := config.DefaultConfig()

	flag.StringVar(&cfg.IndexDir, "index-dir", "./index", "Index directory to query")
	flag.StringVar(&cfg.StopwordsPath, "stopwords", cfg.StopwordsPath, "Path to the stopword list this query session uses, one word per line (default: built-in)")
	flag.IntVar(&cfg.MinTokenLength, "min-token-length", cfg.MinTokenLength, "Minimum token length this query session expects the index to have been built with")
	flag.BoolVar(&cfg.UseStemmer, "stem", cfg.UseStemmer, "Whether this query session expects the index to have been built with stemming")
	format := flag.String("format", string(cfg.Format), "Scoring format this query session expects: tfidf or bm25")
	topK := flag.Int("k", cfg.TopK, "Default number of results to return")
	flag.Parse()

	cfg.Format = config.ScoringFormat(*format)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "query: %v\n", err)
		os.Exit(1)
	}

	c, closeFn, err := newConsole(cfg, *topK)
	if err != nil {
		fmt.Fprintf(os.Stderr, "query: %v\n", err)
		os.Exit(1)
	}
	defer closeFn()

	if err := c.run(); err != nil {
		fmt.Fprintf(os.Stderr, "query: %v\n", err)
		os.Exit(1)
	}
}

func newConsole(cfg *config.Config, topK int) (*console, func(), error) {
	dir, err := index.OpenExisting(cfg.IndexDir)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open index directory: %w", err)
	}

	props, err := index.LoadProperties(dir)
	if err != nil {
		dir.Close()
		return nil, func() {}, fmt.Errorf("load properties: %w", err)
	}

	var stopwords *textproc.StopwordSet
	if cfg.StopwordsPath != "" {
		sw, err := textproc.LoadStopwords(cfg.StopwordsPath)
		if err != nil {
			dir.Close()
			return nil, func() {}, fmt.Errorf("load stopwords: %w", err)
		}
		stopwords = sw
	}
	processor := textproc.New(cfg.MinTokenLength, stopwords, cfg.UseStemmer)

	if err := props.Validate(cfg.MinTokenLength, processor.StopwordsHash(), cfg.UseStemmer, string(cfg.Format)); err != nil {
		dir.Close()
		return nil, func() {}, fmt.Errorf("%w: %v", config.ErrPropertyMismatch, err)
	}

	format, err := newQueryFormat(cfg, props)
	if err != nil {
		dir.Close()
		return nil, func() {}, err
	}

	segments, err := index.OpenSegmentIndex(dir)
	if err != nil {
		dir.Close()
		return nil, func() {}, fmt.Errorf("open segment index: %w", err)
	}

	lookup, err := index.BuildReviewIDLookup(dir)
	if err != nil {
		dir.Close()
		return nil, func() {}, fmt.Errorf("build review id lookup: %w", err)
	}

	eval := queryeval.New(segments, lookup, processor, format, props.DocumentCount)

	closeFn := func() {
		lookup.Close()
		dir.Close()
	}

	return &console{eval: eval, scanner: bufio.NewScanner(os.Stdin), topK: topK}, closeFn, nil
}

// newQueryFormat builds the scoring.Format this query session uses.
// The format tag itself comes from cfg (and is already confirmed, by
// props.Validate above, to agree with how the index was built); the
// BM25 k1/b/avgdl parameters come from the index's own Properties,
// since those were fit to the corpus at build time and are not a
// query-session-supplied input.
func newQueryFormat(cfg *config.Config, props index.Properties) (scoring.Format, error) {
	switch cfg.Format {
	case config.TFIDF:
		return scoring.NewTFIDF(), nil
	case config.BM25:
		return scoring.NewBM25(props.BM25K1, props.BM25B, props.AvgDocLength), nil
	default:
		return nil, config.NewConfigurationError("format", cfg.Format, "must be tfidf or bm25")
	}
}

func (c *console) run() error {
	fmt.Print(banner)

	for {
		fmt.Print("query> ")
		if !c.scanner.Scan() {
			break
		}

		line := strings.TrimSpace(c.scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			fmt.Println("goodbye")
			return nil
		}

		if strings.HasPrefix(line, ":k ") {
			k, err := strconv.Atoi(strings.TrimSpace(line[3:]))
			if err != nil || k <= 0 {
				fmt.Println("usage: :k <positive integer>")
				continue
			}
			c.topK = k
			continue
		}

		results, err := c.eval.Evaluate(line, c.topK)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		if len(results) == 0 {
			fmt.Println("(no matches)")
			continue
		}
		for i, r := range results {
			fmt.Printf("%2d. %-20s score=%.4f\n", i+1, r.ReviewID, r.Score)
		}
	}

	return c.scanner.Err()
}
