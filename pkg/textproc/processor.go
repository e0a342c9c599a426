package textproc

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

var tokenSplitter = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Processor is the concrete processor-contract implementation: a pure
// function of (ReviewID, raw text) to a ProcessedDocument, parameterized
// by the same three knobs spec.md §6 names (minimum token length,
// stopword set, stemmer on/off). The same Processor value must be used
// at index time and at query time, which IndexProperties enforces.
type Processor struct {
	minTokenLength int
	stopwords      *StopwordSet
	useStemmer     bool
}

// New builds a Processor. A nil stopwords uses the built-in set.
func New(minTokenLength int, stopwords *StopwordSet, useStemmer bool) *Processor {
	if stopwords == nil {
		stopwords = DefaultStopwords()
	}
	return &Processor{
		minTokenLength: minTokenLength,
		stopwords:      stopwords,
		useStemmer:     useStemmer,
	}
}

// StopwordsHash returns the hash of the configured stopword set, stored
// in IndexProperties for mismatch detection.
func (p *Processor) StopwordsHash() string {
	return p.stopwords.Hash()
}

// Process tokenizes text, lowercases, filters by minimum length and
// stopwords, optionally stems, and counts per-term frequencies.
func (p *Processor) Process(reviewID, text string) ProcessedDocument {
	rawTokens := tokenSplitter.Split(text, -1)

	termFreqs := make(map[string]int)
	tokenCount := 0

	for _, raw := range rawTokens {
		if raw == "" {
			continue
		}
		tokenCount++

		token := strings.ToLower(raw)
		if len(token) < p.minTokenLength {
			continue
		}
		if p.stopwords.Contains(token) {
			continue
		}
		if p.useStemmer {
			if stemmed, err := snowball.Stem(token, "english", true); err == nil {
				token = stemmed
			}
		}

		termFreqs[token]++
	}

	return ProcessedDocument{
		ReviewID:   reviewID,
		TokenCount: tokenCount,
		TermFreqs:  termFreqs,
	}
}
