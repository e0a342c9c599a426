package textproc

import (
	"bufio"
	"encoding/hex"
	"os"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// StopwordSet is an immutable membership set plus the content hash
// IndexProperties persists so a query session can detect a changed
// stopword file without embedding the set verbatim in properties.json.
type StopwordSet struct {
	words map[string]bool
	hash  string
}

// Contains reports whether w is a stopword.
func (s *StopwordSet) Contains(w string) bool {
	return s.words[w]
}

// Hash returns the hex-encoded blake2b-256 hash of the sorted word
// list, stable across process runs regardless of input ordering.
func (s *StopwordSet) Hash() string {
	return s.hash
}

// DefaultStopwords returns the built-in English stopword set.
func DefaultStopwords() *StopwordSet {
	return newStopwordSet(defaultStopwordList)
}

// LoadStopwords reads one stopword per line from path.
func LoadStopwords(path string) (*StopwordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if w != "" {
			words = append(words, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return newStopwordSet(words), nil
}

func newStopwordSet(words []string) *StopwordSet {
	sorted := append([]string(nil), words...)
	sort.Strings(sorted)

	h := blake2b.Sum256([]byte(strings.Join(sorted, "\n")))

	set := make(map[string]bool, len(sorted))
	for _, w := range sorted {
		set[w] = true
	}

	return &StopwordSet{words: set, hash: hex.EncodeToString(h[:])}
}

var defaultStopwordList = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by",
	"for", "if", "in", "into", "is", "it", "no", "not", "of",
	"on", "or", "such", "that", "the", "their", "then", "there",
	"these", "they", "this", "to", "was", "will", "with",
	"i", "you", "he", "she", "we", "me", "him", "her",
	"us", "them", "what", "which", "who", "when", "where", "why",
	"how", "all", "each", "every", "both", "few", "more", "most",
	"other", "some", "can", "could", "may", "might", "must",
	"shall", "should", "would", "am", "been", "being", "have",
	"has", "had", "do", "does", "did", "doing",
}
