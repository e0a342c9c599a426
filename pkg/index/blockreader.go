package index

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mnohosten/revidx/pkg/blockstore"
)

// blockEntry is one decoded line of a block file: a term and its
// posting list as written by BlockWriter.
type blockEntry struct {
	term     Term
	postings PostingList
}

// blockReader is a pull-based cursor over one block file's sorted
// term entries (spec.md's Design Notes call for explicit cursors
// rather than coroutines for exactly this kind of merge input). Block
// files are snappy-compressed as a single frame by BlockWriter, so
// opening one decompresses it in full up front; a block's decoded size
// is bounded by the same memory threshold that triggered its flush, so
// this costs no more than the in-memory Dictionary it replaced.
type blockReader struct {
	path    string
	scanner *bufio.Scanner
}

func openBlockReader(path string) (*blockReader, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, newInternalIOError("open block file", err)
	}

	decoded, err := blockstore.NewCompressor().Decompress(raw)
	if err != nil {
		return nil, newInternalIOError("decompress block file", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(decoded))
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)
	return &blockReader{path: path, scanner: scanner}, nil
}

// next returns the next (term, postings) entry, or io.EOF once the
// block is exhausted.
func (r *blockReader) next() (blockEntry, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return blockEntry{}, newInternalIOError("read block file", err)
		}
		return blockEntry{}, io.EOF
	}
	return parseBlockLine(r.scanner.Text())
}

func (r *blockReader) close() error {
	return nil
}

func parseBlockLine(line string) (blockEntry, error) {
	sp := strings.IndexByte(line, ' ')
	if sp < 0 {
		return blockEntry{}, fmt.Errorf("malformed block line %q: no postings", line)
	}
	term := line[:sp]

	fields := strings.Fields(line[sp+1:])
	postings := make(PostingList, 0, len(fields))
	for _, field := range fields {
		colon := strings.IndexByte(field, ':')
		if colon < 0 {
			return blockEntry{}, fmt.Errorf("malformed posting %q for term %q", field, term)
		}
		ordinal, err := strconv.ParseUint(field[:colon], 10, 32)
		if err != nil {
			return blockEntry{}, fmt.Errorf("malformed ordinal in %q: %w", field, err)
		}
		tf, err := strconv.ParseUint(field[colon+1:], 10, 32)
		if err != nil {
			return blockEntry{}, fmt.Errorf("malformed frequency in %q: %w", field, err)
		}
		postings = append(postings, Posting{Ordinal: DocumentOrdinal(ordinal), RawTF: uint32(tf)})
	}

	return blockEntry{term: term, postings: postings}, nil
}
