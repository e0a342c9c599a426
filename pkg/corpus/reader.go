// Package corpus implements the review-stream contract (spec.md §6):
// a lazy, finite sequence of (ReviewId, text) records consumed exactly
// once in stream order. spec.md scopes text acquisition out as an
// external collaborator; this package is the concrete reader that
// makes the rest of the repository runnable against a real corpus file.
//
// The Design Notes section of spec.md calls for "explicit cursor
// objects with next() returning an optional" rather than a coroutine,
// so Reader is a pull-based cursor, not a channel or goroutine.
package corpus

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Record is one raw review as read from the corpus, before any
// processing.
type Record struct {
	ReviewID string
	Text     string
}

// Reader is a lazy cursor over a CSV corpus file with columns
// review_id,text. It opens the file lazily on the first Next call and
// closes it automatically at EOF.
type Reader struct {
	path string
	f    *os.File
	csv  *csv.Reader
	line int
}

// Open returns a Reader for path without reading anything yet; the
// caller learns about an unreadable corpus from the first Next call,
// matching spec.md's CorpusIOError semantics (fatal, but only once
// I/O is actually attempted).
func Open(path string) *Reader {
	return &Reader{path: path}
}

func (r *Reader) ensureOpen() error {
	if r.f != nil {
		return nil
	}
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("corpus unreadable: %w", err)
	}
	r.f = f
	br := bufio.NewReaderSize(f, 64*1024)
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = 2
	cr.ReuseRecord = true
	r.csv = cr
	return nil
}

// Next returns the next record, or io.EOF once the corpus is exhausted.
// Records are consumed exactly once, in file order.
func (r *Reader) Next() (Record, error) {
	if err := r.ensureOpen(); err != nil {
		return Record{}, err
	}

	fields, err := r.csv.Read()
	if err == io.EOF {
		r.Close()
		return Record{}, io.EOF
	}
	if err != nil {
		return Record{}, fmt.Errorf("corpus unreadable at line %d: %w", r.line+1, err)
	}
	r.line++

	// Allow and skip an optional header row.
	if r.line == 1 && (fields[0] == "review_id" || fields[0] == "reviewId" || fields[0] == "id") {
		return r.Next()
	}

	return Record{ReviewID: fields[0], Text: fields[1]}, nil
}

// Close releases the underlying file handle. Safe to call multiple
// times and after Next has already returned io.EOF.
func (r *Reader) Close() error {
	if r.f == nil {
		return nil
	}
	f := r.f
	r.f = nil
	return f.Close()
}
