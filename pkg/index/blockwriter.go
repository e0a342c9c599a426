package index

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mnohosten/revidx/pkg/blockstore"
)

// BlockWriter serializes a Dictionary to a sorted block file (spec.md
// §4.C3). The logical format is line-oriented text, one line per term
// in ascending order: the term, a space, then whitespace-separated
// `ordinal:frequency` posting entries — self-delimiting per term. A
// block is read exactly once, sequentially, by the External Merger
// and then deleted, so unlike a segment's postings.txt (which the
// Segment Index addresses by byte offset and cannot be compressed
// wholesale) the whole file can be snappy-compressed before it hits
// disk: fast compression over the hot, transient write/read-once path.
type BlockWriter struct {
	dir        *Directory
	compressor *blockstore.Compressor
}

// NewBlockWriter creates a BlockWriter that allocates paths from dir
// and snappy-compresses block contents.
func NewBlockWriter(dir *Directory) *BlockWriter {
	return &BlockWriter{dir: dir, compressor: blockstore.NewCompressor()}
}

// Write flushes dict to a new block file and returns its path. An I/O
// error is fatal and the partial file is removed before the error is
// returned, per spec.md §4.C5's failure semantics.
func (w *BlockWriter) Write(dict *Dictionary) (path string, err error) {
	path = w.dir.NextBlockPath()

	var buf bytes.Buffer
	if err := writeBlock(&buf, dict); err != nil {
		return "", newInternalIOError("serialize block", err)
	}

	compressed, err := w.compressor.Compress(buf.Bytes())
	if err != nil {
		return "", newInternalIOError("compress block", err)
	}

	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		os.Remove(path)
		return "", newInternalIOError("write block file", err)
	}

	return path, nil
}

func writeBlock(w *bytes.Buffer, dict *Dictionary) error {
	var err error
	dict.SortedTerms(func(term Term, postings PostingList) {
		if err != nil {
			return
		}
		var line strings.Builder
		line.WriteString(term)
		for _, p := range postings {
			line.WriteByte(' ')
			line.WriteString(strconv.FormatUint(uint64(p.Ordinal), 10))
			line.WriteByte(':')
			line.WriteString(strconv.FormatUint(uint64(p.RawTF), 10))
		}
		line.WriteByte('\n')
		if _, werr := w.WriteString(line.String()); werr != nil {
			err = fmt.Errorf("write term %q: %w", term, werr)
		}
	})
	return err
}
