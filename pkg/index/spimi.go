package index

import (
	"io"
	"runtime"

	"github.com/mnohosten/revidx/pkg/progress"
	"github.com/mnohosten/revidx/pkg/scoring"
	"github.com/mnohosten/revidx/pkg/textproc"
)

// DocumentSource is a pull-based cursor over already-processed
// documents, the boundary between the external processor collaborator
// (spec.md §6) and the SPIMI Indexer. Next returns io.EOF once the
// corpus is exhausted.
type DocumentSource interface {
	Next() (textproc.ProcessedDocument, error)
}

// MemoryMonitor is the subset of memmon.Monitor the indexer depends on.
type MemoryMonitor interface {
	UnderThreshold() (bool, error)
}

// SPIMIIndexer streams processed documents into a Postings Dictionary,
// flushing to block files under memory pressure (spec.md §4.C5).
type SPIMIIndexer struct {
	dir     *Directory
	monitor MemoryMonitor
	format  scoring.Format
	writer  *BlockWriter
	dict    *Dictionary
	sink    progress.Sink
}

// NewSPIMIIndexer constructs an indexer writing blocks into dir. It
// reports no progress events until SetSink is called.
func NewSPIMIIndexer(dir *Directory, monitor MemoryMonitor, format scoring.Format) *SPIMIIndexer {
	return &SPIMIIndexer{
		dir:     dir,
		monitor: monitor,
		format:  format,
		writer:  NewBlockWriter(dir),
		dict:    NewDictionary(),
		sink:    progress.DiscardSink{},
	}
}

// SetSink directs build progress events to sink instead of discarding
// them, for callers (the API server) that stream them onward.
func (idx *SPIMIIndexer) SetSink(sink progress.Sink) {
	if sink == nil {
		sink = progress.DiscardSink{}
	}
	idx.sink = sink
}

// Result is the output of a completed SPIMI run: the block files
// produced and each ingested document's length statistic, indexed by
// DocumentOrdinal.
type Result struct {
	BlockPaths     []string
	DocumentLengths []float64
}

// Run ingests every document source yields, flushing blocks as the
// MemoryMonitor demands, and returns the block paths plus the
// DocumentLengthTable spec.md §3 describes.
func (idx *SPIMIIndexer) Run(source DocumentSource) (Result, error) {
	var result Result

	for {
		under, err := idx.monitor.UnderThreshold()
		if err != nil {
			return result, err
		}
		if !under && !idx.dict.Empty() {
			idx.sink.Send(progress.Event{
				Type:    progress.EventMemoryPressure,
				Message: "memory threshold exceeded, flushing block",
			})
			if err := idx.flush(&result); err != nil {
				return result, err
			}
		}

		doc, err := source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, err
		}

		ordinal, err := idx.dir.AppendReviewID(doc.ReviewID)
		if err != nil {
			return result, err
		}

		docLen := idx.format.DocumentLength(doc.TermFreqs, doc.TokenCount)
		result.DocumentLengths = append(result.DocumentLengths, docLen)

		idx.dict.AddDocument(ordinal, doc.TermFreqs)
	}

	if !idx.dict.Empty() {
		if err := idx.flush(&result); err != nil {
			return result, err
		}
	}

	if err := idx.dir.Flush(); err != nil {
		return result, err
	}

	return result, nil
}

func (idx *SPIMIIndexer) flush(result *Result) error {
	path, err := idx.writer.Write(idx.dict)
	if err != nil {
		return err
	}
	result.BlockPaths = append(result.BlockPaths, path)
	idx.dict.Reset()
	runtime.GC()

	idx.sink.Send(progress.Event{
		Type:              progress.EventFlush,
		FlushCount:        len(result.BlockPaths),
		BlockPath:         path,
		DocumentsIngested: idx.dir.DocumentCount(),
	})
	return nil
}
