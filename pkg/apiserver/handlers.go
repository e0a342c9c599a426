package apiserver

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mnohosten/revidx/pkg/config"
	"github.com/mnohosten/revidx/pkg/corpus"
	"github.com/mnohosten/revidx/pkg/index"
	"github.com/mnohosten/revidx/pkg/memmon"
	"github.com/mnohosten/revidx/pkg/progress"
	"github.com/mnohosten/revidx/pkg/queryeval"
	"github.com/mnohosten/revidx/pkg/scoring"
	"github.com/mnohosten/revidx/pkg/textproc"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// buildRequest is the body of POST /index/build.
type buildRequest struct {
	CorpusPath      string  `json:"corpusPath"`
	IndexDir        string  `json:"indexDir"`
	Format          string  `json:"format"`
	Overwrite       bool    `json:"overwrite"`
	MinTokenLength  int     `json:"minTokenLength"`
	UseStemmer      bool    `json:"useStemmer"`
	MemoryThreshold float64 `json:"memoryThreshold"`
	BM25K1          float64 `json:"bm25K1"`
	BM25B           float64 `json:"bm25B"`
	Debug           bool    `json:"debug"`
}

type buildResponse struct {
	BuildID string `json:"buildId"`
}

// handleIndexBuild starts a build in the background and immediately
// returns its ID; progress is consumed via the paired /ws/build route.
func (s *Server) handleIndexBuild(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.CorpusPath == "" || req.IndexDir == "" {
		writeError(w, http.StatusBadRequest, "corpusPath and indexDir are required")
		return
	}

	cfg := config.DefaultConfig()
	cfg.CorpusPath = req.CorpusPath
	cfg.IndexDir = req.IndexDir
	cfg.Overwrite = req.Overwrite
	cfg.Debug = req.Debug
	if req.Format != "" {
		cfg.Format = config.ScoringFormat(req.Format)
	}
	if req.MinTokenLength > 0 {
		cfg.MinTokenLength = req.MinTokenLength
	}
	cfg.UseStemmer = req.UseStemmer
	if req.MemoryThreshold > 0 {
		cfg.MemoryThreshold = req.MemoryThreshold
	}
	if req.BM25K1 > 0 {
		cfg.BM25K1 = req.BM25K1
	}
	if req.BM25B > 0 {
		cfg.BM25B = req.BM25B
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b := s.builds.create(req.IndexDir)
	go s.runBuild(b, cfg)

	writeJSON(w, http.StatusAccepted, buildResponse{BuildID: b.id})
}

// runBuild executes one index build end to end, reporting every event
// to b.sink; cmd/indexer runs the same pipeline synchronously without a
// sink.
func (s *Server) runBuild(b *build, cfg *config.Config) {
	defer b.done.Store(true)

	b.sink.Send(progress.Event{Type: progress.EventConnected, Message: "build started"})

	var stopwords *textproc.StopwordSet
	if cfg.StopwordsPath != "" {
		sw, err := textproc.LoadStopwords(cfg.StopwordsPath)
		if err != nil {
			b.sink.Send(progress.Event{Type: progress.EventError, Error: err.Error()})
			return
		}
		stopwords = sw
	}
	processor := textproc.New(cfg.MinTokenLength, stopwords, cfg.UseStemmer)

	var format scoring.Format
	switch cfg.Format {
	case config.BM25:
		format = scoring.NewBM25(cfg.BM25K1, cfg.BM25B, 0)
	default:
		format = scoring.NewTFIDF()
	}

	createOpt := index.CreateErrorOnExists
	if cfg.Overwrite {
		createOpt = index.CreateOverwrite
	}
	dir, err := index.Create(cfg.IndexDir, createOpt)
	if err != nil {
		b.sink.Send(progress.Event{Type: progress.EventError, Error: err.Error()})
		return
	}
	defer dir.Close()

	monitor := memmon.New(cfg.MemoryThreshold)
	source := &processingSource{reader: corpus.Open(cfg.CorpusPath), processor: processor}

	indexer := index.NewSPIMIIndexer(dir, monitor, format)
	indexer.SetSink(b.sink)

	result, err := indexer.Run(source)
	if err != nil {
		b.sink.Send(progress.Event{Type: progress.EventError, Error: err.Error()})
		return
	}

	if bm25, ok := format.(*scoring.BM25Format); ok {
		bm25.SetAvgDL(averageOf(result.DocumentLengths))
	}

	b.sink.Send(progress.Event{Type: progress.EventMerging, Message: "merging blocks into segments"})

	merger := index.NewMerger(dir, format, result.DocumentLengths, cfg.Debug)
	termCount, err := merger.Merge(result.BlockPaths)
	if err != nil {
		b.sink.Send(progress.Event{Type: progress.EventError, Error: err.Error()})
		return
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
		b.sink.Send(progress.Event{Type: progress.EventError, Error: err.Error()})
		return
	}

	segments, err := index.OpenSegmentIndex(dir)
	segmentCount := 0
	if err == nil {
		segmentCount = segments.SegmentCount()
	}

	b.sink.Send(progress.Event{
		Type:              progress.EventDone,
		DocumentsIngested: dir.DocumentCount(),
		SegmentCount:      segmentCount,
		TermCount:         termCount,
	})
}

// handleWatchBuild streams a build's progress.Event sequence over a
// WebSocket, replaying history before switching to live delivery,
// grounded on the teacher's handlers.HandleChangeStream.
func (s *Server) handleWatchBuild(w http.ResponseWriter, r *http.Request) {
	buildID := r.URL.Query().Get("id")
	b, ok := s.builds.get(buildID)
	if !ok {
		http.Error(w, "unknown build id", http.StatusNotFound)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws/build: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	backlog, live, detach := b.sink.subscribe()
	defer detach()

	for _, e := range backlog {
		if err := conn.WriteJSON(e); err != nil {
			return
		}
	}

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case e, ok := <-live:
			if !ok {
				return
			}
			if err := conn.WriteJSON(e); err != nil {
				return
			}
			if e.Type == progress.EventDone || e.Type == progress.EventError {
				return
			}
		case <-heartbeat.C:
			if err := conn.WriteJSON(progress.Event{Type: "heartbeat"}); err != nil {
				return
			}
		}
	}
}

// searchRequest is the body of POST /search. The processor-affecting
// fields (minTokenLength, useStemmer, stopwordsPath, format) describe
// the query session's own configuration, independent of whatever the
// target index was built with; they are validated against the index's
// persisted Properties (spec.md §4.C10/§7) rather than read from them,
// so a caller whose session disagrees with the index gets a property
// mismatch instead of a silently-"matching" comparison.
type searchRequest struct {
	IndexDir       string `json:"indexDir"`
	Query          string `json:"query"`
	TopK           int    `json:"topK"`
	MinTokenLength int    `json:"minTokenLength"`
	UseStemmer     bool   `json:"useStemmer"`
	StopwordsPath  string `json:"stopwordsPath"`
	Format         string `json:"format"`
}

type searchResponse struct {
	Results []queryeval.QueryResult `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.IndexDir == "" || req.Query == "" {
		writeError(w, http.StatusBadRequest, "indexDir and query are required")
		return
	}
	if req.TopK <= 0 {
		req.TopK = 10
	}

	cfg := config.DefaultConfig()
	cfg.IndexDir = req.IndexDir
	if req.MinTokenLength > 0 {
		cfg.MinTokenLength = req.MinTokenLength
	}
	cfg.UseStemmer = req.UseStemmer
	cfg.StopwordsPath = req.StopwordsPath
	if req.Format != "" {
		cfg.Format = config.ScoringFormat(req.Format)
	}

	results, err := s.search(cfg, req.Query, req.TopK)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Results: results})
}

func (s *Server) search(cfg *config.Config, query string, topK int) ([]queryeval.QueryResult, error) {
	dir, err := index.OpenExisting(cfg.IndexDir)
	if err != nil {
		return nil, fmt.Errorf("open index directory: %w", err)
	}
	defer dir.Close()

	props, err := index.LoadProperties(dir)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}

	var stopwords *textproc.StopwordSet
	if cfg.StopwordsPath != "" {
		sw, err := textproc.LoadStopwords(cfg.StopwordsPath)
		if err != nil {
			return nil, fmt.Errorf("load stopwords: %w", err)
		}
		stopwords = sw
	}
	processor := textproc.New(cfg.MinTokenLength, stopwords, cfg.UseStemmer)
	if err := props.Validate(cfg.MinTokenLength, processor.StopwordsHash(), cfg.UseStemmer, string(cfg.Format)); err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrPropertyMismatch, err)
	}

	var format scoring.Format
	switch cfg.Format {
	case config.BM25:
		format = scoring.NewBM25(props.BM25K1, props.BM25B, props.AvgDocLength)
	default:
		format = scoring.NewTFIDF()
	}

	segments, err := index.OpenSegmentIndex(dir)
	if err != nil {
		return nil, fmt.Errorf("open segment index: %w", err)
	}
	lookup, err := index.BuildReviewIDLookup(dir)
	if err != nil {
		return nil, fmt.Errorf("build review id lookup: %w", err)
	}
	defer lookup.Close()

	eval := queryeval.New(segments, lookup, processor, format, props.DocumentCount)
	return eval.Evaluate(query, topK)
}

type statsResponse struct {
	Properties   index.Properties `json:"properties"`
	SegmentCount int              `json:"segmentCount"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	indexDir := r.URL.Query().Get("indexDir")
	if indexDir == "" {
		writeError(w, http.StatusBadRequest, "indexDir query parameter is required")
		return
	}

	dir, err := index.OpenExisting(indexDir)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	defer dir.Close()

	props, err := index.LoadProperties(dir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	segments, err := index.OpenSegmentIndex(dir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{Properties: props, SegmentCount: segments.SegmentCount()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"uptime": time.Since(s.startTime).String(),
	})
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

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{"ok": false, "error": message})
}

// processingSource adapts a corpus.Reader into an index.DocumentSource,
// duplicated from cmd/indexer's unexported helper of the same shape
// since the two binaries share no internal package.
type processingSource struct {
	reader    *corpus.Reader
	processor *textproc.Processor
}

func (s *processingSource) Next() (textproc.ProcessedDocument, error) {
	record, err := s.reader.Next()
	if err != nil {
		return textproc.ProcessedDocument{}, err
	}
	return s.processor.Process(record.ReviewID, record.Text), nil
}
