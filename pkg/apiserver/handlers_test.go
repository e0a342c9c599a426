package apiserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mnohosten/revidx/pkg/progress"
)

func writeTestCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.csv")
	content := "review_id,text\n" +
		"R1,great coffee great taste\n" +
		"R2,great value for the price\n" +
		"R3,terrible packaging broke in transit\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	return path
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.EnableGraphQL = false
	cfg.EnableLogging = false
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func TestHandleIndexBuildAndSearch(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	corpusPath := writeTestCorpus(t)
	indexDir := filepath.Join(t.TempDir(), "index")

	buildReqBody, _ := json.Marshal(buildRequest{
		CorpusPath: corpusPath,
		IndexDir:   indexDir,
		Format:     "tfidf",
	})
	resp, err := http.Post(ts.URL+"/index/build", "application/json", bytes.NewReader(buildReqBody))
	if err != nil {
		t.Fatalf("POST /index/build: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}

	var br buildResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		t.Fatalf("decode build response: %v", err)
	}
	if br.BuildID == "" {
		t.Fatal("expected non-empty build id")
	}

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/build?id=" + br.BuildID
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial /ws/build: %v", err)
	}
	defer ws.Close()

	ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	sawDone := false
	for !sawDone {
		var e progress.Event
		if err := ws.ReadJSON(&e); err != nil {
			t.Fatalf("read progress event: %v", err)
		}
		if e.Type == progress.EventError {
			t.Fatalf("build failed: %s", e.Error)
		}
		if e.Type == progress.EventDone {
			sawDone = true
		}
	}

	searchReqBody, _ := json.Marshal(searchRequest{IndexDir: indexDir, Query: "great coffee", TopK: 2})
	resp2, err := http.Post(ts.URL+"/search", "application/json", bytes.NewReader(searchReqBody))
	if err != nil {
		t.Fatalf("POST /search: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp2.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp2.Body).Decode(&sr); err != nil {
		t.Fatalf("decode search response: %v", err)
	}
	if len(sr.Results) == 0 {
		t.Fatal("expected at least one search result")
	}
	if sr.Results[0].ReviewID != "R1" {
		t.Fatalf("expected R1 to rank first, got %s", sr.Results[0].ReviewID)
	}
}

func TestHandleStatsAndHealth(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/_health")
	if err != nil {
		t.Fatalf("GET /_health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	corpusPath := writeTestCorpus(t)
	indexDir := filepath.Join(t.TempDir(), "index")
	body, _ := json.Marshal(buildRequest{CorpusPath: corpusPath, IndexDir: indexDir, Format: "bm25"})
	buildResp, err := http.Post(ts.URL+"/index/build", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /index/build: %v", err)
	}
	defer buildResp.Body.Close()
	var br buildResponse
	json.NewDecoder(buildResp.Body).Decode(&br)

	b, ok := srv.builds.get(br.BuildID)
	if !ok {
		t.Fatal("expected build to be registered")
	}
	for i := 0; i < 200 && !b.done.Load(); i++ {
		time.Sleep(10 * time.Millisecond)
	}
	if !b.done.Load() {
		t.Fatal("build did not finish in time")
	}

	statsResp, err := http.Get(ts.URL + "/_stats?indexDir=" + indexDir)
	if err != nil {
		t.Fatalf("GET /_stats: %v", err)
	}
	defer statsResp.Body.Close()
	if statsResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", statsResp.StatusCode)
	}
	var stats statsResponse
	if err := json.NewDecoder(statsResp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Properties.DocumentCount != 3 {
		t.Fatalf("expected 3 documents, got %d", stats.Properties.DocumentCount)
	}
}
