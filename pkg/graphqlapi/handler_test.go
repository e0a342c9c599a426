package graphqlapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mnohosten/revidx/pkg/queryeval"
)

func fakeSearch(results []queryeval.QueryResult, err error) SearchFunc {
	return func(indexDir, query string, topK int) ([]queryeval.QueryResult, error) {
		return results, err
	}
}

func TestHandlerServesSearchQuery(t *testing.T) {
	h, err := NewHandler(fakeSearch([]queryeval.QueryResult{
		{ReviewID: "R1", Score: 1.5},
		{ReviewID: "R2", Score: 0.5},
	}, nil))
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}

	body, _ := json.Marshal(graphQLRequest{
		Query: `{ search(indexDir: "./index", query: "great coffee", topK: 2) { reviewId score } }`,
	})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Data struct {
			Search []struct {
				ReviewID string  `json:"reviewId"`
				Score    float64 `json:"score"`
			} `json:"search"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(out.Errors) > 0 {
		t.Fatalf("unexpected graphql errors: %+v", out.Errors)
	}
	if len(out.Data.Search) != 2 || out.Data.Search[0].ReviewID != "R1" {
		t.Fatalf("unexpected search result: %+v", out.Data.Search)
	}
}

func TestHandlerRejectsNonPost(t *testing.T) {
	h, err := NewHandler(fakeSearch(nil, nil))
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestResolverPropagatesSearchError(t *testing.T) {
	h, err := NewHandler(fakeSearch(nil, errors.New("index not found")))
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}

	body, _ := json.Marshal(graphQLRequest{
		Query: `{ search(indexDir: "./missing", query: "x") { reviewId } }`,
	})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	json.Unmarshal(rec.Body.Bytes(), &out)
	if len(out.Errors) == 0 {
		t.Fatal("expected a graphql error for the failed search")
	}
}
