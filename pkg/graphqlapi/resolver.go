package graphqlapi

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/mnohosten/revidx/pkg/queryeval"
)

// SearchFunc runs a ranked query against an already-built index
// directory; apiserver supplies one that wraps its own search method.
type SearchFunc func(indexDir, query string, topK int) ([]queryeval.QueryResult, error)

// resolver binds GraphQL field resolution to the core search pipeline,
// grounded on the teacher's graphql.Resolver wrapping *database.Database.
type resolver struct {
	search SearchFunc
}

func newResolver(search SearchFunc) *resolver {
	return &resolver{search: search}
}

// Search resolves the search query: indexDir, query, topK -> ranked hits.
func (r *resolver) Search(p graphql.ResolveParams) (interface{}, error) {
	indexDir, ok := p.Args["indexDir"].(string)
	if !ok || indexDir == "" {
		return nil, fmt.Errorf("indexDir is required")
	}
	query, ok := p.Args["query"].(string)
	if !ok || query == "" {
		return nil, fmt.Errorf("query is required")
	}

	topK := 10
	if v, ok := p.Args["topK"].(int); ok && v > 0 {
		topK = v
	}

	results, err := r.search(indexDir, query, topK)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, len(results))
	for i, res := range results {
		out[i] = map[string]interface{}{
			"reviewId": res.ReviewID,
			"score":    res.Score,
		}
	}
	return out, nil
}
