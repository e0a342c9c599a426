// Package graphqlapi mirrors the teacher's pkg/graphql package: a
// graphql-go schema plus an HTTP handler and GraphiQL playground,
// adapted from document queries over a resident database to ranked
// search over an on-disk index directory.
package graphqlapi

import (
	"github.com/graphql-go/graphql"
)

// Schema builds the GraphQL schema exposing the search operation,
// grounded on the teacher's graphql.Schema field/resolver layout.
func Schema(search SearchFunc) (graphql.Schema, error) {
	hitType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "SearchHit",
		Description: "One ranked review result",
		Fields: graphql.Fields{
			"reviewId": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.String),
				Description: "The matched review's identifier",
			},
			"score": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.Float),
				Description: "Relevance score under the index's scoring format",
			},
		},
	})

	r := newResolver(search)

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Query",
		Description: "Root query type for revidx",
		Fields: graphql.Fields{
			"search": &graphql.Field{
				Type:        graphql.NewList(hitType),
				Description: "Rank reviews in an index directory against a free-text query",
				Args: graphql.FieldConfigArgument{
					"indexDir": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.String),
						Description: "Path to an already-built index directory",
					},
					"query": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.String),
						Description: "Free-text query",
					},
					"topK": &graphql.ArgumentConfig{
						Type:        graphql.Int,
						Description: "Maximum number of results to return (default 10)",
					},
				},
				Resolve: r.Search,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}
