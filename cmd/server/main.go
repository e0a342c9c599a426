// Command server runs revidx's HTTP/WebSocket/GraphQL API: the same
// index-build and query pipeline cmd/indexer and cmd/query drive
// synchronously, exposed as a long-running service (SPEC_FULL.md's
// EXPANSION section), grounded on the teacher's cmd/server/main.go
// flag-to-Config wiring.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mnohosten/revidx/pkg/apiserver"
)

func main() {
	cfg := apiserver.DefaultConfig()

	host := flag.String("host", cfg.Host, "Server host address")
	port := flag.Int("port", cfg.Port, "Server port")
	corsOrigin := flag.String("cors-origin", "*", "CORS allowed origin")
	enableGraphQL := flag.Bool("graphql", cfg.EnableGraphQL, "Enable GraphQL API endpoint (/graphql) and GraphiQL playground (/graphiql)")
	readTimeout := flag.Duration("read-timeout", cfg.ReadTimeout, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", cfg.WriteTimeout, "HTTP write timeout")
	maxRequestSize := flag.Int64("max-request-size", cfg.MaxRequestSize, "Maximum accepted request body size in bytes")
	flag.Parse()

	cfg.Host = *host
	cfg.Port = *port
	cfg.AllowedOrigins = []string{*corsOrigin}
	cfg.EnableGraphQL = *enableGraphQL
	cfg.ReadTimeout = *readTimeout
	cfg.WriteTimeout = *writeTimeout
	cfg.MaxRequestSize = *maxRequestSize

	srv, err := apiserver.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "server: failed to create server: %v\n", err)
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}
