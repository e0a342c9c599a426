// Package apiserver exposes the same index-build and query pipeline
// cmd/indexer and cmd/query drive synchronously as an HTTP/WebSocket/
// GraphQL service, grounded on the teacher's pkg/server: chi router,
// the same middleware stack, and the same corsMiddleware /
// requestSizeLimitMiddleware pair, adapted to a stateless,
// index-directory-per-request model instead of one resident database.
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mnohosten/revidx/pkg/config"
	"github.com/mnohosten/revidx/pkg/graphqlapi"
	"github.com/mnohosten/revidx/pkg/queryeval"
)

// Server is the revidx API server.
type Server struct {
	config    *Config
	router    *chi.Mux
	httpSrv   *http.Server
	startTime time.Time
	builds    *buildManager
}

// New builds a Server bound to config but does not start listening.
func New(config *Config) (*Server, error) {
	if config.Port <= 0 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", config.Port)
	}

	srv := &Server{
		config:    config,
		router:    chi.NewRouter(),
		startTime: time.Now(),
		builds:    newBuildManager(),
	}

	srv.setupMiddleware()
	srv.setupRoutes()

	if config.EnableGraphQL {
		if err := srv.setupGraphQL(); err != nil {
			return nil, fmt.Errorf("setup graphql: %w", err)
		}
	}

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	srv.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      srv.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return srv, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)

	if s.config.EnableLogging {
		s.router.Use(middleware.Logger)
	}
	if s.config.EnableCORS {
		s.router.Use(s.corsMiddleware)
	}

	s.router.Use(s.requestSizeLimitMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/_health", s.handleHealth)
	s.router.Get("/_stats", s.handleStats)

	s.router.Post("/index/build", s.handleIndexBuild)
	s.router.Get("/ws/build", s.handleWatchBuild)

	s.router.Post("/search", s.handleSearch)
}

func (s *Server) setupGraphQL() error {
	// GraphQL search takes only indexDir/query/topK, so it runs with the
	// same configuration /search uses when those other fields are omitted.
	handler, err := graphqlapi.NewHandler(func(indexDir, query string, topK int) ([]queryeval.QueryResult, error) {
		cfg := config.DefaultConfig()
		cfg.IndexDir = indexDir
		cfg.UseStemmer = false
		return s.search(cfg, query, topK)
	})
	if err != nil {
		return err
	}

	s.router.Post("/graphql", handler.ServeHTTP)
	s.router.Get("/graphiql", graphqlapi.GraphiQLHandler())

	return nil
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := "*"
		if len(s.config.AllowedOrigins) > 0 {
			origin = s.config.AllowedOrigins[0]
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestSizeLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestSize)
		next.ServeHTTP(w, r)
	})
}

// Start runs the server until an unrecoverable error or a termination
// signal arrives, then shuts down gracefully.
func (s *Server) Start() error {
	fmt.Printf("revidx server starting on http://%s:%d\n", s.config.Host, s.config.Port)
	if s.config.EnableGraphQL {
		fmt.Println("graphql endpoint: /graphql, playground: /graphiql")
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		fmt.Printf("received signal: %v, shutting down\n", sig)
		return s.Shutdown()
	}
}

// Shutdown stops accepting new connections and waits up to 30s for
// in-flight requests to finish.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}
