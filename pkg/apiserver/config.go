package apiserver

import "time"

// Config holds the API server's own settings, separate from the
// per-build config.Config spec.md §6 defines — the same split the
// teacher draws between its transport-level server.Config and its
// storage-level database.Config.
type Config struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	EnableCORS     bool
	AllowedOrigins []string
	EnableLogging  bool
	EnableGraphQL  bool
}

// DefaultConfig returns sensible defaults for running the server
// locally, mirroring the teacher's server.DefaultConfig.
func DefaultConfig() *Config {
	return &Config{
		Host:           "localhost",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxRequestSize: 10 * 1024 * 1024,
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		EnableLogging:  true,
		EnableGraphQL:  true,
	}
}
