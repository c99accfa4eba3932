package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"csv-drop/internal/storage"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version string
	Commit  string
}

type Config struct {
	Addr  string // e.g. ":8000"
	Build BuildInfo

	// Store receives uploaded files.
	Store storage.Store

	// AllowedOrigins defaults to DefaultAllowedOrigin when empty.
	AllowedOrigins []string

	// MaxUploadBytes caps the request body; 0 means no limit.
	MaxUploadBytes int64

	// Metrics defaults to a fresh registry when nil.
	Metrics *Metrics
}

type Server struct {
	httpServer *http.Server
	metrics    *Metrics
}

func New(cfg Config) *Server {
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics(cfg.Build)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", rootHandler)
	mux.Handle("POST /upload-csv/{$}", uploadHandler(cfg.Store, cfg.MaxUploadBytes, metrics))
	mux.Handle("POST /upload-csv", http.RedirectHandler("/upload-csv/", http.StatusTemporaryRedirect))
	mux.Handle("GET /health", healthHandler(cfg.Store, cfg.Build))
	mux.Handle("GET /metrics", metrics.Handler())

	// Wrap middleware: requestID -> logging -> security headers -> CORS -> mux
	var handler http.Handler = mux
	handler = corsMiddleware(cfg.AllowedOrigins)(handler)
	handler = securityHeadersMiddleware(handler)
	handler = loggingMiddleware(metrics, handler)
	handler = requestIDMiddleware(handler)

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          DefaultLogger.StdLogger(LogLevelError),
	}

	return &Server{httpServer: s, metrics: metrics}
}

// Handler returns the fully wrapped handler, for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Metrics returns the collectors the server records into.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
