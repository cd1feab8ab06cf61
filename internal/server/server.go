// Package server exposes a read-only HTTP view of the prompt store for
// health checks, metrics scraping and scripting.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/esnunes/promptsmith/internal/models"
)

const shutdownTimeout = 5 * time.Second

// Store is the read side of the prompt storage. *db.Queries satisfies it.
type Store interface {
	TestConnection(ctx context.Context) bool
	ListPrompts(ctx context.Context) ([]models.Prompt, error)
	GetPrompt(ctx context.Context, id int64) (*models.Prompt, error)
	SchemaDescription() string
}

// Prober reports whether the model backend is usable. llm.Backend satisfies it.
type Prober interface {
	Name() string
	CheckAvailability(ctx context.Context) bool
}

type Server struct {
	store   Store
	backend Prober
	log     zerolog.Logger
	httpSrv *http.Server
	ln      net.Listener
	addr    string
}

func New(store Store, backend Prober, gatherer prometheus.Gatherer, log zerolog.Logger) *Server {
	s := &Server{
		store:   store,
		backend: backend,
		log:     log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /prompts", s.handleList)
	mux.HandleFunc("GET /prompts/{id}", s.handleShow)
	mux.HandleFunc("GET /schema", s.handleSchema)

	s.httpSrv = &http.Server{
		Handler:           s.logRequests(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Listen binds addr. Call Serve to start handling requests.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("binding %s: %w", addr, err)
	}
	s.ln = ln
	s.addr = ln.Addr().String()
	return nil
}

// Serve handles requests until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			s.log.Error().Err(err).Msg("shutting down http server")
		}
	}()

	s.log.Info().Str("addr", s.addr).Msg("http server listening")
	if err := s.httpSrv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	s.log.Info().Msg("http server stopped")
	return nil
}

func (s *Server) Addr() string {
	return s.addr
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
