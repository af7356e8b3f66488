// Package httpapi exposes the synthesizer over HTTP: a query endpoint, a
// health endpoint, and a runtime configuration endpoint.
package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nlp2cmd/nlp2cmd/internal/application/doctor"
	"github.com/nlp2cmd/nlp2cmd/internal/domain"
	"github.com/nlp2cmd/nlp2cmd/internal/ports"
)

// ServerConfig is read from the environment.
type ServerConfig struct {
	Addr            string        `env:"NLP2CMD_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"NLP2CMD_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"NLP2CMD_WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"NLP2CMD_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// LoadServerConfig parses NLP2CMD_* environment variables.
func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// Options are the runtime synthesizer knobs adjustable over HTTP.
type Options struct {
	AutoRepair     bool   `json:"auto_repair"`
	Resolver       string `json:"resolver,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// Server serves the HTTP front-end. It owns no synthesis logic; every
// request is delegated to the synthesizer with a fresh adapter, so
// concurrent requests never share mutable state beyond the schema cache.
type Server struct {
	synth  domain.Synthesizer
	doctor *doctor.Service
	log    ports.Logger

	mu   sync.RWMutex
	opts Options
}

// NewServer builds a Server around the wired services. The initial options
// seed the runtime knobs from the loaded configuration; PUT /config
// overrides them for the lifetime of the process.
func NewServer(synthesizer domain.Synthesizer, doctorSvc *doctor.Service, log ports.Logger, opts Options) *Server {
	return &Server{
		synth:  synthesizer,
		doctor: doctorSvc,
		log:    log,
		opts:   opts,
	}
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/query", s.handleQuery)
		r.Get("/config", s.handleGetConfig)
		r.Put("/config", s.handlePutConfig)
	})
	return r
}

// ListenAndServe runs the server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, cfg ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", map[string]interface{}{"addr": cfg.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

func (s *Server) setOptions(opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("http request", map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(started).String(),
			"request_id": middleware.GetReqID(r.Context()),
		})
	})
}
