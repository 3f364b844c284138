// Package server exposes sessions over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"edachat/agent"
	"edachat/dataset"
	"edachat/export"
)

const defaultMaxUpload = 64 << 20

// Config configures the HTTP server.
type Config struct {
	Addr           string
	AllowedOrigins []string
	// MaxUploadBytes caps dataset uploads. Zero means 64 MiB.
	MaxUploadBytes int64
	// Ingest is applied to every uploaded dataset.
	Ingest dataset.Options
	// SessionTTL drops sessions idle for longer. Zero keeps them forever.
	SessionTTL time.Duration
}

// Server holds the sessions and routes requests to the agent.
type Server struct {
	agent    *agent.Agent
	cfg      Config
	log      *zap.Logger
	exporter *export.PDFExportService

	mu       sync.RWMutex
	sessions map[string]*entry
}

// entry is a session plus the transcript kept for report export.
type entry struct {
	session *agent.Session

	mu         sync.Mutex
	transcript []export.Entry
	lastUsed   time.Time
}

func (e *entry) touch(now time.Time) {
	e.mu.Lock()
	e.lastUsed = now
	e.mu.Unlock()
}

func (e *entry) idleSince() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUsed
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithExporter sets the PDF report service.
func WithExporter(e *export.PDFExportService) Option {
	return func(s *Server) {
		if e != nil {
			s.exporter = e
		}
	}
}

// New creates a Server.
func New(a *agent.Agent, cfg Config, opts ...Option) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUpload
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	s := &Server{
		agent:    a,
		cfg:      cfg,
		log:      zap.NewNop(),
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.exporter == nil {
		s.exporter = export.NewPDFExportService(nil)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.deleteSession)
			r.Post("/dataset", s.uploadDataset)
			r.Post("/questions", s.askQuestion)
			r.Get("/memory", s.getMemory)
			r.Get("/summary", s.getSummary)
			r.Get("/report", s.getReport)
		})
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server is starting", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("Server is shutting down", zap.String("addr", s.cfg.Addr))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.SetKeepAlivesEnabled(false)
	err := srv.Shutdown(shutdownCtx)
	<-errCh
	return err
}

// Len returns the number of live sessions.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Server) lookup(id string) (*entry, bool) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		e.touch(time.Now())
	}
	return e, ok
}

// RunJanitor drops idle sessions every interval until ctx is canceled.
func (s *Server) RunJanitor(ctx context.Context, interval time.Duration) error {
	if s.cfg.SessionTTL <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if n := s.expire(now); n > 0 {
				s.log.Info("expired idle sessions", zap.Int("count", n))
			}
		}
	}
}

func (s *Server) expire(now time.Time) int {
	cutoff := now.Add(-s.cfg.SessionTTL)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.sessions {
		if e.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}
