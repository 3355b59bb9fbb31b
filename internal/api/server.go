package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/MikeSquared-Agency/coachr/internal/coach"
	"github.com/MikeSquared-Agency/coachr/internal/feedback"
	"github.com/MikeSquared-Agency/coachr/internal/session"
)

// Options are the transport settings of the API server.
type Options struct {
	Port           int
	MaxUploadBytes int64
	CORSOrigins    []string
	// Provider and Transcription are reported by the status endpoint.
	Provider      string
	Transcription bool
}

type Server struct {
	router   *chi.Mux
	opts     Options
	feedback *feedback.Service
	coach    *coach.Manager
	sessions session.Store
	locks    *sessionLocks
	logger   *slog.Logger
	http     *http.Server
}

func NewServer(opts Options, fb *feedback.Service, mgr *coach.Manager, store session.Store, logger *slog.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		opts:     opts,
		feedback: fb,
		coach:    mgr,
		sessions: store,
		locks:    newSessionLocks(),
		logger:   logger,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/coachr/status", s.status)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/feedback/case", s.caseFeedback)
		r.Post("/feedback/audio", s.audioFeedback)

		r.Post("/chat", s.statelessChat)
		r.Get("/chat/suggestions", s.suggestions)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/messages", s.postMessage)
			r.Delete("/messages", s.resetSession)
			r.Get("/export", s.exportSession)
			r.Get("/stats", s.sessionStats)
		})
	})

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler is the router wrapped with CORS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(s.router)
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agent":         "coachr",
		"status":        "ok",
		"llm_provider":  s.opts.Provider,
		"transcription": s.opts.Transcription,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
