package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/newsdesk/internal/completion"
	"github.com/dgallion1/newsdesk/internal/config"
	"github.com/dgallion1/newsdesk/internal/newsdesk"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API server for newsdesk.
type Server struct {
	router chi.Router
	desk   *newsdesk.Desk
	llm    *completion.Client
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(desk *newsdesk.Desk, llm *completion.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		desk: desk,
		llm:  llm,
		log:  log,
		cfg:  cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/fetch-topics", s.handleFetchTopics)
		r.Post("/evaluate-title", s.handleEvaluateTitle)
		r.Post("/chat", s.handleChat)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
