// Package web serves the generation endpoints and the article editing API.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"outliner-cli/internal/articles"
	"outliner-cli/internal/outline"
)

// Generator is the text-generation collaborator.
type Generator interface {
	Headings(ctx context.Context, theme string, count int) ([]string, error)
	Outline(ctx context.Context, theme, heading string) ([]outline.Node, error)
	Content(ctx context.Context, theme, heading string, tree []outline.Node) (string, error)
}

type Options struct {
	// Token, when set, is required as a Bearer token on /api routes.
	Token string
	// MaxBodyBytes bounds request bodies (default 1 MiB).
	MaxBodyBytes int64
}

type Server struct {
	router chi.Router
	svc    *articles.Service
	gen    Generator
	log    *slog.Logger
	opt    Options
}

// NewServer wires the routes. gen may be nil, in which case the generation
// endpoints answer 503.
func NewServer(svc *articles.Service, gen Generator, log *slog.Logger, opt Options) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opt.MaxBodyBytes <= 0 {
		opt.MaxBodyBytes = 1 << 20
	}
	s := &Server{svc: svc, gen: gen, log: log, opt: opt}
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
	r.Use(middleware.Compress(5, "application/json", "text/html"))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.opt.Token != "" {
			r.Use(AuthMiddleware(s.opt.Token))
		}
		r.Use(middleware.Timeout(3 * time.Minute))

		r.Post("/api/generate-headings", s.handleGenerateHeadings)
		r.Post("/api/generate-outline", s.handleGenerateOutline)
		r.Post("/api/generate-content", s.handleGenerateContent)

		r.Get("/api/articles", s.handleListArticles)
		r.Post("/api/articles", s.handleCreateArticle)
		r.Get("/api/articles/{id}", s.handleGetArticle)
		r.Delete("/api/articles/{id}", s.handleDeleteArticle)
		r.Get("/api/articles/{id}/tree", s.handleGetTree)
		r.Put("/api/articles/{id}/outline", s.handleReplaceOutline)
		r.Post("/api/articles/{id}/edits", s.handleEdit)
		r.Put("/api/articles/{id}/status", s.handleSetStatus)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// decode reads a JSON body into v, answering 400 itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.opt.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
