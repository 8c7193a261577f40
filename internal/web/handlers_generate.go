package web

import (
	"errors"
	"net/http"
	"strings"

	"outliner-cli/internal/generate"
	"outliner-cli/internal/outline"
)

type generateRequest struct {
	Theme   string         `json:"theme"`
	Heading string         `json:"heading"`
	Count   int            `json:"count"`
	Outline []outline.Node `json:"outline"`
}

func (s *Server) handleGenerateHeadings(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Theme) == "" {
		jsonError(w, "theme is required", http.StatusBadRequest)
		return
	}
	if !s.requireGenerator(w) {
		return
	}
	headings, err := s.gen.Headings(r.Context(), req.Theme, req.Count)
	if err != nil {
		s.generationError(w, "headings", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"headings": headings})
}

func (s *Server) handleGenerateOutline(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Theme) == "" || strings.TrimSpace(req.Heading) == "" {
		jsonError(w, "theme and heading are required", http.StatusBadRequest)
		return
	}
	if !s.requireGenerator(w) {
		return
	}
	tree, err := s.gen.Outline(r.Context(), req.Theme, req.Heading)
	if err != nil {
		s.generationError(w, "outline", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"outline": tree, "flat": outline.TreeToFlat(tree)})
}

func (s *Server) handleGenerateContent(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Theme) == "" || strings.TrimSpace(req.Heading) == "" || len(req.Outline) == 0 {
		jsonError(w, "theme, heading and outline are required", http.StatusBadRequest)
		return
	}
	if !s.requireGenerator(w) {
		return
	}
	content, err := s.gen.Content(r.Context(), req.Theme, req.Heading, req.Outline)
	if err != nil {
		s.generationError(w, "content", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"content": content})
}

func (s *Server) requireGenerator(w http.ResponseWriter) bool {
	if s.gen == nil {
		jsonError(w, "generation is not configured (set OUTLINER_API_KEY)", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// generationError maps a collaborator failure to 400 for bad input and 502
// for everything else.
func (s *Server) generationError(w http.ResponseWriter, what string, err error) {
	if errors.Is(err, generate.ErrMissingInput) {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.log.Error("generation failed", "what", what, "err", err)
	jsonError(w, "failed to generate "+what, http.StatusBadGateway)
}
