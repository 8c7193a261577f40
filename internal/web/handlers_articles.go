package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"outliner-cli/internal/articles"
	"outliner-cli/internal/mutate"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/publish"
	"outliner-cli/internal/store"
)

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Store.ListArticles(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": list})
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme   string `json:"theme"`
		Heading string `json:"heading"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	a, err := s.svc.Create(r.Context(), req.Theme, req.Heading)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Store.LoadArticle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = pageTmpl.Execute(w, page{
			Title: a.Title(),
			Body:  renderMarkdownHTML(publish.RenderArticleMarkdown(*a, publish.RenderOptions{OmitMeta: true})),
		})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Store.LoadArticle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	sess := outline.NewSession(a.Outline)
	sess.SetCollapsed(a.Collapsed)
	writeJSON(w, http.StatusOK, map[string]any{"tree": sess.Tree()})
}

func (s *Server) handleReplaceOutline(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Outline []outline.Node `json:"outline"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.svc.ReplaceOutline(r.Context(), chi.URLParam(r, "id"), req.Outline)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, editResponse(res))
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var e mutate.Edit
	if !s.decode(w, r, &e) {
		return
	}
	res, err := s.svc.Edit(r.Context(), chi.URLParam(r, "id"), e)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, editResponse(res))
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.svc.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, editResponse(res))
}

func editResponse(res mutate.Result) map[string]any {
	out := map[string]any{"changed": res.Changed, "article": res.Article}
	if res.NewID != "" {
		out["newId"] = res.NewID
	}
	return out
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	var nf store.NotFoundError
	switch {
	case errors.As(err, &nf):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, mutate.ErrUnknownOp), errors.Is(err, mutate.ErrInvalidStatus), errors.Is(err, articles.ErrMissingTheme):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		s.log.Error("store error", "err", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}
