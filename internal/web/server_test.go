package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"outliner-cli/internal/articles"
	"outliner-cli/internal/generate"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
)

type fakeGen struct {
	err   error
	calls int
}

func (f *fakeGen) Headings(ctx context.Context, theme string, count int) ([]string, error) {
	f.calls++
	return []string{"One", "Two"}, f.err
}

func (f *fakeGen) Outline(ctx context.Context, theme, heading string) ([]outline.Node, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return outline.Parse("- Soil\n  - Compost\n- Light"), nil
}

func (f *fakeGen) Content(ctx context.Context, theme, heading string, tree []outline.Node) (string, error) {
	f.calls++
	return "Body for " + outline.PromptText(tree), f.err
}

func newTestServer(t *testing.T, gen Generator, opt Options) *Server {
	t.Helper()
	svc := articles.New(store.Store{Dir: t.TempDir()})
	return NewServer(svc, gen, nil, opt)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	rec := do(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestServer_GenerateMissingInput(t *testing.T) {
	gen := &fakeGen{}
	s := newTestServer(t, gen, Options{})

	cases := []struct{ path, body string }{
		{"/api/generate-headings", `{}`},
		{"/api/generate-outline", `{"theme":"x"}`},
		{"/api/generate-content", `{"theme":"x","heading":"y"}`},
		{"/api/generate-headings", `not json`},
	}
	for _, tc := range cases {
		rec := do(t, s, http.MethodPost, tc.path, tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s %s: expected 400, got %d", tc.path, tc.body, rec.Code)
		}
		if decodeBody(t, rec)["error"] == nil {
			t.Fatalf("%s: expected error body", tc.path)
		}
	}
	if gen.calls != 0 {
		t.Fatalf("expected no generator calls, got %d", gen.calls)
	}
}

func TestServer_GenerateSuccess(t *testing.T) {
	s := newTestServer(t, &fakeGen{}, Options{})

	rec := do(t, s, http.MethodPost, "/api/generate-headings", `{"theme":"gardening"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("headings: %d %s", rec.Code, rec.Body.String())
	}
	if hs := decodeBody(t, rec)["headings"].([]any); len(hs) != 2 {
		t.Fatalf("unexpected headings %v", hs)
	}

	rec = do(t, s, http.MethodPost, "/api/generate-outline", `{"theme":"gardening","heading":"Start"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("outline: %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if tree := body["outline"].([]any); len(tree) != 2 {
		t.Fatalf("unexpected tree %v", tree)
	}
	if flat := body["flat"].([]any); len(flat) != 3 {
		t.Fatalf("unexpected flat list %v", flat)
	}

	rec = do(t, s, http.MethodPost, "/api/generate-content",
		`{"theme":"gardening","heading":"Start","outline":[{"id":"a","content":"Soil","children":[{"id":"b","content":"Compost","children":[]}]}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("content: %d %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["content"]; got != "Body for Soil\nCompost" {
		t.Fatalf("unexpected content %v", got)
	}
}

func TestServer_GenerateFailures(t *testing.T) {
	s := newTestServer(t, &fakeGen{err: errors.New("upstream down")}, Options{})
	rec := do(t, s, http.MethodPost, "/api/generate-outline", `{"theme":"x","heading":"y"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	s = newTestServer(t, &fakeGen{err: generate.ErrMissingInput}, Options{})
	rec = do(t, s, http.MethodPost, "/api/generate-headings", `{"theme":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing input from the generator, got %d", rec.Code)
	}

	s = newTestServer(t, nil, Options{})
	rec = do(t, s, http.MethodPost, "/api/generate-headings", `{"theme":"x"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a generator, got %d", rec.Code)
	}
}

func TestServer_ArticleLifecycle(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rec := do(t, s, http.MethodPost, "/api/articles", `{"theme":"gardening","heading":"Tomatoes"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	id := decodeBody(t, rec)["id"].(string)

	rec = do(t, s, http.MethodPut, "/api/articles/"+id+"/outline",
		`{"outline":[{"id":"a","content":"Soil","expanded":true,"children":[{"id":"a1","content":"Compost","expanded":true,"children":[]}]},{"id":"b","content":"Light","expanded":true,"children":[]}]}`)
	if rec.Code != http.StatusOK || decodeBody(t, rec)["changed"] != true {
		t.Fatalf("replace: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodPost, "/api/articles/"+id+"/edits", `{"op":"reorder","id":"b","targetId":"a"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("edit: %d %s", rec.Code, rec.Body.String())
	}
	art := decodeBody(t, rec)["article"].(map[string]any)
	first := art["outline"].([]any)[0].(map[string]any)
	if first["id"] != "b" {
		t.Fatalf("expected b first after reorder, got %v", first)
	}

	rec = do(t, s, http.MethodPost, "/api/articles/"+id+"/edits", `{"op":"toggle","id":"a"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle: %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/api/articles/"+id+"/tree", "")
	tree := decodeBody(t, rec)["tree"].([]any)
	if len(tree) != 2 {
		t.Fatalf("unexpected tree %v", tree)
	}
	if a := tree[1].(map[string]any); a["id"] != "a" || a["expanded"] != false {
		t.Fatalf("expected a collapsed, got %v", a)
	}

	rec = do(t, s, http.MethodPost, "/api/articles/"+id+"/edits", `{"op":"explode"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown op, got %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/articles/"+id+"?format=html", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<h2>Light</h2>") {
		t.Fatalf("expected rendered html, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodGet, "/api/articles", "")
	if list := decodeBody(t, rec)["articles"].([]any); len(list) != 1 {
		t.Fatalf("expected one article, got %v", list)
	}

	rec = do(t, s, http.MethodDelete, "/api/articles/"+id, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/api/articles/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestServer_TokenRequired(t *testing.T) {
	s := newTestServer(t, nil, Options{Token: "secret"})

	if rec := do(t, s, http.MethodGet, "/api/articles", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("health must stay public, got %d", rec.Code)
	}
}

func TestServer_CompressesWhenAsked(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
}
