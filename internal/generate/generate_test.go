package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
)

func chatReply(text string) []byte {
	b, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": text}}},
	})
	return b
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := store.GeneratorConfig{BaseURL: srv.URL + "/v1/", Model: "test-model", APIKey: "k", Temperature: 0.7, OutlineTokens: 1000, ContentTokens: 2000}
	return NewClient(cfg, WithBackoff(func(int) time.Duration { return 0 }))
}

func TestComplete_SendsRequest(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer k" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write(chatReply("hello"))
	})

	text, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, Params{Temperature: 0.5, MaxTokens: 10})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "hello" {
		t.Fatalf("expected hello, got %q", text)
	}
	if got.Model != "test-model" || got.MaxTokens != 10 || got.Temperature != 0.5 || len(got.Messages) != 1 {
		t.Fatalf("unexpected request: %+v", got)
	}
}

func TestComplete_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(chatReply("ok"))
	})

	text, err := c.Complete(context.Background(), nil, Params{})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "ok" || calls.Load() != 3 {
		t.Fatalf("expected success on third call, got %q after %d calls", text, calls.Load())
	}
}

func TestComplete_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	_, err := c.Complete(context.Background(), nil, Params{})
	if !IsRetryable(err) {
		t.Fatalf("expected retryable error, got %v", err)
	}
	if int(calls.Load()) != MaxRetries+1 {
		t.Fatalf("expected %d calls, got %d", MaxRetries+1, calls.Load())
	}
}

func TestComplete_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	})

	_, err := c.Complete(context.Background(), nil, Params{})
	if err == nil || IsRetryable(err) {
		t.Fatalf("expected non-retryable error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	if _, err := c.Complete(context.Background(), nil, Params{}); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestHeadings_ParsesCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(chatReply("Here are some ideas:\n1. **Start small**\n2) \"Water wisely\"\n- 「Pick good seeds」\n\n"))
	})

	got, err := c.Headings(context.Background(), "gardening", 0)
	if err != nil {
		t.Fatalf("headings: %v", err)
	}
	want := []string{"Start small", "Water wisely", "Pick good seeds"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestOutline_ParsesTree(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(chatReply("```\n- Soil\n  - Compost\n  - Drainage\n- Light\n```"))
	})

	tree, err := c.Outline(context.Background(), "gardening", "Start small")
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	if len(tree) != 2 || tree[0].Content != "Soil" || len(tree[0].Children) != 2 || tree[1].Content != "Light" {
		t.Fatalf("unexpected tree: %+v", tree)
	}
}

func TestContent_SendsFlattenedOutline(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write(chatReply("  Article body.  "))
	})

	tree := outline.Parse("- Soil\n  - Compost\n- Light")
	text, err := c.Content(context.Background(), "gardening", "Start small", tree)
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if text != "Article body." {
		t.Fatalf("expected trimmed body, got %q", text)
	}
	if got.MaxTokens != 2000 {
		t.Fatalf("expected content token budget, got %d", got.MaxTokens)
	}
	user := got.Messages[len(got.Messages)-1].Content
	if !strings.Contains(user, "Outline:\nSoil\nCompost\nLight\n") {
		t.Fatalf("expected flattened outline in prompt, got %q", user)
	}
}

func TestPrompts_MissingInputSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	ctx := context.Background()

	if _, err := c.Headings(ctx, "  ", 5); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	if _, err := c.Outline(ctx, "theme", ""); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	if _, err := c.Content(ctx, "theme", "heading", nil); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no requests, got %d", calls.Load())
	}
}

func TestBackoff_Bounds(t *testing.T) {
	for attempt := 0; attempt < 8; attempt++ {
		d := Backoff(attempt)
		if d < time.Second || d > 45*time.Second {
			t.Fatalf("attempt %d: backoff %s out of range", attempt, d)
		}
	}
}
