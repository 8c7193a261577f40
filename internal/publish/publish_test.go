package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"outliner-cli/internal/model"
	"outliner-cli/internal/outline"
)

func strPtr(s string) *string { return &s }

func sampleArticle() model.Article {
	return model.Article{
		ID:      "art-1",
		Theme:   "gardening",
		Heading: "Growing Tomatoes: A Start",
		Status:  model.ArticleStatusDraft,
		Outline: []outline.FlatNode{
			{ID: "a", Title: "Soil", Level: 1},
			{ID: "a1", Title: "Compost", Level: 2, ParentID: strPtr("a")},
			{ID: "a1x", Title: "Worms", Level: 3, ParentID: strPtr("a1")},
			{ID: "b", Title: "Light", Level: 1},
		},
		Bodies:    map[string]string{"a1": "Mix in compost."},
		Content:   "Full article text.",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderArticleMarkdown(t *testing.T) {
	md := RenderArticleMarkdown(sampleArticle(), RenderOptions{})
	for _, want := range []string{
		"# Growing Tomatoes: A Start\n",
		"- Theme: gardening\n",
		"- Status: draft\n",
		"- Updated: 2026-01-02T00:00:00Z\n",
		"\n## Soil\n",
		"\n### Compost\n\nMix in compost.\n",
		"\n#### Worms\n",
		"\n## Light\n",
		"\n---\n\nFull article text.\n",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
}

func TestRenderArticleMarkdown_Omit(t *testing.T) {
	md := RenderArticleMarkdown(sampleArticle(), RenderOptions{OmitMeta: true, OmitContent: true})
	if strings.Contains(md, "## Meta") || strings.Contains(md, "Full article text.") {
		t.Fatalf("expected meta and content to be omitted:\n%s", md)
	}
	if !strings.HasPrefix(md, "# Growing Tomatoes: A Start\n\n## Soil\n") {
		t.Fatalf("unexpected start:\n%s", md)
	}
}

func TestRenderOutlineMarkdown(t *testing.T) {
	got := RenderOutlineMarkdown(sampleArticle().Outline)
	want := "- Soil\n  - Compost\n    - Worms\n- Light\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if RenderOutlineMarkdown(nil) != "" {
		t.Fatalf("expected empty output for empty outline")
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(sampleArticle()); got != "growing-tomatoes-a-start.md" {
		t.Fatalf("unexpected file name %q", got)
	}
	if got := FileName(model.Article{ID: "art-9", Theme: "!!!"}); got != "art-9.md" {
		t.Fatalf("expected id fallback, got %q", got)
	}
}

func TestWriteArticle_RespectsOverwrite(t *testing.T) {
	dir := t.TempDir()
	res, err := WriteArticle(sampleArticle(), dir, WriteOptions{})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(res.Written) != 1 || res.Written[0] != filepath.Join(dir, "growing-tomatoes-a-start.md") {
		t.Fatalf("unexpected result %+v", res)
	}
	b, err := os.ReadFile(res.Written[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(b), "# Growing Tomatoes") {
		t.Fatalf("unexpected file content:\n%s", b)
	}

	if _, err := WriteArticle(sampleArticle(), dir, WriteOptions{}); err == nil {
		t.Fatalf("expected error when file exists")
	}
	if _, err := WriteArticle(sampleArticle(), dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if _, err := WriteArticle(sampleArticle(), " ", WriteOptions{}); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
