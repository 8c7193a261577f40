package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"outliner-cli/internal/model"
	"outliner-cli/internal/outline"
)

func strPtr(s string) *string { return &s }

func sampleArticle(id string) *model.Article {
	return &model.Article{
		ID:      id,
		Theme:   "gardening",
		Heading: "Growing tomatoes",
		Status:  model.ArticleStatusDraft,
		Outline: []outline.FlatNode{
			{ID: "item-0", Title: "Intro", Level: 1},
			{ID: "item-1", Title: "Why", Level: 2, ParentID: strPtr("item-0")},
			{ID: "item-2", Title: "Method", Level: 1},
		},
		Bodies:    map[string]string{"item-0": "Hello."},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if s.Exists() {
		t.Fatalf("expected fresh store to not exist")
	}
	if err := s.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !s.Exists() {
		t.Fatalf("expected store to exist after init")
	}

	a := sampleArticle("art-aaaa")
	changed, err := s.SaveArticle(ctx, a)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !changed {
		t.Fatalf("expected first save to write")
	}

	got, err := s.LoadArticle(ctx, "art-aaaa")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Title() != "Growing tomatoes" || got.Status != model.ArticleStatusDraft {
		t.Fatalf("unexpected article: %+v", got)
	}
	if !outline.Equal(got.Outline, a.Outline) {
		t.Fatalf("outline mismatch: got %+v want %+v", got.Outline, a.Outline)
	}
	if got.Bodies["item-0"] != "Hello." {
		t.Fatalf("expected body to survive, got %#v", got.Bodies)
	}
}

func TestStore_SaveSkipsUnchanged(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	a := sampleArticle("art-bbbb")
	if _, err := s.SaveArticle(ctx, a); err != nil {
		t.Fatalf("save: %v", err)
	}

	again := sampleArticle("art-bbbb")
	again.UpdatedAt = again.UpdatedAt.Add(time.Hour)
	changed, err := s.SaveArticle(ctx, again)
	if err != nil {
		t.Fatalf("save again: %v", err)
	}
	if changed {
		t.Fatalf("expected save with only UpdatedAt changed to be skipped")
	}

	again.Outline[2].Title = "Method (revised)"
	changed, err = s.SaveArticle(ctx, again)
	if err != nil {
		t.Fatalf("save revised: %v", err)
	}
	if !changed {
		t.Fatalf("expected save with a renamed section to write")
	}
	got, err := s.LoadArticle(ctx, "art-bbbb")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Outline[2].Title != "Method (revised)" {
		t.Fatalf("expected revised title, got %q", got.Outline[2].Title)
	}
}

func TestStore_SaveShrinksOutline(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	a := sampleArticle("art-cccc")
	if _, err := s.SaveArticle(ctx, a); err != nil {
		t.Fatalf("save: %v", err)
	}
	a.Outline = outline.Delete(a.Outline, "item-0")
	if _, err := s.SaveArticle(ctx, a); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadArticle(ctx, "art-cccc")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Outline) != 1 || got.Outline[0].ID != "item-2" {
		t.Fatalf("expected only item-2 to remain, got %+v", got.Outline)
	}
}

func TestStore_ListArticlesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	older := sampleArticle("art-old")
	older.Heading = ""
	older.Theme = "older theme"
	newer := sampleArticle("art-new")
	newer.UpdatedAt = older.UpdatedAt.Add(time.Minute)
	for _, a := range []*model.Article{older, newer} {
		if _, err := s.SaveArticle(ctx, a); err != nil {
			t.Fatalf("save %s: %v", a.ID, err)
		}
	}

	list, err := s.ListArticles(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(list))
	}
	if list[0].ID != "art-new" || list[1].ID != "art-old" {
		t.Fatalf("unexpected order: %+v", list)
	}
	if list[1].Title != "older theme" {
		t.Fatalf("expected title to fall back to theme, got %q", list[1].Title)
	}
	if list[0].Sections != 3 {
		t.Fatalf("expected 3 sections, got %d", list[0].Sections)
	}
}

func TestStore_LoadAndDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	_, err := s.LoadArticle(ctx, "art-missing")
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err := s.DeleteArticle(ctx, "art-missing"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError on delete, got %v", err)
	}

	if _, err := s.SaveArticle(ctx, sampleArticle("art-dddd")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.DeleteArticle(ctx, "art-dddd"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.LoadArticle(ctx, "art-dddd"); !errors.As(err, &nf) {
		t.Fatalf("expected article to be gone, got %v", err)
	}
}

func TestStore_SaveRejectsEmptyID(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	if _, err := s.SaveArticle(context.Background(), &model.Article{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestStore_EventsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	if err := s.AppendEvent(ctx, "article.create", "art-1", map[string]any{"theme": "x"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendEvent(ctx, "outline.edit", "art-1", map[string]any{"op": "indent"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendEvent(ctx, "article.create", "art-2", nil); err != nil {
		t.Fatalf("append: %v", err)
	}

	evs, err := s.ReadEvents(ctx, "art-1", 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 events for art-1, got %d", len(evs))
	}
	if evs[0].Type != "outline.edit" {
		t.Fatalf("expected newest first, got %q", evs[0].Type)
	}
	if p, ok := evs[0].Payload.(map[string]any); !ok || p["op"] != "indent" {
		t.Fatalf("unexpected payload: %#v", evs[0].Payload)
	}

	all, err := s.ReadEvents(ctx, "", 1)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(all))
	}
}

func TestNewID_Format(t *testing.T) {
	id, err := NewID("art")
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if !strings.HasPrefix(id, "art-") || len(id) != len("art-")+8 {
		t.Fatalf("unexpected id %q", id)
	}
	if strings.ToLower(id) != id {
		t.Fatalf("expected lowercase id, got %q", id)
	}
}

func TestDefaultDir_EnvOverride(t *testing.T) {
	t.Setenv("OUTLINER_DIR", "/tmp/outliner-data")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatalf("default dir: %v", err)
	}
	if dir != "/tmp/outliner-data" {
		t.Fatalf("expected env override, got %q", dir)
	}

	t.Setenv("OUTLINER_DIR", "")
	t.Setenv("OUTLINER_CONFIG_DIR", "/tmp/outliner-cfg")
	dir, err = DefaultDir()
	if err != nil {
		t.Fatalf("default dir: %v", err)
	}
	if dir != "/tmp/outliner-cfg" {
		t.Fatalf("expected config dir fallback, got %q", dir)
	}
}
