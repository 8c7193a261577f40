package mutate

import (
	"errors"
	"testing"

	"outliner-cli/internal/model"
)

func TestSetStatus(t *testing.T) {
	res, err := SetStatus(sampleArticle(), "published", now)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if !res.Changed || res.Article.Status != model.ArticleStatusPublished {
		t.Fatalf("expected published; got %+v", res)
	}
	if res.EventPayload["from"] != "draft" {
		t.Fatalf("unexpected payload: %#v", res.EventPayload)
	}

	res, err = SetStatus(res.Article, "published", now)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if res.Changed {
		t.Fatalf("expected same status to be a no-op")
	}

	if _, err := SetStatus(sampleArticle(), "archived", now); err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus; got %v", err)
	}
}

func TestSetBody(t *testing.T) {
	res, err := SetBody(sampleArticle(), "c", "  Water deeply.  ", now)
	if err != nil {
		t.Fatalf("SetBody: %v", err)
	}
	if res.Article.Bodies["c"] != "Water deeply." {
		t.Fatalf("expected trimmed body, got %q", res.Article.Bodies["c"])
	}

	res, err = SetBody(res.Article, "b", "", now)
	if err != nil {
		t.Fatalf("SetBody: %v", err)
	}
	if _, ok := res.Article.Bodies["b"]; ok {
		t.Fatalf("expected empty body to clear the entry")
	}

	_, err = SetBody(sampleArticle(), "zzz", "x", now)
	var nf NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "section" {
		t.Fatalf("expected section NotFoundError, got %v", err)
	}
}

func TestSetContent(t *testing.T) {
	res := SetContent(sampleArticle(), "Body text\n", now)
	if !res.Changed || res.Article.Content != "Body text" {
		t.Fatalf("unexpected result %+v", res)
	}
	if again := SetContent(res.Article, "Body text", now); again.Changed {
		t.Fatalf("expected same content to be a no-op")
	}
}
