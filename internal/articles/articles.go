// Package articles runs load, mutate, save and event steps against the store so
// the CLI, the editor and the HTTP API share one code path.
package articles

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"outliner-cli/internal/model"
	"outliner-cli/internal/mutate"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
)

var ErrMissingTheme = errors.New("theme is required")

// Service serializes writes within one process. Each call loads the latest
// snapshot, so a session is never shared between callers.
type Service struct {
	Store store.Store
	// Now defaults to time.Now.
	Now func() time.Time

	mu sync.Mutex
}

func New(st store.Store) *Service {
	return &Service{Store: st}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) Create(ctx context.Context, theme, heading string) (*model.Article, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return nil, ErrMissingTheme
	}
	id, err := store.NewID("art")
	if err != nil {
		return nil, err
	}
	now := s.now()
	a := &model.Article{
		ID:        id,
		Theme:     theme,
		Heading:   strings.TrimSpace(heading),
		Status:    model.ArticleStatusDraft,
		Outline:   []outline.FlatNode{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.Store.SaveArticle(ctx, a); err != nil {
		return nil, err
	}
	if err := s.Store.AppendEvent(ctx, "article.create", a.ID, map[string]any{"theme": a.Theme, "heading": a.Heading}); err != nil {
		return nil, err
	}
	return a, nil
}

// Edit applies one outline edit and persists it when something changed.
func (s *Service) Edit(ctx context.Context, id string, e mutate.Edit) (mutate.Result, error) {
	return s.update(ctx, id, "outline.edit", func(a model.Article) (mutate.Result, error) {
		return mutate.ApplyEdit(a, e, s.now())
	})
}

func (s *Service) ReplaceOutline(ctx context.Context, id string, tree []outline.Node) (mutate.Result, error) {
	return s.update(ctx, id, "outline.replace", func(a model.Article) (mutate.Result, error) {
		return mutate.ReplaceOutline(a, tree, s.now()), nil
	})
}

// ImportOutline replaces the outline and section bodies in one write.
func (s *Service) ImportOutline(ctx context.Context, id string, list []outline.FlatNode, bodies map[string]string) (mutate.Result, error) {
	return s.update(ctx, id, "outline.import", func(a model.Article) (mutate.Result, error) {
		return mutate.ImportOutline(a, list, bodies, s.now()), nil
	})
}

func (s *Service) SetStatus(ctx context.Context, id, status string) (mutate.Result, error) {
	return s.update(ctx, id, "article.set_status", func(a model.Article) (mutate.Result, error) {
		return mutate.SetStatus(a, status, s.now())
	})
}

func (s *Service) SetHeading(ctx context.Context, id, heading string) (mutate.Result, error) {
	return s.update(ctx, id, "article.set_heading", func(a model.Article) (mutate.Result, error) {
		heading = strings.TrimSpace(heading)
		if heading == "" || heading == a.Heading {
			return mutate.Result{Article: a}, nil
		}
		prev := a.Heading
		a.Heading = heading
		a.UpdatedAt = s.now()
		return mutate.Result{Changed: true, Article: a, EventPayload: map[string]any{"from": prev, "to": heading}}, nil
	})
}

func (s *Service) SetContent(ctx context.Context, id, content string) (mutate.Result, error) {
	return s.update(ctx, id, "article.set_content", func(a model.Article) (mutate.Result, error) {
		return mutate.SetContent(a, content, s.now()), nil
	})
}

func (s *Service) SetBody(ctx context.Context, id, sectionID, body string) (mutate.Result, error) {
	return s.update(ctx, id, "section.set_body", func(a model.Article) (mutate.Result, error) {
		return mutate.SetBody(a, sectionID, body, s.now())
	})
}

// SaveSession writes an editor session back onto the article.
func (s *Service) SaveSession(ctx context.Context, id string, sess *outline.Session) (mutate.Result, error) {
	return s.update(ctx, id, "outline.save", func(a model.Article) (mutate.Result, error) {
		flat, collapsed := sess.Flat(), sess.Collapsed()
		if outline.Equal(flat, a.Outline) && strings.Join(collapsed, ",") == strings.Join(a.Collapsed, ",") {
			return mutate.Result{Article: a}, nil
		}
		a.Outline = flat
		a.Collapsed = collapsed
		a.UpdatedAt = s.now()
		return mutate.Result{Changed: true, Article: a, EventPayload: map[string]any{"sections": len(flat)}}, nil
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Store.DeleteArticle(ctx, id); err != nil {
		return err
	}
	return s.Store.AppendEvent(ctx, "article.delete", id, map[string]any{})
}

func (s *Service) update(ctx context.Context, id, eventType string, fn func(model.Article) (mutate.Result, error)) (mutate.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.Store.LoadArticle(ctx, strings.TrimSpace(id))
	if err != nil {
		return mutate.Result{}, err
	}
	res, err := fn(*a)
	if err != nil || !res.Changed {
		return res, err
	}
	if _, err := s.Store.SaveArticle(ctx, &res.Article); err != nil {
		return mutate.Result{}, err
	}
	if err := s.Store.AppendEvent(ctx, eventType, res.Article.ID, res.EventPayload); err != nil {
		return mutate.Result{}, err
	}
	return res, nil
}
