package mutate

import (
	"strings"
	"time"

	"outliner-cli/internal/model"
	"outliner-cli/internal/outline"
)

func SetStatus(a model.Article, status string, now time.Time) (Result, error) {
	st, ok := model.ParseArticleStatus(strings.TrimSpace(status))
	if !ok {
		return Result{Article: a}, ErrInvalidStatus
	}
	prev := a.Status
	if prev == st {
		return Result{Article: a}, nil
	}
	a.Status = st
	a.UpdatedAt = now.UTC()
	return Result{
		Changed:      true,
		Article:      a,
		EventPayload: map[string]any{"from": string(prev), "to": string(st)},
	}, nil
}

// SetBody sets the text written under one section. An empty body clears it.
func SetBody(a model.Article, sectionID, body string, now time.Time) (Result, error) {
	sectionID = strings.TrimSpace(sectionID)
	if outline.Index(a.Outline, sectionID) < 0 {
		return Result{Article: a}, NotFoundError{Kind: "section", ID: sectionID}
	}
	body = strings.TrimSpace(body)
	if a.Bodies[sectionID] == body {
		return Result{Article: a}, nil
	}

	bodies := make(map[string]string, len(a.Bodies)+1)
	for k, v := range a.Bodies {
		bodies[k] = v
	}
	if body == "" {
		delete(bodies, sectionID)
	} else {
		bodies[sectionID] = body
	}
	if len(bodies) == 0 {
		bodies = nil
	}
	a.Bodies = bodies
	a.UpdatedAt = now.UTC()
	return Result{
		Changed:      true,
		Article:      a,
		EventPayload: map[string]any{"section": sectionID, "chars": len(body)},
	}, nil
}

// SetContent stores the full generated article text.
func SetContent(a model.Article, content string, now time.Time) Result {
	content = strings.TrimSpace(content)
	if a.Content == content {
		return Result{Article: a}
	}
	a.Content = content
	a.UpdatedAt = now.UTC()
	return Result{
		Changed:      true,
		Article:      a,
		EventPayload: map[string]any{"chars": len(content)},
	}
}
