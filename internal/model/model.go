package model

import (
	"strings"
	"time"

	"outliner-cli/internal/outline"
)

type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// ParseArticleStatus accepts a status name in any case, ignoring surrounding
// space.
func ParseArticleStatus(s string) (ArticleStatus, bool) {
	switch st := ArticleStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case ArticleStatusDraft, ArticleStatusPublished:
		return st, true
	default:
		return "", false
	}
}

type Article struct {
	ID      string        `json:"id" yaml:"id"`
	Theme   string        `json:"theme" yaml:"theme"`
	Heading string        `json:"heading" yaml:"heading"`
	Status  ArticleStatus `json:"status" yaml:"status"`

	// Outline is the canonical (flat) form; the tree is derived on demand.
	Outline   []outline.FlatNode `json:"outline" yaml:"outline"`
	Collapsed []string           `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`

	// Bodies maps section id -> generated or hand-written section text.
	Bodies  map[string]string `json:"bodies,omitempty" yaml:"bodies,omitempty"`
	Content string            `json:"content,omitempty" yaml:"content,omitempty"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Title is the heading, falling back to the theme.
func (a Article) Title() string {
	if a.Heading != "" {
		return a.Heading
	}
	return a.Theme
}

type HeadingSet struct {
	Theme      string    `json:"theme" yaml:"theme"`
	Candidates []string  `json:"candidates" yaml:"candidates"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
}

type Event struct {
	ID       string    `json:"id" yaml:"id"`
	TS       time.Time `json:"ts" yaml:"ts"`
	Type     string    `json:"type" yaml:"type"`
	EntityID string    `json:"entityId" yaml:"entityId"`
	Payload  any       `json:"payload" yaml:"payload"`
}
