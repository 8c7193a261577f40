package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"outliner-cli/internal/model"
	"outliner-cli/internal/outline"
)

// ArticleSummary is the list view of an article.
type ArticleSummary struct {
	ID        string              `json:"id" yaml:"id"`
	Title     string              `json:"title" yaml:"title"`
	Status    model.ArticleStatus `json:"status" yaml:"status"`
	Sections  int                 `json:"sections" yaml:"sections"`
	UpdatedAt time.Time           `json:"updatedAt" yaml:"updatedAt"`
}

// SaveArticle writes the article and replaces its sections in list order. It
// returns false without writing when nothing but UpdatedAt differs from the
// stored copy.
func (s Store) SaveArticle(ctx context.Context, a *model.Article) (bool, error) {
	if a == nil {
		return false, errors.New("nil article")
	}
	if strings.TrimSpace(a.ID) == "" {
		return false, errors.New("article id is empty")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	hash, err := contentHash(*a)
	if err != nil {
		return false, err
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return false, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var prev string
	err = tx.QueryRowContext(ctx, `SELECT content_hash FROM articles WHERE id = ?`, a.ID).Scan(&prev)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, err
	case prev == hash:
		return false, nil
	}

	// Sections live in their own table; the json column holds everything else.
	rest := *a
	rest.Outline = nil
	raw, err := json.Marshal(rest)
	if err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO articles(
		id, theme, heading, status, json, content_hash, created_at_unixms, updated_at_unixms
	) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Theme, a.Heading, string(a.Status), string(raw), hash,
		a.CreatedAt.UnixMilli(), a.UpdatedAt.UnixMilli(),
	); err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE article_id = ?`, a.ID); err != nil {
		return false, err
	}
	for i, n := range a.Outline {
		var parent sql.NullString
		if n.ParentID != nil {
			parent = sql.NullString{String: *n.ParentID, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO sections(article_id, position, id, title, level, parent_id) VALUES(?, ?, ?, ?, ?, ?)`,
			a.ID, i, n.ID, n.Title, n.Level, parent); err != nil {
			return false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s Store) LoadArticle(ctx context.Context, id string) (*model.Article, error) {
	id = strings.TrimSpace(id)
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var raw string
	err = db.QueryRowContext(ctx, `SELECT json FROM articles WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFoundError{Kind: "article", ID: id}
	}
	if err != nil {
		return nil, err
	}
	var a model.Article
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("decode article %s: %w", id, err)
	}
	sections, err := loadSections(ctx, db, id)
	if err != nil {
		return nil, err
	}
	a.Outline = sections
	return &a, nil
}

func loadSections(ctx context.Context, db *sql.DB, articleID string) ([]outline.FlatNode, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, title, level, parent_id FROM sections WHERE article_id = ? ORDER BY position`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []outline.FlatNode{}
	for rows.Next() {
		var n outline.FlatNode
		var parent sql.NullString
		if err := rows.Scan(&n.ID, &n.Title, &n.Level, &parent); err != nil {
			return nil, err
		}
		if parent.Valid {
			p := parent.String
			n.ParentID = &p
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ListArticles returns summaries, most recently updated first.
func (s Store) ListArticles(ctx context.Context) ([]ArticleSummary, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT a.id, a.theme, a.heading, a.status, a.updated_at_unixms,
		(SELECT COUNT(*) FROM sections s WHERE s.article_id = a.id)
		FROM articles a ORDER BY a.updated_at_unixms DESC, a.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ArticleSummary{}
	for rows.Next() {
		var (
			sum            ArticleSummary
			theme, heading string
			status         string
			updatedMs      int64
		)
		if err := rows.Scan(&sum.ID, &theme, &heading, &status, &updatedMs, &sum.Sections); err != nil {
			return nil, err
		}
		sum.Title = model.Article{Theme: theme, Heading: heading}.Title()
		sum.Status = model.ArticleStatus(status)
		sum.UpdatedAt = time.UnixMilli(updatedMs).UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s Store) DeleteArticle(ctx context.Context, id string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFoundError{Kind: "article", ID: id}
	}
	return nil
}
