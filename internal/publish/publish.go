package publish

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"outliner-cli/internal/model"
	"outliner-cli/internal/store"
)

type WriteOptions struct {
	Overwrite bool
	Render    RenderOptions
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteArticle renders the article into <toDir>/<slug>.md.
func WriteArticle(a model.Article, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	outPath := filepath.Join(filepath.Clean(toDir), FileName(a))
	if !opt.Overwrite {
		if _, err := os.Stat(outPath); err == nil {
			return WriteResult{}, errors.New("file exists (use --overwrite): " + outPath)
		}
	}
	if err := store.WriteFileAtomic(outPath, []byte(RenderArticleMarkdown(a, opt.Render))); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

var slugRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// FileName is the slugged title, falling back to the id when the title has no
// letters or digits.
func FileName(a model.Article) string {
	slug := strings.Trim(slugRe.ReplaceAllString(strings.ToLower(a.Title()), "-"), "-")
	if r := []rune(slug); len(r) > 60 {
		slug = strings.TrimRight(string(r[:60]), "-")
	}
	if slug == "" {
		slug = a.ID
	}
	return slug + ".md"
}
