package publish

import (
	"bytes"
	"strings"
	"time"

	"outliner-cli/internal/model"
	"outliner-cli/internal/outline"
)

type RenderOptions struct {
	// OmitMeta drops the "Meta" block under the title.
	OmitMeta bool
	// OmitContent drops the full generated text.
	OmitContent bool
}

// RenderArticleMarkdown renders the title, a meta block, one heading per
// section (level 1 is "##") with its body, and the generated text last.
func RenderArticleMarkdown(a model.Article, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(a.Title())
	if title == "" {
		title = a.ID
	}
	writeLn("# " + title)

	if !opt.OmitMeta {
		writeLn("")
		writeLn("## Meta")
		writeLn("")
		writeLn("- ID: " + a.ID)
		if t := strings.TrimSpace(a.Theme); t != "" {
			writeLn("- Theme: " + t)
		}
		if a.Status != "" {
			writeLn("- Status: " + string(a.Status))
		}
		if !a.CreatedAt.IsZero() {
			writeLn("- Created: " + a.CreatedAt.UTC().Format(time.RFC3339))
		}
		if !a.UpdatedAt.IsZero() {
			writeLn("- Updated: " + a.UpdatedAt.UTC().Format(time.RFC3339))
		}
	}

	for _, n := range a.Outline {
		writeLn("")
		writeLn(strings.Repeat("#", clampLevel(n.Level)+1) + " " + strings.TrimSpace(n.Title))
		if body := strings.TrimSpace(a.Bodies[n.ID]); body != "" {
			writeLn("")
			writeLn(body)
		}
	}

	if content := strings.TrimSpace(a.Content); content != "" && !opt.OmitContent {
		writeLn("")
		writeLn("---")
		writeLn("")
		writeLn(content)
	}
	return buf.String()
}

// RenderOutlineMarkdown renders the list as a nested bullet list.
func RenderOutlineMarkdown(list []outline.FlatNode) string {
	if len(list) == 0 {
		return ""
	}
	return outline.FlatIndentedText(list) + "\n"
}

func clampLevel(level int) int {
	return min(max(level, outline.MinLevel), outline.MaxLevel)
}
