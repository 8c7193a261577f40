package generate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"outliner-cli/internal/outline"
)

// ErrMissingInput is returned before any request is made when a required
// argument is empty.
var ErrMissingInput = errors.New("missing input")

const DefaultHeadingCount = 5

const (
	headingsSystem = "You are an expert at writing blog post headings. Based on the given theme, propose %d compelling headings."
	outlineSystem  = "You are an expert at structuring blog post outlines. Based on the given theme and heading, propose an outline with this structure:\n\n" +
		"1. Exactly 4 sections\n" +
		"2. Each section has 2-3 subsections\n" +
		"3. Sections start with \"- \"; subsections are indented by 2 spaces and start with \"- \"\n" +
		"4. Follow a logical flow that is easy for readers to understand"
	outlineExample = "Example:\n- Section 1\n  - Subsection 1.1\n  - Subsection 1.2\n  - Subsection 1.3\n- Section 2\n  - Subsection 2.1\n  - Subsection 2.2"
	contentSystem  = "You are an expert blog writer. Based on the given theme, heading and outline, write an engaging article. Keep in mind:\n\n" +
		"1. Follow the structure of the heading and outline faithfully\n" +
		"2. Develop each section to an appropriate length\n" +
		"3. Explain clearly so readers can follow\n" +
		"4. Include concrete examples and practical advice\n" +
		"5. Keep a natural flow between paragraphs"
)

// Headings asks for count heading candidates (DefaultHeadingCount when <= 0).
func (c *Client) Headings(ctx context.Context, theme string, count int) ([]string, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return nil, fmt.Errorf("%w: theme", ErrMissingInput)
	}
	if count <= 0 {
		count = DefaultHeadingCount
	}
	text, err := c.Complete(ctx, []Message{
		{Role: "system", Content: fmt.Sprintf(headingsSystem, count)},
		{Role: "user", Content: fmt.Sprintf("Theme: %s\nPropose %d headings.", theme, count)},
	}, Params{Temperature: c.cfg.Temperature, MaxTokens: c.cfg.OutlineTokens})
	if err != nil {
		return nil, err
	}
	return ParseHeadings(text), nil
}

// Outline asks for an indented outline and parses it into a tree.
func (c *Client) Outline(ctx context.Context, theme, heading string) ([]outline.Node, error) {
	theme, heading = strings.TrimSpace(theme), strings.TrimSpace(heading)
	if theme == "" || heading == "" {
		return nil, fmt.Errorf("%w: theme and heading", ErrMissingInput)
	}
	text, err := c.Complete(ctx, []Message{
		{Role: "system", Content: outlineSystem},
		{Role: "user", Content: fmt.Sprintf("Theme: %s\nHeading: %s\n\nBased on the theme and heading above, write an outline with 4 sections, each with 2-3 subsections.\n\n%s", theme, heading, outlineExample)},
	}, Params{Temperature: c.cfg.Temperature, MaxTokens: c.cfg.OutlineTokens})
	if err != nil {
		return nil, err
	}
	return outline.Parse(stripCodeBlock(text)), nil
}

// Content writes the article body for the outline.
func (c *Client) Content(ctx context.Context, theme, heading string, tree []outline.Node) (string, error) {
	theme, heading = strings.TrimSpace(theme), strings.TrimSpace(heading)
	if theme == "" || heading == "" || len(tree) == 0 {
		return "", fmt.Errorf("%w: theme, heading and outline", ErrMissingInput)
	}
	text, err := c.Complete(ctx, []Message{
		{Role: "system", Content: contentSystem},
		{Role: "user", Content: fmt.Sprintf("Theme: %s\nHeading: %s\n\nOutline:\n%s\n\nWrite a blog article based on the theme, heading and outline above.", theme, heading, outline.PromptText(tree))},
	}, Params{Temperature: c.cfg.Temperature, MaxTokens: c.cfg.ContentTokens})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

var headingPrefixRe = regexp.MustCompile(`^(?:[-*•]\s*|\d+[.)、]\s*|#+\s*)+`)

// ParseHeadings pulls one candidate per line, dropping list markers, numbering,
// emphasis and surrounding quotes. Lead-in lines ending in a colon are skipped.
func ParseHeadings(text string) []string {
	out := []string{}
	for _, line := range strings.Split(stripCodeBlock(text), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasSuffix(line, ":") || strings.HasSuffix(line, "：") {
			continue
		}
		line = headingPrefixRe.ReplaceAllString(line, "")
		line = strings.Trim(line, "*_ ")
		line = strings.Trim(line, "\"'“”「」『』")
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
