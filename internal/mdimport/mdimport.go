// Package mdimport turns the headings of a markdown document into an outline.
package mdimport

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"outliner-cli/internal/outline"
)

type Result struct {
	Outline []outline.FlatNode `json:"outline" yaml:"outline"`
	// Bodies holds the text found under each heading, keyed by section id.
	Bodies map[string]string `json:"bodies,omitempty" yaml:"bodies,omitempty"`
}

type heading struct {
	level int
	title string
	body  bytes.Buffer
}

// Import maps headings to flat nodes with ids md-<n>. The shallowest heading
// level in the document becomes level 1; a heading is never more than one level
// below the node before it, and nothing goes deeper than outline.MaxLevel.
// Text before the first heading is ignored.
func Import(src []byte) Result {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var hs []*heading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			title := strings.TrimSpace(inlineText(h, src))
			if title == "" {
				continue
			}
			hs = append(hs, &heading{level: h.Level, title: title})
			continue
		}
		if len(hs) == 0 {
			continue
		}
		if t := blockText(n, src); t != "" {
			cur := &hs[len(hs)-1].body
			if cur.Len() > 0 {
				cur.WriteString("\n\n")
			}
			cur.WriteString(t)
		}
	}

	res := Result{Outline: []outline.FlatNode{}}
	if len(hs) == 0 {
		return res
	}
	shallowest := hs[0].level
	for _, h := range hs {
		shallowest = min(shallowest, h.level)
	}

	// stack[i] is the id of the most recent node at level i+1.
	var stack []string
	for i, h := range hs {
		level := h.level - shallowest + 1
		level = min(level, len(stack)+1, outline.MaxLevel)
		stack = stack[:level-1]

		id := fmt.Sprintf("md-%d", i)
		n := outline.FlatNode{ID: id, Title: h.title, Level: level}
		if level > outline.MinLevel {
			p := stack[level-2]
			n.ParentID = &p
		}
		stack = append(stack, id)
		res.Outline = append(res.Outline, n)

		if body := strings.TrimSpace(h.body.String()); body != "" {
			if res.Bodies == nil {
				res.Bodies = map[string]string{}
			}
			res.Bodies[id] = body
		}
	}
	return res
}

// inlineText concatenates the text segments below n.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}

// blockText returns the source lines of a block, or its inline text when it
// has no lines of its own.
func blockText(n ast.Node, src []byte) string {
	if n.Type() != ast.TypeBlock {
		return ""
	}
	lines := n.Lines()
	if lines.Len() == 0 {
		var parts []string
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t := blockText(c, src); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, "\n")
	}
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimSpace(buf.String())
}
