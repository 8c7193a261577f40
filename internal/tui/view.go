package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"

	"outliner-cli/internal/publish"
)

const helpLine = "j/k move  K/J reorder  tab/S-tab level  space fold  a add  e rename  x delete  y copy  p preview  s save  q quit"

func (m editorModel) View() string {
	var b strings.Builder

	title := m.opt.Title
	if title == "" {
		title = "Outline"
	}
	if m.dirty {
		title += " *"
	}
	b.WriteString(m.fit(styleTitle.Render(title)))
	b.WriteString("\n\n")

	body := m.bodyLines()
	for _, line := range body {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for i := len(body); i < m.bodyHeight(); i++ {
		b.WriteString("\n")
	}

	footer := styleMuted.Render(helpLine)
	if m.status != "" {
		st := styleMuted
		if m.isError {
			st = styleError
		}
		footer = st.Render(m.status)
	}
	b.WriteString(m.fit(footer))
	return b.String()
}

func (m editorModel) bodyHeight() int {
	return max(m.height-3, 1)
}

func (m editorModel) bodyLines() []string {
	if m.preview {
		md := publish.RenderOutlineMarkdown(m.s.Flat())
		out := strings.Split(renderMarkdown(md, markdownStyle(m.opt.MarkdownStyle), m.width), "\n")
		return out[:min(len(out), m.bodyHeight())]
	}
	if len(m.rows) == 0 {
		return []string{styleMuted.Render("(empty outline, press a to add a section)")}
	}

	h := m.bodyHeight()
	start := 0
	if m.cursor >= h {
		start = m.cursor - h + 1
	}
	end := min(start+h, len(m.rows))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(i))
	}
	return lines
}

func (m editorModel) renderRow(i int) string {
	r := m.rows[i]
	handle := m.glyphs.handle()
	if !r.draggable {
		handle = styleMuted.Faint(true).Render(handle)
	}
	marker := m.glyphs.bullet()
	if r.hasChildren {
		marker = m.glyphs.twisty(r.collapsed)
	}

	text := r.title
	if m.mode == modeRename && r.id == m.editID {
		text = m.input.View()
	}
	line := strings.Repeat("  ", r.depth) + handle + " " + marker + " " + text
	if i == m.cursor {
		return m.fit(styleSelected.Render(line))
	}
	return m.fit(line)
}

// fit truncates a styled line to the terminal width.
func (m editorModel) fit(s string) string {
	if m.width <= 0 || xansi.StringWidth(s) <= m.width {
		return s
	}
	return xansi.Truncate(s, m.width, m.glyphs.ellipsis())
}
