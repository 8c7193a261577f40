// Package tui is the interactive terminal editor for one article's outline.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"outliner-cli/internal/outline"
)

type Options struct {
	// Title is shown in the header.
	Title string
	// Save persists the session. Nil disables the save key.
	Save func(s *outline.Session) error
	// Glyphs is "unicode" or "ascii"; OUTLINER_TUI_GLYPHS wins when set.
	Glyphs string
	// MarkdownStyle is a glamour standard style for the preview.
	MarkdownStyle string
}

// RunEditor opens the editor in the alternate screen and blocks until quit.
func RunEditor(s *outline.Session, opt Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	_, err := tea.NewProgram(newEditorModel(s, opt), tea.WithAltScreen()).Run()
	return err
}

type mode int

const (
	modeNav mode = iota
	modeRename
)

// row is one visible line: a node whose ancestors are all expanded.
type row struct {
	id          string
	title       string
	depth       int
	hasChildren bool
	collapsed   bool
	draggable   bool
}

type editorModel struct {
	s      *outline.Session
	opt    Options
	glyphs glyphSet

	rows   []row
	cursor int

	mode   mode
	input  textinput.Model
	editID string

	preview bool
	dirty   bool
	status  string
	isError bool

	width  int
	height int
}

type savedMsg struct{ err error }

func newEditorModel(s *outline.Session, opt Options) editorModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 200
	m := editorModel{
		s:      s,
		opt:    opt,
		glyphs: parseGlyphSet(opt.Glyphs),
		input:  ti,
		width:  80,
		height: 24,
	}
	m.refresh()
	return m
}

func (m editorModel) Init() tea.Cmd { return nil }

// refresh rebuilds the visible rows from the session and clamps the cursor.
func (m *editorModel) refresh() {
	m.rows = nil
	var add func(nodes []outline.Node, depth int)
	add = func(nodes []outline.Node, depth int) {
		for _, n := range nodes {
			m.rows = append(m.rows, row{
				id:          n.ID,
				title:       n.Content,
				depth:       depth,
				hasChildren: len(n.Children) > 0,
				collapsed:   !n.Expanded,
				draggable:   m.s.Draggable(n.ID),
			})
			if n.Expanded {
				add(n.Children, depth+1)
			}
		}
	}
	add(m.s.Tree(), 0)
	m.cursor = min(max(m.cursor, 0), max(len(m.rows)-1, 0))
}

func (m editorModel) selectedID() string {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return ""
	}
	return m.rows[m.cursor].id
}

// selectID moves the cursor to id when it is visible.
func (m *editorModel) selectID(id string) {
	for i, r := range m.rows {
		if r.id == id {
			m.cursor = i
			return
		}
	}
}

func (m *editorModel) setStatus(s string, isError bool) {
	m.status = s
	m.isError = isError
}

// sameLevelNeighbor finds the nearest node before (dir<0) or after (dir>0) id
// in the flat list that shares its level.
func (m editorModel) sameLevelNeighbor(id string, dir int) string {
	list := m.s.Flat()
	i := outline.Index(list, id)
	if i < 0 {
		return ""
	}
	for j := i + dir; j >= 0 && j < len(list); j += dir {
		if list[j].Level == list[i].Level {
			return list[j].ID
		}
	}
	return ""
}

func (m *editorModel) startRename(id string) tea.Cmd {
	list := m.s.Flat()
	i := outline.Index(list, id)
	if i < 0 {
		return nil
	}
	m.mode = modeRename
	m.editID = id
	m.input.SetValue(list[i].Title)
	m.input.CursorEnd()
	m.setStatus("", false)
	return m.input.Focus()
}

func (m *editorModel) finishRename(commit bool) {
	defer func() {
		m.mode = modeNav
		m.editID = ""
		m.input.Blur()
	}()
	if !commit {
		return
	}
	title := strings.TrimSpace(m.input.Value())
	if title == "" {
		m.setStatus("title cannot be empty", true)
		return
	}
	if m.s.Rename(m.editID, title) {
		m.dirty = true
		m.refresh()
	}
}

func (m editorModel) save() tea.Cmd {
	if m.opt.Save == nil {
		return nil
	}
	// Save runs off the update loop, so hand it a snapshot.
	snap := outline.NewSession(m.s.Flat())
	snap.SetCollapsed(m.s.Collapsed())
	save := m.opt.Save
	return func() tea.Msg { return savedMsg{err: save(snap)} }
}
