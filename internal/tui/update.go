package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"outliner-cli/internal/outline"
)

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case savedMsg:
		if msg.err != nil {
			m.setStatus("save failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.dirty = false
		m.setStatus("saved", false)
		return m, nil
	case tea.KeyMsg:
		if m.mode == modeRename {
			return m.updateRename(msg)
		}
		return m.updateNav(msg)
	}
	return m, nil
}

func (m editorModel) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.finishRename(true)
		return m, nil
	case "esc":
		m.finishRename(false)
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m editorModel) updateNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.selectedID()
	changed := false

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil
	case "K", "shift+up":
		if prev := m.sameLevelNeighbor(id, -1); prev != "" {
			changed = m.s.Reorder(id, prev)
		}
	case "J", "shift+down":
		// Dragging the next same-level node onto this one keeps both subtrees whole.
		if next := m.sameLevelNeighbor(id, 1); next != "" {
			changed = m.s.Reorder(next, id)
		}
	case "tab":
		changed = m.s.ChangeLevel(id, true)
	case "shift+tab":
		changed = m.s.ChangeLevel(id, false)
	case " ":
		if m.s.ToggleExpand(id) {
			m.dirty = true
			m.refresh()
			m.selectID(id)
		}
		return m, nil
	case "a":
		newID, ok := m.s.Insert()
		if !ok {
			return m, nil
		}
		m.dirty = true
		m.refresh()
		m.selectID(newID)
		return m, m.startRename(newID)
	case "e", "enter":
		if id == "" {
			return m, nil
		}
		return m, m.startRename(id)
	case "x":
		changed = m.s.Delete(id)
	case "y":
		text := outline.IndentedText(outline.FlatToTree(m.s.Flat()))
		if err := copyToClipboard(text); err != nil {
			m.setStatus("copy failed: "+err.Error(), true)
		} else {
			m.setStatus("copied outline", false)
		}
		return m, nil
	case "p":
		m.preview = !m.preview
		return m, nil
	case "s":
		if m.opt.Save == nil {
			m.setStatus("saving is not available", true)
			return m, nil
		}
		return m, m.save()
	default:
		return m, nil
	}

	if changed {
		m.dirty = true
		m.setStatus("", false)
		m.refresh()
		m.selectID(id)
	}
	return m, nil
}
