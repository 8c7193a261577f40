package outline

import (
	"fmt"
	"sort"
)

// Session is the single owner of an outline while it is being edited. The flat
// list is the stored form; the tree is derived from it whenever it is asked for.
//
// Session is not safe for concurrent use.
type Session struct {
	list      []FlatNode
	collapsed map[string]bool
	seq       int
}

func NewSession(list []FlatNode) *Session {
	return &Session{list: CloneFlat(list), collapsed: map[string]bool{}}
}

// NewSessionFromTree starts a session from a generated tree. Collapsed nodes
// are remembered so Tree reproduces them.
func NewSessionFromTree(tree []Node) *Session {
	s := NewSession(TreeToFlat(tree))
	var collapsed []string
	Walk(tree, func(n Node, _ int) {
		if !n.Expanded {
			collapsed = append(collapsed, n.ID)
		}
	})
	s.SetCollapsed(collapsed)
	return s
}

func (s *Session) Len() int { return len(s.list) }

// Flat returns a copy of the current list.
func (s *Session) Flat() []FlatNode { return CloneFlat(s.list) }

// Tree returns the nested view with expand state applied.
func (s *Session) Tree() []Node {
	return SetExpanded(FlatToTree(s.list), s.collapsed)
}

// Collapsed returns the collapsed ids in sorted order.
func (s *Session) Collapsed() []string {
	out := make([]string, 0, len(s.collapsed))
	for id := range s.collapsed {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *Session) SetCollapsed(ids []string) {
	s.collapsed = map[string]bool{}
	for _, id := range ids {
		if Index(s.list, id) >= 0 {
			s.collapsed[id] = true
		}
	}
}

func (s *Session) IsCollapsed(id string) bool { return s.collapsed[id] }

// Replace swaps in a snapshot supplied by a collaborator.
func (s *Session) Replace(list []FlatNode) {
	s.list = CloneFlat(list)
	s.SetCollapsed(s.Collapsed())
}

func (s *Session) Reorder(draggedID, targetID string) bool {
	return s.commit(ReorderSiblings(s.list, draggedID, targetID))
}

func (s *Session) ChangeLevel(id string, increment bool) bool {
	return s.commit(ChangeLevel(s.list, id, increment))
}

func (s *Session) Delete(id string) bool {
	if !s.commit(Delete(s.list, id)) {
		return false
	}
	for cid := range s.collapsed {
		if Index(s.list, cid) < 0 {
			delete(s.collapsed, cid)
		}
	}
	return true
}

// Insert appends a placeholder node and returns its id.
func (s *Session) Insert() (string, bool) {
	id := s.nextID()
	return id, s.commit(Insert(s.list, id))
}

func (s *Session) Rename(id, title string) bool {
	return s.commit(Rename(s.list, id, title))
}

func (s *Session) Draggable(id string) bool { return Draggable(s.list, id) }

// ToggleExpand flips the collapse state of an existing node.
func (s *Session) ToggleExpand(id string) bool {
	if Index(s.list, id) < 0 {
		return false
	}
	if s.collapsed[id] {
		delete(s.collapsed, id)
	} else {
		s.collapsed[id] = true
	}
	return true
}

// MoveSibling swaps the node's block with its neighbouring sibling block in
// the flat list. Levels and parent ids are left as they are.
func (s *Session) MoveSibling(id string, dir Direction) bool {
	return s.commit(MoveSiblingBlock(s.list, id, dir))
}

func (s *Session) commit(next []FlatNode) bool {
	if Equal(next, s.list) {
		return false
	}
	s.list = next
	return true
}

func (s *Session) nextID() string {
	for {
		s.seq++
		id := fmt.Sprintf("new-%d", s.seq)
		if Index(s.list, id) < 0 {
			return id
		}
	}
}
