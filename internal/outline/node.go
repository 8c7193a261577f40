// Package outline holds the outline editing engine: a text parser, a nested tree
// with expand/collapse, a flat level/parent list used for drag-and-drop editing,
// and the bridge between the two.
//
// Every operation is a pure transform over a snapshot. Inputs are never mutated and
// an illegal request (unknown id, level or same-level violation) returns a copy of
// the input unchanged instead of an error.
package outline

import "strings"

const (
	MinLevel = 1
	MaxLevel = 3

	PlaceholderTitle = "New section"
)

// Node is the nested (tree) form of an outline entry.
type Node struct {
	ID       string `json:"id" yaml:"id"`
	Content  string `json:"content" yaml:"content"`
	Children []Node `json:"children" yaml:"children"`
	Expanded bool   `json:"expanded" yaml:"expanded"`
}

// FlatNode is the flat (list) form. ParentID is nil for level 1.
type FlatNode struct {
	ID       string  `json:"id" yaml:"id"`
	Title    string  `json:"title" yaml:"title"`
	Level    int     `json:"level" yaml:"level"`
	ParentID *string `json:"parentId" yaml:"parentId"`
}

// Parent returns the parent id, or "" for top-level nodes.
func (n FlatNode) Parent() string {
	if n.ParentID == nil {
		return ""
	}
	return *n.ParentID
}

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts "up"/"down" (case-insensitive).
func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Up:
		return Up, true
	case Down:
		return Down, true
	default:
		return "", false
	}
}

// Clone deep-copies a tree.
func Clone(tree []Node) []Node {
	out := make([]Node, len(tree))
	for i, n := range tree {
		out[i] = n
		out[i].Children = Clone(n.Children)
	}
	return out
}

// CloneFlat copies a list, including parent pointers.
func CloneFlat(list []FlatNode) []FlatNode {
	out := make([]FlatNode, len(list))
	for i, n := range list {
		out[i] = n
		out[i].ParentID = copyID(n.ParentID)
	}
	return out
}

// Equal reports whether two lists hold the same (id, title, level, parentId) tuples in order.
func Equal(a, b []FlatNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Title != b[i].Title || a[i].Level != b[i].Level {
			return false
		}
		if (a[i].ParentID == nil) != (b[i].ParentID == nil) {
			return false
		}
		if a[i].ParentID != nil && *a[i].ParentID != *b[i].ParentID {
			return false
		}
	}
	return true
}

func idPtr(id string) *string { return &id }

func copyID(p *string) *string {
	if p == nil {
		return nil
	}
	return idPtr(*p)
}
