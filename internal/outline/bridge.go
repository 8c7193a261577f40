package outline

import "strings"

// TreeToFlat lists the tree in pre-order. Depth 0 maps to level 1 and each node's
// ParentID is its enclosing node. Nodes below MaxLevel are not listed.
func TreeToFlat(tree []Node) []FlatNode {
	out := []FlatNode{}
	var walk func(nodes []Node, level int, parent *string)
	walk = func(nodes []Node, level int, parent *string) {
		if level > MaxLevel {
			return
		}
		for _, n := range nodes {
			out = append(out, FlatNode{
				ID:       n.ID,
				Title:    n.Content,
				Level:    level,
				ParentID: copyID(parent),
			})
			walk(n.Children, level+1, idPtr(n.ID))
		}
	}
	walk(tree, MinLevel, nil)
	return out
}

// FlatToTree rebuilds the nested form. Each node is attached to the nearest
// preceding node with a lower level; nodes without one become top-level. For a
// list that satisfies pre-order contiguity this is the ParentID relation.
func FlatToTree(list []FlatNode) []Node {
	type entry struct {
		flat  FlatNode
		kids  []*entry
		level int
	}
	var roots []*entry
	var stack []*entry
	for _, f := range list {
		e := &entry{flat: f, level: f.Level}
		for len(stack) > 0 && stack[len(stack)-1].level >= f.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, e)
		} else {
			parent := stack[len(stack)-1]
			parent.kids = append(parent.kids, e)
		}
		stack = append(stack, e)
	}

	var build func(es []*entry) []Node
	build = func(es []*entry) []Node {
		out := make([]Node, 0, len(es))
		for _, e := range es {
			out = append(out, Node{
				ID:       e.flat.ID,
				Content:  e.flat.Title,
				Children: build(e.kids),
				Expanded: true,
			})
		}
		return out
	}
	return build(roots)
}

// PromptText flattens the tree for a text-generation prompt: one content per
// line, each node followed by its descendants, no indentation.
func PromptText(tree []Node) string {
	var lines []string
	Walk(tree, func(n Node, _ int) {
		lines = append(lines, n.Content)
	})
	return strings.Join(lines, "\n")
}

// IndentedText renders the tree in the parser's input format: two spaces per
// depth and a "- " marker.
func IndentedText(tree []Node) string {
	var lines []string
	Walk(tree, func(n Node, depth int) {
		lines = append(lines, strings.Repeat("  ", depth)+"- "+n.Content)
	})
	return strings.Join(lines, "\n")
}

// FlatPromptText is PromptText over the tree derived from list.
func FlatPromptText(list []FlatNode) string {
	return PromptText(FlatToTree(list))
}

// FlatIndentedText is IndentedText over the tree derived from list.
func FlatIndentedText(list []FlatNode) string {
	return IndentedText(FlatToTree(list))
}
