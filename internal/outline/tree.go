package outline

// ToggleExpand flips Expanded on the node with the given id, at any depth.
func ToggleExpand(tree []Node, id string) []Node {
	out := make([]Node, len(tree))
	for i, n := range tree {
		out[i] = n
		if n.ID == id {
			out[i].Expanded = !n.Expanded
		}
		out[i].Children = ToggleExpand(n.Children, id)
	}
	return out
}

// SetExpanded sets Expanded on every node: false for ids in collapsed, true otherwise.
func SetExpanded(tree []Node, collapsed map[string]bool) []Node {
	out := make([]Node, len(tree))
	for i, n := range tree {
		out[i] = n
		out[i].Expanded = !collapsed[n.ID]
		out[i].Children = SetExpanded(n.Children, collapsed)
	}
	return out
}

// MoveSibling swaps the node with its neighbour in dir inside its own sibling
// list. Depth never changes. Moving the first sibling up or the last one down
// leaves the tree as it was.
func MoveSibling(tree []Node, id string, dir Direction) []Node {
	idx := -1
	for i, n := range tree {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		out := make([]Node, len(tree))
		for i, n := range tree {
			out[i] = n
			out[i].Children = MoveSibling(n.Children, id, dir)
		}
		return out
	}

	out := Clone(tree)
	switch {
	case dir == Up && idx > 0:
		out[idx-1], out[idx] = out[idx], out[idx-1]
	case dir == Down && idx < len(out)-1:
		out[idx], out[idx+1] = out[idx+1], out[idx]
	}
	return out
}

// Find returns the node with the given id, searching depth-first.
func Find(tree []Node, id string) (Node, bool) {
	for _, n := range tree {
		if n.ID == id {
			return n, true
		}
		if found, ok := Find(n.Children, id); ok {
			return found, true
		}
	}
	return Node{}, false
}

// Walk visits every node in document order. depth is 0 for top-level nodes.
func Walk(tree []Node, fn func(n Node, depth int)) {
	var walk func(nodes []Node, depth int)
	walk = func(nodes []Node, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(tree, 0)
}

// Count returns the number of nodes in the tree.
func Count(tree []Node) int {
	c := 0
	Walk(tree, func(Node, int) { c++ })
	return c
}
