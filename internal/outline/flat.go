package outline

// Index returns the position of id in list, or -1.
func Index(list []FlatNode, id string) int {
	for i, n := range list {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// ReorderSiblings moves the dragged node to the target's index. Both must be on
// the same level. The dragged node's immediate children follow it and are placed
// right after it, in their existing order.
//
// Only immediate children move: grandchildren keep their positions, so a deep
// subtree dragged far away can be split from its ancestors.
func ReorderSiblings(list []FlatNode, draggedID, targetID string) []FlatNode {
	out := CloneFlat(list)
	from := Index(out, draggedID)
	to := Index(out, targetID)
	if from < 0 || to < 0 || from == to || out[from].Level != out[to].Level {
		return out
	}

	moved := arrayMove(out, from, to)

	var children []FlatNode
	rest := make([]FlatNode, 0, len(moved))
	for _, n := range moved {
		if n.ParentID != nil && *n.ParentID == draggedID {
			children = append(children, n)
			continue
		}
		rest = append(rest, n)
	}
	if len(children) == 0 {
		return moved
	}

	at := Index(rest, draggedID) + 1
	result := make([]FlatNode, 0, len(moved))
	result = append(result, rest[:at]...)
	result = append(result, children...)
	result = append(result, rest[at:]...)
	return result
}

// arrayMove removes the element at from and inserts it at to.
func arrayMove(list []FlatNode, from, to int) []FlatNode {
	n := list[from]
	out := make([]FlatNode, 0, len(list))
	out = append(out, list[:from]...)
	out = append(out, list[from+1:]...)
	out = append(out[:to], append([]FlatNode{n}, out[to:]...)...)
	return out
}

// MoveSiblingBlock swaps the node with its previous (Up) or next (Down) sibling
// on the same level. A node's block is the node plus the run of deeper nodes
// right after it; both blocks move whole and every entry keeps its Level and
// ParentID. A shallower node between the two ends the search.
func MoveSiblingBlock(list []FlatNode, id string, dir Direction) []FlatNode {
	out := CloneFlat(list)
	i := Index(out, id)
	if i < 0 {
		return out
	}
	end := blockEnd(out, i)
	lvl := out[i].Level

	switch dir {
	case Up:
		prev := -1
		for j := i - 1; j >= 0; j-- {
			if out[j].Level < lvl {
				break
			}
			if out[j].Level == lvl {
				prev = j
				break
			}
		}
		if prev < 0 {
			return out
		}
		return swapBlocks(out, prev, i, end)
	case Down:
		if end >= len(out) || out[end].Level != lvl {
			return out
		}
		return swapBlocks(out, i, end, blockEnd(out, end))
	}
	return out
}

func blockEnd(list []FlatNode, i int) int {
	j := i + 1
	for j < len(list) && list[j].Level > list[i].Level {
		j++
	}
	return j
}

// swapBlocks exchanges list[a:b] and list[b:c].
func swapBlocks(list []FlatNode, a, b, c int) []FlatNode {
	out := make([]FlatNode, 0, len(list))
	out = append(out, list[:a]...)
	out = append(out, list[b:c]...)
	out = append(out, list[a:b]...)
	out = append(out, list[c:]...)
	return out
}

// ChangeLevel indents (increment) or outdents the node by one level. Requests
// that would leave [MinLevel, MaxLevel] are ignored. The new parent is the
// nearest preceding node with a lower level; if there is none the parent is
// cleared.
//
// Immediate children are re-leveled to one below the node (capped at MaxLevel)
// but keep their current ParentID.
func ChangeLevel(list []FlatNode, id string, increment bool) []FlatNode {
	out := CloneFlat(list)
	i := Index(out, id)
	if i < 0 {
		return out
	}
	newLevel := out[i].Level - 1
	if increment {
		newLevel = out[i].Level + 1
	}
	if newLevel < MinLevel || newLevel > MaxLevel {
		return out
	}

	var parent *string
	if newLevel > MinLevel {
		for j := i - 1; j >= 0; j-- {
			if out[j].Level < newLevel {
				parent = idPtr(out[j].ID)
				break
			}
		}
	}

	childLevel := min(newLevel+1, MaxLevel)
	for j := range out {
		switch {
		case j == i:
			out[j].Level = newLevel
			out[j].ParentID = parent
		case out[j].ParentID != nil && *out[j].ParentID == id:
			out[j].Level = childLevel
		}
	}
	return out
}

// Delete removes the node and its immediate children. Grandchildren stay in the
// list with a ParentID that no longer resolves.
func Delete(list []FlatNode, id string) []FlatNode {
	if Index(list, id) < 0 {
		return CloneFlat(list)
	}
	out := make([]FlatNode, 0, len(list))
	for _, n := range CloneFlat(list) {
		if n.ID == id || (n.ParentID != nil && *n.ParentID == id) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Insert appends a top-level node with the placeholder title. An empty or
// already used id is ignored.
func Insert(list []FlatNode, id string) []FlatNode {
	out := CloneFlat(list)
	if id == "" || Index(out, id) >= 0 {
		return out
	}
	return append(out, FlatNode{ID: id, Title: PlaceholderTitle, Level: MinLevel})
}

// Rename replaces the node's title.
func Rename(list []FlatNode, id, title string) []FlatNode {
	out := CloneFlat(list)
	if i := Index(out, id); i >= 0 {
		out[i].Title = title
	}
	return out
}

// Draggable reports whether at least one other node shares the node's level.
func Draggable(list []FlatNode, id string) bool {
	i := Index(list, id)
	if i < 0 {
		return false
	}
	for j, n := range list {
		if j != i && n.Level == list[i].Level {
			return true
		}
	}
	return false
}
