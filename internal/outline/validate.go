package outline

import "fmt"

type ViolationKind string

const (
	ViolationDuplicateID    ViolationKind = "duplicate_id"
	ViolationLevelRange     ViolationKind = "level_out_of_range"
	ViolationTopLevelParent ViolationKind = "top_level_with_parent"
	ViolationMissingParent  ViolationKind = "missing_parent"
	ViolationDanglingParent ViolationKind = "dangling_parent"
	ViolationParentLater    ViolationKind = "parent_not_earlier"
	ViolationParentLevel    ViolationKind = "parent_level_mismatch"
	ViolationNotContiguous  ViolationKind = "not_contiguous"
)

// Violation describes one broken invariant of a flat list.
type Violation struct {
	Kind    ViolationKind `json:"kind" yaml:"kind"`
	ID      string        `json:"id" yaml:"id"`
	Index   int           `json:"index" yaml:"index"`
	Message string        `json:"message" yaml:"message"`
}

// Validate checks level bounds, parent links and pre-order contiguity. An empty
// result means the list converts to a tree and back without loss.
func Validate(list []FlatNode) []Violation {
	var out []Violation
	add := func(kind ViolationKind, i int, format string, args ...any) {
		out = append(out, Violation{Kind: kind, ID: list[i].ID, Index: i, Message: fmt.Sprintf(format, args...)})
	}

	firstIndex := map[string]int{}
	for i, n := range list {
		if _, dup := firstIndex[n.ID]; dup {
			add(ViolationDuplicateID, i, "id %q appears more than once", n.ID)
			continue
		}
		firstIndex[n.ID] = i
	}

	for i, n := range list {
		if n.Level < MinLevel || n.Level > MaxLevel {
			add(ViolationLevelRange, i, "level %d outside [%d,%d]", n.Level, MinLevel, MaxLevel)
			continue
		}
		if n.Level == MinLevel {
			if n.ParentID != nil {
				add(ViolationTopLevelParent, i, "top-level node has parent %q", *n.ParentID)
			}
			continue
		}
		if n.ParentID == nil {
			add(ViolationMissingParent, i, "level %d node has no parent", n.Level)
			continue
		}
		pi, ok := firstIndex[*n.ParentID]
		switch {
		case !ok:
			add(ViolationDanglingParent, i, "parent %q not in list", *n.ParentID)
			continue
		case pi >= i:
			add(ViolationParentLater, i, "parent %q appears at %d, not before %d", *n.ParentID, pi, i)
			continue
		case list[pi].Level != n.Level-1:
			add(ViolationParentLevel, i, "parent %q has level %d, want %d", *n.ParentID, list[pi].Level, n.Level-1)
			continue
		}
		// The parent's run of deeper nodes must reach this node.
		for j := pi + 1; j < i; j++ {
			if list[j].Level <= list[pi].Level {
				add(ViolationNotContiguous, i, "separated from parent %q by %q", *n.ParentID, list[j].ID)
				break
			}
		}
	}
	return out
}

// Contiguous reports whether Validate finds nothing.
func Contiguous(list []FlatNode) bool {
	return len(Validate(list)) == 0
}
