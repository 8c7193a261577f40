// Package mutate applies editing requests to a stored article.
//
// Functions take the article by value and return the edited copy in Result.
// Callers are responsible for saving the article and appending the event.
package mutate

import (
	"fmt"
	"strings"
	"time"

	"outliner-cli/internal/model"
	"outliner-cli/internal/outline"
)

type Op string

const (
	OpReorder Op = "reorder"
	OpIndent  Op = "indent"
	OpOutdent Op = "outdent"
	OpDelete  Op = "delete"
	OpInsert  Op = "insert"
	OpRename  Op = "rename"
	OpToggle  Op = "toggle"
	OpMove    Op = "move"
)

// Ops lists every supported op in display order.
var Ops = []Op{OpReorder, OpIndent, OpOutdent, OpDelete, OpInsert, OpRename, OpToggle, OpMove}

// Edit is one editing request. Which fields are read depends on Op:
//
//	reorder: ID (dragged), TargetID
//	indent, outdent, delete, toggle: ID
//	insert: Title (optional, the placeholder otherwise)
//	rename: ID, Title
//	move: ID, Direction ("up" or "down")
type Edit struct {
	Op        Op     `json:"op" yaml:"op"`
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	TargetID  string `json:"targetId,omitempty" yaml:"targetId,omitempty"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty"`
}

type Result struct {
	Changed bool
	Article model.Article
	// NewID is set by a successful insert.
	NewID        string
	EventPayload map[string]any
}

// ApplyEdit runs e against the article's outline. An unknown op is an error;
// any other request that cannot apply leaves the article as is with
// Changed=false.
func ApplyEdit(a model.Article, e Edit, now time.Time) (Result, error) {
	s := outline.NewSession(a.Outline)
	s.SetCollapsed(a.Collapsed)

	id := strings.TrimSpace(e.ID)
	var (
		changed bool
		newID   string
	)
	switch e.Op {
	case OpReorder:
		changed = s.Reorder(id, strings.TrimSpace(e.TargetID))
	case OpIndent:
		changed = s.ChangeLevel(id, true)
	case OpOutdent:
		changed = s.ChangeLevel(id, false)
	case OpDelete:
		changed = s.Delete(id)
	case OpInsert:
		newID, changed = s.Insert()
		if title := strings.TrimSpace(e.Title); changed && title != "" {
			s.Rename(newID, title)
		}
	case OpRename:
		if title := strings.TrimSpace(e.Title); title != "" {
			changed = s.Rename(id, title)
		}
	case OpToggle:
		changed = s.ToggleExpand(id)
	case OpMove:
		if dir, ok := outline.ParseDirection(e.Direction); ok {
			changed = s.MoveSibling(id, dir)
		}
	default:
		return Result{Article: a}, fmt.Errorf("%w: %q", ErrUnknownOp, e.Op)
	}
	if !changed {
		return Result{Article: a}, nil
	}

	out := withSession(a, s, now)
	payload := map[string]any{"op": string(e.Op)}
	if id != "" {
		payload["id"] = id
	}
	if e.TargetID != "" {
		payload["targetId"] = e.TargetID
	}
	if e.Direction != "" {
		payload["direction"] = e.Direction
	}
	if newID != "" {
		payload["id"] = newID
	}
	return Result{Changed: true, Article: out, NewID: newID, EventPayload: payload}, nil
}

// ReplaceOutline swaps in a tree snapshot (typically freshly generated).
// Collapsed nodes in the tree are remembered.
func ReplaceOutline(a model.Article, tree []outline.Node, now time.Time) Result {
	s := outline.NewSessionFromTree(tree)
	if outline.Equal(s.Flat(), a.Outline) && strings.Join(s.Collapsed(), ",") == strings.Join(a.Collapsed, ",") {
		return Result{Article: a}
	}
	out := withSession(a, s, now)
	return Result{
		Changed:      true,
		Article:      out,
		EventPayload: map[string]any{"sections": len(out.Outline)},
	}
}

func withSession(a model.Article, s *outline.Session, now time.Time) model.Article {
	a.Outline = s.Flat()
	a.Collapsed = s.Collapsed()
	a.Bodies = pruneBodies(a.Bodies, a.Outline)
	a.UpdatedAt = now.UTC()
	return a
}

// pruneBodies copies bodies, dropping sections that no longer exist.
func pruneBodies(bodies map[string]string, list []outline.FlatNode) map[string]string {
	if len(bodies) == 0 {
		return nil
	}
	out := make(map[string]string, len(bodies))
	for id, b := range bodies {
		if outline.Index(list, id) >= 0 {
			out[id] = b
		}
	}
	return out
}

// ImportOutline replaces both the outline and the section bodies, as when an
// existing markdown draft is brought in.
func ImportOutline(a model.Article, list []outline.FlatNode, bodies map[string]string, now time.Time) Result {
	s := outline.NewSession(list)
	next := pruneBodies(bodies, s.Flat())
	if outline.Equal(s.Flat(), a.Outline) && len(a.Collapsed) == 0 && equalBodies(next, a.Bodies) {
		return Result{Article: a}
	}
	out := withSession(a, s, now)
	out.Bodies = next
	return Result{
		Changed:      true,
		Article:      out,
		EventPayload: map[string]any{"sections": len(out.Outline), "bodies": len(next)},
	}
}

func equalBodies(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
