package outline

import (
	"fmt"
	"strings"
)

// Parse converts indentation-marked text into a tree. See ParseLines.
func Parse(text string) []Node {
	return ParseLines(strings.Split(text, "\n"))
}

// ParseLines builds a tree from outline lines. Two leading spaces make one level;
// an optional "- " marker is stripped from the content. Only the top level and the
// level directly below it are tracked, so a line whose level cannot be attached is
// dropped. Blank lines are skipped and do not count toward the generated ids.
//
// ParseLines never fails; malformed input yields a partial (or empty) tree.
func ParseLines(lines []string) []Node {
	tree := []Node{}
	top := -1 // index of the current top-level node in tree
	currentLevel := 0

	pos := 0
	for _, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		level := indentWidth(line) / 2
		n := Node{
			ID:       fmt.Sprintf("item-%d", pos),
			Content:  lineContent(line),
			Children: []Node{},
			Expanded: true,
		}
		pos++

		switch {
		case level == 0:
			tree = append(tree, n)
			top = len(tree) - 1
			currentLevel = 0
		case level == currentLevel+1 && top >= 0:
			tree[top].Children = append(tree[top].Children, n)
		case level == currentLevel && len(tree) > 0:
			// Same depth as the tracked level: nested under the latest top-level node.
			last := len(tree) - 1
			tree[last].Children = append(tree[last].Children, n)
		}
	}
	return tree
}

func indentWidth(line string) int {
	w := 0
	for w < len(line) && line[w] == ' ' {
		w++
	}
	return w
}

func lineContent(line string) string {
	s := strings.TrimSpace(line)
	if strings.HasPrefix(s, "-") {
		s = strings.TrimLeft(s[1:], " \t")
	}
	return s
}
