// Package gitrepo commits published markdown when the output directory lives
// in a git repository. It shells out to the git binary.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

type Status struct {
	IsRepo bool   `json:"isRepo"`
	Root   string `json:"root,omitempty"`
	Branch string `json:"branch,omitempty"`
	Head   string `json:"head,omitempty"`

	Dirty    bool `json:"dirty"`
	Unmerged bool `json:"unmerged"`

	InProgress     bool   `json:"inProgress"`
	InProgressKind string `json:"inProgressKind,omitempty"` // merge|rebase|cherry-pick|revert
}

// GetStatus reports on the repository containing dir. A dir outside any
// repository is not an error; it yields IsRepo=false.
func GetStatus(ctx context.Context, dir string) (Status, error) {
	root, err := runGit(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return Status{IsRepo: false}, nil
	}
	root = strings.TrimSpace(root)
	if root == "" {
		return Status{}, errors.New("git rev-parse returned empty root")
	}

	branch, _ := runGit(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	head, _ := runGit(ctx, dir, "rev-parse", "--short", "HEAD")
	porcelain, _ := runGit(ctx, dir, "status", "--porcelain=v1")
	dirty, unmerged := parsePorcelain(porcelain)

	ip, err := DetectInProgress(dir)
	if err != nil {
		return Status{}, err
	}

	return Status{
		IsRepo:         true,
		Root:           root,
		Branch:         strings.TrimSpace(branch),
		Head:           strings.TrimSpace(head),
		Dirty:          dirty,
		Unmerged:       unmerged,
		InProgress:     ip.InProgress,
		InProgressKind: ip.Kind,
	}, nil
}

// parsePorcelain reads `git status --porcelain=v1` output.
func parsePorcelain(out string) (dirty bool, unmerged bool) {
	for _, ln := range strings.Split(out, "\n") {
		if len(ln) < 2 {
			continue
		}
		dirty = true
		x, y := ln[0], ln[1]
		if x == 'U' || y == 'U' || (x == 'A' && y == 'A') || (x == 'D' && y == 'D') {
			unmerged = true
		}
	}
	return dirty, unmerged
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return string(out), nil
}
