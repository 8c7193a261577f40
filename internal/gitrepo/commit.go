package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrNotRepo    = errors.New("not inside a git repository")
	ErrInProgress = errors.New("git repo has an in-progress merge/rebase; resolve first")
)

type CommitResult struct {
	Committed bool   `json:"committed"`
	Head      string `json:"head,omitempty"`
}

// CommitFiles stages exactly paths and commits them. Other changes in the
// worktree are left alone. Committed is false when the files were already up
// to date.
func CommitFiles(ctx context.Context, paths []string, message string) (CommitResult, error) {
	if len(paths) == 0 {
		return CommitResult{}, nil
	}
	// git runs in the first file's directory, so pathspecs must be absolute.
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return CommitResult{}, err
		}
		abs = append(abs, a)
	}
	paths = abs
	dir := filepath.Dir(paths[0])

	st, err := GetStatus(ctx, dir)
	if err != nil {
		return CommitResult{}, err
	}
	if !st.IsRepo {
		return CommitResult{}, fmt.Errorf("%w: %s", ErrNotRepo, dir)
	}
	if st.Unmerged || st.InProgress {
		return CommitResult{}, ErrInProgress
	}

	args := append([]string{"add", "--"}, paths...)
	if _, err := runGit(ctx, dir, args...); err != nil {
		return CommitResult{}, err
	}
	diffArgs := append([]string{"diff", "--cached", "--name-only", "--"}, paths...)
	staged, err := runGit(ctx, dir, diffArgs...)
	if err != nil {
		return CommitResult{}, err
	}
	if strings.TrimSpace(staged) == "" {
		return CommitResult{Head: st.Head}, nil
	}

	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = fmt.Sprintf("outliner: publish (%s)", time.Now().UTC().Format(time.RFC3339))
	}
	commitArgs := append([]string{"commit", "-m", msg, "--"}, paths...)
	if _, err := runGit(ctx, dir, commitArgs...); err != nil {
		return CommitResult{}, err
	}
	head, _ := runGit(ctx, dir, "rev-parse", "--short", "HEAD")
	return CommitResult{Committed: true, Head: strings.TrimSpace(head)}, nil
}
