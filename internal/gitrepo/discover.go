package gitrepo

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// FindGitDir walks up from start to the git directory without running git.
// A ".git" file (worktrees, submodules) is followed to the dir it names.
func FindGitDir(start string) (gitDir string, ok bool, err error) {
	if strings.TrimSpace(start) == "" {
		return "", false, errors.New("empty start dir")
	}
	dir := filepath.Clean(strings.TrimSpace(start))
	for {
		candidate := filepath.Join(dir, ".git")
		st, statErr := os.Stat(candidate)
		switch {
		case statErr == nil && st.IsDir():
			return candidate, true, nil
		case statErr == nil:
			target, err := readGitdirFile(candidate)
			if err != nil {
				return "", false, err
			}
			if target != "" {
				return target, true, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func readGitdirFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ln := strings.TrimSpace(sc.Text())
		if ln == "" {
			continue
		}
		p, found := strings.CutPrefix(ln, "gitdir:")
		if !found {
			break
		}
		p = strings.TrimSpace(p)
		if p == "" {
			return "", nil
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(filepath.Dir(path), p)
		}
		return filepath.Clean(p), nil
	}
	return "", sc.Err()
}

type InProgress struct {
	InProgress bool   `json:"inProgress"`
	Kind       string `json:"kind,omitempty"`
}

// DetectInProgress looks for the marker files git leaves during a merge,
// rebase, cherry-pick or revert.
func DetectInProgress(dir string) (InProgress, error) {
	gitDir, ok, err := FindGitDir(dir)
	if err != nil || !ok {
		return InProgress{}, err
	}
	markers := []struct {
		kind  string
		paths []string
	}{
		{"merge", []string{"MERGE_HEAD"}},
		{"rebase", []string{"rebase-apply", "rebase-merge"}},
		{"cherry-pick", []string{"CHERRY_PICK_HEAD"}},
		{"revert", []string{"REVERT_HEAD"}},
	}
	for _, m := range markers {
		for _, p := range m.paths {
			if _, err := os.Stat(filepath.Join(gitDir, p)); err == nil {
				return InProgress{InProgress: true, Kind: m.kind}, nil
			}
		}
	}
	return InProgress{}, nil
}
