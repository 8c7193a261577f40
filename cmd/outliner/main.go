package main

import (
	"os"
	"slices"
	"strings"

	"outliner-cli/internal/cli"
)

const articleIDPrefix = "art-"

func isArticleID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, articleIDPrefix) && len(s) > len(articleIDPrefix)
}

// Root persistent flags that take a separate value.
var valueFlags = map[string]bool{
	"--dir":     true,
	"--article": true,
	"--format":  true,
}

// rewriteArticleLookupArgs turns `outliner [flags] <article-id>` into
// `outliner [flags] articles show <article-id>`. Cobra would otherwise read the
// id as a subcommand name.
func rewriteArticleLookupArgs(argv []string) []string {
	insertAt := func(i int) []string {
		return slices.Concat(argv[:i], []string{"articles", "show"}, argv[i:])
	}
	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isArticleID(argv[i+1]) {
				return insertAt(i)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			// Unknown flags are assumed boolean so an id is never swallowed as a value.
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		case isArticleID(a):
			return insertAt(i)
		default:
			return argv
		}
	}
	return argv
}

func main() {
	os.Args = rewriteArticleLookupArgs(os.Args)

	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
