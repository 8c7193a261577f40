package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"outliner-cli/internal/mdimport"
	"outliner-cli/internal/mutate"
	"outliner-cli/internal/outline"
)

func newOutlineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outline",
		Short: "Parse, inspect and edit article outlines",
		Long: strings.TrimSpace(`
Edit commands act on the current article (or --article). Each edit loads the
latest snapshot, applies one operation and saves only when something changed.
An edit that cannot apply (unknown id, level bounds, different levels) is a
no-op and reports "changed": false.

Run ` + "`outliner docs editing`" + ` for the exact semantics of each operation.
`),
	}

	cmd.AddCommand(newOutlineParseCmd(app))
	cmd.AddCommand(newOutlineShowCmd(app))
	cmd.AddCommand(newOutlineValidateCmd(app))
	cmd.AddCommand(newOutlineImportMarkdownCmd(app))
	cmd.AddCommand(newOutlineWatchCmd(app))

	cmd.AddCommand(newOutlineEditCmd(app, "reorder <dragged-id> <target-id>", "Move a node (and its children) to a same-level node's position", mutate.OpReorder, 2))
	cmd.AddCommand(newOutlineEditCmd(app, "indent <id>", "Increase a node's level", mutate.OpIndent, 1))
	cmd.AddCommand(newOutlineEditCmd(app, "outdent <id>", "Decrease a node's level", mutate.OpOutdent, 1))
	cmd.AddCommand(newOutlineEditCmd(app, "delete <id>", "Delete a node and its direct children", mutate.OpDelete, 1))
	cmd.AddCommand(newOutlineEditCmd(app, "toggle <id>", "Expand or collapse a node", mutate.OpToggle, 1))
	cmd.AddCommand(newOutlineEditCmd(app, "move <id> <up|down>", "Swap a node with its previous or next sibling", mutate.OpMove, 2))
	cmd.AddCommand(newOutlineInsertCmd(app))
	cmd.AddCommand(newOutlineRenameCmd(app))
	return cmd
}

// readInput reads a file path, or stdin for "-" or no path.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

func parsedPayload(tree []outline.Node) map[string]any {
	return map[string]any{
		"tree": tree,
		"flat": outline.TreeToFlat(tree),
	}
}

func newOutlineParseCmd(app *App) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse an indented \"- item\" outline (stdin by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readInput(cmd, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			tree := outline.Parse(string(b))
			out := parsedPayload(tree)
			if save {
				changed, err := saveParsed(cmd, app, tree)
				if err != nil {
					return writeErr(cmd, err)
				}
				out["changed"] = changed
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Replace the current article's outline")
	return cmd
}

func saveParsed(cmd *cobra.Command, app *App, tree []outline.Node) (bool, error) {
	id, err := resolveArticleID(app, nil)
	if err != nil {
		return false, err
	}
	svc, err := loadService(app)
	if err != nil {
		return false, err
	}
	res, err := svc.ReplaceOutline(cmd.Context(), id, tree)
	if err != nil {
		return false, err
	}
	return res.Changed, nil
}

func newOutlineShowCmd(app *App) *cobra.Command {
	var view string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current article's outline",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			switch strings.ToLower(strings.TrimSpace(view)) {
			case "", "tree":
				return writeOut(cmd, app, map[string]any{"data": sess.Tree()})
			case "flat":
				return writeOut(cmd, app, map[string]any{"data": sess.Flat()})
			case "text":
				_, err := fmt.Fprintln(cmd.OutOrStdout(), outline.IndentedText(sess.Tree()))
				return err
			case "prompt":
				_, err := fmt.Fprintln(cmd.OutOrStdout(), outline.PromptText(sess.Tree()))
				return err
			default:
				return writeErr(cmd, fmt.Errorf("invalid --view %q (expected tree|flat|text|prompt)", view))
			}
		},
	}
	cmd.Flags().StringVar(&view, "view", "tree", "tree|flat|text|prompt")
	return cmd
}

func loadSession(cmd *cobra.Command, app *App) (*outline.Session, string, error) {
	id, err := resolveArticleID(app, nil)
	if err != nil {
		return nil, "", err
	}
	s, err := loadStore(app)
	if err != nil {
		return nil, "", err
	}
	a, err := s.LoadArticle(cmd.Context(), id)
	if err != nil {
		return nil, "", err
	}
	sess := outline.NewSession(a.Outline)
	sess.SetCollapsed(a.Collapsed)
	return sess, a.ID, nil
}

var errOutlineInvalid = errors.New("outline is invalid")

func newOutlineValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the stored flat outline (levels, parents, contiguity)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, id, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			vs := outline.Validate(sess.Flat())
			if err := writeOut(cmd, app, map[string]any{"data": map[string]any{
				"articleId":  id,
				"valid":      len(vs) == 0,
				"violations": vs,
			}}); err != nil {
				return err
			}
			if len(vs) > 0 {
				return writeErr(cmd, fmt.Errorf("%w: %d violation(s)", errOutlineInvalid, len(vs)))
			}
			return nil
		},
	}
}

func newOutlineEditCmd(app *App, use, short string, op mutate.Op, nargs int) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := mutate.Edit{Op: op, ID: args[0]}
			switch op {
			case mutate.OpReorder:
				e.TargetID = args[1]
			case mutate.OpMove:
				if _, ok := outline.ParseDirection(args[1]); !ok {
					return writeErr(cmd, fmt.Errorf("invalid direction %q (expected up|down)", args[1]))
				}
				e.Direction = args[1]
			}
			return runEdit(cmd, app, e)
		},
	}
}

func newOutlineInsertCmd(app *App) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Append a new top-level section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, app, mutate.Edit{Op: mutate.OpInsert, Title: title})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Section title (default "+fmt.Sprintf("%q", outline.PlaceholderTitle)+")")
	return cmd
}

func newOutlineRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a section",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, app, mutate.Edit{Op: mutate.OpRename, ID: args[0], Title: strings.Join(args[1:], " ")})
		},
	}
}

func runEdit(cmd *cobra.Command, app *App, e mutate.Edit) error {
	id, err := resolveArticleID(app, nil)
	if err != nil {
		return writeErr(cmd, err)
	}
	svc, err := loadService(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	res, err := svc.Edit(cmd.Context(), id, e)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.logger().Debug("outline edit", "article", id, "op", e.Op, "changed", res.Changed)

	out := map[string]any{
		"changed": res.Changed,
		"outline": res.Article.Outline,
	}
	if res.NewID != "" {
		out["newId"] = res.NewID
	}
	return writeOut(cmd, app, map[string]any{"data": out})
}

func newOutlineImportMarkdownCmd(app *App) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "import-md [file|-]",
		Short: "Build an outline from markdown headings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readInput(cmd, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			res := mdimport.Import(b)
			out := map[string]any{"outline": res.Outline, "bodies": res.Bodies}
			if save {
				id, err := resolveArticleID(app, nil)
				if err != nil {
					return writeErr(cmd, err)
				}
				svc, err := loadService(app)
				if err != nil {
					return writeErr(cmd, err)
				}
				r, err := svc.ImportOutline(cmd.Context(), id, res.Outline, res.Bodies)
				if err != nil {
					return writeErr(cmd, err)
				}
				out["changed"] = r.Changed
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Replace the current article's outline and section bodies")
	return cmd
}
