package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"outliner-cli/internal/model"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
)

func newGenerateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate headings, outlines and article text",
		Long: strings.TrimSpace(`
Generation calls an OpenAI-compatible chat-completions endpoint.

Environment:
  OUTLINER_API_KEY (or DEEPSEEK_API_KEY)  required
  OUTLINER_BASE_URL                       default ` + store.DefaultBaseURL + `
  OUTLINER_MODEL                          default ` + store.DefaultModel + `
  OUTLINER_TEMPERATURE                    default 0.7
`),
	}
	cmd.AddCommand(newGenerateHeadingsCmd(app))
	cmd.AddCommand(newGenerateOutlineCmd(app))
	cmd.AddCommand(newGenerateContentCmd(app))
	return cmd
}

// loadCurrentArticle returns the selected article, or nil when none is
// selected and optional is true.
func loadCurrentArticle(cmd *cobra.Command, app *App, optional bool) (*model.Article, error) {
	id, err := resolveArticleID(app, nil)
	if err != nil {
		if optional && errors.Is(err, errNoArticle) {
			return nil, nil
		}
		return nil, err
	}
	s, err := loadStore(app)
	if err != nil {
		return nil, err
	}
	return s.LoadArticle(cmd.Context(), id)
}

func newGenerateHeadingsCmd(app *App) *cobra.Command {
	var (
		theme string
		count int
		pick  int
	)
	cmd := &cobra.Command{
		Use:   "headings",
		Short: "Propose heading candidates for a theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			var a *model.Article
			if strings.TrimSpace(theme) == "" || pick > 0 {
				var err error
				a, err = loadCurrentArticle(cmd, app, pick == 0)
				if err != nil {
					return writeErr(cmd, err)
				}
				if a != nil && strings.TrimSpace(theme) == "" {
					theme = a.Theme
				}
			}
			gen, err := newGenerator(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			candidates, err := gen.Headings(cmd.Context(), theme, count)
			if err != nil {
				return writeErr(cmd, err)
			}
			set := model.HeadingSet{Theme: strings.TrimSpace(theme), Candidates: candidates, CreatedAt: time.Now().UTC()}
			out := map[string]any{"headings": set}

			if pick > 0 {
				if pick > len(candidates) {
					return writeErr(cmd, fmt.Errorf("--pick %d out of range (got %d candidates)", pick, len(candidates)))
				}
				svc, err := loadService(app)
				if err != nil {
					return writeErr(cmd, err)
				}
				res, err := svc.SetHeading(cmd.Context(), a.ID, candidates[pick-1])
				if err != nil {
					return writeErr(cmd, err)
				}
				out["heading"] = res.Article.Heading
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "Theme (default: the current article's)")
	cmd.Flags().IntVar(&count, "count", 0, "Number of candidates (default 5)")
	cmd.Flags().IntVar(&pick, "pick", 0, "Set the current article's heading to candidate N (1-based)")
	return cmd
}

func newGenerateOutlineCmd(app *App) *cobra.Command {
	var (
		heading string
		save    bool
	)
	cmd := &cobra.Command{
		Use:   "outline",
		Short: "Generate an outline for the current article",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadCurrentArticle(cmd, app, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			gen, err := newGenerator(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			svc, err := loadService(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if h := strings.TrimSpace(heading); h != "" && h != a.Heading {
				if !save {
					a.Heading = h
				} else {
					res, err := svc.SetHeading(cmd.Context(), a.ID, h)
					if err != nil {
						return writeErr(cmd, err)
					}
					*a = res.Article
				}
			}
			tree, err := gen.Outline(cmd.Context(), a.Theme, a.Heading)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := parsedPayload(tree)
			if save {
				res, err := svc.ReplaceOutline(cmd.Context(), a.ID, tree)
				if err != nil {
					return writeErr(cmd, err)
				}
				out["changed"] = res.Changed
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().StringVar(&heading, "heading", "", "Heading to outline (default: the current article's)")
	cmd.Flags().BoolVar(&save, "save", false, "Replace the current article's outline (and heading)")
	return cmd
}

func newGenerateContentCmd(app *App) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Write the article text from the current outline",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadCurrentArticle(cmd, app, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			gen, err := newGenerator(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			text, err := gen.Content(cmd.Context(), a.Theme, a.Heading, outline.FlatToTree(a.Outline))
			if err != nil {
				return writeErr(cmd, err)
			}
			out := map[string]any{"content": text}
			if save {
				svc, err := loadService(app)
				if err != nil {
					return writeErr(cmd, err)
				}
				res, err := svc.SetContent(cmd.Context(), a.ID, text)
				if err != nil {
					return writeErr(cmd, err)
				}
				out["changed"] = res.Changed
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Store the text on the current article")
	return cmd
}
