package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
)

func newArticlesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "articles",
		Aliases: []string{"article"},
		Short:   "Manage articles",
	}
	cmd.AddCommand(newArticlesCreateCmd(app))
	cmd.AddCommand(newArticlesListCmd(app))
	cmd.AddCommand(newArticlesShowCmd(app))
	cmd.AddCommand(newArticlesUseCmd(app))
	cmd.AddCommand(newArticlesHeadingCmd(app))
	cmd.AddCommand(newArticlesStatusCmd(app))
	cmd.AddCommand(newArticlesDeleteCmd(app))
	return cmd
}

func newArticlesCreateCmd(app *App) *cobra.Command {
	var (
		theme   string
		heading string
		use     bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an article (draft)",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			a, err := svc.Create(cmd.Context(), theme, heading)
			if err != nil {
				return writeErr(cmd, err)
			}
			if use {
				if err := setCurrentArticle(a.ID); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": a})
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "Article theme (required)")
	cmd.Flags().StringVar(&heading, "heading", "", "Chosen heading")
	cmd.Flags().BoolVar(&use, "use", false, "Make it the current article")
	_ = cmd.MarkFlagRequired("theme")
	return cmd
}

func newArticlesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List articles (most recently updated first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			list, err := s.ListArticles(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": list})
		},
	}
}

func newArticlesShowCmd(app *App) *cobra.Command {
	var tree bool
	cmd := &cobra.Command{
		Use:   "show [article-id]",
		Short: "Show an article",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveArticleID(app, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			a, err := s.LoadArticle(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !tree {
				return writeOut(cmd, app, map[string]any{"data": a})
			}
			sess := outline.NewSession(a.Outline)
			sess.SetCollapsed(a.Collapsed)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"article": a, "tree": sess.Tree()}})
		},
	}
	cmd.Flags().BoolVar(&tree, "tree", false, "Include the nested outline")
	return cmd
}

func newArticlesUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <article-id>",
		Short: "Set the current article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			a, err := s.LoadArticle(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := setCurrentArticle(a.ID); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"currentArticleId": a.ID, "title": a.Title()}})
		},
	}
}

func newArticlesHeadingCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "heading <heading>",
		Short: "Set the current article's heading",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveArticleID(app, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			svc, err := loadService(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := svc.SetHeading(cmd.Context(), id, strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"changed": res.Changed, "heading": res.Article.Heading}})
		},
	}
}

func newArticlesStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <draft|published>",
		Short: "Set the current article's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveArticleID(app, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			svc, err := loadService(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := svc.SetStatus(cmd.Context(), id, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"changed": res.Changed, "status": res.Article.Status}})
		},
	}
}

func newArticlesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <article-id>",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if err := svc.Delete(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			// Don't leave config pointing at a deleted article.
			if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentArticleID == id {
				cfg.CurrentArticleID = ""
				_ = store.SaveConfig(cfg)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
}

func setCurrentArticle(id string) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	cfg.CurrentArticleID = id
	return store.SaveConfig(cfg)
}
