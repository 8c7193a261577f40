package cli

import (
	"context"

	"github.com/spf13/cobra"

	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
	"outliner-cli/internal/tui"
)

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [article-id]",
		Short: "Edit an article's outline interactively (TUI)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveArticleID(app, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			return runEditor(cmd, app, id)
		},
	}
}

func runEditor(cmd *cobra.Command, app *App, id string) error {
	svc, err := loadService(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	a, err := svc.Store.LoadArticle(cmd.Context(), id)
	if err != nil {
		return writeErr(cmd, err)
	}
	sess := outline.NewSession(a.Outline)
	sess.SetCollapsed(a.Collapsed)

	opt := tui.Options{
		Title: a.Title(),
		Save: func(s *outline.Session) error {
			// The program may outlive cmd's context on quit; saves must still land.
			_, err := svc.SaveSession(context.WithoutCancel(cmd.Context()), a.ID, s)
			return err
		},
	}
	if cfg, err := store.LoadConfig(); err == nil && cfg.TUI != nil {
		opt.Glyphs = cfg.TUI.Glyphs
		opt.MarkdownStyle = cfg.TUI.MarkdownStyle
	}
	app.logger().Debug("opening editor", "article", a.ID, "sections", sess.Len())
	if err := tui.RunEditor(sess, opt); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}
