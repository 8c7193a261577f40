package cli

import (
	"github.com/spf13/cobra"

	"outliner-cli/internal/gitrepo"
	"outliner-cli/internal/model"
	"outliner-cli/internal/publish"
)

func newPublishCmd(app *App) *cobra.Command {
	var (
		toDir         string
		overwrite     bool
		omitMeta      bool
		omitContent   bool
		markPublished bool
		commit        bool
		message       string
	)

	cmd := &cobra.Command{
		Use:   "publish [article-id]",
		Short: "Export an article as Markdown (derived, not canonical)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveArticleID(app, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			svc, err := loadService(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			a, err := svc.Store.LoadArticle(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.WriteArticle(*a, toDir, publish.WriteOptions{
				Overwrite: overwrite,
				Render:    publish.RenderOptions{OmitMeta: omitMeta, OmitContent: omitContent},
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("published", "article", a.ID, "files", res.Written)
			if markPublished {
				if _, err := svc.SetStatus(cmd.Context(), a.ID, string(model.ArticleStatusPublished)); err != nil {
					return writeErr(cmd, err)
				}
			}
			out := map[string]any{"written": res.Written}
			if commit {
				msg := message
				if msg == "" {
					msg = "Publish: " + a.Title()
				}
				cr, err := gitrepo.CommitFiles(cmd.Context(), res.Written, msg)
				if err != nil {
					return writeErr(cmd, err)
				}
				out["git"] = cr
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&toDir, "to", "", "Output directory (required)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&omitMeta, "no-meta", false, "Leave out the theme/status block")
	cmd.Flags().BoolVar(&omitContent, "no-content", false, "Leave out the generated article text")
	cmd.Flags().BoolVar(&markPublished, "mark-published", false, "Set the article status to published")
	cmd.Flags().BoolVar(&commit, "commit", false, "git commit the written file (the output dir must be in a repo)")
	cmd.Flags().StringVar(&message, "message", "", "Commit message (default \"Publish: <title>\")")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
