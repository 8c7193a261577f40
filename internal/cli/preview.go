package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"outliner-cli/internal/publish"
	"outliner-cli/internal/store"
	"outliner-cli/internal/tui"
)

func newPreviewCmd(app *App) *cobra.Command {
	var (
		width       int
		style       string
		raw         bool
		outlineOnly bool
	)
	cmd := &cobra.Command{
		Use:   "preview [article-id]",
		Short: "Render an article (or just its outline) as Markdown in the terminal",
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

			md := publish.RenderArticleMarkdown(*a, publish.RenderOptions{})
			if outlineOnly {
				md = publish.RenderOutlineMarkdown(a.Outline)
			}
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			if style == "" {
				if cfg, err := store.LoadConfig(); err == nil && cfg.TUI != nil {
					style = cfg.TUI.MarkdownStyle
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tui.RenderMarkdown(md, width, style))
			return err
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width")
	cmd.Flags().StringVar(&style, "style", "", "glamour style (dark|light|notty)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown source")
	cmd.Flags().BoolVar(&outlineOnly, "outline", false, "Only the outline")
	return cmd
}
