package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"outliner-cli/internal/articles"
	"outliner-cli/internal/format"
	"outliner-cli/internal/generate"
	"outliner-cli/internal/store"
)

type App struct {
	Dir        string
	ArticleID  string
	PrettyJSON bool
	Format     string
	Verbose    bool

	log *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "outliner",
		Short:        "Outline editor for generated blog articles (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Create an article and make it current
  outliner articles create --theme "Home gardening" --use

  # Generate an outline, then edit it interactively
  outliner generate outline --heading "Grow tomatoes on a balcony" --save
  outliner edit

  # Scriptable edits
  outliner outline show --text
  outliner outline indent item-3

  # Direct article lookup (shortcut for: outliner articles show <article-id>)
  outliner art-x7k2p9qa
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand with a current article => interactive editor.
			if len(args) == 0 {
				if id, err := resolveArticleID(app, nil); err == nil && id != "" {
					return runEditor(cmd, app, id)
				}
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if app.Verbose {
			level = slog.LevelDebug
		}
		app.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("OUTLINER_DIR", ""), "Path to store dir (default ~/.outliner)")
	cmd.PersistentFlags().StringVar(&app.ArticleID, "article", envOr("OUTLINER_ARTICLE", ""), "Article id (overrides currentArticleId in config.json)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("OUTLINER_FORMAT", "json"), "Output format ("+strings.Join(format.Formats, "|")+")")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Debug logging to stderr")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newArticlesCmd(app))
	cmd.AddCommand(newOutlineCmd(app))
	cmd.AddCommand(newGenerateCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newPreviewCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newEventsCmd(app))

	return cmd
}

func loadStore(app *App) (store.Store, error) {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}
	return store.Store{Dir: dir}, nil
}

func loadService(app *App) (*articles.Service, error) {
	st, err := loadStore(app)
	if err != nil {
		return nil, err
	}
	return articles.New(st), nil
}

var errNoArticle = errors.New("no article selected (pass an id, use --article, or run `outliner articles use <id>`)")

// resolveArticleID picks args[0], then --article, then currentArticleId.
func resolveArticleID(app *App, args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	if id := strings.TrimSpace(app.ArticleID); id != "" {
		return id, nil
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return "", err
	}
	if id := strings.TrimSpace(cfg.CurrentArticleID); id != "" {
		return id, nil
	}
	return "", errNoArticle
}

// newGenerator builds a client from config.json plus environment overrides.
func newGenerator(app *App) (*generate.Client, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	g := cfg.Generator.WithDefaults()
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return generate.NewClient(g, generate.WithLogger(app.logger())), nil
}

func (app *App) logger() *slog.Logger {
	if app.log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return app.log
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
