package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"outliner-cli/internal/outline"
)

const watchDebounce = 150 * time.Millisecond

func newOutlineWatchCmd(app *App) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-parse an outline file whenever it changes (one JSON document per change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			err := watchFile(ctx, args[0], watchDebounce, func(tree []outline.Node) error {
				out := parsedPayload(tree)
				if save {
					changed, err := saveParsed(cmd, app, tree)
					if err != nil {
						return err
					}
					out["changed"] = changed
				}
				return writeOut(cmd, app, map[string]any{"data": out})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Replace the current article's outline on every change")
	return cmd
}

// watchFile calls onChange with the parsed file once at start and again after
// each burst of writes settles. It returns nil when ctx is done.
//
// The parent directory is watched rather than the file so editors that save by
// rename are still seen.
func watchFile(ctx context.Context, path string, debounce time.Duration, onChange func([]outline.Node) error) error {
	path = filepath.Clean(path)
	emit := func() error {
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return onChange(outline.Parse(string(b)))
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	// Watch first so a write racing the initial parse is not lost.
	if err := emit(); err != nil {
		return err
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			if err := emit(); err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return err
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
