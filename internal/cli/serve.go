package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"outliner-cli/internal/web"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		addr  string
		token string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the articles HTTP API",
		Long: `Serve the articles HTTP API (JSON) on --addr.

Generation endpoints answer 503 when no API key is configured. When
--token (or OUTLINER_SERVER_TOKEN) is set, /api routes require it as a
Bearer token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewJSONHandler(cmd.OutOrStdout(), nil))
			app.log = log

			svc, err := loadService(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := svc.Store.Init(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}

			var gen web.Generator
			if c, err := newGenerator(app); err != nil {
				log.Warn("generation disabled", "error", err)
			} else {
				gen = c
				defer c.Close()
			}

			httpServer := &http.Server{
				Addr:         addr,
				Handler:      web.NewServer(svc, gen, log, web.Options{Token: token}),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 180 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("starting outliner api", "addr", addr, "dir", svc.Store.Dir, "auth", token != "")
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return writeErr(cmd, err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", envOr("OUTLINER_ADDR", "127.0.0.1:8080"), "Listen address")
	cmd.Flags().StringVar(&token, "token", envOr("OUTLINER_SERVER_TOKEN", ""), "Bearer token for /api routes")
	return cmd
}
