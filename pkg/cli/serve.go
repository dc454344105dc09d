package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/cli/config"
	controller "github.com/m-mizutani/herald/pkg/controller/http"
	"github.com/m-mizutani/herald/pkg/infra/zulip"
	"github.com/m-mizutani/herald/pkg/usecase"
	"github.com/m-mizutani/herald/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		giteaCfg  config.Gitea
		zulipCfg  config.Zulip
	)

	flags := append(serverCfg.Flags(), giteaCfg.Flags()...)
	flags = append(flags, zulipCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting herald server",
				slog.String("addr", serverCfg.Addr),
				slog.String("zulip_url", zulipCfg.BaseURL),
				slog.String("zulip_stream", zulipCfg.Stream),
			)

			messenger, err := zulip.NewClient(
				zulipCfg.BaseURL,
				zulipCfg.Stream,
				zulipCfg.BotEmail,
				zulipCfg.BotAPIKey,
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create zulip client")
			}

			webhookUC := usecase.NewWebhook(messenger)

			server, err := controller.NewServer(
				ctx,
				webhookUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(giteaCfg.WebhookSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			async.Dispatch(ctx, func(ctx context.Context) error {
				ctxlog.From(ctx).Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return goerr.Wrap(err, "HTTP server error")
				}
				return nil
			})

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			sentry.Flush(2 * time.Second)
			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
