package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"samecast/internal/httpapi"
	"samecast/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and image proxy",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx.stderrLogging = true
			a, err := ctx.services()
			if err != nil {
				return err
			}
			if bind != "" {
				a.cfg.Server.Bind = bind
			}

			server, err := httpapi.New(a.cfg, httpapi.Dependencies{
				Titles:   a.catalog,
				Comparer: a.engine,
				Records:  a.store,
				Images:   a.images,
			}, a.logger)
			if err != nil {
				return fmt.Errorf("build api server: %w", err)
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			a.logger.Info("samecast starting",
				logging.String("database", a.store.Path()),
				logging.String("image_cache", a.cfg.Paths.ImageCacheDir),
			)
			return server.Run(signalCtx, func(addr string) {
				fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", addr)
			})
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override the configured bind address (host:port)")
	return cmd
}
