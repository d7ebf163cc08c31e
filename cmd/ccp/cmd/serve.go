package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/ccp/foundation/core/log"
	"github.com/msto63/ccp/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP/WebSocket checking service",
		Long: `Start an HTTP server that checks programs.

Endpoints:
  POST /api/v1/check      {"source": "..."} -> report
  POST /api/v1/tokens     {"source": "..."} -> token listing
  GET  /api/v1/check/ws   WebSocket, {"type": "check", "payload": {"source": "..."}}
  GET  /api/v1/health     health report
  GET  /api/v1/runs       recent runs (journal enabled)
  GET  /api/v1/runs/{id}  one run
  GET  /api/v1/stats      runs per outcome`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openJournal()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			cfg := server.Config{
				Host:         a.cfg.Server.Host,
				Port:         a.cfg.Server.Port,
				ReadTimeout:  a.cfg.Server.ReadTimeout.Duration,
				WriteTimeout: a.cfg.Server.WriteTimeout.Duration,
				ShowTokens:   a.cfg.Output.ShowTokens,
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			checker := a.checker(true)
			defer checker.Close()

			srv := server.New(cfg, checker, store, a.logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "ccp server listening on http://%s\n", srv.Address())

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("Shutdown signal received, stopping server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				a.logger.ErrorWithErr("Error during shutdown", err, mdwlog.Fields{"address": srv.Address()})
				return err
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	return cmd
}
