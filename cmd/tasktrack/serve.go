package main

import (
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/tasktrack/internal/config"
	"github.com/dropDatabas3/tasktrack/internal/http/server"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

type configLoader func() (*config.Config, error)

func newServeCmd(load configLoader) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx := cmd.Context()
			app, err := server.Build(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					logger.L().Warn("cleanup failed", logger.Err(err))
				}
			}()

			if cfg.Storage.Driver == "memory" {
				logger.L().Warn("storage driver is memory: data is lost on restart")
			}
			return server.Serve(ctx, server.New(cfg.Server.Addr, app.Handler))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "dirección de escucha (pisa server.addr)")
	return cmd
}
