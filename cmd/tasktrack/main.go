// Command tasktrack sirve la API de los portales admin y cliente.
//
//	tasktrack serve                 levanta el servidor HTTP
//	tasktrack migrate               aplica las migraciones SQL pendientes
//	tasktrack admin create ...      crea un admin (el primero queda como primario)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/tasktrack/internal/config"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		envFile    string
	)
	root := &cobra.Command{
		Use:           "tasktrack",
		Short:         "Task tracker con portal admin y portal cliente",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("TASKTRACK_CONFIG"), "ruta al config.yaml (opcional)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "archivo .env a cargar si existe")

	load := func() (*config.Config, error) {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logger.Init(logger.Config{
			Env:         cfg.Log.Env,
			Level:       cfg.Log.Level,
			ServiceName: "tasktrack",
		})
		return cfg, nil
	}

	root.AddCommand(
		newServeCmd(load),
		newMigrateCmd(load),
		newAdminCmd(load),
	)
	return root
}
