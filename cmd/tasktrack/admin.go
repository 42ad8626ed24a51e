package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/tasktrack/internal/audit"
	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	"github.com/dropDatabas3/tasktrack/internal/http/server"
	adminsvc "github.com/dropDatabas3/tasktrack/internal/http/services/admin"
	svccommon "github.com/dropDatabas3/tasktrack/internal/http/services/common"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

func newAdminCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Gestión de cuentas admin",
	}
	cmd.AddCommand(newAdminCreateCmd(load))
	return cmd
}

// newAdminCreateCmd crea una cuenta admin. Si todavía no hay admins, la
// nueva cuenta queda como admin primario.
func newAdminCreateCmd(load configLoader) *cobra.Command {
	var name, login, pass string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crea una cuenta admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pass == "" {
				pass = os.Getenv("TASKTRACK_ADMIN_PASSWORD")
			}
			if strings.TrimSpace(name) == "" || strings.TrimSpace(login) == "" || pass == "" {
				return errors.New("--name, --login y --password (o TASKTRACK_ADMIN_PASSWORD) son obligatorios")
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			ctx = audit.WithActor(ctx, audit.Actor{ID: "cli", Name: "tasktrack admin create"})

			app, err := server.Build(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			p, err := app.Services.Admin.Principals.Create(ctx, adminsvc.CreatePrincipal{
				DisplayName: name,
				Login:       &login,
				Password:    pass,
				Role:        types.RoleAdmin,
				IsAdmin:     true,
			})
			if err != nil {
				var weak *svccommon.WeakPasswordError
				if errors.As(err, &weak) {
					return fmt.Errorf("password rechazado: %s", strings.Join(weak.Reasons, ", "))
				}
				if errors.Is(err, repository.ErrConflict) {
					return fmt.Errorf("ya existe una cuenta con login %q", login)
				}
				return err
			}

			primary := ""
			if p.Record().IsPrimary {
				primary = " (primario)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin creado: %s %s%s\n", p.PrincipalID(), login, primary)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "nombre visible")
	cmd.Flags().StringVar(&login, "login", "", "login (email o usuario)")
	cmd.Flags().StringVar(&pass, "password", "", "contraseña (o TASKTRACK_ADMIN_PASSWORD)")
	return cmd
}
