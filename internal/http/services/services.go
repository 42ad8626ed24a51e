// Package services es el composition root de los services HTTP.
//
// Cada dominio (auth, admin, client, health) tiene su sub-paquete con su
// propio Deps; acá solo se reparte la infraestructura común.
package services

import (
	"time"

	"github.com/dropDatabas3/tasktrack/internal/audit"
	"github.com/dropDatabas3/tasktrack/internal/http/services/admin"
	"github.com/dropDatabas3/tasktrack/internal/http/services/auth"
	"github.com/dropDatabas3/tasktrack/internal/http/services/client"
	"github.com/dropDatabas3/tasktrack/internal/http/services/health"
	"github.com/dropDatabas3/tasktrack/internal/notify"
	"github.com/dropDatabas3/tasktrack/internal/rate"
	"github.com/dropDatabas3/tasktrack/internal/security/password"
	tokens "github.com/dropDatabas3/tasktrack/internal/security/token"
	"github.com/dropDatabas3/tasktrack/internal/store"
)

// Deps contiene las dependencias base para crear los services.
type Deps struct {
	// ─── Infraestructura ───
	Store   store.AdapterConnection
	Audit   *audit.Recorder
	Issuer  *tokens.Issuer
	Limiter rate.Limiter

	// ─── Seguridad ───
	Hasher         password.Hasher
	PasswordPolicy password.Policy
	LoginPolicy    rate.Policy

	// ─── Propagación ───
	Publisher admin.SnapshotPublisher
	Notifier  *notify.Hub

	Health health.Deps
	Now    func() time.Time
}

// Services agrupa los services por dominio.
type Services struct {
	Auth   auth.Service
	Admin  admin.Services
	Client client.Service
	Health health.Service
}

// New crea todos los services. Es el único lugar donde se instancian.
func New(d Deps) *Services {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Services{
		Auth: auth.NewService(auth.Deps{
			Principals: d.Store.Principals(),
			Hasher:     d.Hasher,
			Issuer:     d.Issuer,
			Limiter:    d.Limiter,
			Policy:     d.LoginPolicy,
			Audit:      d.Audit,
		}),
		Admin: admin.NewServices(admin.Deps{
			Principals:     d.Store.Principals(),
			Groups:         d.Store.Groups(),
			Tasks:          d.Store.Tasks(),
			Audit:          d.Audit,
			Hasher:         d.Hasher,
			PasswordPolicy: d.PasswordPolicy,
			Publisher:      d.Publisher,
			Notifier:       d.Notifier,
			Now:            d.Now,
		}),
		Client: client.NewService(client.Deps{
			Principals: d.Store.Principals(),
			Groups:     d.Store.Groups(),
			Tasks:      d.Store.Tasks(),
			Audit:      d.Audit,
			Now:        d.Now,
		}),
		Health: health.NewService(d.Health),
	}
}
