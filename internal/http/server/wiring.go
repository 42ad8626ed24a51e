// Package server arma el handler HTTP con todas sus dependencias y lo sirve.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/tasktrack/internal/audit"
	"github.com/dropDatabas3/tasktrack/internal/authz"
	"github.com/dropDatabas3/tasktrack/internal/cache"
	"github.com/dropDatabas3/tasktrack/internal/config"
	"github.com/dropDatabas3/tasktrack/internal/http/controllers"
	"github.com/dropDatabas3/tasktrack/internal/http/controllers/public"
	mw "github.com/dropDatabas3/tasktrack/internal/http/middlewares"
	"github.com/dropDatabas3/tasktrack/internal/http/router"
	"github.com/dropDatabas3/tasktrack/internal/http/services"
	"github.com/dropDatabas3/tasktrack/internal/http/services/health"
	"github.com/dropDatabas3/tasktrack/internal/metrics"
	"github.com/dropDatabas3/tasktrack/internal/notify"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
	"github.com/dropDatabas3/tasktrack/internal/propagation"
	"github.com/dropDatabas3/tasktrack/internal/rate"
	"github.com/dropDatabas3/tasktrack/internal/security/password"
	tokens "github.com/dropDatabas3/tasktrack/internal/security/token"
	"github.com/dropDatabas3/tasktrack/internal/store"
	migrations "github.com/dropDatabas3/tasktrack/migrations/postgres"

	// adapters registrados via init()
	_ "github.com/dropDatabas3/tasktrack/internal/store/adapters/memory"
	_ "github.com/dropDatabas3/tasktrack/internal/store/adapters/pg"
)

// App es el resultado del wiring: el handler listo para servir y las piezas
// que los comandos de CLI necesitan por fuera del router.
type App struct {
	Handler   http.Handler
	Store     store.AdapterConnection
	Services  *services.Services
	Workspace *propagation.Workspace

	cleanup []func() error
}

// Close libera recursos en orden inverso al de creación.
func (a *App) Close() error {
	var errs []error
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		if err := a.cleanup[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenStore abre la conexión configurada y, si corresponde, aplica las
// migraciones embebidas. Lo usan Build y el comando migrate.
func OpenStore(ctx context.Context, cfg *config.Config, migrate bool) (store.AdapterConnection, error) {
	conn, err := store.Open(ctx, store.AdapterConfig{
		Driver:       cfg.Storage.Driver,
		DSN:          cfg.Storage.DSN,
		MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Storage.Postgres.MaxIdleConns,
	})
	if err != nil {
		return nil, err
	}
	if !migrate {
		return conn, nil
	}
	if _, err := Migrate(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// Migrate aplica las migraciones pendientes. Conexiones sin schema SQL
// (memory) no hacen nada.
func Migrate(ctx context.Context, conn store.AdapterConnection) (*store.MigrationResult, error) {
	mc, ok := conn.(store.MigratableConnection)
	if !ok {
		return &store.MigrationResult{}, nil
	}
	res, err := store.NewMigrator(migrations.FS, migrations.Dir).Run(ctx, mc.GetMigrationExecutor())
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.From(ctx).Info("migrations applied",
		logger.Component("store"),
		logger.Int("applied", len(res.Applied)),
		logger.Int("skipped", len(res.Skipped)),
		logger.Duration(res.Duration),
	)
	return res, nil
}

// Build instancia todas las dependencias y devuelve la App. El Propagator
// arranca en background y se detiene en Close.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.From(ctx).With(logger.Component("wiring"))
	app := &App{}
	fail := func(err error) (*App, error) {
		_ = app.Close()
		return nil, err
	}

	// 1. Store
	conn, err := OpenStore(ctx, cfg, cfg.Flags.Migrate)
	if err != nil {
		return nil, err
	}
	app.Store = conn
	app.cleanup = append(app.cleanup, conn.Close)
	log.Info("store ready", logger.String("driver", conn.Name()))

	// 2. Redis compartido (cache, rate limiter, bus)
	var rdb redis.UniversalClient
	if cfg.UsesRedis() {
		rdb, err = cache.NewRedisClient(cache.Config{
			Driver:   "redis",
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
		if err != nil {
			return fail(fmt.Errorf("redis: %w", err))
		}
		app.cleanup = append(app.cleanup, rdb.Close)
	}

	var snapshots cache.Client
	if cfg.Cache.Kind == "redis" {
		snapshots = cache.NewRedis(rdb, cfg.Cache.Redis.Prefix)
	} else {
		snapshots = cache.NewMemory(cfg.Cache.Redis.Prefix)
		app.cleanup = append(app.cleanup, snapshots.Close)
	}

	var limiter rate.Limiter = rate.NewMemoryLimiter()
	if cfg.Rate.Backend == "redis" {
		limiter = rate.NewRedisLimiter(rdb, cfg.Cache.Redis.Prefix)
	}

	var bus propagation.Bus
	if cfg.Propagation.Bus == "redis" {
		bus = propagation.NewRedisBus(rdb, cfg.Cache.Redis.Prefix)
	} else {
		bus = propagation.NewMemoryBus()
	}
	app.cleanup = append(app.cleanup, bus.Close)

	// 3. Vistas cacheadas + propagación
	view := propagation.NewCachedView(propagation.TopicActiveGroup, propagation.LoadActiveGroup(conn.Groups()))
	if err := view.Refresh(ctx); err != nil {
		log.Warn("initial active group load failed", logger.Err(err))
	}
	ws := propagation.NewWorkspace(view)
	ws.OnTransition(func(blocked bool) {
		logger.L().Info("client workspace transition",
			logger.Component("workspace"),
			logger.Bool("blocked", blocked),
		)
	})
	app.Workspace = ws

	prop := propagation.New(bus, cfg.Propagation.PollInterval)
	prop.Register(propagation.TopicActiveGroup, view)

	runCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := prop.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.L().Error("propagator stopped", logger.Err(err))
		}
	}()
	app.cleanup = append(app.cleanup, func() error {
		stop()
		<-done
		return nil
	})

	hub := notify.NewHub()

	// 4. Seguridad
	enforcer, err := authz.New()
	if err != nil {
		return fail(fmt.Errorf("authz: %w", err))
	}
	issuer, err := tokens.NewIssuer([]byte(cfg.Session.SigningSecret),
		tokens.WithTTL(cfg.Session.TTL),
		tokens.WithIssuer(cfg.Session.Issuer),
	)
	if err != nil {
		return fail(fmt.Errorf("session issuer: %w", err))
	}
	pp := cfg.Security.PasswordPolicy
	recorder := audit.New(conn.Audit())

	// 5. Services
	svcs := services.New(services.Deps{
		Store:   conn,
		Audit:   recorder,
		Issuer:  issuer,
		Limiter: limiter,
		Hasher:  password.NewHasher(cfg.Security.PasswordHash, cfg.Security.BcryptCost),
		PasswordPolicy: password.Policy{
			MinLength:     pp.MinLength,
			RequireUpper:  pp.RequireUpper,
			RequireLower:  pp.RequireLower,
			RequireDigit:  pp.RequireDigit,
			RequireSymbol: pp.RequireSymbol,
		},
		LoginPolicy: rate.Policy{Max: cfg.Rate.Login.Limit, Window: cfg.Rate.Login.Window},
		Publisher:   prop,
		Notifier:    hub,
		Health: health.Deps{
			DBCheck:        conn.Ping,
			CacheCheck:     snapshots.Ping,
			WorkspaceCheck: ws.Blocked,
		},
	})
	app.Services = svcs

	// 6. Métricas
	if err := metrics.RegisterDomain(prometheus.DefaultRegisterer); err != nil {
		return fail(fmt.Errorf("metrics: %w", err))
	}
	if err := mw.RegisterHTTPMetrics(prometheus.DefaultRegisterer); err != nil {
		return fail(fmt.Errorf("metrics: %w", err))
	}

	// 7. Controllers + router
	ctrls := controllers.New(svcs, controllers.Deps{
		Workspace: ws,
		Public: public.Deps{
			View:        view,
			Cache:       snapshots,
			Hub:         hub,
			SnapshotTTL: cfg.Cache.SnapshotTTL,
		},
	})

	throttle := mw.ThrottleConfig{}
	if cfg.Rate.API.Enabled {
		throttle = mw.ThrottleConfig{
			RequestsPerSecond: cfg.Rate.API.RPS,
			Burst:             cfg.Rate.API.Burst,
			IdleTTL:           10 * time.Minute,
			TrustForwardedFor: cfg.Server.TrustProxy,
		}
	}

	app.Handler = router.New(router.Deps{
		Controllers: ctrls,
		Sessions:    svcs.Auth,
		Authorizer:  enforcer,
		Workspace:   ws,
		Audit:       recorder,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
		Throttle:    throttle,
		Metrics:     promhttp.Handler(),
	})

	log.Info("wiring complete",
		logger.String("cache", cfg.Cache.Kind),
		logger.String("rate_backend", cfg.Rate.Backend),
		logger.String("bus", cfg.Propagation.Bus),
		logger.Duration(prop.Interval()),
	)
	return app, nil
}
