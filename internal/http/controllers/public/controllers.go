// Package public contiene endpoints sin autenticación de portal: el snapshot
// del grupo activo para pollers y el stream de notificaciones.
package public

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/tasktrack/internal/cache"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	httperrors "github.com/dropDatabas3/tasktrack/internal/http/errors"
	"github.com/dropDatabas3/tasktrack/internal/http/helpers"
	"github.com/dropDatabas3/tasktrack/internal/notify"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
	"github.com/dropDatabas3/tasktrack/internal/propagation"
)

// snapshotKey es la key del snapshot serializado en la cache compartida.
const snapshotKey = "snapshot:" + propagation.TopicActiveGroup

// DefaultSnapshotTTL acota cuánto puede servirse un snapshot sin pasar por la vista.
const DefaultSnapshotTTL = 2 * time.Second

// Controllers agrupa los controllers públicos.
type Controllers struct {
	ActiveGroup   *ActiveGroupController
	Notifications *NotificationsController
}

// Deps de los controllers públicos. Cache y Hub son opcionales.
type Deps struct {
	View  *propagation.CachedView[propagation.ActiveGroup]
	Cache cache.Client
	Hub   *notify.Hub

	// SnapshotTTL <= 0 usa DefaultSnapshotTTL.
	SnapshotTTL time.Duration
}

func NewControllers(d Deps) *Controllers {
	return &Controllers{
		ActiveGroup:   NewActiveGroupController(d.View, d.Cache, d.SnapshotTTL),
		Notifications: NewNotificationsController(d.Hub),
	}
}

// ActiveGroupController maneja GET /v1/public/active-group.
type ActiveGroupController struct {
	view  *propagation.CachedView[propagation.ActiveGroup]
	cache cache.Client
	ttl   time.Duration
}

// NewActiveGroupController engancha la invalidación de cache a la vista: cada
// cambio aplicado reemplaza el snapshot cacheado.
func NewActiveGroupController(view *propagation.CachedView[propagation.ActiveGroup], c cache.Client, ttl time.Duration) *ActiveGroupController {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	ctrl := &ActiveGroupController{view: view, cache: c, ttl: ttl}
	if c != nil && view != nil {
		view.OnChange(func(propagation.ActiveGroup) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if raw := view.Raw(); raw != nil {
				_ = c.Set(ctx, snapshotKey, raw, ctrl.ttl)
			}
		})
	}
	return ctrl
}

func (c *ActiveGroupController) snapshot(ctx context.Context) ([]byte, error) {
	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, snapshotKey); err == nil {
			return raw, nil
		} else if !cache.IsNotFound(err) {
			logger.From(ctx).Warn("snapshot cache read failed", logger.Err(err))
		}
	}
	raw := c.view.Raw()
	if raw == nil {
		if err := c.view.Refresh(ctx); err != nil {
			return nil, err
		}
		raw = c.view.Raw()
	}
	if c.cache != nil && raw != nil {
		if err := c.cache.Set(ctx, snapshotKey, raw, c.ttl); err != nil {
			logger.From(ctx).Warn("snapshot cache write failed", logger.Err(err))
		}
	}
	return raw, nil
}

// Get responde el snapshot con ETag; If-None-Match igual devuelve 304.
func (c *ActiveGroupController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw, err := c.snapshot(ctx)
	if err != nil {
		logger.From(ctx).Error("active group snapshot failed",
			logger.Layer("controller"),
			logger.Op("ActiveGroupController.Get"),
			logger.Err(err),
		)
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable)
		return
	}

	etag := helpers.ETag(raw)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if helpers.NotModified(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// NotificationsController maneja GET /v1/{portal}/notifications (SSE).
type NotificationsController struct {
	hub *notify.Hub
}

func NewNotificationsController(hub *notify.Hub) *NotificationsController {
	return &NotificationsController{hub: hub}
}

// Stream devuelve el handler SSE para un portal.
func (c *NotificationsController) Stream(portal types.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c.hub == nil {
			httperrors.WriteError(w, httperrors.ErrServiceUnavailable)
			return
		}
		c.hub.ServeSSE(w, r, string(portal))
	}
}
