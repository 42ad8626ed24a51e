package auth

import (
	"net/http"

	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	"github.com/dropDatabas3/tasktrack/internal/http/controllers/common"
	dto "github.com/dropDatabas3/tasktrack/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/tasktrack/internal/http/errors"
	"github.com/dropDatabas3/tasktrack/internal/http/helpers"
	mw "github.com/dropDatabas3/tasktrack/internal/http/middlewares"
	svc "github.com/dropDatabas3/tasktrack/internal/http/services/auth"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

// SessionController maneja /v1/{portal}/login, /logout y /me.
type SessionController struct {
	service svc.Service
}

func NewSessionController(service svc.Service) *SessionController {
	return &SessionController{service: service}
}

// Login devuelve el handler de POST /v1/{portal}/login para un portal fijo.
// Cada portal tiene su propio entry point; el portal nunca viene del body.
func (c *SessionController) Login(portal types.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.From(ctx).With(
			logger.Layer("controller"),
			logger.Op("SessionController.Login"),
			logger.Portal(string(portal)),
		)

		var req dto.LoginRequest
		if !helpers.ReadJSON(w, r, &req) {
			return
		}

		res, err := c.service.Authenticate(ctx, req.Login, req.Password, portal)
		if err != nil {
			if common.IsServerError(err) {
				log.Error("login failed", logger.Err(err))
			}
			common.WriteError(w, err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		helpers.WriteJSON(w, http.StatusOK, dto.LoginResponse{
			AccessToken: res.Session.Token,
			TokenType:   "Bearer",
			ExpiresAt:   res.Session.ExpiresAt,
			Portal:      portal,
			Principal:   common.ToPrincipalSummary(res.Principal),
		})
	}
}

// Logout maneja POST /v1/{portal}/logout. Siempre responde 204: un token
// inválido no tiene nada que cerrar.
func (c *SessionController) Logout(portal types.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = c.service.Invalidate(r.Context(), mw.BearerToken(r), portal)
		w.WriteHeader(http.StatusNoContent)
	}
}

// Me maneja GET /v1/{portal}/me (detrás de RequirePortal).
func (c *SessionController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := mw.GetPrincipal(ctx)
	sess := mw.GetSession(ctx)
	if p == nil || sess == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.MeResponse{
		Principal: common.ToPrincipalSummary(p),
		Portal:    sess.Portal,
		ExpiresAt: sess.ExpiresAt,
	})
}
