// Package auth implementa la autoridad de sesión de ambos portales.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/dropDatabas3/tasktrack/internal/audit"
	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	"github.com/dropDatabas3/tasktrack/internal/metrics"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
	"github.com/dropDatabas3/tasktrack/internal/rate"
	"github.com/dropDatabas3/tasktrack/internal/security/password"
	tokens "github.com/dropDatabas3/tasktrack/internal/security/token"
)

// Service define las operaciones de sesión.
type Service interface {
	// Authenticate valida credenciales contra el portal pedido y emite un token.
	Authenticate(ctx context.Context, login, credential string, portal types.Portal) (*LoginResult, error)

	// Validate decodifica el token, verifica portal y edad, y resuelve el principal.
	Validate(ctx context.Context, token string, portal types.Portal) (repository.Principal, *tokens.Session, error)

	// Invalidate no tiene efecto del lado servidor (tokens sin estado); solo registra el logout.
	Invalidate(ctx context.Context, token string, portal types.Portal) error
}

// LoginResult es el resultado de un login exitoso.
type LoginResult struct {
	Session   *tokens.Session
	Principal repository.Principal
}

// Deps contiene las dependencias del service.
type Deps struct {
	Principals repository.PrincipalRepository
	Hasher     password.Hasher
	Issuer     *tokens.Issuer
	Limiter    rate.Limiter
	Policy     rate.Policy
	Audit      *audit.Recorder
}

type service struct {
	d Deps
	// hash contra el que se compara cuando el login no existe, para que
	// el tiempo de respuesta no delate si el usuario existe
	dummyHash string
}

// NewService crea el service de autenticación.
func NewService(d Deps) Service {
	if d.Policy.Max <= 0 || d.Policy.Window <= 0 {
		d.Policy = rate.DefaultLoginPolicy
	}
	if d.Hasher == nil {
		d.Hasher = password.Bcrypt{}
	}
	if d.Limiter == nil {
		d.Limiter = rate.NewMemoryLimiter()
	}
	dummy, _ := d.Hasher.Hash("tasktrack-dummy-credential")
	return &service{d: d, dummyHash: dummy}
}

func (s *service) Authenticate(ctx context.Context, login, credential string, portal types.Portal) (*LoginResult, error) {
	login = strings.TrimSpace(login)
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Authenticate"),
		logger.Portal(string(portal)),
	)

	if login == "" || credential == "" || !portal.IsValid() {
		return nil, ErrMissingFields
	}

	key := rate.LoginKey(string(portal), login)
	res, err := s.d.Limiter.CheckAndConsume(ctx, key, s.d.Policy.Max, s.d.Policy.Window)
	if err != nil {
		// si el limiter falla dejamos pasar el intento
		log.Warn("rate limiter unavailable", logger.Err(err))
	} else if !res.Allowed {
		s.d.Audit.Security(ctx, audit.EventRateLimitExceeded, map[string]any{"login": login, "portal": portal})
		metrics.LoginsTotal.WithLabelValues(string(portal), "rate_limited").Inc()
		return nil, &RateLimitedError{RetryAfter: res.RetryAfter}
	}

	p, err := s.d.Principals.FindByLogin(ctx, login)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		_ = s.d.Hasher.Verify(credential, s.dummyHash)
		s.fail(ctx, audit.EventAuthFailed, login, portal, map[string]any{"reason": "unknown_identifier"})
		return nil, ErrInvalidCredentials
	case err != nil:
		log.Error("principal lookup failed", logger.Err(err))
		metrics.LoginsTotal.WithLabelValues(string(portal), "error").Inc()
		return nil, err
	}

	rec := p.Record()
	if rec.CredentialHash == "" || !s.d.Hasher.Verify(credential, rec.CredentialHash) {
		s.fail(ctx, audit.EventAuthFailed, login, portal, map[string]any{"reason": "bad_credential"})
		return nil, ErrInvalidCredentials
	}
	if p.Portal() != portal {
		s.fail(ctx, audit.EventUnauthorizedAttempt, login, portal, map[string]any{
			"reason":   "wrong_portal",
			"userRole": rec.Role,
		})
		return nil, ErrInvalidCredentials
	}

	sess, err := s.d.Issuer.Mint(portal, p.PrincipalID())
	if err != nil {
		log.Error("mint session failed", logger.Err(err))
		return nil, err
	}

	if err := s.d.Limiter.Reset(ctx, key); err != nil {
		log.Warn("rate limiter reset failed", logger.Err(err))
	}

	ctx = audit.WithActor(ctx, audit.Actor{ID: p.PrincipalID(), Name: p.Name()})
	s.d.Audit.Security(ctx, audit.EventAuthSuccess, map[string]any{"userId": p.PrincipalID(), "login": login, "portal": portal})
	metrics.LoginsTotal.WithLabelValues(string(portal), "success").Inc()
	log.Info("login ok", logger.PrincipalID(p.PrincipalID()))

	return &LoginResult{Session: sess, Principal: p}, nil
}

func (s *service) fail(ctx context.Context, event, login string, portal types.Portal, extra map[string]any) {
	details := map[string]any{"login": login, "portal": portal}
	for k, v := range extra {
		details[k] = v
	}
	s.d.Audit.Security(ctx, event, details)
	metrics.LoginsTotal.WithLabelValues(string(portal), "invalid").Inc()
}

func (s *service) Validate(ctx context.Context, token string, portal types.Portal) (repository.Principal, *tokens.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil, ErrInvalidSession
	}

	sess, err := s.d.Issuer.Parse(token, portal)
	switch {
	case errors.Is(err, tokens.ErrWrongPortal):
		return nil, nil, ErrWrongPortal
	case errors.Is(err, tokens.ErrExpired):
		return nil, nil, ErrSessionExpired
	case err != nil:
		return nil, nil, ErrInvalidSession
	}

	p, err := s.d.Principals.GetByID(ctx, sess.PrincipalID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrInvalidSession
	}
	if err != nil {
		return nil, nil, err
	}
	// la clase del principal tiene que seguir coincidiendo con la del token
	if p.Portal() != sess.Portal {
		return nil, nil, ErrWrongPortal
	}
	return p, sess, nil
}

func (s *service) Invalidate(ctx context.Context, token string, portal types.Portal) error {
	p, _, err := s.Validate(ctx, token, portal)
	if err != nil {
		// logout siempre "funciona": el cliente descarta el token igual
		return nil
	}
	ctx = audit.WithActor(ctx, audit.Actor{ID: p.PrincipalID(), Name: p.Name()})
	s.d.Audit.Record(ctx, audit.ActionLogout, audit.EntityPrincipal, p.PrincipalID(), map[string]any{"portal": portal})
	return nil
}
