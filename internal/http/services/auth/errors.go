package auth

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidCredentials cubre usuario inexistente, contraseña incorrecta
	// y portal equivocado. La razón concreta solo va al log de seguridad.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingFields      = errors.New("login and credential are required")
	ErrRateLimited        = errors.New("too many login attempts")

	ErrInvalidSession = errors.New("invalid session")
	ErrWrongPortal    = errors.New("session belongs to another portal")
	ErrSessionExpired = errors.New("session expired")
)

// RateLimitedError lleva el tiempo restante hasta que se reabra la ventana.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: retry after %s", ErrRateLimited, e.RetryAfter)
}

func (e *RateLimitedError) Is(target error) bool { return target == ErrRateLimited }
