// Package auth contiene los controllers de sesión (login, logout, me) de ambos portales.
package auth

import svc "github.com/dropDatabas3/tasktrack/internal/http/services/auth"

// Controllers agrupa los controllers del dominio auth.
type Controllers struct {
	Session *SessionController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s svc.Service) *Controllers {
	return &Controllers{Session: NewSessionController(s)}
}
