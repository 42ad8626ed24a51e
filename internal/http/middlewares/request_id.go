package middlewares

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

// ids entrantes aceptados tal cual; cualquier otra cosa se reemplaza
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// WithRequestID reutiliza X-Request-ID si es válido o genera uno nuevo.
// Siempre lo devuelve en la respuesta.
func WithRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get("X-Request-ID")
			if !validRequestID.MatchString(rid) {
				rid = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", rid)
			next.ServeHTTP(w, r.WithContext(setRequestID(r.Context(), rid)))
		})
	}
}
