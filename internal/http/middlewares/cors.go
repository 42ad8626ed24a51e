package middlewares

import (
	"net/http"

	"github.com/go-chi/cors"
)

// WithCORS habilita CORS para los orígenes de los dos portales.
// Sin orígenes configurados no agrega nada.
func WithCORS(allowedOrigins []string) Middleware {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "If-None-Match", "X-Request-ID"},
		ExposedHeaders:   []string{"ETag", "Retry-After", "X-Redirect-To", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
