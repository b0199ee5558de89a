package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows every origin when allowAll is set and is a no-op otherwise.
func CORS(allowAll bool) func(http.Handler) http.Handler {
	if !allowAll {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
