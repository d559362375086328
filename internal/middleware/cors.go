package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS разрешает запросы с любого origin, включая запросы с учетными данными.
// Origin отражается в ответе, так как "*" вместе с credentials браузер не принимает.
func CORS() func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, _ string) bool { return true },
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodOptions, http.MethodHead,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
