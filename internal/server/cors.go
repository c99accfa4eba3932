package server

import (
	"net/http"

	"github.com/rs/cors"
)

// DefaultAllowedOrigin is the local frontend dev server.
const DefaultAllowedOrigin = "http://localhost:3000"

// corsMiddleware applies one static cross-origin policy to every route:
// the listed origins may use any method and header, with credentials.
// Preflight requests are answered here and never reach the router.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{DefaultAllowedOrigin}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler
}
