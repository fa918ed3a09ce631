package app

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/planj/planj/internal/config"
	"github.com/planj/planj/pkg/auth"
	"github.com/planj/planj/pkg/user"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

// publicPaths need no bearer token.
var publicPaths = map[string]bool{
	"/api/auth/register": true,
	"/api/auth/login":    true,
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	c := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.Host},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	r.Use(c.Handler)

	// Resolve the bearer token into the session's user for every API call.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !strings.HasPrefix(req.URL.Path, "/api/") || publicPaths[req.URL.Path] {
				next.ServeHTTP(w, req)
				return
			}

			token := auth.BearerToken(req)
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			u, err := deps.AuthService.Authenticate(req.Context(), token)
			if err != nil {
				log.Debugf("failed to authenticate request: %v", err)
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, req.WithContext(user.WithUser(req.Context(), u)))
		})
	})
}
