// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/bughub/internal/app/system/auth"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes serves /users. The caller mounts it behind the per-IP limiter.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Public
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/token", h.HandleToken)
	r.Post("/logout", h.HandleLogout)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/profile", authz.WithActor(h.ServeProfile))
		pr.Put("/profile", authz.WithActor(h.HandleUpdateProfile))
	})

	return r
}
