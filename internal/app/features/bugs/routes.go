// internal/app/features/bugs/routes.go
package bugs

import (
	"github.com/dalemusser/bughub/internal/app/system/auth"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", authz.WithActor(h.ServeList))
		pr.Post("/", authz.WithActor(h.HandleCreate))

		pr.Get("/{id}", authz.WithActor(h.ServeBug))
		pr.Put("/{id}", authz.WithActor(h.HandleUpdate))
		pr.Delete("/{id}", authz.WithActor(h.HandleDelete))

		// ASSIGN ("take" is the older spelling)
		pr.Put("/{id}/assign", authz.WithActor(h.HandleAssign))
		pr.Put("/take/{id}", authz.WithActor(h.HandleAssign))
	})

	return r
}
