// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/bughub/internal/app/system/auth"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes serves /groups. The /groups/requests and /groups/invites
// subtrees belong to the grouprequests feature and are mounted beside it.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// LIST (caller's groups)
		pr.Get("/", authz.WithActor(h.ServeList))

		// CREATE
		pr.Post("/", authz.WithActor(h.HandleCreate))

		// VIEW / EDIT / DELETE
		pr.Get("/{id}", authz.WithActor(h.ServeGroup))
		pr.Put("/{id}", authz.WithActor(h.HandleUpdate))
		pr.Delete("/{id}", authz.WithActor(h.HandleDelete))

		// PENDING REQUESTS (manager)
		pr.Get("/{id}/requests", authz.WithActor(h.ServeRequests))
	})

	return r
}
