// internal/app/features/grouprequests/routes.go
package grouprequests

import (
	"github.com/dalemusser/bughub/internal/app/system/auth"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// RequestRoutes is mounted at /groups/requests.
func RequestRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/", authz.WithActor(h.HandleCreateRequest))
		pr.Patch("/{id}/response", authz.WithActor(h.HandleRespondRequest))
		pr.Delete("/{id}", authz.WithActor(h.HandleDelete))
	})
	return r
}

// InviteRoutes is mounted at /groups/invites.
func InviteRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", authz.WithActor(h.ServeMyInvites))
		pr.Post("/", authz.WithActor(h.HandleCreateInvite))
		pr.Patch("/{id}/response", authz.WithActor(h.HandleRespondInvite))
	})
	return r
}
