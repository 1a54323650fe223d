// internal/app/features/grouprequests/list.go
package grouprequests

import (
	"net/http"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
)

// ServeMyInvites handles GET /groups/invites: the caller's pending
// invites with the inviting group's summary.
func (h *Handler) ServeMyInvites(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list invites")
	defer cancel()

	invites, err := h.requests.ListInvitesForUser(ctx, a.ID)
	if err != nil {
		h.ErrLog.Respond(w, r, apierrors.Internal(err))
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, invites)
}
