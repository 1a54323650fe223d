// internal/app/features/grouprequests/delete.go
package grouprequests

import (
	"net/http"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	"github.com/dalemusser/bughub/internal/app/policy/requestpolicy"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
)

// HandleDelete handles DELETE /groups/requests/{id} for both kinds, in
// any status: the requester removes a join request, the manager an invite.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	id, err := shared.PathID(r, "id")
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete group request")
	defer cancel()

	gr, err := h.loadRequest(ctx, id, "request")
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	g, err := h.loadGroup(ctx, gr.GroupID)
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	if !requestpolicy.CanDelete(a, gr, g) {
		h.ErrLog.Respond(w, r, apierrors.Forbidden("only the requester can delete a request, and only the group manager an invite"))
		return
	}

	if _, err := h.requests.Delete(ctx, gr.ID); err != nil {
		h.ErrLog.Respond(w, r, apierrors.Internal(err))
		return
	}

	h.Audit.RequestDeleted(ctx, r, a.ID, g.ID, gr.ID)
	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"message": "Request deleted"})
}
