// internal/app/features/bugs/delete.go
package bugs

import (
	"net/http"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	"github.com/dalemusser/bughub/internal/app/policy/bugpolicy"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
)

// HandleDelete handles DELETE /bugs/{id}. The manager or the creator may
// delete; the assignee may not.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	id, err := shared.PathID(r, "id")
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete bug")
	defer cancel()

	b, g, err := h.loadBug(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	if !bugpolicy.CanDelete(a, b, g) {
		h.ErrLog.Respond(w, r, apierrors.Forbidden("only the group manager or the creator can delete this bug"))
		return
	}

	if _, err := h.bugs.Delete(ctx, b.ID); err != nil {
		h.ErrLog.Respond(w, r, apierrors.Internal(err))
		return
	}

	h.Audit.BugDeleted(ctx, r, a.ID, g.ID, b.ID, b.Title)
	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"message": "Bug removed"})
}
