// internal/app/features/bugs/assign.go
package bugs

import (
	"net/http"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	"github.com/dalemusser/bughub/internal/app/policy/bugpolicy"
	bugstore "github.com/dalemusser/bughub/internal/app/store/bugs"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleAssign handles PUT /bugs/{id}/assign and PUT /bugs/take/{id}: a
// group member takes an unassigned bug. Taking an assigned bug is a
// conflict, even for its current assignee.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	id, err := shared.PathID(r, "id")
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "assign bug")
	defer cancel()

	b, g, err := h.loadBug(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	if !bugpolicy.CanAssign(a, b, g) {
		h.ErrLog.Respond(w, r, apierrors.Forbidden("only group members can take this bug"))
		return
	}
	if b.Assigned() {
		h.ErrLog.Respond(w, r, apierrors.Conflict(bugstore.ErrAlreadyAssigned.Error()))
		return
	}

	taken, err := h.bugs.Assign(ctx, b.ID, a.ID)
	switch {
	case err == bugstore.ErrAlreadyAssigned:
		h.ErrLog.Respond(w, r, apierrors.Conflict(err.Error()))
		return
	case err == mongo.ErrNoDocuments:
		h.ErrLog.Respond(w, r, apierrors.NotFound("bug not found"))
		return
	case err != nil:
		h.ErrLog.Respond(w, r, apierrors.Internal(err))
		return
	}

	h.Audit.BugAssigned(ctx, r, a.ID, g.ID, b.ID, a.ID)
	apierrors.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Bug taken successfully",
		"bug":     taken,
	})
}
