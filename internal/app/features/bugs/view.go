// internal/app/features/bugs/view.go
package bugs

import (
	"net/http"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	"github.com/dalemusser/bughub/internal/app/policy/bugpolicy"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"github.com/dalemusser/bughub/internal/domain/models"
)

// ServeBug handles GET /bugs/{id}.
func (h *Handler) ServeBug(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	id, err := shared.PathID(r, "id")
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get bug")
	defer cancel()

	b, g, err := h.loadBug(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	if !bugpolicy.CanView(a, b, g) {
		h.ErrLog.Respond(w, r, apierrors.Forbidden("you are not a member of this bug's group"))
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, h.populate(ctx, []models.Bug{b})[0])
}
