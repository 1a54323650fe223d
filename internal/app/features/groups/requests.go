// internal/app/features/groups/requests.go
package groups

import (
	"net/http"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	"github.com/dalemusser/bughub/internal/app/policy/requestpolicy"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/app/system/normalize"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"github.com/dalemusser/bughub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeRequests handles GET /groups/{id}/requests?status=&kind=. Manager
// only. Defaults to pending join requests; status=all and kind=all widen
// the listing.
func (h *Handler) ServeRequests(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	id, err := shared.PathID(r, "id")
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}

	status := models.RequestPending
	switch s := normalize.RequestStatus(query.Get(r, "status")); {
	case s == "":
	case s == "all":
		status = ""
	case s.Valid():
		status = s
	default:
		h.ErrLog.Respond(w, r, apierrors.BadRequest(`status must be "pending", "accepted", "rejected" or "all"`))
		return
	}

	kind := models.KindRequest
	switch k := models.RequestKind(normalize.QueryParam(query.Get(r, "kind"))); {
	case k == "":
	case k == "all":
		kind = ""
	case k.Valid():
		kind = k
	default:
		h.ErrLog.Respond(w, r, apierrors.BadRequest(`kind must be "request", "invite" or "all"`))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list group requests")
	defer cancel()

	g, err := h.loadGroup(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	if !requestpolicy.CanListPending(a, g) {
		h.ErrLog.Respond(w, r, apierrors.Forbidden("only the group manager can view requests"))
		return
	}

	reqs, err := h.requests.ListForGroup(ctx, g.ID, kind, status)
	if err != nil {
		h.ErrLog.Respond(w, r, apierrors.Internal(err))
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, reqs)
}
