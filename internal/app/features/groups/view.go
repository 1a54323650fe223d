// internal/app/features/groups/view.go
package groups

import (
	"net/http"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	"github.com/dalemusser/bughub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"github.com/dalemusser/bughub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// groupView is a group with its manager and members populated.
type groupView struct {
	models.Group
	Manager *models.UserSummary  `json:"manager"`
	Members []models.UserSummary `json:"members"`
	// Pending is shown to the manager only.
	Pending *int64 `json:"pending_requests,omitempty"`
}

// ServeGroup handles GET /groups/{id} for members and the manager.
func (h *Handler) ServeGroup(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	id, err := shared.PathID(r, "id")
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "view group")
	defer cancel()

	g, err := h.loadGroup(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	if !grouppolicy.CanView(a, g) {
		h.ErrLog.Respond(w, r, apierrors.Forbidden("you are not a member of this group"))
		return
	}

	members, err := h.users.ListByGroup(ctx, g.ID)
	if err != nil {
		h.ErrLog.Respond(w, r, apierrors.Internal(err))
		return
	}
	view := groupView{Group: g, Members: members}
	for i := range members {
		if members[i].ID == g.ManagerID {
			view.Manager = &members[i]
			break
		}
	}
	if view.Manager == nil {
		// The manager left the membership set; still show who it is.
		sums, err := h.users.Summaries(ctx, []primitive.ObjectID{g.ManagerID})
		if err != nil {
			h.ErrLog.Respond(w, r, apierrors.Internal(err))
			return
		}
		if m, ok := sums[g.ManagerID]; ok {
			view.Manager = &m
		}
	}

	if grouppolicy.IsManager(a, g) {
		n, err := h.requests.CountPending(ctx, g.ID)
		if err != nil {
			h.ErrLog.Respond(w, r, apierrors.Internal(err))
			return
		}
		view.Pending = &n
	}

	apierrors.WriteJSON(w, http.StatusOK, view)
}

// ServeList handles GET /groups: the caller's groups ordered by title.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list groups")
	defer cancel()

	groups, err := h.groups.ListByIDs(ctx, a.Groups)
	if err != nil {
		h.ErrLog.Respond(w, r, apierrors.Internal(err))
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, groups)
}
