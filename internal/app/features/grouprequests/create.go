// internal/app/features/grouprequests/create.go
package grouprequests

import (
	"net/http"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	"github.com/dalemusser/bughub/internal/app/policy/requestpolicy"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"github.com/dalemusser/bughub/internal/domain/models"
)

type requestInput struct {
	GroupID string `json:"group_id" validate:"required,objectid" label:"group_id"`
}

// HandleCreateRequest handles POST /groups/requests: the caller asks to
// join body.group_id.
func (h *Handler) HandleCreateRequest(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	var in requestInput
	if err := shared.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	groupID, err := shared.ParseID(in.GroupID, "group_id")
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create group request")
	defer cancel()

	g, err := h.loadGroup(ctx, groupID)
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	if a.InGroup(g.ID) || g.ManagerID == a.ID {
		h.ErrLog.Respond(w, r, apierrors.Conflict("you are already a member of this group"))
		return
	}

	gr, err := h.requests.Create(ctx, models.GroupRequest{
		GroupID:   g.ID,
		UserID:    a.ID,
		Kind:      models.KindRequest,
		CreatedBy: a.ID,
	})
	if err != nil {
		h.ErrLog.Respond(w, r, createErr(err))
		return
	}

	h.Audit.RequestCreated(ctx, r, a.ID, g.ID, gr.ID, a.ID, string(gr.Kind))
	requester := models.UserSummary{ID: a.ID, Name: a.Name, Email: a.Email}
	apierrors.WriteJSON(w, http.StatusCreated, viewOf(gr, requester, g))
}

type inviteInput struct {
	GroupID string `json:"group_id" validate:"required,objectid" label:"group_id"`
	UserID  string `json:"user_id" validate:"required,objectid" label:"user_id"`
}

// HandleCreateInvite handles POST /groups/invites: the group manager
// invites body.user_id.
func (h *Handler) HandleCreateInvite(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	var in inviteInput
	if err := shared.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	groupID, err := shared.ParseID(in.GroupID, "group_id")
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	userID, err := shared.ParseID(in.UserID, "user_id")
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create group invite")
	defer cancel()

	g, err := h.loadGroup(ctx, groupID)
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	if !requestpolicy.CanInvite(a, g) {
		h.ErrLog.Respond(w, r, apierrors.Forbidden("only the group manager can send invites"))
		return
	}
	invitee, err := h.loadUser(ctx, userID)
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	if invitee.InGroup(g.ID) {
		h.ErrLog.Respond(w, r, apierrors.Conflict("user is already a member of this group"))
		return
	}

	gr, err := h.requests.Create(ctx, models.GroupRequest{
		GroupID:   g.ID,
		UserID:    invitee.ID,
		Kind:      models.KindInvite,
		CreatedBy: a.ID,
	})
	if err != nil {
		h.ErrLog.Respond(w, r, createErr(err))
		return
	}

	h.Audit.RequestCreated(ctx, r, a.ID, g.ID, gr.ID, invitee.ID, string(gr.Kind))
	apierrors.WriteJSON(w, http.StatusCreated, viewOf(gr, invitee.Summary(), g))
}

// viewOf populates a new record with its user and group.
func viewOf(gr models.GroupRequest, u models.UserSummary, g models.Group) models.GroupRequestView {
	gs := g.Summary()
	return models.GroupRequestView{GroupRequest: gr, User: &u, Group: &gs}
}
