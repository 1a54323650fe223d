// internal/app/features/grouprequests/respond.go
package grouprequests

import (
	"context"
	"net/http"
	"time"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	"github.com/dalemusser/bughub/internal/app/policy/requestpolicy"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/app/system/normalize"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"github.com/dalemusser/bughub/internal/app/system/txn"
	"github.com/dalemusser/bughub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type respondInput struct {
	Status string `json:"status" validate:"required,resolution" label:"status"`
}

// HandleRespondRequest handles PATCH /groups/requests/{id}/response.
// The group manager accepts or rejects a join request.
func (h *Handler) HandleRespondRequest(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	h.respond(w, r, a, models.KindRequest)
}

// HandleRespondInvite handles PATCH /groups/invites/{id}/response.
// The invited user accepts or rejects an invite.
func (h *Handler) HandleRespondInvite(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	h.respond(w, r, a, models.KindInvite)
}

// respond checks, in order: id and body (400), existence (404), kind
// (400), counterpart (403), pending (409).
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, a authz.Actor, kind models.RequestKind) {
	id, err := shared.PathID(r, "id")
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	var in respondInput
	if err := shared.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	to := normalize.RequestStatus(in.Status)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "resolve "+string(kind))
	defer cancel()

	gr, err := h.loadRequest(ctx, id, string(kind))
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	if gr.Kind != kind {
		if kind == models.KindInvite {
			h.ErrLog.Respond(w, r, apierrors.BadRequest("this is not an invite"))
		} else {
			h.ErrLog.Respond(w, r, apierrors.BadRequest("this is not a join request"))
		}
		return
	}
	g, err := h.loadGroup(ctx, gr.GroupID)
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	if !requestpolicy.CanResolve(a, gr, g) {
		if kind == models.KindInvite {
			h.ErrLog.Respond(w, r, apierrors.Forbidden("only the invited user can respond to the invite"))
		} else {
			h.ErrLog.Respond(w, r, apierrors.Forbidden("only the group manager can respond to requests"))
		}
		return
	}
	// Check the transition on a copy; the store repeats it atomically.
	if next := gr; next.Resolve(to, a.ID, time.Now().UTC()) == models.ErrNotPending {
		h.ErrLog.Respond(w, r, apierrors.Conflict(models.ErrNotPending.Error()))
		return
	}

	var resolved models.GroupRequest
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		resolved, err = h.requests.Resolve(ctx, gr.ID, to, a.ID)
		if err == models.ErrNotPending {
			return apierrors.Conflict(err.Error())
		}
		if err != nil {
			return err
		}
		if to != models.RequestAccepted {
			return nil
		}
		// The prospective member joins, whichever side resolved.
		if err := h.users.AddGroup(ctx, gr.UserID, gr.GroupID); err != nil {
			if err == mongo.ErrNoDocuments {
				return apierrors.NotFound("user not found")
			}
			return err
		}
		return nil
	})
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}

	h.Audit.RequestResolved(ctx, r, a.ID, g.ID, gr.ID, gr.UserID, string(kind), to == models.RequestAccepted)
	apierrors.WriteJSON(w, http.StatusOK, map[string]any{
		"message":    resolutionMessage(kind, to),
		string(kind): resolved,
	})
}

func resolutionMessage(kind models.RequestKind, to models.RequestStatus) string {
	noun := "Request"
	if kind == models.KindInvite {
		noun = "Invite"
	}
	return noun + " " + string(to)
}
