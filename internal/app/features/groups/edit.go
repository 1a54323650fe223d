// internal/app/features/groups/edit.go
package groups

import (
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	"github.com/dalemusser/bughub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/bughub/internal/app/system/normalize"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"github.com/dalemusser/bughub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type updateInput struct {
	Title       *string `json:"title" validate:"omitempty,max=200" label:"Title"`
	Description *string `json:"description" validate:"omitempty,max=5000" label:"Description"`
}

// toUpdate sanitizes the provided slots.
func (in updateInput) toUpdate() (models.GroupUpdate, error) {
	var upd models.GroupUpdate
	if in.Title != nil {
		t := htmlsanitize.PlainText(normalize.Title(*in.Title))
		if t == "" {
			return upd, apierrors.BadRequest(models.ErrEmptyTitle.Error())
		}
		upd.Title = &t
	}
	if in.Description != nil {
		d := htmlsanitize.Description(*in.Description)
		upd.Description = &d
	}
	if upd.Empty() {
		return upd, apierrors.BadRequest("nothing to update")
	}
	return upd, nil
}

// HandleUpdate handles PUT /groups/{id}. Manager only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	id, err := shared.PathID(r, "id")
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	var in updateInput
	if err := shared.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	upd, err := in.toUpdate()
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update group")
	defer cancel()

	g, err := h.loadGroup(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	if !grouppolicy.CanManage(a, g) {
		h.ErrLog.Respond(w, r, apierrors.Forbidden("only the group manager can update the group"))
		return
	}

	updated, err := h.groups.Update(ctx, g.ID, upd)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.Respond(w, r, apierrors.NotFound("group not found"))
		return
	}
	if err != nil {
		h.ErrLog.Respond(w, r, apierrors.Internal(err))
		return
	}

	h.Audit.GroupUpdated(ctx, r, a.ID, g.ID, changedFields(upd))
	apierrors.WriteJSON(w, http.StatusOK, updated)
}

func changedFields(u models.GroupUpdate) string {
	var f []string
	if u.Title != nil {
		f = append(f, "title")
	}
	if u.Description != nil {
		f = append(f, "description")
	}
	return strings.Join(f, ",")
}
