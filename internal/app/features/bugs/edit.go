// internal/app/features/bugs/edit.go
package bugs

import (
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	"github.com/dalemusser/bughub/internal/app/policy/bugpolicy"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/bughub/internal/app/system/normalize"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"github.com/dalemusser/bughub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Omitted or blank fields keep their value.
type updateInput struct {
	Title       string `json:"title" validate:"max=200" label:"title"`
	Description string `json:"description" validate:"max=5000" label:"description"`
	Status      string `json:"status" validate:"bugstatus" label:"status"`
	Priority    string `json:"priority" validate:"bugpriority" label:"priority"`
}

func (in updateInput) toUpdate() (models.BugUpdate, error) {
	var upd models.BugUpdate
	if strings.TrimSpace(in.Title) != "" {
		t := htmlsanitize.PlainText(normalize.Title(in.Title))
		upd.Title = &t
	}
	if strings.TrimSpace(in.Description) != "" {
		d := htmlsanitize.Description(in.Description)
		upd.Description = &d
	}
	if strings.TrimSpace(in.Status) != "" {
		s := normalize.BugStatus(in.Status)
		upd.Status = &s
	}
	if strings.TrimSpace(in.Priority) != "" {
		p := normalize.BugPriority(in.Priority)
		upd.Priority = &p
	}
	if upd.Empty() {
		return upd, apierrors.BadRequest("nothing to update")
	}
	if err := upd.Validate(); err != nil {
		return upd, apierrors.BadRequest(err.Error())
	}
	return upd, nil
}

func changedFields(upd models.BugUpdate) string {
	var f []string
	if upd.Title != nil {
		f = append(f, "title")
	}
	if upd.Description != nil {
		f = append(f, "description")
	}
	if upd.Status != nil {
		f = append(f, "status")
	}
	if upd.Priority != nil {
		f = append(f, "priority")
	}
	return strings.Join(f, ",")
}

// HandleUpdate handles PUT /bugs/{id}: the manager, creator or assignee
// edits title, description, status or priority.
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update bug")
	defer cancel()

	b, g, err := h.loadBug(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	if !bugpolicy.CanModify(a, b, g) {
		h.ErrLog.Respond(w, r, apierrors.Forbidden("only the group manager, the creator or the assignee can edit this bug"))
		return
	}

	updated, err := h.bugs.Update(ctx, b.ID, upd)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.Respond(w, r, apierrors.NotFound("bug not found"))
		return
	}
	if err != nil {
		h.ErrLog.Respond(w, r, apierrors.Internal(err))
		return
	}

	h.Audit.BugUpdated(ctx, r, a.ID, g.ID, b.ID, changedFields(upd))
	apierrors.WriteJSON(w, http.StatusOK, updated)
}
