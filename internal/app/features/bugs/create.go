// internal/app/features/bugs/create.go
package bugs

import (
	"net/http"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	"github.com/dalemusser/bughub/internal/app/policy/bugpolicy"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/bughub/internal/app/system/normalize"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"github.com/dalemusser/bughub/internal/domain/models"
)

type createInput struct {
	Title       string `json:"title" validate:"required,max=200" label:"title"`
	Description string `json:"description" validate:"max=5000" label:"description"`
	Status      string `json:"status" validate:"bugstatus" label:"status"`
	Priority    string `json:"priority" validate:"bugpriority" label:"priority"`
	GroupID     string `json:"group_id" validate:"required,objectid" label:"group_id"`
}

// HandleCreate handles POST /bugs. The bug starts unassigned; status and
// priority default to open and medium.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	var in createInput
	if err := shared.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	groupID, err := shared.ParseID(in.GroupID, "group_id")
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	b := models.Bug{
		Title:       htmlsanitize.PlainText(normalize.Title(in.Title)),
		Description: htmlsanitize.Description(in.Description),
		Status:      normalize.BugStatus(in.Status),
		Priority:    normalize.BugPriority(in.Priority),
		GroupID:     groupID,
		CreatedBy:   a.ID,
	}
	b.ApplyDefaults()
	if err := b.Validate(); err != nil {
		h.ErrLog.Respond(w, r, apierrors.BadRequest(err.Error()))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create bug")
	defer cancel()

	g, err := h.loadGroup(ctx, groupID)
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	if !bugpolicy.CanCreate(a, g) {
		h.ErrLog.Respond(w, r, apierrors.Forbidden("only group members can report bugs"))
		return
	}

	created, err := h.bugs.Create(ctx, b)
	if err != nil {
		h.ErrLog.Respond(w, r, apierrors.Internal(err))
		return
	}

	h.Audit.BugCreated(ctx, r, a.ID, g.ID, created.ID, created.Title)
	apierrors.WriteJSON(w, http.StatusCreated, created)
}
