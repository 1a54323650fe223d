// internal/app/features/bugs/list.go
package bugs

import (
	"net/http"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/app/system/normalize"
	"github.com/dalemusser/bughub/internal/app/system/paging"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"github.com/dalemusser/bughub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList handles GET /bugs?status=&priority=&group=&limit=&after=&before=.
// Results never leave the caller's groups; asking for a group the caller
// is not in is forbidden.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	f := models.BugFilter{GroupIDs: a.Groups}

	if s := query.Get(r, "status"); s != "" {
		f.Status = normalize.BugStatus(s)
		if !f.Status.Valid() {
			h.ErrLog.Respond(w, r, apierrors.BadRequest(models.ErrBadBugStatus.Error()))
			return
		}
	}
	if s := query.Get(r, "priority"); s != "" {
		f.Priority = normalize.BugPriority(s)
		if !f.Priority.Valid() {
			h.ErrLog.Respond(w, r, apierrors.BadRequest(models.ErrBadBugPriority.Error()))
			return
		}
	}
	if s := normalize.GroupID(query.Get(r, "group")); s != "" {
		gid, err := shared.ParseID(s, "group")
		if err != nil {
			h.ErrLog.Respond(w, r, err)
			return
		}
		if !a.InGroup(gid) {
			h.ErrLog.Respond(w, r, apierrors.Forbidden("you are not a member of this group"))
			return
		}
		f.GroupIDs = []primitive.ObjectID{gid}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list bugs")
	defer cancel()

	page, err := h.bugs.List(ctx, f, paging.ParseParams(r))
	if err != nil {
		h.ErrLog.Respond(w, r, apierrors.Internal(err))
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, paging.Page[bugView]{
		Items: h.populate(ctx, page.Items),
		Prev:  page.Prev,
		Next:  page.Next,
	})
}
