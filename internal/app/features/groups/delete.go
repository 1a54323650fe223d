// internal/app/features/groups/delete.go
package groups

import (
	"context"
	"net/http"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	"github.com/dalemusser/bughub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"github.com/dalemusser/bughub/internal/app/system/txn"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /groups/{id}. Manager only. The group's
// bugs and membership records go with it, and every user's membership
// set drops the group.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	id, err := shared.PathID(r, "id")
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete group")
	defer cancel()

	g, err := h.loadGroup(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	if !grouppolicy.CanManage(a, g) {
		h.ErrLog.Respond(w, r, apierrors.Forbidden("only the group manager can delete the group"))
		return
	}

	var bugsRemoved, requestsRemoved, usersChanged int64
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		if bugsRemoved, err = h.bugs.DeleteByGroup(ctx, g.ID); err != nil {
			return err
		}
		if requestsRemoved, err = h.requests.DeleteByGroup(ctx, g.ID); err != nil {
			return err
		}
		if usersChanged, err = h.users.PullGroupFromAll(ctx, g.ID); err != nil {
			return err
		}
		_, err = h.groups.Delete(ctx, g.ID)
		return err
	})
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}

	h.Log.Info("group deleted",
		zap.String("group_id", g.ID.Hex()),
		zap.Int64("bugs", bugsRemoved),
		zap.Int64("requests", requestsRemoved),
		zap.Int64("members", usersChanged))
	h.Audit.GroupDeleted(ctx, r, a.ID, g.ID, g.Title, bugsRemoved)
	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"message": "Group removed"})
}
