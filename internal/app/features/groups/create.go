// internal/app/features/groups/create.go
package groups

import (
	"context"
	"net/http"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/bughub/internal/app/system/normalize"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"github.com/dalemusser/bughub/internal/app/system/txn"
	"github.com/dalemusser/bughub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type createInput struct {
	Title       string `json:"title" validate:"required,max=200" label:"Title"`
	Description string `json:"description" validate:"max=5000" label:"Description"`
}

// HandleCreate handles POST /groups. The caller becomes the manager and
// its first member.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	var in createInput
	if err := shared.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	title := htmlsanitize.PlainText(normalize.Title(in.Title))
	if title == "" {
		h.ErrLog.Respond(w, r, apierrors.BadRequest(models.ErrEmptyTitle.Error()))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create group")
	defer cancel()

	var created models.Group
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		g, err := h.groups.Create(ctx, models.Group{
			Title:       title,
			Description: htmlsanitize.Description(in.Description),
			ManagerID:   a.ID,
		})
		if err != nil {
			return err
		}
		if err := h.users.AddGroup(ctx, a.ID, g.ID); err != nil {
			if err == mongo.ErrNoDocuments {
				return apierrors.Unauthorized("user no longer exists")
			}
			return err
		}
		created = g
		return nil
	})
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}

	h.Audit.GroupCreated(ctx, r, a.ID, created.ID, created.Title)
	apierrors.WriteJSON(w, http.StatusCreated, created)
}
