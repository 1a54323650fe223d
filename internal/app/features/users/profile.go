// internal/app/features/users/profile.go
package users

import (
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	userstore "github.com/dalemusser/bughub/internal/app/store/users"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"github.com/dalemusser/bughub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeProfile returns the caller's stored profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get profile")
	defer cancel()

	u, err := h.users.GetByID(ctx, a.ID)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.Respond(w, r, apierrors.NotFound("user not found"))
		return
	}
	if err != nil {
		h.ErrLog.Respond(w, r, apierrors.Internal(err))
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, viewOf(u))
}

// Omitted or blank fields are left unchanged.
type profileInput struct {
	Name     string `json:"name" validate:"omitempty,max=100" label:"name"`
	Email    string `json:"email" validate:"omitempty,email,max=254" label:"email"`
	Password string `json:"password" validate:"omitempty,min=8,max=72,maxbytes=72" label:"password"`
}

func slot(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// HandleUpdateProfile applies a partial update to the caller's profile.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request, a authz.Actor) {
	var in profileInput
	if err := shared.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	upd := models.ProfileUpdate{
		Name:     slot(in.Name),
		Email:    slot(in.Email),
		Password: slot(in.Password),
	}
	if upd.Empty() {
		h.ErrLog.Respond(w, r, apierrors.BadRequest("nothing to update"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update profile")
	defer cancel()

	u, err := h.users.UpdateProfile(ctx, a.ID, upd)
	switch {
	case err == userstore.ErrDuplicateEmail:
		h.ErrLog.Respond(w, r, apierrors.Conflict(err.Error()))
		return
	case err == userstore.ErrPasswordTooLong, err == userstore.ErrBlankName:
		h.ErrLog.Respond(w, r, apierrors.BadRequest(err.Error()))
		return
	case err == mongo.ErrNoDocuments:
		h.ErrLog.Respond(w, r, apierrors.NotFound("user not found"))
		return
	case err != nil:
		h.ErrLog.Respond(w, r, apierrors.Internal(err))
		return
	}

	var changed []string
	if upd.Name != nil {
		changed = append(changed, "name")
	}
	if upd.Email != nil {
		changed = append(changed, "email")
	}
	if len(changed) > 0 {
		h.Audit.ProfileUpdated(ctx, r, u.ID, strings.Join(changed, ","))
	}
	if upd.Password != nil {
		h.Audit.PasswordChanged(ctx, r, u.ID)
	}
	apierrors.WriteJSON(w, http.StatusOK, viewOf(u))
}
