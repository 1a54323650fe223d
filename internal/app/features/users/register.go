// internal/app/features/users/register.go
package users

import (
	"net/http"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	userstore "github.com/dalemusser/bughub/internal/app/store/users"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"github.com/dalemusser/bughub/internal/domain/models"
)

type registerInput struct {
	Name     string `json:"name" validate:"required,notblank,max=100" label:"name"`
	Email    string `json:"email" validate:"required,email,max=254" label:"email"`
	Password string `json:"password" validate:"required,min=8,max=72,maxbytes=72" label:"password"`
}

// HandleRegister creates an account and signs it in.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := shared.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "register user")
	defer cancel()

	u, err := h.users.Create(ctx, models.User{Name: in.Name, Email: in.Email}, in.Password)
	switch {
	case err == userstore.ErrDuplicateEmail:
		h.ErrLog.Respond(w, r, apierrors.Conflict("user already exists"))
		return
	case err == userstore.ErrBlankName, err == userstore.ErrPasswordTooLong:
		h.ErrLog.Respond(w, r, apierrors.BadRequest(err.Error()))
		return
	case err != nil:
		h.ErrLog.Respond(w, r, apierrors.Internal(err))
		return
	}

	if err := h.signIn(w, r, &u); err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	h.Audit.UserRegistered(ctx, r, u.ID, u.Email)
	apierrors.WriteJSON(w, http.StatusCreated, viewOf(&u))
}
