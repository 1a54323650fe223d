// internal/app/features/users/login.go
package users

import (
	"context"
	"net/http"
	"time"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/features/shared"
	userstore "github.com/dalemusser/bughub/internal/app/store/users"
	"github.com/dalemusser/bughub/internal/app/system/auth"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"github.com/dalemusser/bughub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type credentials struct {
	Email    string `json:"email" validate:"required,max=254" label:"email"`
	Password string `json:"password" validate:"required,max=72,maxbytes=72" label:"password"`
}

// authenticate decodes credentials and checks them, applying the per-email
// throttle. Failures come back as API errors.
func (h *Handler) authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.User, error) {
	var in credentials
	if err := shared.DecodeJSON(w, r, &in); err != nil {
		return nil, err
	}

	if h.Logins != nil && !h.Logins.Check(in.Email) {
		h.Audit.LoginRateLimited(ctx, r, in.Email)
		return nil, apierrors.TooManyRequests("too many sign-in attempts, try again later")
	}

	u, err := h.users.Authenticate(ctx, in.Email, in.Password)
	if err == userstore.ErrBadCredentials {
		var uid primitive.ObjectID
		reason := "unknown email"
		if u != nil {
			uid = u.ID
			reason = "wrong password"
		}
		h.Audit.LoginFailed(ctx, r, uid, in.Email, reason)
		return nil, apierrors.Unauthorized(err.Error())
	}
	if err != nil {
		return nil, apierrors.Internal(err)
	}

	if h.Logins != nil {
		h.Logins.ResetEmail(in.Email)
	}
	return u, nil
}

// HandleLogin checks credentials and sets the session cookie.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	u, err := h.authenticate(ctx, w, r)
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	if err := h.signIn(w, r, u); err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}

	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()))
	h.Audit.LoginSuccess(ctx, r, u.ID, u.Email)
	apierrors.WriteJSON(w, http.StatusOK, viewOf(u))
}

type tokenView struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      profileView `json:"user"`
}

// HandleToken checks credentials and returns a bearer token instead of a
// cookie.
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	tokens := h.SessionMgr.Tokens()
	if tokens == nil {
		apierrors.Write(w, http.StatusNotFound, "bearer tokens are not enabled")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "issue token")
	defer cancel()

	u, err := h.authenticate(ctx, w, r)
	if err != nil {
		h.ErrLog.Respond(w, r, err)
		return
	}
	tok, exp, err := tokens.Issue(u.ID.Hex())
	if err != nil {
		h.ErrLog.Respond(w, r, apierrors.Internal(err))
		return
	}

	h.Audit.TokenIssued(ctx, r, u.ID)
	apierrors.WriteJSON(w, http.StatusOK, tokenView{
		Token:     tok,
		TokenType: "Bearer",
		ExpiresAt: exp,
		User:      viewOf(u),
	})
}

// HandleLogout clears the session cookie. Bearer tokens simply expire.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var userID string
	if u, ok := auth.CurrentUser(r); ok {
		userID = u.ID
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.ErrLog.LogServerError(w, r, "sign out failed", err)
		return
	}
	if userID != "" {
		h.Audit.Logout(r.Context(), r, userID)
	}
	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
