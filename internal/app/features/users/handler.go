// internal/app/features/users/handler.go
package users

import (
	"net/http"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	userstore "github.com/dalemusser/bughub/internal/app/store/users"
	"github.com/dalemusser/bughub/internal/app/system/auditlog"
	"github.com/dalemusser/bughub/internal/app/system/auth"
	"github.com/dalemusser/bughub/internal/app/system/ratelimit"
	"github.com/dalemusser/bughub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves registration, sign-in and the caller's profile.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	ErrLog     *apierrors.ErrorLogger
	Audit      *auditlog.Logger
	SessionMgr *auth.SessionManager
	Logins     *ratelimit.LoginLimiter // per-email throttle; nil disables it

	users *userstore.Store
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, logins *ratelimit.LoginLimiter, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		ErrLog:     apierrors.NewErrorLogger(logger),
		Audit:      audit,
		SessionMgr: sm,
		Logins:     logins,
		users:      userstore.New(db),
	}
}

// profileView is the public shape of a user.
type profileView struct {
	ID     string   `json:"_id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Groups []string `json:"groups"`
}

func viewOf(u *models.User) profileView {
	v := profileView{
		ID:     u.ID.Hex(),
		Name:   u.Name,
		Email:  u.Email,
		Groups: make([]string, 0, len(u.Groups)),
	}
	for _, g := range u.Groups {
		v.Groups = append(v.Groups, g.Hex())
	}
	return v
}

// signIn sets the session cookie for u.
func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, u *models.User) error {
	if err := h.SessionMgr.SignIn(w, r, userstore.SessionUserFrom(u)); err != nil {
		return apierrors.Internal(err)
	}
	return nil
}
