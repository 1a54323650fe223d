// internal/app/features/grouprequests/handler.go
package grouprequests

import (
	"context"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	grouprequeststore "github.com/dalemusser/bughub/internal/app/store/grouprequests"
	groupstore "github.com/dalemusser/bughub/internal/app/store/groups"
	userstore "github.com/dalemusser/bughub/internal/app/store/users"
	"github.com/dalemusser/bughub/internal/app/system/auditlog"
	"github.com/dalemusser/bughub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves join requests and invites.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *apierrors.ErrorLogger
	Audit  *auditlog.Logger

	requests *grouprequeststore.Store
	groups   *groupstore.Store
	users    *userstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   apierrors.NewErrorLogger(logger),
		Audit:    audit,
		requests: grouprequeststore.New(db),
		groups:   groupstore.New(db),
		users:    userstore.New(db),
	}
}

func (h *Handler) loadGroup(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	g, err := h.groups.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return models.Group{}, apierrors.NotFound("group not found")
	}
	if err != nil {
		return models.Group{}, apierrors.Internal(err)
	}
	return g, nil
}

func (h *Handler) loadUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, err := h.users.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, apierrors.NotFound("user not found")
	}
	if err != nil {
		return nil, apierrors.Internal(err)
	}
	return u, nil
}

func (h *Handler) loadRequest(ctx context.Context, id primitive.ObjectID, what string) (models.GroupRequest, error) {
	gr, err := h.requests.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return models.GroupRequest{}, apierrors.NotFound(what + " not found")
	}
	if err != nil {
		return models.GroupRequest{}, apierrors.Internal(err)
	}
	return gr, nil
}

// createErr maps store failures of Create.
func createErr(err error) error {
	if err == grouprequeststore.ErrDuplicatePending {
		return apierrors.Conflict(err.Error())
	}
	return apierrors.Internal(err)
}
