// internal/app/features/groups/handler.go
package groups

import (
	"context"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	bugstore "github.com/dalemusser/bughub/internal/app/store/bugs"
	grouprequeststore "github.com/dalemusser/bughub/internal/app/store/grouprequests"
	groupstore "github.com/dalemusser/bughub/internal/app/store/groups"
	userstore "github.com/dalemusser/bughub/internal/app/store/users"
	"github.com/dalemusser/bughub/internal/app/system/auditlog"
	"github.com/dalemusser/bughub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature.
// Deleting a group touches bugs, requests and users, so it holds
// those stores too.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *apierrors.ErrorLogger
	Audit  *auditlog.Logger

	groups   *groupstore.Store
	users    *userstore.Store
	bugs     *bugstore.Store
	requests *grouprequeststore.Store
}

// NewHandler wires the stores over db.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   apierrors.NewErrorLogger(logger),
		Audit:    audit,
		groups:   groupstore.New(db),
		users:    userstore.New(db),
		bugs:     bugstore.New(db),
		requests: grouprequeststore.New(db),
	}
}

// loadGroup maps absence to 404.
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
