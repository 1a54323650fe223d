// internal/app/features/bugs/handler.go
package bugs

import (
	"context"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	bugstore "github.com/dalemusser/bughub/internal/app/store/bugs"
	groupstore "github.com/dalemusser/bughub/internal/app/store/groups"
	userstore "github.com/dalemusser/bughub/internal/app/store/users"
	"github.com/dalemusser/bughub/internal/app/system/auditlog"
	"github.com/dalemusser/bughub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves /bugs.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *apierrors.ErrorLogger
	Audit  *auditlog.Logger

	bugs   *bugstore.Store
	groups *groupstore.Store
	users  *userstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: apierrors.NewErrorLogger(logger),
		Audit:  audit,
		bugs:   bugstore.New(db),
		groups: groupstore.New(db),
		users:  userstore.New(db),
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

// loadBug returns the bug and its group. A bug whose group is gone is
// reported as missing.
func (h *Handler) loadBug(ctx context.Context, id primitive.ObjectID) (models.Bug, models.Group, error) {
	b, err := h.bugs.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return models.Bug{}, models.Group{}, apierrors.NotFound("bug not found")
	}
	if err != nil {
		return models.Bug{}, models.Group{}, apierrors.Internal(err)
	}
	g, err := h.groups.GetByID(ctx, b.GroupID)
	if err == mongo.ErrNoDocuments {
		return models.Bug{}, models.Group{}, apierrors.NotFound("bug not found")
	}
	if err != nil {
		return models.Bug{}, models.Group{}, apierrors.Internal(err)
	}
	return b, g, nil
}

// bugView is a bug with its creator and assignee populated.
type bugView struct {
	models.Bug
	Creator  *models.UserSummary `json:"creator,omitempty"`
	Assignee *models.UserSummary `json:"assignee,omitempty"`
}

// populate attaches user summaries. A lookup failure is logged and the
// bare bugs are returned.
func (h *Handler) populate(ctx context.Context, bugs []models.Bug) []bugView {
	ids := make([]primitive.ObjectID, 0, len(bugs)*2)
	for _, b := range bugs {
		ids = append(ids, b.CreatedBy)
		if b.TakenBy != nil {
			ids = append(ids, *b.TakenBy)
		}
	}
	people, err := h.users.Summaries(ctx, ids)
	if err != nil {
		h.Log.Warn("bug user summaries failed", zap.Error(err))
	}

	out := make([]bugView, len(bugs))
	for i, b := range bugs {
		out[i].Bug = b
		if s, ok := people[b.CreatedBy]; ok {
			out[i].Creator = &s
		}
		if b.TakenBy != nil {
			if s, ok := people[*b.TakenBy]; ok {
				out[i].Assignee = &s
			}
		}
	}
	return out
}
