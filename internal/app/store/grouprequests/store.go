// internal/app/store/grouprequests/store.go
package grouprequeststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/bughub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicatePending is returned when the (group, user) pair already has
// a pending request or invite. The partial unique index
// uniq_requests_group_user_pending enforces it.
var ErrDuplicatePending = errors.New("a pending request or invite already exists for this user and group")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_requests")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.GroupRequest, error) {
	var gr models.GroupRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&gr); err != nil {
		return models.GroupRequest{}, err
	}
	return gr, nil
}

// Create inserts a pending record. Kind, GroupID, UserID and CreatedBy
// come from the caller.
func (s *Store) Create(ctx context.Context, gr models.GroupRequest) (models.GroupRequest, error) {
	now := time.Now().UTC()
	gr.ID = primitive.NewObjectID()
	gr.Status = models.RequestPending
	gr.ResolvedBy = nil
	gr.ResolvedAt = nil
	gr.CreatedAt = now
	gr.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, gr); err != nil {
		if wafflemongo.IsDup(err) {
			return models.GroupRequest{}, ErrDuplicatePending
		}
		return models.GroupRequest{}, err
	}
	return gr, nil
}

// Resolve moves a pending record to accepted or rejected. The update is
// conditional on status still being pending, so a concurrent second
// resolution gets models.ErrNotPending. A missing record yields
// mongo.ErrNoDocuments.
func (s *Store) Resolve(ctx context.Context, id primitive.ObjectID, to models.RequestStatus, by primitive.ObjectID) (models.GroupRequest, error) {
	if !to.Terminal() {
		return models.GroupRequest{}, models.ErrBadResolution
	}
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.RequestPending},
		bson.M{"$set": bson.M{
			"status":      to,
			"resolved_by": by,
			"resolved_at": now,
			"updated_at":  now,
		}})
	if err != nil {
		return models.GroupRequest{}, err
	}

	gr, err := s.GetByID(ctx, id)
	if err != nil {
		return models.GroupRequest{}, err
	}
	if res.ModifiedCount == 0 {
		return gr, models.ErrNotPending
	}
	return gr, nil
}

// Delete removes a record by ID regardless of status. Returns the number
// of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByGroup removes every record of a group.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// PruneResolvedBefore deletes accepted and rejected records resolved
// before cutoff. Pending records are never pruned.
func (s *Store) PruneResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"status":      bson.M{"$in": bson.A{models.RequestAccepted, models.RequestRejected}},
		"resolved_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
