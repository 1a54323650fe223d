package grouprequeststore

import (
	"context"

	"github.com/dalemusser/bughub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// lookupOne joins a single document from another collection into as,
// keeping only the summary fields. Needs MongoDB 5.0+ (localField with pipeline).
func lookupOne(from, localField, as string, fields ...string) []bson.M {
	proj := bson.M{}
	for _, f := range fields {
		proj[f] = 1
	}
	return []bson.M{
		{"$lookup": bson.M{
			"from":         from,
			"localField":   localField,
			"foreignField": "_id",
			"pipeline":     bson.A{bson.M{"$project": proj}},
			"as":           as,
		}},
		{"$unwind": bson.M{"path": "$" + as, "preserveNullAndEmptyArrays": true}},
	}
}

func (s *Store) aggregate(ctx context.Context, pipeline []bson.M) ([]models.GroupRequestView, error) {
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.GroupRequestView{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForGroup returns a group's records, oldest first, each with the
// prospective member's summary. An empty kind or status matches any.
func (s *Store) ListForGroup(ctx context.Context, groupID primitive.ObjectID, kind models.RequestKind, status models.RequestStatus) ([]models.GroupRequestView, error) {
	match := bson.M{"group_id": groupID}
	if kind != "" {
		match["kind"] = kind
	}
	if status != "" {
		match["status"] = status
	}
	pipeline := []bson.M{
		{"$match": match},
		{"$sort": bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
	}
	pipeline = append(pipeline, lookupOne("users", "user_id", "user", "name", "email")...)
	return s.aggregate(ctx, pipeline)
}

// ListInvitesForUser returns the user's pending invites, oldest first,
// each with the inviting group's summary.
func (s *Store) ListInvitesForUser(ctx context.Context, userID primitive.ObjectID) ([]models.GroupRequestView, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"user_id": userID,
			"kind":    models.KindInvite,
			"status":  models.RequestPending,
		}},
		{"$sort": bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
	}
	pipeline = append(pipeline, lookupOne("groups", "group_id", "group", "title", "description")...)
	return s.aggregate(ctx, pipeline)
}

// CountPending reports how many pending records the group has.
func (s *Store) CountPending(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID, "status": models.RequestPending})
}
