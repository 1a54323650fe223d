package userstore

import (
	"context"

	"github.com/dalemusser/bughub/internal/app/system/auth"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"github.com/dalemusser/bughub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each
// request, so membership changes take effect without signing in again.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchSessionUser returns (nil, nil) when the id is malformed or the user
// no longer exists.
func (f *Fetcher) FetchSessionUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{"_id": 1, "name": 1, "email": 1, "groups": 1})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return SessionUserFrom(&u), nil
}

// SessionUserFrom builds the session identity for u.
func SessionUserFrom(u *models.User) *auth.SessionUser {
	su := &auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.Name,
		Email:    u.Email,
		GroupIDs: make([]string, 0, len(u.Groups)),
	}
	for _, g := range u.Groups {
		su.GroupIDs = append(su.GroupIDs, g.Hex())
	}
	return su
}
