// internal/app/store/bugs/bugstore.go
package bugstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/bughub/internal/app/system/paging"
	"github.com/dalemusser/bughub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAlreadyAssigned is returned by Assign when someone has already taken the bug.
var ErrAlreadyAssigned = errors.New("bug is already assigned")

const sortField = "title_ci"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("bugs")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Bug, error) {
	var b models.Bug
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return models.Bug{}, err
	}
	return b, nil
}

// Create fills defaults, validates and inserts b. TakenBy is always
// cleared: new bugs start unassigned.
func (s *Store) Create(ctx context.Context, b models.Bug) (models.Bug, error) {
	b.ApplyDefaults()
	if err := b.Validate(); err != nil {
		return models.Bug{}, err
	}
	now := time.Now().UTC()
	b.ID = primitive.NewObjectID()
	b.TitleCI = text.Fold(b.Title)
	b.TakenBy = nil
	b.CreatedAt = now
	b.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return models.Bug{}, err
	}
	return b, nil
}

// Update validates and applies the provided slots, returning the updated
// bug. Returns mongo.ErrNoDocuments if the bug is gone.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd models.BugUpdate) (models.Bug, error) {
	if err := upd.Validate(); err != nil {
		return models.Bug{}, err
	}
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
		set["title_ci"] = text.Fold(*upd.Title)
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.Priority != nil {
		set["priority"] = *upd.Priority
	}

	var b models.Bug
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&b); err != nil {
		return models.Bug{}, err
	}
	return b, nil
}

// Assign sets taken_by only while it is absent, so of two racing calls
// exactly one succeeds. Returns ErrAlreadyAssigned when the bug exists but
// is taken, and mongo.ErrNoDocuments when it does not exist.
func (s *Store) Assign(ctx context.Context, id, userID primitive.ObjectID) (models.Bug, error) {
	filter := bson.M{"_id": id, "taken_by": bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{"taken_by": userID, "updated_at": time.Now().UTC()}}

	var b models.Bug
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&b)
	if err == nil {
		return b, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Bug{}, err
	}
	n, cerr := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if cerr != nil {
		return models.Bug{}, cerr
	}
	if n > 0 {
		return models.Bug{}, ErrAlreadyAssigned
	}
	return models.Bug{}, mongo.ErrNoDocuments
}

// Delete removes a bug by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByGroup removes every bug of a group.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// andify composes clauses into a single bson.M with optional $and.
func andify(clauses []bson.M) bson.M {
	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	default:
		return bson.M{"$and": clauses}
	}
}

// List returns one page of bugs ordered by title. An empty
// f.GroupIDs yields an empty page: callers scope listings to groups.
func (s *Store) List(ctx context.Context, f models.BugFilter, p paging.Params) (paging.Page[models.Bug], error) {
	if len(f.GroupIDs) == 0 {
		return paging.Page[models.Bug]{Items: []models.Bug{}}, nil
	}

	clauses := []bson.M{{"group_id": bson.M{"$in": f.GroupIDs}}}
	if f.Status != "" {
		clauses = append(clauses, bson.M{"status": f.Status})
	}
	if f.Priority != "" {
		clauses = append(clauses, bson.M{"priority": f.Priority})
	}

	cfg := p.Keyset()
	if ks := cfg.KeysetWindow(sortField); ks != nil {
		clauses = append(clauses, ks)
	}
	find := options.Find()
	cfg.ApplyToFind(find, sortField)

	cur, err := s.c.Find(ctx, andify(clauses), find)
	if err != nil {
		return paging.Page[models.Bug]{}, err
	}
	defer cur.Close(ctx)

	var rows []models.Bug
	if err := cur.All(ctx, &rows); err != nil {
		return paging.Page[models.Bug]{}, err
	}

	return paging.Finish(rows, p,
		func(b models.Bug) string { return b.TitleCI },
		func(b models.Bug) primitive.ObjectID { return b.ID },
	), nil
}
