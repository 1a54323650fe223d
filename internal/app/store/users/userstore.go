// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/bughub/internal/app/system/normalize"
	"github.com/dalemusser/bughub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for password hashes. Tests lower it.
var BcryptCost = 12

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrBadCredentials is returned by Authenticate for an unknown email or a wrong password.
	ErrBadCredentials = errors.New("invalid email or password")
	// ErrBlankName is returned when a name is empty after trimming.
	ErrBlankName = errors.New("name must not be blank")
	// ErrPasswordTooLong is returned for passwords over bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
	errEmptyPassword   = errors.New("password must not be empty")
)

// hashPassword wraps bcrypt, reporting its length limit as ErrPasswordTooLong.
func hashPassword(password string) (string, error) {
	if password == "" {
		return "", errEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

// dummyHash is compared against when the email is unknown, so a miss costs
// the same bcrypt work as a wrong password.
func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("bughub-no-such-user"), BcryptCost)
	})
	return dummy
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user with a bcrypt hash of password.
// The user starts with no group memberships.
func (s *Store) Create(ctx context.Context, u models.User, password string) (models.User, error) {
	u.Name = normalize.Name(u.Name)
	if u.Name == "" {
		return models.User{}, ErrBlankName
	}
	hash, err := hashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.PasswordHash = hash
	u.Groups = []primitive.ObjectID{}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Authenticate checks an email/password pair. Unknown emails and wrong
// passwords both yield ErrBadCredentials; other errors are returned as is.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err == mongo.ErrNoDocuments {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(u, password) {
		return u, ErrBadCredentials
	}
	return u, nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(u *models.User, password string) bool {
	if u == nil || u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UpdateProfile applies the provided slots and returns the updated user.
// Returns mongo.ErrNoDocuments if the user is gone and ErrDuplicateEmail if
// the new email belongs to someone else.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd models.ProfileUpdate) (*models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		name := normalize.Name(*upd.Name)
		if name == "" {
			return nil, ErrBlankName
		}
		set["name"] = name
	}
	if upd.Email != nil {
		set["email"] = normalize.Email(*upd.Email)
	}
	if upd.Password != nil {
		hash, err := hashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		set["password_hash"] = hash
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &u, nil
}

// AddGroup adds groupID to the user's membership set. Adding an existing
// membership is a no-op. Returns mongo.ErrNoDocuments if the user is gone.
func (s *Store) AddGroup(ctx context.Context, userID, groupID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$addToSet": bson.M{"groups": groupID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// PullGroupFromAll removes groupID from every user's membership set.
// Returns the number of users changed.
func (s *Store) PullGroupFromAll(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"groups": groupID},
		bson.M{"$pull": bson.M{"groups": groupID}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

var summaryProjection = bson.M{"_id": 1, "name": 1, "email": 1}

// ListByGroup returns the members of a group ordered by name.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.UserSummary, error) {
	opts := options.Find().
		SetProjection(summaryProjection).
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"groups": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.UserSummary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Summaries loads the public projection for each id. Missing users are
// absent from the map.
func (s *Store) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	out := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(summaryProjection))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var us models.UserSummary
		if err := cur.Decode(&us); err != nil {
			return nil, err
		}
		out[us.ID] = us
	}
	return out, cur.Err()
}
