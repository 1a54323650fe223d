package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/bughub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// TestPasswordHash is a bcrypt-shaped placeholder. It matches no password.
const TestPasswordHash = "$2a$04$4VQm2Z3r3Zq0QK9HgV8x5eG3Vd1o3Wc9F2sJp8sJmY5uH9uGQd4bS"

// CreateUser inserts a user belonging to the given groups. Tests that sign
// in create users through the store instead.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string, groups ...primitive.ObjectID) models.User {
	f.t.Helper()

	if groups == nil {
		groups = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: TestPasswordHash,
		Groups:       groups,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateGroup inserts a group managed by manager and adds it to the
// manager's membership set. The returned manager reflects the new set.
func (f *Fixtures) CreateGroup(ctx context.Context, title string, manager *models.User) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:          primitive.NewObjectID(),
		Title:       title,
		TitleCI:     text.Fold(title),
		Description: title + " description",
		ManagerID:   manager.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	f.AddMember(ctx, manager, g.ID)
	return g
}

// AddMember adds groupID to u's membership set, both stored and in memory.
func (f *Fixtures) AddMember(ctx context.Context, u *models.User, groupID primitive.ObjectID) {
	f.t.Helper()

	_, err := f.db.Collection("users").UpdateByID(ctx, u.ID,
		bson.M{"$addToSet": bson.M{"groups": groupID}})
	if err != nil {
		f.t.Fatalf("failed to add member: %v", err)
	}
	if !u.InGroup(groupID) {
		u.Groups = append(u.Groups, groupID)
	}
}

// CreateBug inserts an open, medium-priority, unassigned bug.
func (f *Fixtures) CreateBug(ctx context.Context, title string, groupID, createdBy primitive.ObjectID) models.Bug {
	f.t.Helper()

	now := time.Now().UTC()
	b := models.Bug{
		ID:          primitive.NewObjectID(),
		Title:       title,
		TitleCI:     text.Fold(title),
		Description: "steps to reproduce",
		Status:      models.BugOpen,
		Priority:    models.PriorityMedium,
		CreatedBy:   createdBy,
		GroupID:     groupID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("bugs").InsertOne(ctx, b); err != nil {
		f.t.Fatalf("failed to create test bug: %v", err)
	}
	return b
}

// CreateRequest inserts a pending membership record. For an invite,
// createdBy is the manager; for a request it is userID.
func (f *Fixtures) CreateRequest(ctx context.Context, kind models.RequestKind, groupID, userID, createdBy primitive.ObjectID) models.GroupRequest {
	f.t.Helper()

	now := time.Now().UTC()
	gr := models.GroupRequest{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		Kind:      kind,
		Status:    models.RequestPending,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("group_requests").InsertOne(ctx, gr); err != nil {
		f.t.Fatalf("failed to create test request: %v", err)
	}
	return gr
}
