package validators_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/bughub/internal/app/system/validators"
	"github.com/dalemusser/bughub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func setup(t *testing.T) (*mongo.Database, context.Context) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	t.Cleanup(cancel)

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return db, ctx
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db, ctx := setup(t)

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db, ctx := setup(t)

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := make(map[string]bool)
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"users", "groups", "bugs", "group_requests", "audit_events"} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestUsersValidator(t *testing.T) {
	db, ctx := setup(t)
	users := db.Collection("users")

	if _, err := users.InsertOne(ctx, bson.M{"email": "x@example.com"}); err == nil {
		t.Error("expected validation error for user without required fields")
	}
	if _, err := users.InsertOne(ctx, bson.M{
		"name":          "Ada",
		"email":         "ada@example.com",
		"password_hash": "$2a$10$abc",
		"groups":        bson.A{},
	}); err != nil {
		t.Errorf("Insert valid user failed: %v", err)
	}
	if _, err := users.InsertOne(ctx, bson.M{
		"name":          "   ",
		"email":         "blank@example.com",
		"password_hash": "$2a$10$abc",
		"groups":        bson.A{},
	}); err == nil {
		t.Error("expected validation error for blank name")
	}
}

func TestBugsValidator(t *testing.T) {
	db, ctx := setup(t)
	bugs := db.Collection("bugs")

	valid := func() bson.M {
		return bson.M{
			"title":      "Crash",
			"title_ci":   "crash",
			"status":     "open",
			"priority":   "high",
			"created_by": primitive.NewObjectID(),
			"group_id":   primitive.NewObjectID(),
			"created_at": time.Now(),
		}
	}

	if _, err := bugs.InsertOne(ctx, valid()); err != nil {
		t.Fatalf("Insert valid bug failed: %v", err)
	}

	for _, status := range []string{"open", "in progress", "closed"} {
		doc := valid()
		doc["status"] = status
		if _, err := bugs.InsertOne(ctx, doc); err != nil {
			t.Errorf("status %q rejected: %v", status, err)
		}
	}

	bad := valid()
	bad["status"] = "done"
	if _, err := bugs.InsertOne(ctx, bad); err == nil {
		t.Error("expected validation error for unknown status")
	}

	bad = valid()
	bad["priority"] = "urgent"
	if _, err := bugs.InsertOne(ctx, bad); err == nil {
		t.Error("expected validation error for unknown priority")
	}
}

func TestGroupRequestsValidator(t *testing.T) {
	db, ctx := setup(t)
	reqs := db.Collection("group_requests")

	doc := bson.M{
		"group_id":   primitive.NewObjectID(),
		"user_id":    primitive.NewObjectID(),
		"kind":       "invite",
		"status":     "pending",
		"created_by": primitive.NewObjectID(),
		"created_at": time.Now(),
	}
	if _, err := reqs.InsertOne(ctx, doc); err != nil {
		t.Fatalf("Insert valid request failed: %v", err)
	}

	doc["_id"] = primitive.NewObjectID()
	doc["kind"] = "summons"
	if _, err := reqs.InsertOne(ctx, doc); err == nil {
		t.Error("expected validation error for unknown kind")
	}
}

func TestGroupsValidator(t *testing.T) {
	db, ctx := setup(t)
	groups := db.Collection("groups")

	if _, err := groups.InsertOne(ctx, bson.M{"title": "QA"}); err == nil {
		t.Error("expected validation error for group without manager")
	}
	if _, err := groups.InsertOne(ctx, bson.M{
		"title":      "QA",
		"title_ci":   "qa",
		"manager_id": primitive.NewObjectID(),
	}); err != nil {
		t.Errorf("Insert valid group failed: %v", err)
	}
}
