package indexes_test

import (
	"context"
	"testing"

	"github.com/dalemusser/bughub/internal/app/system/indexes"
	"github.com/dalemusser/bughub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func indexNames(t *testing.T, ctx context.Context, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes on %s failed: %v", coll, err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := map[string][]string{
		"users":          {"uniq_users_email", "idx_users_groups_name_id"},
		"groups":         {"idx_groups_manager", "idx_groups_titleci_id"},
		"bugs":           {"idx_bugs_group_titleci_id", "idx_bugs_group_status_priority", "idx_bugs_taken_by"},
		"group_requests": {"uniq_requests_group_user_pending", "idx_requests_group_kind_status_created", "idx_requests_user_kind_status_created", "idx_requests_status_resolved"},
		"audit_events":   {"idx_audit_created", "idx_audit_actor_created", "idx_audit_group_created"},
	}

	for coll, want := range expected {
		names := indexNames(t, ctx, db, coll)
		for _, n := range want {
			if !names[n] {
				t.Errorf("%s: expected index %q to exist", coll, n)
			}
		}
	}
}

func TestEnsureAll_UniqueEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	users := db.Collection("users")
	if _, err := users.InsertOne(ctx, bson.M{"email": "ada@example.com"}); err != nil {
		t.Fatalf("Insert user failed: %v", err)
	}
	if _, err := users.InsertOne(ctx, bson.M{"email": "ada@example.com"}); !mongo.IsDuplicateKeyError(err) {
		t.Errorf("expected duplicate key error, got %v", err)
	}
}

func TestEnsureAll_OnePendingPerGroupAndUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	reqs := db.Collection("group_requests")
	g, u := primitive.NewObjectID(), primitive.NewObjectID()

	if _, err := reqs.InsertOne(ctx, bson.M{"group_id": g, "user_id": u, "kind": "request", "status": "pending"}); err != nil {
		t.Fatalf("first pending insert failed: %v", err)
	}
	if _, err := reqs.InsertOne(ctx, bson.M{"group_id": g, "user_id": u, "kind": "invite", "status": "pending"}); !mongo.IsDuplicateKeyError(err) {
		t.Errorf("second pending record: expected duplicate key error, got %v", err)
	}
	// Resolved records do not count.
	for i := 0; i < 2; i++ {
		if _, err := reqs.InsertOne(ctx, bson.M{"group_id": g, "user_id": u, "kind": "request", "status": "rejected"}); err != nil {
			t.Errorf("resolved insert %d failed: %v", i, err)
		}
	}
}
