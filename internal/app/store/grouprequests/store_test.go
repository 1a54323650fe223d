package grouprequeststore_test

import (
	"sync"
	"testing"
	"time"

	grouprequeststore "github.com/dalemusser/bughub/internal/app/store/grouprequests"
	"github.com/dalemusser/bughub/internal/domain/models"
	"github.com/dalemusser/bughub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouprequeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := primitive.NewObjectID()
	u := primitive.NewObjectID()

	created, err := store.Create(ctx, models.GroupRequest{
		GroupID:   g,
		UserID:    u,
		Kind:      models.KindRequest,
		Status:    models.RequestAccepted, // ignored
		CreatedBy: u,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Status != models.RequestPending {
		t.Errorf("Status: got %q, want pending", created.Status)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
}

func TestStore_Create_DuplicatePending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouprequeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := primitive.NewObjectID()
	u := primitive.NewObjectID()
	manager := primitive.NewObjectID()

	first, err := store.Create(ctx, models.GroupRequest{GroupID: g, UserID: u, Kind: models.KindRequest, CreatedBy: u})
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// An invite for the same pair collides with the pending request.
	_, err = store.Create(ctx, models.GroupRequest{GroupID: g, UserID: u, Kind: models.KindInvite, CreatedBy: manager})
	if err != grouprequeststore.ErrDuplicatePending {
		t.Fatalf("expected ErrDuplicatePending, got %v", err)
	}

	// Once resolved, a new pending record is allowed.
	if _, err := store.Resolve(ctx, first.ID, models.RequestRejected, manager); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if _, err := store.Create(ctx, models.GroupRequest{GroupID: g, UserID: u, Kind: models.KindInvite, CreatedBy: manager}); err != nil {
		t.Errorf("Create after resolution failed: %v", err)
	}
}

func TestStore_Resolve(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouprequeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := primitive.NewObjectID()
	u := primitive.NewObjectID()
	manager := primitive.NewObjectID()
	gr := fixtures.CreateRequest(ctx, models.KindRequest, g, u, u)

	if _, err := store.Resolve(ctx, gr.ID, models.RequestPending, manager); err != models.ErrBadResolution {
		t.Errorf("resolve to pending: expected ErrBadResolution, got %v", err)
	}

	got, err := store.Resolve(ctx, gr.ID, models.RequestAccepted, manager)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Status != models.RequestAccepted {
		t.Errorf("Status: got %q", got.Status)
	}
	if got.ResolvedBy == nil || *got.ResolvedBy != manager || got.ResolvedAt == nil {
		t.Errorf("resolution metadata missing: %+v", got)
	}

	got, err = store.Resolve(ctx, gr.ID, models.RequestRejected, manager)
	if err != models.ErrNotPending {
		t.Errorf("second Resolve: expected ErrNotPending, got %v", err)
	}
	if got.Status != models.RequestAccepted {
		t.Errorf("terminal status changed to %q", got.Status)
	}

	if _, err := store.Resolve(ctx, primitive.NewObjectID(), models.RequestAccepted, manager); err != mongo.ErrNoDocuments {
		t.Errorf("missing record: expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_Resolve_Race(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouprequeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := primitive.NewObjectID()
	gr := fixtures.CreateRequest(ctx, models.KindRequest, primitive.NewObjectID(), u, u)

	const n = 6
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		to := models.RequestAccepted
		if i%2 == 1 {
			to = models.RequestRejected
		}
		wg.Add(1)
		go func(to models.RequestStatus) {
			defer wg.Done()
			_, err := store.Resolve(ctx, gr.ID, to, primitive.NewObjectID())
			errs <- err
		}(to)
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		switch err {
		case nil:
			wins++
		case models.ErrNotPending:
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("expected exactly one resolution, got %d", wins)
	}
}

func TestStore_ListForGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouprequeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	manager := fixtures.CreateUser(ctx, "Manager", "m@example.com")
	g := fixtures.CreateGroup(ctx, "Team", &manager)
	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	bob := fixtures.CreateUser(ctx, "Bob", "bob@example.com")

	fixtures.CreateRequest(ctx, models.KindRequest, g.ID, ada.ID, ada.ID)
	fixtures.CreateRequest(ctx, models.KindInvite, g.ID, bob.ID, manager.ID)

	reqs, err := store.ListForGroup(ctx, g.ID, models.KindRequest, models.RequestPending)
	if err != nil {
		t.Fatalf("ListForGroup failed: %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].User == nil || reqs[0].User.Name != "Ada" || reqs[0].User.Email != "ada@example.com" {
		t.Errorf("user summary not populated: %+v", reqs[0].User)
	}

	all, err := store.ListForGroup(ctx, g.ID, "", "")
	if err != nil {
		t.Fatalf("ListForGroup failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 records of any kind, got %d", len(all))
	}

	n, err := store.CountPending(ctx, g.ID)
	if err != nil || n != 2 {
		t.Errorf("CountPending = %d, %v", n, err)
	}
}

func TestStore_ListInvitesForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouprequeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	manager := fixtures.CreateUser(ctx, "Manager", "m@example.com")
	g1 := fixtures.CreateGroup(ctx, "First", &manager)
	g2 := fixtures.CreateGroup(ctx, "Second", &manager)
	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")

	fixtures.CreateRequest(ctx, models.KindInvite, g1.ID, ada.ID, manager.ID)
	fixtures.CreateRequest(ctx, models.KindRequest, g2.ID, ada.ID, ada.ID)

	invites, err := store.ListInvitesForUser(ctx, ada.ID)
	if err != nil {
		t.Fatalf("ListInvitesForUser failed: %v", err)
	}
	if len(invites) != 1 {
		t.Fatalf("expected 1 invite, got %d", len(invites))
	}
	if invites[0].Group == nil || invites[0].Group.Title != "First" {
		t.Errorf("group summary not populated: %+v", invites[0].Group)
	}
}

func TestStore_DeleteAndPrune(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouprequeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := primitive.NewObjectID()
	manager := primitive.NewObjectID()
	oldReq := fixtures.CreateRequest(ctx, models.KindRequest, g, primitive.NewObjectID(), manager)
	pending := fixtures.CreateRequest(ctx, models.KindRequest, g, primitive.NewObjectID(), manager)
	doomed := fixtures.CreateRequest(ctx, models.KindInvite, primitive.NewObjectID(), primitive.NewObjectID(), manager)

	if _, err := store.Resolve(ctx, oldReq.ID, models.RequestRejected, manager); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	past := time.Now().Add(-90 * 24 * time.Hour).UTC()
	if _, err := db.Collection("group_requests").UpdateByID(ctx, oldReq.ID,
		bson.M{"$set": bson.M{"resolved_at": past}}); err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	n, err := store.PruneResolvedBefore(ctx, time.Now().Add(-30*24*time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("PruneResolvedBefore = %d, %v; want 1", n, err)
	}
	if _, err := store.GetByID(ctx, pending.ID); err != nil {
		t.Errorf("pending record was pruned: %v", err)
	}

	if n, err := store.Delete(ctx, doomed.ID); err != nil || n != 1 {
		t.Errorf("Delete = %d, %v", n, err)
	}
	if n, err := store.DeleteByGroup(ctx, g); err != nil || n != 1 {
		t.Errorf("DeleteByGroup = %d, %v; want 1", n, err)
	}
}
