package bugpolicy_test

import (
	"testing"

	"github.com/dalemusser/bughub/internal/app/policy/bugpolicy"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type cast struct {
	group    models.Group
	bug      models.Bug
	manager  authz.Actor
	creator  authz.Actor
	assignee authz.Actor
	member   authz.Actor
	outsider authz.Actor
}

func newCast() cast {
	g := models.Group{ID: primitive.NewObjectID(), ManagerID: primitive.NewObjectID()}
	in := []primitive.ObjectID{g.ID}

	c := cast{
		group:    g,
		manager:  authz.Actor{ID: g.ManagerID, Groups: in},
		creator:  authz.Actor{ID: primitive.NewObjectID(), Groups: in},
		assignee: authz.Actor{ID: primitive.NewObjectID(), Groups: in},
		member:   authz.Actor{ID: primitive.NewObjectID(), Groups: in},
		outsider: authz.Actor{ID: primitive.NewObjectID()},
	}
	taken := c.assignee.ID
	c.bug = models.Bug{
		ID:        primitive.NewObjectID(),
		GroupID:   g.ID,
		CreatedBy: c.creator.ID,
		TakenBy:   &taken,
	}
	return c
}

func TestBugPolicy_Matrix(t *testing.T) {
	c := newCast()

	tests := []struct {
		name                     string
		actor                    authz.Actor
		view, modify, del, assgn bool
	}{
		{"manager", c.manager, true, true, true, true},
		{"creator", c.creator, true, true, true, true},
		{"assignee", c.assignee, true, true, false, true},
		{"member", c.member, true, false, false, true},
		{"outsider", c.outsider, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bugpolicy.CanView(tt.actor, c.bug, c.group); got != tt.view {
				t.Errorf("CanView = %v, want %v", got, tt.view)
			}
			if got := bugpolicy.CanModify(tt.actor, c.bug, c.group); got != tt.modify {
				t.Errorf("CanModify = %v, want %v", got, tt.modify)
			}
			if got := bugpolicy.CanDelete(tt.actor, c.bug, c.group); got != tt.del {
				t.Errorf("CanDelete = %v, want %v", got, tt.del)
			}
			if got := bugpolicy.CanAssign(tt.actor, c.bug, c.group); got != tt.assgn {
				t.Errorf("CanAssign = %v, want %v", got, tt.assgn)
			}
		})
	}
}

func TestBugPolicy_CreatorWhoLeftGroup(t *testing.T) {
	c := newCast()
	gone := authz.Actor{ID: c.creator.ID}

	if bugpolicy.CanView(gone, c.bug, c.group) {
		t.Error("former member should not read the group's bugs")
	}
	if bugpolicy.CanModify(gone, c.bug, c.group) {
		t.Error("former member should not modify the group's bugs")
	}
	if bugpolicy.CanDelete(gone, c.bug, c.group) {
		t.Error("former member should not delete the group's bugs")
	}
}

func TestBugPolicy_GroupMismatch(t *testing.T) {
	c := newCast()
	other := models.Group{ID: primitive.NewObjectID(), ManagerID: c.manager.ID}

	if bugpolicy.CanView(c.manager, c.bug, other) {
		t.Error("a bug must be checked against its own group")
	}
}

func TestCanCreate(t *testing.T) {
	c := newCast()

	if !bugpolicy.CanCreate(c.member, c.group) {
		t.Error("member should be able to file bugs")
	}
	if bugpolicy.CanCreate(c.outsider, c.group) {
		t.Error("outsider should not be able to file bugs")
	}
}
