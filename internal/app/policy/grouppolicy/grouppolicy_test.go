package grouppolicy_test

import (
	"testing"

	"github.com/dalemusser/bughub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGroupPolicy(t *testing.T) {
	g := models.Group{ID: primitive.NewObjectID(), ManagerID: primitive.NewObjectID()}

	manager := authz.Actor{ID: g.ManagerID, Groups: []primitive.ObjectID{g.ID}}
	member := authz.Actor{ID: primitive.NewObjectID(), Groups: []primitive.ObjectID{g.ID}}
	outsider := authz.Actor{ID: primitive.NewObjectID()}
	anonymous := authz.Actor{}

	tests := []struct {
		name       string
		actor      authz.Actor
		wantView   bool
		wantManage bool
	}{
		{"manager", manager, true, true},
		{"member", member, true, false},
		{"outsider", outsider, false, false},
		{"zero actor", anonymous, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grouppolicy.CanView(tt.actor, g); got != tt.wantView {
				t.Errorf("CanView = %v, want %v", got, tt.wantView)
			}
			if got := grouppolicy.CanManage(tt.actor, g); got != tt.wantManage {
				t.Errorf("CanManage = %v, want %v", got, tt.wantManage)
			}
		})
	}
}

func TestCanView_ManagerWithStaleMembership(t *testing.T) {
	g := models.Group{ID: primitive.NewObjectID(), ManagerID: primitive.NewObjectID()}
	a := authz.Actor{ID: g.ManagerID}

	if !grouppolicy.CanView(a, g) {
		t.Error("manager should always see their group")
	}
}
