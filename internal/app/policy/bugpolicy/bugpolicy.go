// internal/app/policy/bugpolicy/bugpolicy.go
package bugpolicy

import (
	"github.com/dalemusser/bughub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/domain/models"
)

// Every predicate first requires membership in the bug's group: a user
// outside the group can do nothing with its bugs, whatever their relation
// to the bug itself.

// CanCreate reports whether the actor may file a bug in g.
func CanCreate(a authz.Actor, g models.Group) bool {
	return grouppolicy.CanView(a, g)
}

// CanView reports whether the actor may read b.
func CanView(a authz.Actor, b models.Bug, g models.Group) bool {
	return b.GroupID == g.ID && grouppolicy.CanView(a, g)
}

// CanModify reports whether the actor may update b: the group manager, the
// creator, or the assignee.
func CanModify(a authz.Actor, b models.Bug, g models.Group) bool {
	if !CanView(a, b, g) {
		return false
	}
	return grouppolicy.IsManager(a, g) || b.CreatedBy == a.ID || b.IsAssignee(a.ID)
}

// CanDelete reports whether the actor may delete b: the group manager or the
// creator. The assignee may edit but not delete.
func CanDelete(a authz.Actor, b models.Bug, g models.Group) bool {
	if !CanView(a, b, g) {
		return false
	}
	return grouppolicy.IsManager(a, g) || b.CreatedBy == a.ID
}

// CanAssign reports whether the actor may take b. Whether b is still
// unassigned is decided by the store, atomically.
func CanAssign(a authz.Actor, b models.Bug, g models.Group) bool {
	return CanView(a, b, g)
}
