// internal/app/policy/grouppolicy/grouppolicy.go
package grouppolicy

import (
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/domain/models"
)

// IsManager reports whether the actor manages g.
func IsManager(a authz.Actor, g models.Group) bool {
	return !a.ID.IsZero() && a.ID == g.ManagerID
}

// CanView reports whether the actor may read g: members only. The manager
// is always a member, but is checked explicitly so a stale membership set
// never locks a manager out of their own group.
func CanView(a authz.Actor, g models.Group) bool {
	return IsManager(a, g) || a.InGroup(g.ID)
}

// CanManage reports whether the actor may update or delete g, invite users
// to it, or resolve requests to join it.
func CanManage(a authz.Actor, g models.Group) bool {
	return IsManager(a, g)
}
