// internal/app/policy/requestpolicy/requestpolicy.go
package requestpolicy

import (
	"github.com/dalemusser/bughub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/bughub/internal/app/system/authz"
	"github.com/dalemusser/bughub/internal/domain/models"
)

// CanResolve reports whether the actor is the counterpart of req: the group
// manager for a join request, the invited user for an invite.
func CanResolve(a authz.Actor, req models.GroupRequest, g models.Group) bool {
	switch req.Kind {
	case models.KindRequest:
		return grouppolicy.IsManager(a, g)
	case models.KindInvite:
		return req.UserID == a.ID
	}
	return false
}

// CanDelete reports whether the actor may withdraw req, in any status: the
// creator of a join request, the group manager for an invite.
func CanDelete(a authz.Actor, req models.GroupRequest, g models.Group) bool {
	switch req.Kind {
	case models.KindRequest:
		return req.CreatedBy == a.ID
	case models.KindInvite:
		return grouppolicy.IsManager(a, g)
	}
	return false
}

// CanInvite reports whether the actor may invite users into g.
func CanInvite(a authz.Actor, g models.Group) bool {
	return grouppolicy.CanManage(a, g)
}

// CanListPending reports whether the actor may see g's pending join requests.
func CanListPending(a authz.Actor, g models.Group) bool {
	return grouppolicy.CanManage(a, g)
}
