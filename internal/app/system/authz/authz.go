// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/bughub/internal/app/system/auth"
	"github.com/dalemusser/bughub/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the authenticated caller of a request, resolved once by the
// transport layer and passed explicitly to policies and handlers.
type Actor struct {
	ID     primitive.ObjectID
	Name   string
	Email  string
	Groups []primitive.ObjectID
}

// InGroup reports whether groupID is in the actor's membership set.
func (a Actor) InGroup(groupID primitive.ObjectID) bool {
	for _, g := range a.Groups {
		if g == groupID {
			return true
		}
	}
	return false
}

// ActorFrom converts a session user into an Actor. It fails closed: a
// malformed user ID yields ok=false. Malformed group IDs are dropped.
func ActorFrom(u *auth.SessionUser) (Actor, bool) {
	if u == nil {
		return Actor{}, false
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return Actor{}, false
	}
	groups := make([]primitive.ObjectID, 0, len(u.GroupIDs))
	for _, hex := range u.GroupIDs {
		if gid, err := primitive.ObjectIDFromHex(hex); err == nil {
			groups = append(groups, gid)
		}
	}
	return Actor{ID: id, Name: u.Name, Email: u.Email, Groups: groups}, true
}

// UserCtx returns the Actor for r and a found flag.
func UserCtx(r *http.Request) (Actor, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return Actor{}, false
	}
	return ActorFrom(u)
}

// WithActor adapts a handler that needs the caller's identity. Requests
// without a valid actor get 401 before fn runs.
func WithActor(fn func(w http.ResponseWriter, r *http.Request, a Actor)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := UserCtx(r)
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		fn(w, r, a)
	}
}
