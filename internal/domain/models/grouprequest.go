// internal/domain/models/grouprequest.go
package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestKind says which side opened a membership record.
type RequestKind string

const (
	// KindRequest is opened by the user who wants to join; the manager resolves it.
	KindRequest RequestKind = "request"
	// KindInvite is opened by the manager; the invited user resolves it.
	KindInvite RequestKind = "invite"
)

// Valid reports whether k is a known kind.
func (k RequestKind) Valid() bool {
	return k == KindRequest || k == KindInvite
}

// RequestStatus is the lifecycle state of a membership record.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestAccepted, RequestRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s RequestStatus) Terminal() bool {
	return s == RequestAccepted || s == RequestRejected
}

var (
	// ErrNotPending is returned when resolving a record that is already accepted or rejected.
	ErrNotPending = errors.New("request already accepted or rejected")
	// ErrBadResolution is returned when the target status is not accepted/rejected.
	ErrBadResolution = errors.New(`status must be "accepted" or "rejected"`)
)

// GroupRequest links one user to one group while a join request or an
// invite is outstanding, and keeps the outcome afterwards.
//
// UserID is always the user who would join. CreatedBy is that same user for
// a request and the manager for an invite.
type GroupRequest struct {
	ID         primitive.ObjectID  `bson:"_id" json:"id"`
	GroupID    primitive.ObjectID  `bson:"group_id" json:"group_id"`
	UserID     primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Kind       RequestKind         `bson:"kind" json:"kind"`
	Status     RequestStatus       `bson:"status" json:"status"`
	CreatedBy  primitive.ObjectID  `bson:"created_by" json:"created_by"`
	ResolvedBy *primitive.ObjectID `bson:"resolved_by,omitempty" json:"resolved_by,omitempty"`
	ResolvedAt *time.Time          `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Resolve moves the record from pending to the given terminal status.
// It only mutates r when the transition is legal.
func (r *GroupRequest) Resolve(to RequestStatus, by primitive.ObjectID, at time.Time) error {
	if !to.Terminal() {
		return ErrBadResolution
	}
	if r.Status != RequestPending {
		return ErrNotPending
	}
	r.Status = to
	r.ResolvedBy = &by
	r.ResolvedAt = &at
	r.UpdatedAt = at
	return nil
}

// GroupRequestView is a request with its user and group populated for
// listing endpoints.
type GroupRequestView struct {
	GroupRequest `bson:",inline"`
	User         *UserSummary  `bson:"user,omitempty" json:"user,omitempty"`
	Group        *GroupSummary `bson:"group,omitempty" json:"group,omitempty"`
}
