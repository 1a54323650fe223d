// internal/domain/models/bug.go
package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BugStatus is the workflow state of a bug.
type BugStatus string

const (
	BugOpen       BugStatus = "open"
	BugInProgress BugStatus = "in progress"
	BugClosed     BugStatus = "closed"
)

// BugStatuses lists every valid status in display order.
var BugStatuses = []BugStatus{BugOpen, BugInProgress, BugClosed}

// Valid reports whether s is one of the known statuses.
func (s BugStatus) Valid() bool {
	switch s {
	case BugOpen, BugInProgress, BugClosed:
		return true
	}
	return false
}

// BugPriority ranks how urgent a bug is.
type BugPriority string

const (
	PriorityLow    BugPriority = "low"
	PriorityMedium BugPriority = "medium"
	PriorityHigh   BugPriority = "high"
)

// BugPriorities lists every valid priority from lowest to highest.
var BugPriorities = []BugPriority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priorities.
func (p BugPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

var (
	ErrBadBugStatus   = errors.New(`status must be "open", "in progress" or "closed"`)
	ErrBadBugPriority = errors.New(`priority must be "low", "medium" or "high"`)
	ErrEmptyTitle     = errors.New("title must not be empty")
)

// Bug is a defect report filed inside a group.
//
// TakenBy is nil while the bug is unassigned. Once set it is never cleared;
// there is no unassign operation.
type Bug struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	Title       string              `bson:"title" json:"title"`
	TitleCI     string              `bson:"title_ci" json:"-"`
	Description string              `bson:"description" json:"description"`
	Status      BugStatus           `bson:"status" json:"status"`
	Priority    BugPriority         `bson:"priority" json:"priority"`
	CreatedBy   primitive.ObjectID  `bson:"created_by" json:"created_by"`
	TakenBy     *primitive.ObjectID `bson:"taken_by,omitempty" json:"taken_by"`
	GroupID     primitive.ObjectID  `bson:"group_id" json:"group_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Assigned reports whether someone has taken the bug.
func (b Bug) Assigned() bool {
	return b.TakenBy != nil
}

// IsAssignee reports whether userID is the bug's current assignee.
func (b Bug) IsAssignee(userID primitive.ObjectID) bool {
	return b.TakenBy != nil && *b.TakenBy == userID
}

// ApplyDefaults fills status and priority when the caller left them blank.
func (b *Bug) ApplyDefaults() {
	if b.Status == "" {
		b.Status = BugOpen
	}
	if b.Priority == "" {
		b.Priority = PriorityMedium
	}
}

// Validate checks the enumerated fields and the title.
func (b Bug) Validate() error {
	if b.Title == "" {
		return ErrEmptyTitle
	}
	if !b.Status.Valid() {
		return ErrBadBugStatus
	}
	if !b.Priority.Valid() {
		return ErrBadBugPriority
	}
	return nil
}

// BugUpdate is a partial update: only non-nil slots are applied.
type BugUpdate struct {
	Title       *string
	Description *string
	Status      *BugStatus
	Priority    *BugPriority
}

// Empty reports whether no field was provided.
func (u BugUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil && u.Priority == nil
}

// Validate checks every provided slot.
func (u BugUpdate) Validate() error {
	if u.Title != nil && *u.Title == "" {
		return ErrEmptyTitle
	}
	if u.Status != nil && !u.Status.Valid() {
		return ErrBadBugStatus
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return ErrBadBugPriority
	}
	return nil
}

// Apply merges the provided slots into b.
func (u BugUpdate) Apply(b *Bug) {
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Description != nil {
		b.Description = *u.Description
	}
	if u.Status != nil {
		b.Status = *u.Status
	}
	if u.Priority != nil {
		b.Priority = *u.Priority
	}
}

// BugFilter narrows a bug listing. Zero values mean "any".
type BugFilter struct {
	Status   BugStatus
	Priority BugPriority
	GroupIDs []primitive.ObjectID
}
