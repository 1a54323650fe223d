// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a team that owns bugs. Exactly one user, the manager, holds
// elevated rights over it.
//
// NOTE:
//   - Members are not embedded here; membership lives on User.Groups.
//   - The manager is always a member: creating a group adds it to the
//     manager's membership set.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	ManagerID   primitive.ObjectID `bson:"manager_id" json:"manager_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GroupSummary is the projection embedded in invite listings.
type GroupSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
}

// Summary returns the public projection of g.
func (g Group) Summary() GroupSummary {
	return GroupSummary{ID: g.ID, Title: g.Title, Description: g.Description}
}

// GroupUpdate holds the optional fields a manager may change.
type GroupUpdate struct {
	Title       *string
	Description *string
}

// Empty reports whether no field was provided.
func (u GroupUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil
}
