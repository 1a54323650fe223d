// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can create groups, file bugs and join groups.
//
// NOTE:
//   - Groups is the authoritative membership set. A user is a member of a
//     group exactly when the group's ID appears here (managers included).
//   - PasswordHash never leaves the server; it is excluded from JSON.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	Email        string               `bson:"email" json:"email"` // lowercase, unique
	PasswordHash string               `bson:"password_hash" json:"-"`
	Groups       []primitive.ObjectID `bson:"groups" json:"groups"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// InGroup reports whether the user's membership set contains groupID.
func (u User) InGroup(groupID primitive.ObjectID) bool {
	for _, g := range u.Groups {
		if g == groupID {
			return true
		}
	}
	return false
}

// UserSummary is the public projection of a user embedded in other
// responses (bug creator, group manager, request owner).
type UserSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

// Summary returns the public projection of u.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// ProfileUpdate holds the optional fields a user may change on their own
// profile. A nil field is left untouched.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// Empty reports whether no field was provided.
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil
}
