// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth       = "auth"
	CategoryGroup      = "group"
	CategoryBug        = "bug"
	CategoryMembership = "membership"
)

// Auth event types
const (
	EventUserRegistered   = "user_registered"
	EventLoginSuccess     = "login_success"
	EventLoginFailed      = "login_failed"
	EventLoginRateLimited = "login_rate_limited"
	EventLogout           = "logout"
	EventTokenIssued      = "token_issued"
	EventProfileUpdated   = "profile_updated"
	EventPasswordChanged  = "password_changed"
)

// Activity event types
const (
	EventGroupCreated = "group_created"
	EventGroupUpdated = "group_updated"
	EventGroupDeleted = "group_deleted"

	EventBugCreated  = "bug_created"
	EventBugUpdated  = "bug_updated"
	EventBugAssigned = "bug_assigned"
	EventBugDeleted  = "bug_deleted"

	EventRequestCreated  = "request_created"
	EventInviteCreated   = "invite_created"
	EventRequestAccepted = "request_accepted"
	EventRequestRejected = "request_rejected"
	EventRequestDeleted  = "request_deleted"
)

// Event represents an audit event.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// Who and what
	ActorID  *primitive.ObjectID `bson:"actor_id,omitempty"`  // who performed the action
	UserID   *primitive.ObjectID `bson:"user_id,omitempty"`   // affected user, when not the actor
	GroupID  *primitive.ObjectID `bson:"group_id,omitempty"`  // group the action happened in
	TargetID *primitive.ObjectID `bson:"target_id,omitempty"` // bug or request

	// Context
	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	// Outcome
	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	Details map[string]string `bson:"details,omitempty"`
}

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	ActorID   *primitive.ObjectID
	UserID    *primitive.ObjectID
	GroupID   *primitive.ObjectID
	Category  string
	EventType string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

func (f QueryFilter) bson() bson.M {
	q := bson.M{}
	if f.ActorID != nil {
		q["actor_id"] = *f.ActorID
	}
	if f.UserID != nil {
		q["user_id"] = *f.UserID
	}
	if f.GroupID != nil {
		q["group_id"] = *f.GroupID
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.EventType != "" {
		q["event_type"] = f.EventType
	}
	if f.StartTime != nil || f.EndTime != nil {
		tq := bson.M{}
		if f.StartTime != nil {
			tq["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			tq["$lte"] = *f.EndTime
		}
		q["created_at"] = tq
	}
	return q
}

// Query retrieves audit events matching the filter, newest first.
// Limit defaults to 100.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, filter.bson(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Count returns how many events match the filter.
func (s *Store) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.bson())
}
