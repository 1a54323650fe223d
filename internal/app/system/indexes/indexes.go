// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	sets := []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"users", ensureUsers},
		{"groups", ensureGroups},
		{"bugs", ensureBugs},
		{"group_requests", ensureGroupRequests},
		{"audit_events", ensureAuditEvents},
	}
	for _, s := range sets {
		if err := s.fn(ctx, db); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name    string   `bson:"name"`
	Key     bson.D   `bson:"key"`
	Unique  *bool    `bson:"unique,omitempty"`
	Partial bson.Raw `bson:"partialFilterExpression,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

type desired struct {
	name    string
	unique  bool
	partial bool
	sig     string
}

func describe(m mongo.IndexModel) desired {
	d := desired{sig: keySig(m.Keys.(bson.D))}
	if o := m.Options; o != nil {
		if o.Name != nil {
			d.name = *o.Name
		}
		d.unique = o.Unique != nil && *o.Unique
		d.partial = o.PartialFilterExpression != nil
	}
	return d
}

// sameShape reports whether ex can stand in for d. Name differences are
// handled separately.
func sameShape(d desired, ex existingIndex) bool {
	exUnique := ex.Unique != nil && *ex.Unique
	return d.unique == exUnique && d.partial == (len(ex.Partial) > 0)
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	existing := listExisting(ctx, coll)

	for _, m := range models {
		d := describe(m)
		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", d.name),
			zap.String("keys", d.sig),
			zap.Bool("unique", d.unique),
			zap.Bool("partial", d.partial))

		if ex, ok := existing[d.sig]; ok {
			if sameShape(d, ex) && (d.name == "" || ex.Name == d.name) {
				log.Debug("reusing existing index")
				continue
			}
			// Options or name differ: drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				log.Warn("drop existing index failed", zap.String("existing", ex.Name), zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), d.name, err))
				continue
			}
			log.Info("dropped index for recreation", zap.String("existing", ex.Name))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && d.unique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)%s",
					coll.Name(), d.name, duplicateHint(coll.Name(), d.sig)))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), d.name, err))
			}
			log.Warn("index ensure failed", zap.Duration("took", time.Since(start)), zap.Error(err))
			continue
		}
		log.Info("index ensured", zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func duplicateHint(coll, sig string) string {
	switch {
	case coll == "users" && strings.Contains(sig, "email:1"):
		return ": duplicates exist on users.email. Example finder:\n" +
			`db.users.aggregate([{ $group: { _id: "$email", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`
	case coll == "group_requests":
		return ": more than one pending record for the same group and user. Example finder:\n" +
			`db.group_requests.aggregate([{ $match: { status: "pending" } }, { $group: { _id: { g: "$group_id", u: "$user_id" }, n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`
	}
	return ""
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		// Email is the login identifier; stored lowercase.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		// Member listings and the cascade $pull on group delete.
		{
			Keys:    bson.D{{Key: "groups", Value: 1}, {Key: "name", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_users_groups_name_id"),
		},
	})
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("groups"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "manager_id", Value: 1}},
			Options: options.Index().SetName("idx_groups_manager"),
		},
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_groups_titleci_id"),
		},
	})
}

func ensureBugs(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("bugs"), []mongo.IndexModel{
		// Listing scoped to the caller's groups, sorted by title.
		{
			Keys: bson.D{
				{Key: "group_id", Value: 1},
				{Key: "title_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_bugs_group_titleci_id"),
		},
		// Status/priority filters.
		{
			Keys: bson.D{
				{Key: "group_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "priority", Value: 1},
			},
			Options: options.Index().SetName("idx_bugs_group_status_priority"),
		},
		{
			Keys:    bson.D{{Key: "taken_by", Value: 1}},
			Options: options.Index().SetName("idx_bugs_taken_by").SetSparse(true),
		},
	})
}

func ensureGroupRequests(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("group_requests"), []mongo.IndexModel{
		// At most one outstanding record per (group, user), whichever side opened it.
		{
			Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "pending"}).
				SetName("uniq_requests_group_user_pending"),
		},
		// Manager's pending-requests view.
		{
			Keys: bson.D{
				{Key: "group_id", Value: 1},
				{Key: "kind", Value: 1},
				{Key: "status", Value: 1},
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().SetName("idx_requests_group_kind_status_created"),
		},
		// Invited user's pending-invites view.
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "kind", Value: 1},
				{Key: "status", Value: 1},
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().SetName("idx_requests_user_kind_status_created"),
		},
		// Retention worker.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "resolved_at", Value: 1}},
			Options: options.Index().SetName("idx_requests_status_resolved"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_audit_created"),
		},
		{
			Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_audit_actor_created"),
		},
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_audit_group_created").SetSparse(true),
		},
	})
}
