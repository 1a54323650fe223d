// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/bughub/internal/app/store/audit"
	"github.com/dalemusser/bughub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination settings.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls authentication events (register, login, logout, token).
	Auth string
	// Activity controls group, bug and membership events.
	Activity string
	// Proxies may report the client address in forwarding headers.
	Proxies ratelimit.TrustedProxies
}

// Logger provides convenience methods for logging audit events.
// It logs to MongoDB (via audit.Store) and/or structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.GroupID != nil {
		fields = append(fields, zap.String("group_id", event.GroupID.Hex()))
	}
	if event.TargetID != nil {
		fields = append(fields, zap.String("target_id", event.TargetID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event according to the category's setting.
// A nil Logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.config.Activity
	if event.Category == audit.CategoryAuth {
		setting = l.config.Auth
	}
	if setting == "" {
		setting = All
	}
	if setting == Off {
		return
	}

	if (setting == All || setting == Log) && l.zapLog != nil {
		l.logToZap(event)
	}

	if (setting == All || setting == DB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil && l.zapLog != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func (l *Logger) fromRequest(r *http.Request, e audit.Event) audit.Event {
	if l != nil && r != nil {
		e.IP = l.config.Proxies.ClientIP(r)
		e.UserAgent = r.UserAgent()
	}
	return e
}

func oid(id primitive.ObjectID) *primitive.ObjectID {
	if id.IsZero() {
		return nil
	}
	return &id
}

// --- Authentication Events ---

func (l *Logger) UserRegistered(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventUserRegistered,
		ActorID:   oid(userID),
		UserID:    oid(userID),
		Success:   true,
		Details:   map[string]string{"email": email},
	}))
}

func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		ActorID:   oid(userID),
		UserID:    oid(userID),
		Success:   true,
		Details:   map[string]string{"email": email},
	}))
}

// LoginFailed logs a rejected credential check. userID is zero when the
// email is unknown.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, userID primitive.ObjectID, email, reason string) {
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailed,
		UserID:        oid(userID),
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"email": email},
	}))
}

func (l *Logger) LoginRateLimited(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginRateLimited,
		Success:       false,
		FailureReason: "rate limit exceeded",
		Details:       map[string]string{"email": email},
	}))
}

// Logout accepts the string ID carried by the session.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	var userID *primitive.ObjectID
	if id, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
		userID = &id
	}
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		ActorID:   userID,
		UserID:    userID,
		Success:   true,
	}))
}

func (l *Logger) TokenIssued(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventTokenIssued,
		ActorID:   oid(userID),
		UserID:    oid(userID),
		Success:   true,
	}))
}

func (l *Logger) ProfileUpdated(ctx context.Context, r *http.Request, userID primitive.ObjectID, fieldsChanged string) {
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventProfileUpdated,
		ActorID:   oid(userID),
		UserID:    oid(userID),
		Success:   true,
		Details:   map[string]string{"fields_changed": fieldsChanged},
	}))
}

func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventPasswordChanged,
		ActorID:   oid(userID),
		UserID:    oid(userID),
		Success:   true,
	}))
}

// --- Group Events ---

func (l *Logger) GroupCreated(ctx context.Context, r *http.Request, actorID, groupID primitive.ObjectID, name string) {
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:  audit.CategoryGroup,
		EventType: audit.EventGroupCreated,
		ActorID:   oid(actorID),
		GroupID:   oid(groupID),
		Success:   true,
		Details:   map[string]string{"group_name": name},
	}))
}

func (l *Logger) GroupUpdated(ctx context.Context, r *http.Request, actorID, groupID primitive.ObjectID, fieldsChanged string) {
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:  audit.CategoryGroup,
		EventType: audit.EventGroupUpdated,
		ActorID:   oid(actorID),
		GroupID:   oid(groupID),
		Success:   true,
		Details:   map[string]string{"fields_changed": fieldsChanged},
	}))
}

func (l *Logger) GroupDeleted(ctx context.Context, r *http.Request, actorID, groupID primitive.ObjectID, name string, bugsRemoved int64) {
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:  audit.CategoryGroup,
		EventType: audit.EventGroupDeleted,
		ActorID:   oid(actorID),
		GroupID:   oid(groupID),
		Success:   true,
		Details: map[string]string{
			"group_name":   name,
			"bugs_removed": formatInt(bugsRemoved),
		},
	}))
}

// --- Bug Events ---

func (l *Logger) BugCreated(ctx context.Context, r *http.Request, actorID, groupID, bugID primitive.ObjectID, title string) {
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:  audit.CategoryBug,
		EventType: audit.EventBugCreated,
		ActorID:   oid(actorID),
		GroupID:   oid(groupID),
		TargetID:  oid(bugID),
		Success:   true,
		Details:   map[string]string{"title": title},
	}))
}

func (l *Logger) BugUpdated(ctx context.Context, r *http.Request, actorID, groupID, bugID primitive.ObjectID, fieldsChanged string) {
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:  audit.CategoryBug,
		EventType: audit.EventBugUpdated,
		ActorID:   oid(actorID),
		GroupID:   oid(groupID),
		TargetID:  oid(bugID),
		Success:   true,
		Details:   map[string]string{"fields_changed": fieldsChanged},
	}))
}

func (l *Logger) BugAssigned(ctx context.Context, r *http.Request, actorID, groupID, bugID, assigneeID primitive.ObjectID) {
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:  audit.CategoryBug,
		EventType: audit.EventBugAssigned,
		ActorID:   oid(actorID),
		UserID:    oid(assigneeID),
		GroupID:   oid(groupID),
		TargetID:  oid(bugID),
		Success:   true,
	}))
}

func (l *Logger) BugDeleted(ctx context.Context, r *http.Request, actorID, groupID, bugID primitive.ObjectID, title string) {
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:  audit.CategoryBug,
		EventType: audit.EventBugDeleted,
		ActorID:   oid(actorID),
		GroupID:   oid(groupID),
		TargetID:  oid(bugID),
		Success:   true,
		Details:   map[string]string{"title": title},
	}))
}

// --- Membership Events ---

// RequestCreated logs a join request (kind "request") or an invite
// (kind "invite"). userID is the prospective member.
func (l *Logger) RequestCreated(ctx context.Context, r *http.Request, actorID, groupID, requestID, userID primitive.ObjectID, kind string) {
	eventType := audit.EventRequestCreated
	if kind == "invite" {
		eventType = audit.EventInviteCreated
	}
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:  audit.CategoryMembership,
		EventType: eventType,
		ActorID:   oid(actorID),
		UserID:    oid(userID),
		GroupID:   oid(groupID),
		TargetID:  oid(requestID),
		Success:   true,
		Details:   map[string]string{"kind": kind},
	}))
}

// RequestResolved logs an accept or reject.
func (l *Logger) RequestResolved(ctx context.Context, r *http.Request, actorID, groupID, requestID, userID primitive.ObjectID, kind string, accepted bool) {
	eventType := audit.EventRequestRejected
	if accepted {
		eventType = audit.EventRequestAccepted
	}
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:  audit.CategoryMembership,
		EventType: eventType,
		ActorID:   oid(actorID),
		UserID:    oid(userID),
		GroupID:   oid(groupID),
		TargetID:  oid(requestID),
		Success:   true,
		Details:   map[string]string{"kind": kind},
	}))
}

func (l *Logger) RequestDeleted(ctx context.Context, r *http.Request, actorID, groupID, requestID primitive.ObjectID) {
	l.Log(ctx, l.fromRequest(r, audit.Event{
		Category:  audit.CategoryMembership,
		EventType: audit.EventRequestDeleted,
		ActorID:   oid(actorID),
		GroupID:   oid(groupID),
		TargetID:  oid(requestID),
		Success:   true,
	}))
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}
