package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/bughub/internal/app/system/httpjson"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	// DefaultSessionName is used when the config leaves session_name blank.
	DefaultSessionName = "bughub-session"

	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
	userName  = "user_name"
	userEmail = "user_email"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is what we inject into r.Context() for an authenticated
// request. ID is the hex ObjectID of the user.
type SessionUser struct {
	ID       string
	Name     string
	Email    string
	GroupIDs []string
}

// UserFetcher loads the current state of a user on every request so that
// group membership changes take effect without signing in again.
// It returns (nil, nil) when the user no longer exists.
type UserFetcher interface {
	FetchSessionUser(ctx context.Context, userID string) (*SessionUser, error)
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithTestUser injects u the way LoadSessionUser does. Handlers under test
// use it to skip the cookie round trip.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie store and resolves the caller of each
// request from either a bearer token or the session cookie.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	logger  *zap.Logger
	fetcher UserFetcher
	tokens  *TokenIssuer
}

// NewSessionManager builds the cookie store. The secure flag controls the
// Secure attribute and the SameSite mode.
//
// In production (secure=true), cookies are Secure + SameSite=None.
// In local dev over http://localhost, use secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, name: name, logger: logger}, nil
}

// SetUserFetcher wires the store used to refresh users per request.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// SetTokenIssuer enables bearer-token authentication.
func (sm *SessionManager) SetTokenIssuer(t *TokenIssuer) { sm.tokens = t }

// Tokens returns the configured issuer, or nil.
func (sm *SessionManager) Tokens() *TokenIssuer { return sm.tokens }

// Name is the cookie name.
func (sm *SessionManager) Name() string { return sm.name }

// Store exposes the underlying cookie store.
func (sm *SessionManager) Store() *sessions.CookieStore { return sm.store }

// GetSession returns the request's session. A cookie that fails to decode
// (rotated key, tampering) yields a fresh session rather than an error.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			sm.logger.Debug("discarding undecodable session cookie", zap.Error(err))
			return sess, nil
		}
		return sess, err
	}
	return sess, nil
}

// SignIn stores u in a fresh cookie session.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *SessionUser) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		return err
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userName] = u.Name
	sess.Values[userEmail] = u.Email
	return sess.Save(r, w)
}

// SignOut expires the session cookie. It is safe to call without a session.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		return err
	}
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// LoadSessionUser injects the user into context if the request carries a
// valid bearer token or session cookie. The bearer token wins when both are
// present. A malformed or expired token leaves the request anonymous; a
// failed user reload answers 500.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := sm.fromBearer(r)
		if u == nil {
			u = sm.fromCookie(r)
		}
		if u != nil {
			fresh, err := sm.refresh(r.Context(), u)
			if err != nil {
				sm.logger.Error("refreshing session user failed",
					zap.String("user_id", u.ID), zap.Error(err))
				httpjson.Error(w, http.StatusInternalServerError, "internal server error")
				return
			}
			u = fresh
		}
		if u != nil {
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn answers 401 unless LoadSessionUser found a user.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
	})
}

func (sm *SessionManager) fromBearer(r *http.Request) *SessionUser {
	if sm.tokens == nil {
		return nil
	}
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return nil
	}
	id, err := sm.tokens.Parse(strings.TrimSpace(h[7:]))
	if err != nil {
		sm.logger.Debug("rejecting bearer token", zap.Error(err))
		return nil
	}
	return &SessionUser{ID: id}
}

func (sm *SessionManager) fromCookie(r *http.Request) *SessionUser {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.logger.Warn("session lookup failed", zap.Error(err))
		return nil
	}
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return nil
	}
	id := getString(sess, userIDKey)
	if id == "" {
		return nil
	}
	return &SessionUser{
		ID:    id,
		Name:  getString(sess, userName),
		Email: getString(sess, userEmail),
	}
}

// refresh replaces the cached identity with the stored user. Without a
// fetcher the cached values are used as-is. A deleted user yields nil.
func (sm *SessionManager) refresh(ctx context.Context, u *SessionUser) (*SessionUser, error) {
	if sm.fetcher == nil {
		return u, nil
	}
	return sm.fetcher.FetchSessionUser(ctx, u.ID)
}

// helpers

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
