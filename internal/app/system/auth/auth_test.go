package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/bughub/internal/app/system/auth"
	"go.uber.org/zap"
)

const testUserID = "507f1f77bcf86cd799439011"

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		logger,
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

// stubFetcher returns a fixed user per ID.
type stubFetcher struct {
	users map[string]*auth.SessionUser
	err   error
}

func (f stubFetcher) FetchSessionUser(_ context.Context, id string) (*auth.SessionUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

// echoUser writes the ID of the context user, or "anonymous".
func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := auth.CurrentUser(r); ok {
			w.Write([]byte(u.ID))
			return
		}
		w.Write([]byte("anonymous"))
	})
}

// signInCookies performs SignIn and returns the cookies it set.
func signInCookies(t *testing.T, sm *auth.SessionManager, u *auth.SessionUser) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/users/login", nil)
	if err := sm.SignIn(rec, req, u); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("SignIn set no cookie")
	}
	return cookies
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestNewSessionManager_DefaultName(t *testing.T) {
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	if sm.Name() != auth.DefaultSessionName {
		t.Errorf("Name() = %q, want %q", sm.Name(), auth.DefaultSessionName)
	}
}

func TestRequireSignedIn_NoUser_Returns401JSON(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/bugs", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	var body struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body.Status != http.StatusUnauthorized || body.Message == "" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestRequireSignedIn_WithUser_Proceeds(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(echoUser())

	req := auth.WithTestUser(httptest.NewRequest("GET", "/bugs", nil), &auth.SessionUser{ID: testUserID})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != testUserID {
		t.Errorf("body = %q, want %q", rec.Body.String(), testUserID)
	}
}

func TestLoadSessionUser_CookieRoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)
	cookies := signInCookies(t, sm, &auth.SessionUser{ID: testUserID, Name: "Ada", Email: "ada@example.com"})

	req := httptest.NewRequest("GET", "/users/profile", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	sm.LoadSessionUser(echoUser()).ServeHTTP(rec, req)

	if rec.Body.String() != testUserID {
		t.Errorf("body = %q, want %q", rec.Body.String(), testUserID)
	}
}

func TestLoadSessionUser_NoCookie_Anonymous(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	sm.LoadSessionUser(echoUser()).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Body.String() != "anonymous" {
		t.Errorf("body = %q, want anonymous", rec.Body.String())
	}
}

func TestLoadSessionUser_TamperedCookie_Anonymous(t *testing.T) {
	sm := newTestSessionManager(t)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: sm.Name(), Value: "garbage"})
	rec := httptest.NewRecorder()
	sm.LoadSessionUser(echoUser()).ServeHTTP(rec, req)

	if rec.Body.String() != "anonymous" {
		t.Errorf("body = %q, want anonymous", rec.Body.String())
	}
}

func TestLoadSessionUser_FetcherRefreshesGroups(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{users: map[string]*auth.SessionUser{
		testUserID: {ID: testUserID, Name: "Ada", GroupIDs: []string{"g1", "g2"}},
	}})
	cookies := signInCookies(t, sm, &auth.SessionUser{ID: testUserID})

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	var got *auth.SessionUser
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected a user in context")
	}
	if len(got.GroupIDs) != 2 {
		t.Errorf("GroupIDs = %v, want 2 entries", got.GroupIDs)
	}
}

func TestLoadSessionUser_DeletedUser_Anonymous(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{users: map[string]*auth.SessionUser{}})
	cookies := signInCookies(t, sm, &auth.SessionUser{ID: testUserID})

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	sm.LoadSessionUser(echoUser()).ServeHTTP(rec, req)

	if rec.Body.String() != "anonymous" {
		t.Errorf("body = %q, want anonymous", rec.Body.String())
	}
}

func TestLoadSessionUser_FetcherError_Returns500(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{err: errors.New("db down")})
	cookies := signInCookies(t, sm, &auth.SessionUser{ID: testUserID})

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	sm.LoadSessionUser(echoUser()).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != 500 || body.Message != "internal server error" {
		t.Errorf("body = %+v", body)
	}
}

func TestLoadSessionUser_FetcherErrorWithoutCredentials_Passes(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{err: errors.New("db down")})

	rec := httptest.NewRecorder()
	sm.LoadSessionUser(echoUser()).ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
		t.Errorf("got %d %q, want anonymous 200", rec.Code, rec.Body.String())
	}
}

func TestLoadSessionUser_BearerToken(t *testing.T) {
	sm := newTestSessionManager(t)
	issuer, err := auth.NewTokenIssuer("jwt-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	sm.SetTokenIssuer(issuer)

	tok, _, err := issuer.Issue(testUserID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid", "Bearer " + tok, testUserID},
		{"lowercase scheme", "bearer " + tok, testUserID},
		{"garbage", "Bearer not-a-token", "anonymous"},
		{"basic scheme", "Basic dXNlcjpwYXNz", "anonymous"},
		{"empty", "", "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			sm.LoadSessionUser(echoUser()).ServeHTTP(rec, req)
			if rec.Body.String() != tt.want {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestSignOut_ExpiresCookie(t *testing.T) {
	sm := newTestSessionManager(t)
	cookies := signInCookies(t, sm, &auth.SessionUser{ID: testUserID})

	req := httptest.NewRequest("POST", "/users/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	if err := sm.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	out := rec.Result().Cookies()
	if len(out) == 0 {
		t.Fatal("SignOut set no cookie")
	}
	if out[0].MaxAge >= 0 {
		t.Errorf("MaxAge = %d, want negative", out[0].MaxAge)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	user, ok := auth.CurrentUser(req)

	if ok {
		t.Error("expected ok to be false when no user in context")
	}
	if user != nil {
		t.Error("expected user to be nil when no user in context")
	}
}
