package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"epicsnap/internal/auth"
	"epicsnap/internal/model"
	"epicsnap/internal/store"
)

func newTestGuard(t *testing.T) (*SessionGuard, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	g := &SessionGuard{
		Store:  s,
		Tokens: auth.TokenConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "test"},
		Cookie: auth.CookieConfig{MaxAge: time.Hour},
	}
	return g, s
}

func guardedRouter(g *SessionGuard) *gin.Engine {
	r := gin.New()
	pages := r.Group("/", g.Pages())
	for _, p := range []string{"/", "/login", "/signup", "/dashboard", "/screenshots", "/albums"} {
		path := p
		pages.GET(path, func(c *gin.Context) { c.String(http.StatusOK, "page:"+path) })
	}
	r.GET("/api/session", g.RequireSession(), func(c *gin.Context) {
		uid, _ := UserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": uid})
	})
	return r
}

func sessionCookie(t *testing.T, g *SessionGuard, s *store.Store, email string) *http.Cookie {
	t.Helper()
	u, _, err := s.CreateUser(context.Background(), email, "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	tok, jti, err := auth.CreateToken(u.ID, u.Email, g.Tokens)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	row := model.SessionToken{
		ID:        jti,
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(g.Tokens.Expiry).UnixMilli(),
	}
	if err := s.CreateSessionToken(context.Background(), row); err != nil {
		t.Fatalf("CreateSessionToken: %v", err)
	}
	return &http.Cookie{Name: auth.SessionCookieName, Value: tok}
}

func TestPages_AnonymousProtectedRedirectsToLogin(t *testing.T) {
	g, _ := newTestGuard(t)
	r := guardedRouter(g)

	for _, path := range []string{"/dashboard", "/screenshots", "/albums"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusFound {
			t.Fatalf("%s: expected 302, got %d", path, w.Code)
		}
		loc := w.Header().Get("Location")
		if loc != "/login?redirect_to="+url.QueryEscape(path) {
			t.Fatalf("%s: unexpected redirect %q", path, loc)
		}
		if w.Body.String() == "page:"+path {
			t.Fatalf("%s: protected content rendered for anonymous request", path)
		}
	}
}

func TestPages_AuthenticatedEntryRedirectsToDashboard(t *testing.T) {
	g, s := newTestGuard(t)
	r := guardedRouter(g)
	cookie := sessionCookie(t, g, s, "a@example.com")

	for _, path := range []string{"/login", "/signup"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusFound {
			t.Fatalf("%s: expected 302, got %d", path, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/dashboard" {
			t.Fatalf("%s: expected redirect to /dashboard, got %q", path, loc)
		}
	}
}

func TestPages_PassThrough(t *testing.T) {
	g, s := newTestGuard(t)
	r := guardedRouter(g)

	// Anonymous entry and public pages pass through.
	for _, path := range []string{"/", "/login", "/signup"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
	}

	// Authenticated protected pages pass through.
	cookie := sessionCookie(t, g, s, "b@example.com")
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with session, got %d", w.Code)
	}
}

func TestRequireSession(t *testing.T) {
	g, s := newTestGuard(t)
	r := guardedRouter(g)

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", w.Code)
	}

	cookie := sessionCookie(t, g, s, "c@example.com")
	req = httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with cookie, got %d", w.Code)
	}
}

func TestRequireSession_RevokedToken(t *testing.T) {
	g, s := newTestGuard(t)
	r := guardedRouter(g)
	cookie := sessionCookie(t, g, s, "d@example.com")

	claims, err := auth.VerifyToken(cookie.Value, g.Tokens)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if err := s.RevokeSessionToken(context.Background(), claims.ID); err != nil {
		t.Fatalf("RevokeSessionToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked session, got %d", w.Code)
	}
}

func TestPages_RotatesSessionPastMidpoint(t *testing.T) {
	g, s := newTestGuard(t)
	r := guardedRouter(g)

	u, _, err := s.CreateUser(context.Background(), "rotate@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// A token two thirds into its hour-long lifetime, with a live row.
	now := time.Now()
	const oldJTI = "jti-aging"
	claims := auth.Claims{
		UserID: u.ID,
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.Tokens.Issuer,
			IssuedAt:  jwt.NewNumericDate(now.Add(-40 * time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(20 * time.Minute)),
			ID:        oldJTI,
			Subject:   u.ID,
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(g.Tokens.Secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	row := model.SessionToken{ID: oldJTI, UserID: u.ID, ExpiresAt: now.Add(20 * time.Minute).UnixMilli()}
	if err := s.CreateSessionToken(context.Background(), row); err != nil {
		t.Fatalf("CreateSessionToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: tok})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var fresh string
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName && c.Value != "" {
			fresh = c.Value
		}
	}
	if fresh == "" {
		t.Fatalf("expected a refreshed session cookie on the response")
	}
	if fresh == tok {
		t.Fatalf("refreshed cookie carries the old token")
	}

	newClaims, err := auth.VerifyToken(fresh, g.Tokens)
	if err != nil {
		t.Fatalf("VerifyToken(refreshed): %v", err)
	}
	if newClaims.ID == oldJTI {
		t.Fatalf("rotation reissued the same jti")
	}
	if newClaims.UserID != u.ID {
		t.Fatalf("rotated token changed user: %q", newClaims.UserID)
	}

	if live, err := s.SessionTokenLive(context.Background(), oldJTI); err != nil || live {
		t.Fatalf("expected old jti revoked, live=%v err=%v", live, err)
	}
	if live, err := s.SessionTokenLive(context.Background(), newClaims.ID); err != nil || !live {
		t.Fatalf("expected new jti live, live=%v err=%v", live, err)
	}
}

func TestPages_NoRotationForFreshToken(t *testing.T) {
	g, s := newTestGuard(t)
	r := guardedRouter(g)
	cookie := sessionCookie(t, g, s, "fresh@example.com")

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			t.Fatalf("fresh token should not be rotated")
		}
	}
}
