package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"epicsnap/internal/auth"
	"epicsnap/internal/model"
	"epicsnap/internal/store"
)

const (
	userIDContextKey = "userID"
	emailContextKey  = "userEmail"
)

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(userIDContextKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func EmailFromContext(c *gin.Context) string {
	v, ok := c.Get(emailContextKey)
	if !ok {
		return ""
	}
	email, _ := v.(string)
	return email
}

// SessionGuard is the single enforcement point for session state. It
// resolves the session from the request's cookie, never from headers or
// body, and forwards any refreshed cookie on the response.
type SessionGuard struct {
	Store  *store.Store
	Tokens auth.TokenConfig
	Cookie auth.CookieConfig
}

// Paths requiring a session, and the entry paths that bounce
// authenticated users back to the dashboard.
var (
	protectedPaths = []string{"/dashboard", "/screenshots", "/albums"}
	entryPaths     = map[string]bool{"/login": true, "/signup": true}
)

// resolve validates the session cookie: signature, expiry, and a live
// server-side jti row. Tokens past half their lifetime are rotated and
// the replacement cookie is set on the response.
func (g *SessionGuard) resolve(c *gin.Context) *auth.Claims {
	tok, ok := auth.ReadSessionCookie(c.Request)
	if !ok {
		return nil
	}

	claims, err := auth.VerifyToken(tok, g.Tokens)
	if err != nil {
		return nil
	}

	live, err := g.Store.SessionTokenLive(c.Request.Context(), claims.ID)
	if err != nil {
		slog.Error("session lookup failed", "error", err)
		return nil
	}
	if !live {
		return nil
	}

	if auth.ShouldRefresh(claims, time.Now()) {
		g.rotate(c, claims)
	}
	return claims
}

func (g *SessionGuard) rotate(c *gin.Context, claims *auth.Claims) {
	fresh, jti, err := auth.CreateToken(claims.UserID, claims.Email, g.Tokens)
	if err != nil {
		return
	}
	row := model.SessionToken{
		ID:        jti,
		UserID:    claims.UserID,
		ExpiresAt: time.Now().Add(g.Tokens.Expiry).UnixMilli(),
	}
	if err := g.Store.CreateSessionToken(c.Request.Context(), row); err != nil {
		return
	}
	// Old jti stays valid until revoked; revocation failure only delays it.
	_ = g.Store.RevokeSessionToken(c.Request.Context(), claims.ID)
	auth.SetSessionCookie(c.Writer, fresh, g.Cookie)
}

// RequireSession guards API routes: 401 without a valid session.
func (g *SessionGuard) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := g.resolve(c)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}
		c.Set(userIDContextKey, claims.UserID)
		c.Set(emailContextKey, claims.Email)
		c.Next()
	}
}

// Pages guards page routes: unauthenticated requests to protected
// paths redirect to /login (echoing the target as redirect_to), and
// authenticated requests to the entry paths redirect to /dashboard.
// Anything else passes through.
func (g *SessionGuard) Pages() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		claims := g.resolve(c)

		if claims == nil && isProtected(path) {
			c.Redirect(http.StatusFound, "/login?redirect_to="+url.QueryEscape(path))
			c.Abort()
			return
		}
		if claims != nil && entryPaths[path] {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}

		if claims != nil {
			c.Set(userIDContextKey, claims.UserID)
			c.Set(emailContextKey, claims.Email)
		}
		c.Next()
	}
}

func isProtected(path string) bool {
	for _, p := range protectedPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
