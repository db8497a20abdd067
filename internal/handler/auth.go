package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"epicsnap/internal/auth"
	"epicsnap/internal/hub"
	"epicsnap/internal/middleware"
	"epicsnap/internal/model"
	"epicsnap/internal/store"
)

type AuthHandler struct {
	Store       *store.Store
	TokenConfig auth.TokenConfig
	Cookie      auth.CookieConfig
	Hub         *hub.Hub
}

// SignUp registers a new account. The outcome is either
// pending-confirmation or already-registered; a session is only issued
// once the confirmation code is exchanged at /auth/callback.
func (h *AuthHandler) SignUp(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	if email == "" || !strings.Contains(email, "@") || len(password) < 8 {
		c.HTML(http.StatusBadRequest, "signup.tmpl", gin.H{
			"Error": "Enter a valid email and a password of at least 8 characters",
		})
		return
	}

	passHash, err := auth.HashPassword(password)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "signup.tmpl", gin.H{"Error": "Sign up failed"})
		return
	}

	user, conf, err := h.Store.CreateUser(c.Request.Context(), email, passHash)
	if err == store.ErrEmailTaken {
		c.HTML(http.StatusConflict, "signup.tmpl", gin.H{
			"Error": "This email is already registered",
			"Email": email,
		})
		return
	}
	if err != nil {
		slog.Error("sign up failed", "error", err)
		c.HTML(http.StatusInternalServerError, "signup.tmpl", gin.H{"Error": "Sign up failed"})
		return
	}

	// No mailer is wired up; the confirmation link goes to the log where
	// the operator (or a dev) can pick it up.
	slog.Info("confirmation issued", "email", user.Email, "url", "/auth/callback?code="+conf.Code)

	c.HTML(http.StatusOK, "confirm.tmpl", gin.H{"Email": user.Email})
}

// Callback exchanges a confirmation code for a session and redirects to
// redirect_to, defaulting to the dashboard.
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.Store.ConsumeConfirmation(c.Request.Context(), code)
	if err == store.ErrNotFound {
		c.HTML(http.StatusNotFound, "login.tmpl", gin.H{"Error": "Confirmation link is invalid or already used"})
		return
	}
	if err != nil {
		slog.Error("confirmation exchange failed", "error", err)
		c.HTML(http.StatusInternalServerError, "login.tmpl", gin.H{"Error": "Something went wrong, try signing in"})
		return
	}

	if err := h.issueSession(c, user.ID, user.Email); err != nil {
		c.HTML(http.StatusInternalServerError, "login.tmpl", gin.H{"Error": "Something went wrong, try signing in"})
		return
	}
	c.Redirect(http.StatusFound, safeRedirect(c.Query("redirect_to")))
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	user, found, err := h.Store.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		slog.Error("sign in lookup failed", "error", err)
		c.HTML(http.StatusInternalServerError, "login.tmpl", gin.H{"Error": "Sign in failed"})
		return
	}
	if !found || !auth.VerifyPassword(password, user.PassHash) {
		c.HTML(http.StatusUnauthorized, "login.tmpl", gin.H{"Error": "Invalid email or password", "Email": email})
		return
	}
	if !user.Confirmed {
		c.HTML(http.StatusUnauthorized, "login.tmpl", gin.H{"Error": "Confirm your email before signing in", "Email": email})
		return
	}

	if err := h.issueSession(c, user.ID, user.Email); err != nil {
		c.HTML(http.StatusInternalServerError, "login.tmpl", gin.H{"Error": "Sign in failed"})
		return
	}
	c.Redirect(http.StatusSeeOther, safeRedirect(c.PostForm("redirect_to")))
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	if tok, ok := auth.ReadSessionCookie(c.Request); ok {
		if claims, err := auth.VerifyToken(tok, h.TokenConfig); err == nil {
			_ = h.Store.RevokeSessionToken(c.Request.Context(), claims.ID)
			h.Hub.Notify(claims.UserID, hub.EventAuthStateChange, gin.H{"state": "signed-out"})
		}
	}
	auth.ClearSessionCookie(c.Writer, h.Cookie)
	c.Redirect(http.StatusSeeOther, "/login")
}

// Session returns the current identity. Mounted behind RequireSession,
// so reaching it at all implies a live session.
func (h *AuthHandler) Session(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"email":   middleware.EmailFromContext(c),
	})
}

func (h *AuthHandler) issueSession(c *gin.Context, userID, email string) error {
	token, jti, err := auth.CreateToken(userID, email, h.TokenConfig)
	if err != nil {
		return err
	}
	row := model.SessionToken{
		ID:        jti,
		UserID:    userID,
		ExpiresAt: time.Now().Add(h.TokenConfig.Expiry).UnixMilli(),
	}
	if err := h.Store.CreateSessionToken(c.Request.Context(), row); err != nil {
		return err
	}
	auth.SetSessionCookie(c.Writer, token, h.Cookie)
	h.Hub.Notify(userID, hub.EventAuthStateChange, gin.H{"state": "signed-in"})
	return nil
}

// safeRedirect constrains redirect targets to local paths.
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/dashboard"
	}
	return target
}
