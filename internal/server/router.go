package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"epicsnap/internal/auth"
	"epicsnap/internal/blob"
	"epicsnap/internal/handler"
	"epicsnap/internal/hub"
	"epicsnap/internal/middleware"
	"epicsnap/internal/store"
	"epicsnap/internal/webui"
)

type Deps struct {
	Store       *store.Store
	Blobs       *blob.Store
	TokenConfig auth.TokenConfig
	Cookie      auth.CookieConfig
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.SetHTMLTemplate(webui.Templates())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	events := hub.New()
	guard := &middleware.SessionGuard{Store: deps.Store, Tokens: deps.TokenConfig, Cookie: deps.Cookie}

	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	authHandler := &handler.AuthHandler{Store: deps.Store, TokenConfig: deps.TokenConfig, Cookie: deps.Cookie, Hub: events}

	r.POST("/auth/signup", middleware.RateLimitMiddleware(authLimiter), authHandler.SignUp)
	r.POST("/auth/signin", middleware.RateLimitMiddleware(authLimiter), authHandler.SignIn)
	r.POST("/auth/signout", authHandler.SignOut)
	r.GET("/auth/callback", authHandler.Callback)

	pageHandler := &handler.PageHandler{Store: deps.Store, Blobs: deps.Blobs}
	pages := r.Group("/", guard.Pages())
	pages.GET("/", pageHandler.Home)
	pages.GET("/login", pageHandler.Login)
	pages.GET("/signup", pageHandler.Signup)
	pages.GET("/dashboard", pageHandler.Dashboard)
	pages.GET("/screenshots", pageHandler.Screenshots)
	pages.GET("/albums", pageHandler.Albums)

	screenshotHandler := &handler.ScreenshotHandler{Store: deps.Store, Blobs: deps.Blobs, Hub: events}
	albumHandler := &handler.AlbumHandler{Store: deps.Store}

	api := r.Group("/api")
	api.Use(guard.RequireSession())
	api.GET("/session", authHandler.Session)
	api.GET("/screenshots", screenshotHandler.List)
	api.POST("/screenshots", screenshotHandler.Upload)
	api.GET("/albums", albumHandler.List)
	api.POST("/albums", albumHandler.Create)

	fileHandler := &handler.FileHandler{Blobs: deps.Blobs}
	r.GET("/files/*path", fileHandler.Serve)

	wsHandler := &handler.WebSocketHandler{Hub: events, Store: deps.Store, TokenConfig: deps.TokenConfig}
	r.GET("/ws", wsHandler.Serve)

	return r
}
