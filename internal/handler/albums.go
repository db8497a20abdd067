package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"epicsnap/internal/middleware"
	"epicsnap/internal/store"
)

type AlbumHandler struct {
	Store *store.Store
}

// List returns every album the user owns or is a member of, each with
// its screenshot count computed from the link table.
func (h *AlbumHandler) List(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	albums, err := h.Store.ListAlbums(c.Request.Context(), userID)
	if err != nil {
		slog.Error("list albums failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load albums"})
		return
	}

	resp := make([]gin.H, 0, len(albums))
	for _, a := range albums {
		resp = append(resp, gin.H{
			"id":               a.ID,
			"owner_id":         a.OwnerID,
			"title":            a.Title,
			"created_at":       a.CreatedAt,
			"screenshot_count": a.ScreenshotCount,
		})
	}
	c.JSON(http.StatusOK, gin.H{"albums": resp})
}

func (h *AlbumHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		var body struct {
			Title string `json:"title"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			title = strings.TrimSpace(body.Title)
		}
	}
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A title is required"})
		return
	}

	album, err := h.Store.CreateAlbum(c.Request.Context(), userID, title)
	if err != nil {
		slog.Error("create album failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create the album"})
		return
	}

	if redirect := c.PostForm("redirect"); redirect != "" {
		c.Redirect(http.StatusSeeOther, safeRedirect(redirect))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"album": gin.H{
		"id":               album.ID,
		"owner_id":         album.OwnerID,
		"title":            album.Title,
		"created_at":       album.CreatedAt,
		"screenshot_count": 0,
	}})
}
