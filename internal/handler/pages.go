package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"epicsnap/internal/blob"
	"epicsnap/internal/gallery"
	"epicsnap/internal/middleware"
	"epicsnap/internal/model"
	"epicsnap/internal/store"
)

// PageHandler renders the server-side pages. The session guard has
// already run; a protected page reaching these handlers has a session,
// but each handler still refuses to render without one rather than
// trusting the routing table.
type PageHandler struct {
	Store *store.Store
	Blobs *blob.Store
}

const dashboardRecentLimit = 4

func (h *PageHandler) Home(c *gin.Context) {
	_, signedIn := middleware.UserIDFromContext(c)
	c.HTML(http.StatusOK, "home.tmpl", gin.H{"SignedIn": signedIn})
}

func (h *PageHandler) Login(c *gin.Context) {
	c.HTML(http.StatusOK, "login.tmpl", gin.H{
		"Error":      c.Query("error"),
		"RedirectTo": c.Query("redirect_to"),
	})
}

func (h *PageHandler) Signup(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.tmpl", gin.H{})
}

func (h *PageHandler) Dashboard(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	recent, err := h.Store.ListScreenshots(c.Request.Context(), userID, dashboardRecentLimit)
	if err != nil {
		h.renderError(c, "dashboard.tmpl", err)
		return
	}
	albums, err := h.Store.ListAlbums(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, "dashboard.tmpl", err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.tmpl", gin.H{
		"Email":       middleware.EmailFromContext(c),
		"Screenshots": projectScreenshots(h.Blobs, recent),
		"Albums":      albums,
		"Flash":       c.Query("error"),
	})
}

func (h *PageHandler) Screenshots(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	records, err := h.Store.ListScreenshots(c.Request.Context(), userID, 0)
	if err != nil {
		h.renderError(c, "screenshots.tmpl", err)
		return
	}
	albums, err := h.Store.ListAlbums(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, "screenshots.tmpl", err)
		return
	}
	views := projectScreenshots(h.Blobs, records)

	c.HTML(http.StatusOK, "screenshots.tmpl", gin.H{
		"Email":       middleware.EmailFromContext(c),
		"Screenshots": views,
		"Albums":      albums,
		"Viewer":      buildViewer(views, c.Query("view")),
		"Flash":       c.Query("error"),
	})
}

func (h *PageHandler) Albums(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	albums, err := h.Store.ListAlbums(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, "albums.tmpl", err)
		return
	}

	c.HTML(http.StatusOK, "albums.tmpl", gin.H{
		"Email":  middleware.EmailFromContext(c),
		"Albums": albums,
		"Flash":  c.Query("error"),
	})
}

func (h *PageHandler) renderError(c *gin.Context, tmpl string, err error) {
	slog.Error("page render failed", "template", tmpl, "error", err)
	c.HTML(http.StatusInternalServerError, tmpl, gin.H{
		"Email": middleware.EmailFromContext(c),
		"Flash": "Something went wrong loading your data",
	})
}

// ViewerData drives the detail-viewer overlay on the screenshots page.
// The overlay's prev/next/close affordances are plain links; a small
// script maps ArrowLeft/ArrowRight/Escape onto them.
type ViewerData struct {
	Open     bool
	Item     model.ScreenshotView
	Position int
	Count    int
	AtStart  bool
	AtEnd    bool
	PrevURL  string
	NextURL  string
	CloseURL string
}

// buildViewer positions a gallery cursor from the ?view= query. An
// absent or out-of-range index renders the page with the viewer closed.
func buildViewer(items []model.ScreenshotView, raw string) ViewerData {
	if raw == "" {
		return ViewerData{}
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return ViewerData{}
	}
	cur, ok := gallery.NewCursor(len(items), idx)
	if !ok {
		return ViewerData{}
	}

	v := ViewerData{
		Open:     true,
		Item:     items[cur.Index()],
		Position: cur.Index() + 1,
		Count:    cur.Len(),
		AtStart:  cur.AtStart(),
		AtEnd:    cur.AtEnd(),
		CloseURL: "/screenshots",
	}
	if !v.AtStart {
		v.PrevURL = fmt.Sprintf("/screenshots?view=%d", cur.Prev().Index())
	}
	if !v.AtEnd {
		v.NextURL = fmt.Sprintf("/screenshots?view=%d", cur.Next().Index())
	}
	return v
}
