package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"epicsnap/internal/blob"
	"epicsnap/internal/hub"
	"epicsnap/internal/middleware"
	"epicsnap/internal/model"
	"epicsnap/internal/store"
	"epicsnap/internal/validate"
)

type ScreenshotHandler struct {
	Store *store.Store
	Blobs *blob.Store
	Hub   *hub.Hub
}

// uploadBodySlack is added on top of the per-file ceiling when capping
// the whole multipart body.
const uploadBodySlack = 1 << 20

// List returns the user's screenshots newest first, with public URLs
// derived at render time. limit<=0 returns the full list; the dashboard
// asks for 4.
func (h *ScreenshotHandler) List(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = v
	}

	records, err := h.Store.ListScreenshots(c.Request.Context(), userID, limit)
	if err != nil {
		slog.Error("list screenshots failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load screenshots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"screenshots": projectScreenshots(h.Blobs, records)})
}

// Upload runs the five-step upload flow: validate, store the blob at a
// derived unique path, derive its public URL, insert the record, then
// optionally link it into an album. Steps are strictly sequential and a
// failure aborts the rest; a failed link is the one partial outcome —
// the screenshot record stays.
func (h *ScreenshotHandler) Upload(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	// Hard cap on the request body so an oversized upload is cut off
	// during parsing instead of being spooled to disk first. The slack
	// covers the other form fields and multipart framing.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, validate.MaxUploadSize+uploadBodySlack)

	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.uploadError(c, http.StatusRequestEntityTooLarge, validate.ErrTooLarge.Error())
			return
		}
		h.uploadError(c, http.StatusBadRequest, "A file is required")
		return
	}

	fileType := file.Header.Get("Content-Type")
	if err := validate.Upload(fileType, file.Size); err != nil {
		status := http.StatusBadRequest
		if err == validate.ErrTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		h.uploadError(c, status, err.Error())
		return
	}

	src, err := file.Open()
	if err != nil {
		h.uploadError(c, http.StatusBadRequest, "Could not read the file")
		return
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, validate.MaxUploadSize))
	if err != nil {
		h.uploadError(c, http.StatusBadRequest, "Could not read the file")
		return
	}

	path, err := blob.DerivePath(userID, file.Filename)
	if err != nil {
		h.uploadError(c, http.StatusInternalServerError, "Upload failed")
		return
	}

	if err := h.Blobs.Save(path, bytes.NewReader(data)); err != nil {
		// A conflict at a derived path is a defect, not an overwrite case.
		slog.Error("blob save failed", "path", path, "error", err)
		h.uploadError(c, http.StatusInternalServerError, "Upload failed")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = "Screenshot " + time.Now().Format("2006-01-02 15:04:05")
	}

	record, err := h.Store.CreateScreenshot(c.Request.Context(), model.Screenshot{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(c.PostForm("description")),
		FileName:    file.Filename,
		FilePath:    path,
		FileType:    fileType,
		FileSize:    file.Size,
	})
	if err != nil {
		slog.Error("screenshot insert failed", "error", err)
		h.uploadError(c, http.StatusInternalServerError, "Upload failed")
		return
	}

	warning := ""
	if albumID := c.PostForm("album_id"); albumID != "" {
		if err := h.Store.LinkScreenshot(c.Request.Context(), userID, albumID, record.ID); err != nil {
			// Partial failure: the screenshot exists, the link does not.
			slog.Warn("album link failed", "album", albumID, "screenshot", record.ID, "error", err)
			warning = "Uploaded, but could not add to the album"
		}
	}

	if err := h.Blobs.SaveThumbnail(path, fileType, data); err != nil {
		slog.Debug("thumbnail generation failed", "path", path, "error", err)
	}

	h.Hub.Notify(userID, hub.EventScreenshotUploaded, gin.H{"id": record.ID, "title": record.Title})

	if redirect := c.PostForm("redirect"); redirect != "" {
		c.Redirect(http.StatusSeeOther, safeRedirect(redirect))
		return
	}

	resp := gin.H{"screenshot": projectScreenshot(h.Blobs, record)}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusCreated, resp)
}

// uploadError reports a failed upload either as JSON or, for form
// posts carrying a redirect target, as a redirect with the message in
// the query string.
func (h *ScreenshotHandler) uploadError(c *gin.Context, status int, msg string) {
	if redirect := c.PostForm("redirect"); redirect != "" {
		target := safeRedirect(redirect)
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("%s%serror=%s", target, sep, url.QueryEscape(msg)))
		return
	}
	c.JSON(status, gin.H{"error": msg})
}

// projectScreenshots maps raw records into view models, attaching the
// derived public URLs. The derived fields live only on the view.
func projectScreenshots(blobs *blob.Store, records []model.Screenshot) []model.ScreenshotView {
	views := make([]model.ScreenshotView, 0, len(records))
	for _, r := range records {
		views = append(views, projectScreenshot(blobs, r))
	}
	return views
}

func projectScreenshot(blobs *blob.Store, r model.Screenshot) model.ScreenshotView {
	v := model.ScreenshotView{Screenshot: r, URL: blobs.PublicURL(r.FilePath)}
	if tp := blob.ThumbPath(r.FilePath, r.FileType); tp != "" {
		v.ThumbURL = blobs.PublicURL(tp)
	} else {
		v.ThumbURL = v.URL
	}
	return v
}
