package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"epicsnap/internal/blob"
)

// FileHandler serves stored blobs at their public URLs. Objects are
// publicly readable by design; only the paths are unguessable.
type FileHandler struct {
	Blobs *blob.Store
}

func (h *FileHandler) Serve(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	f, err := h.Blobs.Open(path)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		c.Status(http.StatusNotFound)
		return
	}

	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}
