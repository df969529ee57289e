package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// FrontendHandler serves the built single page app for any route the API does not own.
type FrontendHandler struct {
	distDir string
}

func NewFrontendHandler(distDir string) *FrontendHandler {
	return &FrontendHandler{distDir: distDir}
}

// NoRoute serves files from the dist directory, falling back to index.html so
// client-side routes resolve. API paths and non-GET requests get a JSON 404.
func (h *FrontendHandler) NoRoute(c *gin.Context) {
	path := c.Request.URL.Path
	if h.distDir == "" || strings.HasPrefix(path, "/api/") || path == "/api" ||
		(c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
		respondNotFound(c)
		return
	}

	// Clean against "/" so the path cannot climb out of distDir
	asset := filepath.Join(h.distDir, filepath.FromSlash(filepath.Clean("/"+path)))
	if info, err := os.Stat(asset); err == nil && !info.IsDir() {
		c.File(asset)
		return
	}

	index := filepath.Join(h.distDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		c.String(http.StatusNotFound, "index.html not found, build the frontend first")
		return
	}
	c.File(index)
}
