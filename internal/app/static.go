package app

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// staticFileHandler serves the built frontend. Unknown paths fall back to
// index.html so client-side routing keeps working; unknown API paths stay
// JSON 404s.
func staticFileHandler(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || path == "/api" {
			c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
			return
		}

		file := filepath.Join(staticDir, filepath.Clean("/"+path))
		info, err := os.Stat(file)
		if err == nil && !info.IsDir() {
			c.File(file)
			return
		}

		c.File(filepath.Join(staticDir, "index.html"))
	}
}
