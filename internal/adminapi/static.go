package adminapi

import (
	"embed"
	"log/slog"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// embeddedStatus is a single-page status placeholder. Grounded on the
// teacher's api.MountSPA, which embeds a built Angular app; this repo has
// no UI build step, so it embeds one static page instead of a whole
// dist/ tree.
//
//go:embed status.html
var embeddedStatus embed.FS

// MountStatusPage serves the embedded status page at "/", leaving
// "/api" and "/swagger" untouched.
func MountStatusPage(r *gin.Engine, logger *slog.Logger) {
	fs, err := static.EmbedFolder(embeddedStatus, ".")
	if err != nil {
		if logger != nil {
			logger.Error("failed to mount embedded status page", "error", err)
		}
		return
	}
	r.GET("/", func(c *gin.Context) {
		c.FileFromFS("status.html", fs)
	})
}
