package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/nucleus/version"
)

// ModuleLister reports what the container loaded.
type ModuleLister interface {
	Modules() []string
	InitialService() string
	Started() time.Time
}

// Info reports build information plus the loaded modules.
func Info(serviceName string, m ModuleLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.GetVersionInfo()
		c.JSON(http.StatusOK, gin.H{
			"service":         serviceName,
			"version":         v.Version,
			"git_commit":      v.GitCommit,
			"go_version":      v.GoVersion,
			"modules":         m.Modules(),
			"initial_service": m.InitialService(),
			"uptime":          time.Since(m.Started()).Round(time.Second).String(),
			"timestamp":       time.Now().UTC().Format(time.RFC3339),
		})
	}
}
