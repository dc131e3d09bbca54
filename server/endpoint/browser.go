package endpoint

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/nucleus/di"
)

// Browser is the container surface the component browser reads.
type Browser interface {
	Resolve(ctx context.Context, name string) (interface{}, error)
	AbsoluteNameOf(v interface{}) string
	Lookup(name string) (di.RegistrationInfo, bool)
	Registrations() []di.RegistrationInfo
}

// ComponentView describes one resolved component.
type ComponentView struct {
	Path         string `json:"path"`
	AbsoluteName string `json:"absolute_name"`
	Type         string `json:"type"`
	Scope        string `json:"scope"`
}

// Component resolves the path captured by the *path route parameter under
// the request's context. Session, window and request components need the
// request-scope middleware in front.
func Component(b Browser) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Param("path")
		v, err := b.Resolve(c.Request.Context(), path)
		if err != nil {
			RespondWithError(c, err)
			return
		}

		view := ComponentView{
			Path:         path,
			AbsoluteName: b.AbsoluteNameOf(v),
			Type:         fmt.Sprintf("%T", v),
		}
		if info, ok := b.Lookup(path); ok {
			view.Scope = info.ScopeName
		}
		c.JSON(http.StatusOK, view)
	}
}

// Registrations lists every registered component path.
func Registrations(b Browser) gin.HandlerFunc {
	return func(c *gin.Context) {
		regs := b.Registrations()
		c.JSON(http.StatusOK, gin.H{
			"count":         len(regs),
			"registrations": regs,
		})
	}
}
