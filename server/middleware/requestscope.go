package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/nucleus/errors"
	"github.com/kbukum/nucleus/logger"
	"github.com/kbukum/nucleus/request"
)

const (
	// SessionCookie names the cookie carrying the session id.
	SessionCookie = "NUCLEUS_SESSION"
	// WindowHeader echoes the window id so clients can send it back as
	// the _windowid query parameter.
	WindowHeader = "X-Nucleus-Window"
)

// RequestFactory creates requests bound to a session.
type RequestFactory interface {
	NewRequest(sessionID string, mode request.Mode, params url.Values) (*request.Request, error)
}

// RequestScope binds each HTTP request to a container request. A request
// with a session cookie joins that session; one without starts a new
// session and receives the cookie. The window comes from the _windowid
// query parameter. The container request ends once the handler returns.
func RequestScope(f RequestFactory, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := request.ModeExisting
		sessionID, err := c.Cookie(SessionCookie)
		if err != nil || sessionID == "" {
			sessionID = ""
			mode = request.ModeNew
		}

		req, err := f.NewRequest(sessionID, mode, c.Request.URL.Query())
		if err != nil {
			appErr, ok := errors.AsAppError(err)
			if !ok {
				appErr = errors.Internal(err)
			}
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}
		defer func() {
			if err := req.End(); err != nil {
				log.Warn("Ending request failed", logger.Fields(
					logger.FieldRequestID, req.ID(),
					logger.FieldError, err.Error(),
				))
			}
		}()

		http.SetCookie(c.Writer, &http.Cookie{
			Name:     SessionCookie,
			Value:    req.Session().ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		c.Header(WindowHeader, req.WindowID())
		c.Set(logger.FieldSessionID, req.Session().ID())

		c.Request = c.Request.WithContext(request.WithRequest(c.Request.Context(), req))
		c.Next()
	}
}

// CurrentRequest returns the container request bound by RequestScope.
func CurrentRequest(c *gin.Context) (*request.Request, bool) {
	return request.FromContext(c.Request.Context())
}
