package request

import (
	"net/url"
	"sync"
	"time"

	"github.com/kbukum/nucleus/errors"
	"github.com/kbukum/nucleus/scope"
)

// WindowIDParam is the request parameter carrying the window id.
const WindowIDParam = "_windowid"

// Mode selects how a request attaches to its session.
type Mode string

const (
	// ModeNew discards any session with the requested id and starts a fresh one.
	ModeNew Mode = "new"
	// ModeExisting joins the session with the requested id, creating it if absent.
	ModeExisting Mode = "existing"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNew, ModeExisting:
		return Mode(s), nil
	default:
		return "", errors.InvalidInput("mode", "mode must be \"new\" or \"existing\", got "+s)
	}
}

// Request is a single synthetic or HTTP-bound request. It owns a
// request-scoped namespace and points at its session and window.
type Request struct {
	id      string
	session *Session
	window  *Window
	params  url.Values
	started time.Time
	ns      *scope.Namespace
	onEnd   func(*Request)

	endOnce sync.Once
	endErr  error
}

// ID returns the request id.
func (r *Request) ID() string { return r.id }

// Session returns the session this request belongs to.
func (r *Request) Session() *Session { return r.session }

// Window returns the window this request belongs to.
func (r *Request) Window() *Window { return r.window }

// Started returns when the request was created.
func (r *Request) Started() time.Time { return r.started }

// Parameter returns the first value of a request parameter.
func (r *Request) Parameter(name string) string { return r.params.Get(name) }

// Parameters returns a copy of all request parameters.
func (r *Request) Parameters() url.Values {
	out := make(url.Values, len(r.params))
	for k, v := range r.params {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// WindowID returns the window id parameter.
func (r *Request) WindowID() string { return r.window.id }

// Namespace returns the namespace holding instances of the given scope for
// this request. Global and prototype scopes have no request-owned namespace.
func (r *Request) Namespace(s scope.Scope) (*scope.Namespace, bool) {
	switch s {
	case scope.Session:
		return r.session.ns, true
	case scope.Window:
		return r.window.ns, true
	case scope.Request:
		return r.ns, true
	default:
		return nil, false
	}
}

// Ended reports whether End has been called.
func (r *Request) Ended() bool { return r.ns.Closed() }

// End releases request-scoped components. Only the first call does any
// work; later and concurrent calls return its result.
func (r *Request) End() error {
	r.endOnce.Do(func() {
		r.endErr = r.ns.Close()
		if r.onEnd != nil {
			r.onEnd(r)
		}
	})
	return r.endErr
}
