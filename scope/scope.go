// Package scope defines component lifetimes and the namespaces that cache
// component instances for each lifetime owner.
package scope

import (
	"fmt"
	"strings"
)

// Scope is the lifetime and visibility class of a component.
type Scope int

const (
	// Global components live as long as the container.
	Global Scope = iota
	// Session components live as long as one client session.
	Session
	// Window components live as long as one browser window within a session.
	Window
	// Request components live for a single request.
	Request
	// Prototype components are constructed anew on every resolution.
	Prototype
)

// String returns the lower-case scope name.
func (s Scope) String() string {
	switch s {
	case Global:
		return "global"
	case Session:
		return "session"
	case Window:
		return "window"
	case Request:
		return "request"
	case Prototype:
		return "prototype"
	default:
		return "unknown"
	}
}

// ParseScope parses a scope name, case-insensitively.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "global", "":
		return Global, nil
	case "session":
		return Session, nil
	case "window":
		return Window, nil
	case "request":
		return Request, nil
	case "prototype":
		return Prototype, nil
	default:
		return Global, fmt.Errorf("unknown scope %q", s)
	}
}

// Cached reports whether instances of this scope are kept in a namespace.
func (s Scope) Cached() bool { return s != Prototype }

// RequiresRequest reports whether resolving this scope needs a bound request.
func (s Scope) RequiresRequest() bool {
	return s == Session || s == Window || s == Request
}

// Outlives reports whether s lives strictly longer than o. Prototype
// instances are owned by whoever resolves them, so nothing outlives them and
// they outlive nothing.
func (s Scope) Outlives(o Scope) bool {
	if s == Prototype || o == Prototype {
		return false
	}
	return s < o
}
