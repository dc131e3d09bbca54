package builtin

import (
	"context"
	"time"

	"github.com/kbukum/nucleus/di"
	"github.com/kbukum/nucleus/errors"
	"github.com/kbukum/nucleus/module"
	"github.com/kbukum/nucleus/request"
	"github.com/kbukum/nucleus/scope"
)

// Component paths registered by the DafEar.base module.
const (
	OriginatingRequestPath = "/OriginatingRequest"
	SessionInfoPath        = "/atg/dynamo/servlet/sessiontracking/SessionInfo"
	WindowInfoPath         = "/atg/dynamo/servlet/WindowInfo"
)

// SessionInfo describes the session a component was resolved in.
type SessionInfo struct {
	SessionID string
	Created   time.Time
	session   *request.Session
}

// LastAccess returns the time of the latest request in the session.
func (s *SessionInfo) LastAccess() time.Time { return s.session.LastAccess() }

// Valid reports whether the session is still live.
func (s *SessionInfo) Valid() bool { return s.session.Valid() }

// WindowInfo describes the browser window a component was resolved in.
type WindowInfo struct {
	WindowID  string
	SessionID string
}

func currentRequest(ctx context.Context, path string) (*request.Request, error) {
	r, ok := request.FromContext(ctx)
	if !ok {
		return nil, errors.ScopeUnavailable(path, scope.Request.String())
	}
	return r, nil
}

// DafEar returns the request-handling module: the originating request and
// session and window descriptors.
func DafEar() module.Module {
	return module.Module{
		Name:        "DafEar.base",
		Requires:    []string{"DAS"},
		Description: "Request, session and window components",
		Register: func(c *di.Container) error {
			if err := c.Register(OriginatingRequestPath, scope.Request, func(ctx context.Context) (*request.Request, error) {
				return currentRequest(ctx, OriginatingRequestPath)
			}, di.WithDescription("The request being handled")); err != nil {
				return err
			}

			if err := c.Register(SessionInfoPath, scope.Session, func(ctx context.Context) (*SessionInfo, error) {
				r, err := currentRequest(ctx, SessionInfoPath)
				if err != nil {
					return nil, err
				}
				s := r.Session()
				return &SessionInfo{SessionID: s.ID(), Created: s.Created(), session: s}, nil
			}, di.WithDescription("Session descriptor")); err != nil {
				return err
			}

			return c.Register(WindowInfoPath, scope.Window, func(ctx context.Context) (*WindowInfo, error) {
				r, err := currentRequest(ctx, WindowInfoPath)
				if err != nil {
					return nil, err
				}
				return &WindowInfo{WindowID: r.WindowID(), SessionID: r.Session().ID()}, nil
			}, di.WithDescription("Browser window descriptor"))
		},
	}
}
