package nucleustest

import (
	"time"

	"github.com/kbukum/nucleus/builtin"
	"github.com/kbukum/nucleus/di"
	"github.com/kbukum/nucleus/nucleus"
	"github.com/kbukum/nucleus/request"
	"github.com/kbukum/nucleus/scope"
)

// Fixture component paths.
const (
	MyComponentPath      = "/atg/dynamo/MyComponent"
	GlobalComponentPath  = "/GlobalComponent"
	SessionComponentPath = "/SessionComponent"
	WindowComponentPath  = "/WindowComponent"
	RequestComponentPath = "/RequestComponent"
)

// MyComponent is the eager starting component.
type MyComponent struct {
	Configuration *builtin.Configuration
}

// GlobalComponent lives as long as the container.
type GlobalComponent struct {
	Created time.Time
}

// SessionComponent lives as long as its session.
type SessionComponent struct {
	Info *builtin.SessionInfo
}

// WindowComponent lives as long as its window.
type WindowComponent struct {
	Info    *builtin.WindowInfo
	Session *SessionComponent
}

// RequestComponent lives as long as its request.
type RequestComponent struct {
	Request *request.Request
	Window  *WindowComponent
	Global  *GlobalComponent
}

// Fixtures returns a layer defining MyComponent plus one component per
// scope. It needs the DAS and DafEar.base modules.
func Fixtures() nucleus.Layer {
	return func(c *di.Container) error {
		defs := []struct {
			path  string
			scope scope.Scope
			ctor  interface{}
			opts  []di.RegisterOption
		}{
			{MyComponentPath, scope.Global, newMyComponent, []di.RegisterOption{di.Eager()}},
			{GlobalComponentPath, scope.Global, newGlobalComponent, nil},
			{SessionComponentPath, scope.Session, newSessionComponent, nil},
			{WindowComponentPath, scope.Window, newWindowComponent, nil},
			{RequestComponentPath, scope.Request, newRequestComponent, nil},
		}
		for _, d := range defs {
			if err := c.Register(d.path, d.scope, d.ctor, d.opts...); err != nil {
				return err
			}
		}
		return nil
	}
}

func newMyComponent(r di.Resolver) (*MyComponent, error) {
	cfg, err := di.Resolve[*builtin.Configuration](r, "Configuration")
	if err != nil {
		return nil, err
	}
	return &MyComponent{Configuration: cfg}, nil
}

func newGlobalComponent(r di.Resolver) (*GlobalComponent, error) {
	clock, err := di.Resolve[*builtin.Clock](r, builtin.ClockPath)
	if err != nil {
		return nil, err
	}
	return &GlobalComponent{Created: clock.Now()}, nil
}

func newSessionComponent(r di.Resolver) (*SessionComponent, error) {
	info, err := di.Resolve[*builtin.SessionInfo](r, builtin.SessionInfoPath)
	if err != nil {
		return nil, err
	}
	return &SessionComponent{Info: info}, nil
}

func newWindowComponent(r di.Resolver) (*WindowComponent, error) {
	info, err := di.Resolve[*builtin.WindowInfo](r, builtin.WindowInfoPath)
	if err != nil {
		return nil, err
	}
	session, err := di.Resolve[*SessionComponent](r, SessionComponentPath)
	if err != nil {
		return nil, err
	}
	return &WindowComponent{Info: info, Session: session}, nil
}

func newRequestComponent(r di.Resolver) (*RequestComponent, error) {
	req, err := di.Resolve[*request.Request](r, builtin.OriginatingRequestPath)
	if err != nil {
		return nil, err
	}
	window, err := di.Resolve[*WindowComponent](r, WindowComponentPath)
	if err != nil {
		return nil, err
	}
	global, err := di.Resolve[*GlobalComponent](r, GlobalComponentPath)
	if err != nil {
		return nil, err
	}
	return &RequestComponent{Request: req, Window: window, Global: global}, nil
}
