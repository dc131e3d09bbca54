package server

import (
	"context"

	"github.com/kbukum/nucleus/component"
)

const componentName = "http-server"

var _ component.Component = (*Component)(nil)

// Component adapts a Server to the component lifecycle.
type Component struct {
	server *Server
}

// NewComponent wraps s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Name implements component.Component.
func (c *Component) Name() string { return componentName }

// Start implements component.Component.
func (c *Component) Start(ctx context.Context) error { return c.server.Start(ctx) }

// Stop implements component.Component.
func (c *Component) Stop(ctx context.Context) error { return c.server.Stop(ctx) }

// Health implements component.Component.
func (c *Component) Health(ctx context.Context) component.Health {
	if !c.server.listening() {
		return component.Health{Name: componentName, Status: component.StatusUnhealthy, Message: "not listening"}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy, Message: c.server.Addr()}
}
