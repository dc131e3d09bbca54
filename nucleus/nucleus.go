// Package nucleus starts and owns a component container: it loads modules
// from a catalog, applies configuration layers, resolves the initial service
// and hands out requests bound to sessions and windows.
//
//	n, err := nucleus.StartWithModules(ctx, []string{"DAS", "DafEar.base"}, "/atg/dynamo/Configuration")
//	if err != nil {
//	    return err
//	}
//	defer n.Shutdown(ctx)
//
//	req, _ := n.NewRequestForSession("mySessionId", request.ModeNew)
//	info, err := n.ResolveWithRequest(ctx, req, "/atg/dynamo/servlet/sessiontracking/SessionInfo")
package nucleus

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/nucleus/builtin"
	"github.com/kbukum/nucleus/component"
	"github.com/kbukum/nucleus/di"
	"github.com/kbukum/nucleus/errors"
	"github.com/kbukum/nucleus/logger"
	"github.com/kbukum/nucleus/observability"
	"github.com/kbukum/nucleus/request"
	"github.com/kbukum/nucleus/validation"
)

const componentName = "nucleus"

var _ component.Component = (*Nucleus)(nil)

// Nucleus is a running container handle.
type Nucleus struct {
	mu      sync.RWMutex
	stopped bool

	modules   []string
	initial   string
	started   time.Time
	container *di.Container
	sessions  *request.Manager
	log       *logger.Logger

	done chan struct{}
	wg   sync.WaitGroup
}

// Start starts a container described by cfg. A zero idle timeout means
// DefaultIdleTimeout; a negative one disables expiry.
func Start(ctx context.Context, cfg *Config, opts ...Option) (*Nucleus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	idle := cfg.Sessions.IdleTimeout
	if idle == 0 {
		idle = DefaultIdleTimeout
	}
	opts = append([]Option{WithIdleTimeout(idle)}, opts...)
	return StartWithModules(ctx, cfg.Modules, cfg.InitialService, opts...)
}

// StartWithModules loads modules (with their requirements) from the catalog,
// applies configuration layers, starts the container and resolves
// initialService. Any failure shuts down what was started and is returned.
func StartWithModules(ctx context.Context, modules []string, initialService string, opts ...Option) (*Nucleus, error) {
	o := resolveOptions(opts)
	if o.catalog == nil {
		o.catalog = builtin.NewCatalog()
	}
	if o.log == nil {
		o.log = logger.Get(componentName)
	}
	if o.now == nil {
		o.now = time.Now
	}

	if appErr := validation.New().
		Custom(len(modules) > 0, "modules", "at least one module is required").
		Names("modules", modules).
		Path("initial_service", initialService).
		Validate(); appErr != nil {
		return nil, appErr
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanStart,
		attribute.StringSlice(observability.AttrModules, modules),
		attribute.String(observability.AttrPath, initialService))
	n, err := start(ctx, modules, initialService, o)
	observability.EndSpan(span, err)
	return n, err
}

func start(ctx context.Context, modules []string, initialService string, o *options) (*Nucleus, error) {
	begin := time.Now()

	resolved, err := o.catalog.Resolve(modules)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(resolved))
	for i, m := range resolved {
		names[i] = m.Name
	}

	diOpts := []di.Option{di.WithLogger(o.log.WithComponent("di"))}
	if o.metrics != nil {
		diOpts = append(diOpts, di.WithMetrics(o.metrics))
	}
	c := di.New(diOpts...)

	n := &Nucleus{
		modules:   names,
		initial:   initialService,
		started:   o.now(),
		container: c,
		log:       o.log,
		done:      make(chan struct{}),
	}
	n.sessions = request.NewManager(
		request.WithIdleTimeout(o.idleTimeout),
		request.WithClock(o.now),
		request.WithNamespaceHook(c.Track),
		request.WithLogger(o.log.WithComponent("sessions")),
	)

	fail := func(err error) (*Nucleus, error) {
		if stopErr := n.Shutdown(context.WithoutCancel(ctx)); stopErr != nil {
			n.log.Warn("Shutdown after failed start reported errors", logger.ErrorFields("shutdown", stopErr))
		}
		return nil, err
	}

	err = c.RegisterSingleton(builtin.StartupPath, &builtin.Startup{
		Modules:        append([]string(nil), names...),
		InitialService: initialService,
		Started:        n.started,
		Now:            o.now,
	})
	if err != nil {
		return fail(err)
	}

	for _, m := range resolved {
		if m.Register == nil {
			continue
		}
		if err := m.Register(c); err != nil {
			return fail(fmt.Errorf("registering module %s: %w", m.Name, err))
		}
		n.log.Debug("Module registered", logger.Fields(logger.FieldModule, m.Name))
	}
	for i, layer := range o.layers {
		if err := layer(c); err != nil {
			return fail(fmt.Errorf("applying layer %d: %w", i, err))
		}
	}

	if err := c.Start(ctx); err != nil {
		return fail(err)
	}
	if _, err := c.Resolve(ctx, initialService); err != nil {
		return fail(fmt.Errorf("resolving initial service %s: %w", initialService, err))
	}

	if o.idleTimeout > 0 {
		n.wg.Add(1)
		go n.expireLoop(o.idleTimeout)
	}

	n.log.Info("Nucleus started", logger.Fields(
		logger.FieldModules, names,
		"initial_service", initialService,
		logger.FieldDuration, time.Since(begin).Milliseconds(),
	))
	return n, nil
}

// expireLoop invalidates idle sessions until shutdown.
func (n *Nucleus) expireLoop(idle time.Duration) {
	defer n.wg.Done()

	interval := idle / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-n.done:
			return
		case <-ticker.C:
			n.sessions.ExpireIdle()
		}
	}
}

// Shutdown invalidates every session and shuts the container down. It is
// safe to call more than once.
func (n *Nucleus) Shutdown(ctx context.Context) error {
	n.mu.Lock()
	if n.stopped {
		n.mu.Unlock()
		return nil
	}
	n.stopped = true
	n.mu.Unlock()

	close(n.done)
	n.wg.Wait()

	ctx, span := observability.StartSpan(ctx, observability.SpanShutdown)
	var errs []error
	if err := n.sessions.InvalidateAll(); err != nil {
		errs = append(errs, err)
	}
	if err := n.container.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	err := stderrors.Join(errs...)
	observability.EndSpan(span, err)

	if err != nil {
		n.log.Warn("Nucleus stopped with errors", logger.ErrorFields("shutdown", err))
		return err
	}
	n.log.Info("Nucleus stopped")
	return nil
}

// Running reports whether the container is up.
func (n *Nucleus) Running() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return !n.stopped
}

func (n *Nucleus) checkRunning() error {
	if !n.Running() {
		return errors.ContainerStopped("nucleus")
	}
	return nil
}

// NewRequestForSession creates a synthetic request for sessionID with no
// parameters.
func (n *Nucleus) NewRequestForSession(sessionID string, mode request.Mode) (*request.Request, error) {
	return n.NewRequest(sessionID, mode, nil)
}

// NewRequest creates a request for sessionID carrying params.
func (n *Nucleus) NewRequest(sessionID string, mode request.Mode, params url.Values) (*request.Request, error) {
	if err := n.checkRunning(); err != nil {
		return nil, err
	}
	return n.sessions.NewRequest(sessionID, mode, params)
}

// Resolve resolves path under ctx. Session, window and request scoped
// components need a request bound with request.WithRequest.
func (n *Nucleus) Resolve(ctx context.Context, path string) (any, error) {
	if err := n.checkRunning(); err != nil {
		return nil, err
	}
	return n.container.Resolve(ctx, path)
}

// ResolveWithRequest resolves path with r as the current request. ctx itself
// is left untouched.
func (n *Nucleus) ResolveWithRequest(ctx context.Context, r *request.Request, path string) (any, error) {
	if r == nil {
		return nil, errors.InvalidInput("request", "request is required")
	}
	if r.Ended() {
		return nil, errors.ContainerStopped("request " + r.ID())
	}
	return n.Resolve(request.WithRequest(ctx, r), path)
}

// AbsoluteNameOf returns the path v was resolved from, or "".
func (n *Nucleus) AbsoluteNameOf(v any) string {
	return n.container.AbsoluteNameOf(v)
}

// Modules returns the loaded modules in registration order, requirements
// included.
func (n *Nucleus) Modules() []string {
	return append([]string(nil), n.modules...)
}

// InitialService returns the path resolved at start.
func (n *Nucleus) InitialService() string { return n.initial }

// Started returns the start time.
func (n *Nucleus) Started() time.Time { return n.started }

// Sessions returns the session manager.
func (n *Nucleus) Sessions() *request.Manager { return n.sessions }

// Container returns the component container.
func (n *Nucleus) Container() *di.Container { return n.container }

// Name implements component.Component.
func (n *Nucleus) Name() string { return componentName }

// Start implements component.Component. The container is already running
// once constructed.
func (n *Nucleus) Start(ctx context.Context) error {
	return n.checkRunning()
}

// Stop implements component.Component.
func (n *Nucleus) Stop(ctx context.Context) error {
	return n.Shutdown(ctx)
}

// Health implements component.Component.
func (n *Nucleus) Health(ctx context.Context) component.Health {
	if !n.Running() {
		return component.Health{Name: componentName, Status: component.StatusUnhealthy, Message: "stopped"}
	}
	health := component.Health{
		Name:    componentName,
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d sessions, %d active requests", n.sessions.Len(), n.sessions.ActiveRequests()),
	}
	for _, h := range n.container.Health(ctx) {
		if h.Status != component.StatusHealthy {
			health.Status = component.StatusDegraded
			health.Message = h.Name + ": " + string(h.Status)
			break
		}
	}
	return health
}
