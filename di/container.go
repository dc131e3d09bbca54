package di

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/nucleus/component"
	"github.com/kbukum/nucleus/errors"
	"github.com/kbukum/nucleus/logger"
	"github.com/kbukum/nucleus/naming"
	"github.com/kbukum/nucleus/observability"
	"github.com/kbukum/nucleus/request"
	"github.com/kbukum/nucleus/scope"
)

// State is the lifecycle state of a container.
type State int

const (
	StateNew State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Resolver resolves component names on behalf of a component under
// construction. Relative names are taken relative to that component's path.
type Resolver interface {
	Resolve(name string) (interface{}, error)
}

// RegistrationInfo describes a registered component for introspection.
type RegistrationInfo struct {
	Path        string      `json:"path"`
	Scope       scope.Scope `json:"-"`
	ScopeName   string      `json:"scope"`
	Eager       bool        `json:"eager"`
	Singleton   bool        `json:"singleton"`
	Initialized bool        `json:"initialized"`
	Description string      `json:"description,omitempty"`
}

type definition struct {
	path        naming.Path
	scope       scope.Scope
	ctor        *constructor
	instance    interface{}
	eager       bool
	description string
}

// RegisterOption configures a single registration.
type RegisterOption func(*definition)

// Eager builds a global component when the container starts instead of on
// first resolution.
func Eager() RegisterOption {
	return func(d *definition) { d.eager = true }
}

// WithDescription attaches a human-readable description.
func WithDescription(desc string) RegisterOption {
	return func(d *definition) { d.description = desc }
}

// Container is the scope-aware component container.
type Container struct {
	mu    sync.RWMutex
	defs  map[string]*definition
	order []string
	state State

	global     *scope.Namespace
	components *component.Registry
	index      *nameIndex
	waits      *waitGraph
	metrics    *observability.Metrics
	log        *logger.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the container logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Container) { c.log = l }
}

// WithMetrics sets the metric instruments. By default instruments are
// created on the global otel meter provider.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Container) { c.metrics = m }
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		defs:       make(map[string]*definition),
		global:     scope.NewNamespace(scope.Global, "container"),
		components: component.NewRegistry(),
		index:      newNameIndex(),
		waits:      newWaitGraph(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get("di")
	}
	if c.metrics == nil {
		m, err := observability.NewMetrics(observability.Meter())
		if err != nil {
			c.log.Warn("Metrics disabled", logger.ErrorFields("new_metrics", err))
		}
		c.metrics = m
	}
	c.Track(c.global)
	return c
}

// Track keeps the name index in step with ns: instances dropped when ns
// closes stop resolving through AbsoluteNameOf.
func (c *Container) Track(ns *scope.Namespace) {
	ns.OnEvict(c.index.remove)
}

// State returns the lifecycle state.
func (c *Container) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Register registers a constructor for the component at path.
func (c *Container) Register(path string, s scope.Scope, ctor interface{}, opts ...RegisterOption) error {
	p, err := naming.Parse(path)
	if err != nil {
		return err
	}
	fn, err := newConstructor(ctor)
	if err != nil {
		return errors.InvalidInput("constructor", err.Error()).WithDetail("path", path)
	}

	def := &definition{path: p, scope: s, ctor: fn}
	for _, opt := range opts {
		opt(def)
	}
	if def.eager && s != scope.Global {
		return errors.InvalidInput("eager", "only global components can be eager").WithDetail("path", path)
	}

	running, err := c.add(def)
	if err != nil {
		return err
	}
	if running && def.eager {
		if _, err := c.Resolve(context.Background(), p.String()); err != nil {
			return err
		}
	}
	return nil
}

// RegisterSingleton registers a pre-built global instance. The container
// does not start, stop or close singletons; their owner does.
func (c *Container) RegisterSingleton(path string, instance interface{}) error {
	p, err := naming.Parse(path)
	if err != nil {
		return err
	}
	if instance == nil {
		return errors.InvalidInput("instance", "singleton instance must not be nil").WithDetail("path", path)
	}
	if _, err := c.add(&definition{path: p, scope: scope.Global, instance: instance}); err != nil {
		return err
	}
	c.index.add(instance, p.String())
	return nil
}

func (c *Container) add(def *definition) (running bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateStopped {
		return false, errors.ContainerStopped("container")
	}
	key := def.path.String()
	if _, exists := c.defs[key]; exists {
		return false, errors.AlreadyExists(key)
	}
	c.defs[key] = def
	c.order = append(c.order, key)

	c.log.Debug("Component registered", logger.Fields(
		logger.FieldPath, key,
		logger.FieldScope, def.scope.String(),
	))
	return c.state == StateRunning, nil
}

// Start moves the container to running and builds eager global components
// in registration order.
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateRunning:
		c.mu.Unlock()
		return nil
	case StateStopped:
		c.mu.Unlock()
		return errors.ContainerStopped("container")
	}
	c.state = StateRunning
	var eager []string
	for _, key := range c.order {
		if c.defs[key].eager {
			eager = append(eager, key)
		}
	}
	c.mu.Unlock()

	for _, key := range eager {
		if _, err := c.Resolve(ctx, key); err != nil {
			return fmt.Errorf("starting eager component %s: %w", key, err)
		}
	}

	c.log.Info("Container started", logger.Fields(
		logger.FieldCount, len(c.order),
		"eager", len(eager),
	))
	return nil
}

// Shutdown stops global components in reverse start order and releases
// the global namespace. Calling it again is a no-op.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateStopped {
		c.mu.Unlock()
		return nil
	}
	c.state = StateStopped
	c.mu.Unlock()

	var errs []error
	if err := c.components.StopAll(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := c.global.Close(); err != nil {
		errs = append(errs, err)
	}

	c.log.Info("Container stopped")
	return stderrors.Join(errs...)
}

// Bind returns a Resolver that resolves under ctx.
func (c *Container) Bind(ctx context.Context) Resolver {
	return &boundResolver{c: c, ctx: ctx}
}

type boundResolver struct {
	c   *Container
	ctx context.Context
}

func (b *boundResolver) Resolve(name string) (interface{}, error) {
	return b.c.Resolve(b.ctx, name)
}

// Resolve returns the component named by name. The request bound to ctx, if
// any, supplies the session, window and request namespaces.
func (c *Container) Resolve(ctx context.Context, name string) (interface{}, error) {
	started := time.Now()

	p, err := naming.Resolve(base(ctx), name)
	if err != nil {
		c.recordError(ctx, err)
		return nil, err
	}

	ctx, span := observability.StartSpan(withChain(ctx), observability.SpanResolve,
		attribute.String(observability.AttrPath, p.String()))
	v, def, err := c.resolve(ctx, p)
	observability.EndSpan(span, err)

	if err != nil {
		c.recordError(ctx, err)
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.RecordResolution(ctx, def.scope.String(), time.Since(started))
	}
	return v, nil
}

func (c *Container) recordError(ctx context.Context, err error) {
	if c.metrics == nil {
		return
	}
	code := string(errors.ErrCodeInternal)
	if appErr, ok := errors.AsAppError(err); ok {
		code = string(appErr.Code)
	}
	c.metrics.RecordError(ctx, code)
}

func (c *Container) resolve(ctx context.Context, p naming.Path) (interface{}, *definition, error) {
	key := p.String()

	c.mu.RLock()
	state := c.state
	def, ok := c.defs[key]
	c.mu.RUnlock()

	if state == StateStopped {
		return nil, nil, errors.ContainerStopped("container")
	}
	if !ok {
		return nil, nil, errors.NotFound(key)
	}

	// the effective scope of a prototype is that of whoever resolves it
	effective := def.scope
	if f := frameFrom(ctx); f != nil {
		if chain := f.cycle(p); chain != nil {
			return nil, nil, errors.Circular(chain)
		}
		if f.scope.Outlives(def.scope) {
			return nil, nil, errors.ScopeViolation(f.path.String(), f.scope.String(), key, def.scope.String())
		}
		if def.scope == scope.Prototype {
			effective = f.scope
		}
	}

	if def.instance != nil {
		return def.instance, def, nil
	}

	if def.scope == scope.Prototype {
		v, err := c.construct(ctx, def, effective)
		return v, def, err
	}

	ns, err := c.namespaceFor(ctx, def)
	if err != nil {
		return nil, nil, err
	}

	me, slot := chainFrom(ctx), slotKey{ns: ns, path: key}
	if cycle := c.waits.wait(me, slot); cycle != nil {
		return nil, nil, errors.Circular(cycle)
	}
	defer c.waits.done(me, slot)

	v, _, err := ns.GetOrCreate(key, func() (interface{}, error) {
		c.waits.acquire(me, slot)
		defer c.waits.release(slot)

		v, err := c.construct(ctx, def, def.scope)
		if err != nil {
			return nil, err
		}
		if comp, ok := v.(component.Component); ok && def.scope == scope.Global {
			if err := c.components.RegisterAndStart(ctx, comp); err != nil {
				return nil, errors.Construction(key, err)
			}
		}
		c.index.add(v, key)
		return v, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return v, def, nil
}

func (c *Container) namespaceFor(ctx context.Context, def *definition) (*scope.Namespace, error) {
	if def.scope == scope.Global {
		return c.global, nil
	}
	r, ok := request.FromContext(ctx)
	if !ok {
		return nil, errors.ScopeUnavailable(def.path.String(), def.scope.String())
	}
	ns, ok := r.Namespace(def.scope)
	if !ok {
		return nil, errors.Internal(fmt.Errorf("request has no %s namespace", def.scope))
	}
	return ns, nil
}

func (c *Container) construct(ctx context.Context, def *definition, s scope.Scope) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := def.path.String()

	ctx = withFrame(ctx, &frame{path: def.path, scope: s, parent: frameFrom(ctx)})
	ctx, span := observability.StartSpan(ctx, observability.SpanConstruct,
		attribute.String(observability.AttrPath, key),
		attribute.String(observability.AttrScope, def.scope.String()))

	v, err := def.ctor.call(ctx, c.Bind(ctx))
	if err != nil {
		// nested failures already carry their own code
		if !errors.IsAppError(err) {
			err = errors.Construction(key, err)
		}
		observability.EndSpan(span, err)
		c.log.Debug("Component construction failed", logger.Fields(
			logger.FieldPath, key,
			logger.FieldError, err.Error(),
		))
		return nil, err
	}
	observability.EndSpan(span, nil)

	if c.metrics != nil {
		c.metrics.RecordConstruction(ctx, def.scope.String())
	}
	c.log.Debug("Component constructed", logger.Fields(
		logger.FieldPath, key,
		logger.FieldScope, def.scope.String(),
	))
	return v, nil
}

// AbsoluteNameOf returns the path a live instance was resolved from, or ""
// if v is not a cached instance with identity.
func (c *Container) AbsoluteNameOf(v interface{}) string {
	name, _ := c.index.lookup(v)
	return name
}

// Lookup returns registration info for a path.
func (c *Container) Lookup(name string) (RegistrationInfo, bool) {
	p, err := naming.Parse(name)
	if err != nil {
		return RegistrationInfo{}, false
	}
	c.mu.RLock()
	def, ok := c.defs[p.String()]
	c.mu.RUnlock()
	if !ok {
		return RegistrationInfo{}, false
	}
	return c.info(def), true
}

// Registrations returns info about all registered components, sorted by path.
func (c *Container) Registrations() []RegistrationInfo {
	c.mu.RLock()
	defs := make([]*definition, 0, len(c.defs))
	for _, def := range c.defs {
		defs = append(defs, def)
	}
	c.mu.RUnlock()

	result := make([]RegistrationInfo, 0, len(defs))
	for _, def := range defs {
		result = append(result, c.info(def))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result
}

func (c *Container) info(def *definition) RegistrationInfo {
	info := RegistrationInfo{
		Path:        def.path.String(),
		Scope:       def.scope,
		ScopeName:   def.scope.String(),
		Eager:       def.eager,
		Singleton:   def.instance != nil,
		Description: def.description,
	}
	switch {
	case def.instance != nil:
		info.Initialized = true
	case def.scope == scope.Global:
		_, info.Initialized = c.global.Get(info.Path)
	}
	return info
}

// Health reports the health of every started global component.
func (c *Container) Health(ctx context.Context) []component.Health {
	return c.components.HealthAll(ctx)
}
