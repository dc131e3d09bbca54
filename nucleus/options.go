package nucleus

import (
	"time"

	"github.com/kbukum/nucleus/di"
	"github.com/kbukum/nucleus/logger"
	"github.com/kbukum/nucleus/module"
	"github.com/kbukum/nucleus/observability"
)

// Layer adds component definitions after all modules have registered.
// Registering a path a module already defines fails with ALREADY_EXISTS.
type Layer func(c *di.Container) error

// Option configures a Nucleus at start.
type Option func(*options)

type options struct {
	catalog     *module.Catalog
	layers      []Layer
	log         *logger.Logger
	now         func() time.Time
	idleTimeout time.Duration
	metrics     *observability.Metrics
}

func resolveOptions(opts []Option) *options {
	o := &options{idleTimeout: DefaultIdleTimeout}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithCatalog sets the module catalog. Defaults to builtin.NewCatalog().
func WithCatalog(c *module.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithLayer appends a configuration layer.
func WithLayer(l Layer) Option {
	return func(o *options) { o.layers = append(o.layers, l) }
}

// WithLogger sets the logger for the container and its sessions.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithClock overrides the time source seen by sessions and the DAS clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIdleTimeout sets the session idle timeout. Zero or negative disables
// expiry.
func WithIdleTimeout(d time.Duration) Option {
	return func(o *options) { o.idleTimeout = d }
}

// WithMetrics sets the metric instruments used by the container.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}
