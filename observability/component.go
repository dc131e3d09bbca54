package observability

import (
	"context"
	stderrors "errors"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/nucleus/component"
)

var _ component.Component = (*Component)(nil)

// Component installs the OTLP trace and metric providers on Start and
// flushes them on Stop.
type Component struct {
	cfg Config

	mu      sync.Mutex
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *Metrics
}

// NewComponent creates an exporter component for cfg.
func NewComponent(cfg Config) *Component {
	return &Component{cfg: cfg}
}

// Name implements component.Component.
func (c *Component) Name() string { return "observability" }

// Start implements component.Component. Disabled configs leave the no-op
// global providers in place.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfg.Enabled {
		tp, err := InitTracer(ctx, c.cfg)
		if err != nil {
			return err
		}
		mp, err := InitMeter(ctx, c.cfg)
		if err != nil {
			_ = tp.Shutdown(ctx)
			return err
		}
		c.tracer, c.meter = tp, mp
	}

	m, err := NewMetrics(Meter())
	if err != nil {
		return err
	}
	c.metrics = m
	return nil
}

// Metrics returns the container instruments. Nil before Start.
func (c *Component) Metrics() *Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics
}

// Stop implements component.Component.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.tracer != nil {
		errs = append(errs, c.tracer.Shutdown(ctx))
		c.tracer = nil
	}
	if c.meter != nil {
		errs = append(errs, c.meter.Shutdown(ctx))
		c.meter = nil
	}
	return stderrors.Join(errs...)
}

// Health implements component.Component.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.metrics == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case !c.cfg.Enabled:
		h.Message = "exporters disabled"
	default:
		h.Message = "exporting to " + c.cfg.Endpoint
	}
	return h
}
