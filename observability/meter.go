package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/nucleus/logger"
)

// InitMeter installs an OTLP HTTP meter provider as the global provider.
// The returned provider should be shut down on exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(newResource(cfg)),
	)
	otel.SetMeterProvider(mp)

	logger.Info("Meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns the nucleus meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(InstrumentationName)
}

// Metrics holds the instruments recorded by the container.
type Metrics struct {
	resolutions metric.Int64Counter
	errors      metric.Int64Counter
	duration    metric.Float64Histogram
	constructed metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	resolutions, err := meter.Int64Counter("nucleus.resolutions",
		metric.WithDescription("Component resolutions by scope"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating nucleus.resolutions counter: %w", err)
	}

	errs, err := meter.Int64Counter("nucleus.resolution_errors",
		metric.WithDescription("Failed component resolutions by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating nucleus.resolution_errors counter: %w", err)
	}

	duration, err := meter.Float64Histogram("nucleus.resolution.duration",
		metric.WithDescription("Duration of component resolutions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating nucleus.resolution.duration histogram: %w", err)
	}

	constructed, err := meter.Int64Counter("nucleus.constructions",
		metric.WithDescription("Component instances constructed by scope"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating nucleus.constructions counter: %w", err)
	}

	return &Metrics{
		resolutions: resolutions,
		errors:      errs,
		duration:    duration,
		constructed: constructed,
	}, nil
}

// RecordResolution records one successful resolution.
func (m *Metrics) RecordResolution(ctx context.Context, scope string, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("scope", scope))
	m.resolutions.Add(ctx, 1, attrs)
	m.duration.Record(ctx, d.Seconds(), attrs)
}

// RecordError records one failed resolution.
func (m *Metrics) RecordError(ctx context.Context, code string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("code", code)))
}

// RecordConstruction records one constructed instance.
func (m *Metrics) RecordConstruction(ctx context.Context, scope string) {
	m.constructed.Add(ctx, 1, metric.WithAttributes(attribute.String("scope", scope)))
}
