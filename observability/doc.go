// Package observability provides OpenTelemetry tracing and metrics for
// component resolution.
//
// The container records spans and counters through the global otel
// providers, which are no-ops until InitTracer and InitMeter install real
// ones:
//
//	tp, err := observability.InitTracer(ctx, cfg)
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanResolve)
//	defer span.End()
package observability
