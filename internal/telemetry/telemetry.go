// Package telemetry hands out tracer handles against whatever
// TracerProvider the host process has installed globally. The library never
// configures exporters or a TracerProvider itself — that belongs to the host
// application wiring its own OTel SDK; this package only consumes the OTel
// API surface (otel.Tracer, trace.Span) so instrumented code works whether
// the host has wired a real SDK or left the default noop provider in place.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/agentflow/agentcore"

// Tracer returns the tracer for component, scoped under the library's
// instrumentation name so spans from different subsystems (event, pool,
// retry) are distinguishable in any backend the host has configured.
func Tracer(component string) trace.Tracer {
	return otel.Tracer(instrumentationName + "/" + component)
}

// StartSpan is a small convenience wrapper that also accepts a set of
// key/value attribute pairs (always an even count of string keys to
// attribute.KeyValue values is not required — pass attribute.KeyValue
// directly).
func StartSpan(ctx context.Context, component, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer(component).Start(ctx, spanName, trace.WithAttributes(attrs...))
}
