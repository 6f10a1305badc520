// Package telemetry hands out OpenTelemetry tracer handles scoped to this
// library's instrumentation name. It never builds a TracerProvider or wires
// an exporter — that is the host application's job. Instrumented code (today
// only httpclient.Client.Execute) calls Tracer/StartSpan and gets a real span when the host has installed an SDK provider, or a noop span
// when it hasn't.
package telemetry
