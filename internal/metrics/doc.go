// Package metrics provides internal Prometheus instrumentation for the
// event pipeline, connection pool, and retry engine. This package is
// internal and should not be imported by external projects.
//
// Collector registers its counters, gauges, and histograms under a
// caller-supplied namespace via promauto, so multiple Collector instances
// in the same process never collide as long as their namespaces differ.
package metrics
