// Package metrics provides internal Prometheus instrumentation for the
// event pipeline, connection pool, and retry engine. This package is
// internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector wires the counters and gauges the rest of the library reports
// against. Zero value is not usable; construct with NewCollector.
type Collector struct {
	eventsEmittedTotal   *prometheus.CounterVec
	eventsDroppedTotal   prometheus.Counter
	queueDepth           prometheus.Gauge
	subscriptionsActive  prometheus.Gauge

	poolEntries    *prometheus.GaugeVec
	poolEvictions  prometheus.Counter
	poolAcquireFail prometheus.Counter

	retryAttemptsTotal *prometheus.CounterVec
	retryDelayMS       prometheus.Histogram

	logger *zap.Logger
}

// NewCollector registers all metrics under namespace and returns a ready
// Collector.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{logger: logger.With(zap.String("component", "metrics"))}

	c.eventsEmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_emitted_total",
			Help:      "Total number of events emitted, by category and severity.",
		},
		[]string{"category", "severity"},
	)

	c.eventsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Total number of events rejected because the bounded queue was saturated.",
		},
	)

	c.queueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Current number of events waiting in the emitter's async queue.",
		},
	)

	c.subscriptionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscriptions_active",
			Help:      "Current number of registered subscriptions.",
		},
	)

	c.poolEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_entries",
			Help:      "Current connection pool entries, by state (idle/in_use).",
		},
		[]string{"state"},
	)

	c.poolEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_evictions_total",
			Help:      "Total number of LRU evictions performed by the connection pool.",
		},
	)

	c.poolAcquireFail = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_acquire_failures_total",
			Help:      "Total number of connection acquisitions that failed due to saturation.",
		},
	)

	c.retryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retry_attempts_total",
			Help:      "Total retry attempts made, by outcome.",
		},
		[]string{"outcome"},
	)

	c.retryDelayMS = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retry_delay_milliseconds",
			Help:      "Computed delay before each retry attempt, in milliseconds.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
		},
	)

	logger.Debug("metrics collector initialized", zap.String("namespace", namespace))
	return c
}

func (c *Collector) EventEmitted(category, severity string) {
	c.eventsEmittedTotal.WithLabelValues(category, severity).Inc()
}

func (c *Collector) EventDropped() { c.eventsDroppedTotal.Inc() }

func (c *Collector) QueueDepth(n int) { c.queueDepth.Set(float64(n)) }

func (c *Collector) SubscriptionsActive(n int) { c.subscriptionsActive.Set(float64(n)) }

func (c *Collector) PoolEntries(idle, inUse int) {
	c.poolEntries.WithLabelValues("idle").Set(float64(idle))
	c.poolEntries.WithLabelValues("in_use").Set(float64(inUse))
}

func (c *Collector) PoolEviction() { c.poolEvictions.Inc() }

func (c *Collector) PoolAcquireFailure() { c.poolAcquireFail.Inc() }

func (c *Collector) RetryAttempt(outcome string) {
	c.retryAttemptsTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) RetryDelay(d time.Duration) {
	c.retryDelayMS.Observe(float64(d.Milliseconds()))
}
