package metrics

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var collectorNamespaceSeq uint64

// nextTestNamespace gives each test its own promauto namespace so repeated
// NewCollector calls in the same test binary don't collide on registration.
func nextTestNamespace() string {
	seq := atomic.AddUint64(&collectorNamespaceSeq, 1)
	return fmt.Sprintf("test_%d", seq)
}

func TestNewCollectorRegistersAllMetrics(t *testing.T) {
	c := NewCollector(nextTestNamespace(), zap.NewNop())

	assert.NotNil(t, c.eventsEmittedTotal)
	assert.NotNil(t, c.eventsDroppedTotal)
	assert.NotNil(t, c.queueDepth)
	assert.NotNil(t, c.subscriptionsActive)
	assert.NotNil(t, c.poolEntries)
	assert.NotNil(t, c.poolEvictions)
	assert.NotNil(t, c.poolAcquireFail)
	assert.NotNil(t, c.retryAttemptsTotal)
	assert.NotNil(t, c.retryDelayMS)
}

func TestNewCollectorDefaultsNilLoggerToNop(t *testing.T) {
	assert.NotPanics(t, func() {
		NewCollector(nextTestNamespace(), nil)
	})
}

func TestEventEmittedIncrementsByCategoryAndSeverity(t *testing.T) {
	c := NewCollector(nextTestNamespace(), zap.NewNop())

	c.EventEmitted("agent", "info")
	c.EventEmitted("agent", "info")
	c.EventEmitted("agent", "warning")

	assert.Equal(t, float64(2), testutil.ToFloat64(c.eventsEmittedTotal.WithLabelValues("agent", "info")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.eventsEmittedTotal.WithLabelValues("agent", "warning")))
}

func TestEventDroppedIncrementsCounter(t *testing.T) {
	c := NewCollector(nextTestNamespace(), zap.NewNop())

	c.EventDropped()
	c.EventDropped()

	assert.Equal(t, float64(2), testutil.ToFloat64(c.eventsDroppedTotal))
}

func TestQueueDepthAndSubscriptionsActiveSetGauges(t *testing.T) {
	c := NewCollector(nextTestNamespace(), zap.NewNop())

	c.QueueDepth(42)
	c.SubscriptionsActive(7)

	assert.Equal(t, float64(42), testutil.ToFloat64(c.queueDepth))
	assert.Equal(t, float64(7), testutil.ToFloat64(c.subscriptionsActive))

	c.QueueDepth(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(c.queueDepth), "gauge should overwrite, not accumulate")
}

func TestPoolEntriesSetsIdleAndInUseSeparately(t *testing.T) {
	c := NewCollector(nextTestNamespace(), zap.NewNop())

	c.PoolEntries(4, 6)

	assert.Equal(t, float64(4), testutil.ToFloat64(c.poolEntries.WithLabelValues("idle")))
	assert.Equal(t, float64(6), testutil.ToFloat64(c.poolEntries.WithLabelValues("in_use")))
}

func TestPoolEvictionAndAcquireFailureIncrementCounters(t *testing.T) {
	c := NewCollector(nextTestNamespace(), zap.NewNop())

	c.PoolEviction()
	c.PoolEviction()
	c.PoolAcquireFailure()

	assert.Equal(t, float64(2), testutil.ToFloat64(c.poolEvictions))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.poolAcquireFail))
}

func TestRetryAttemptIncrementsByOutcome(t *testing.T) {
	c := NewCollector(nextTestNamespace(), zap.NewNop())

	c.RetryAttempt("success")
	c.RetryAttempt("success")
	c.RetryAttempt("exhausted")

	assert.Equal(t, float64(2), testutil.ToFloat64(c.retryAttemptsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.retryAttemptsTotal.WithLabelValues("exhausted")))
}

func TestRetryDelayObservesMilliseconds(t *testing.T) {
	c := NewCollector(nextTestNamespace(), zap.NewNop())

	c.RetryDelay(1500 * time.Millisecond)

	assert.Equal(t, uint64(1), testutil.CollectAndCount(c.retryDelayMS))
}

func TestCollectorConcurrentRecording(t *testing.T) {
	c := NewCollector(nextTestNamespace(), zap.NewNop())

	const workers = 10
	done := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			c.EventEmitted("agent", "info")
			c.PoolEviction()
			c.RetryAttempt("success")
			c.RetryDelay(100 * time.Millisecond)
			done <- struct{}{}
		}()
	}
	for i := 0; i < workers; i++ {
		<-done
	}

	assert.Equal(t, float64(workers), testutil.ToFloat64(c.eventsEmittedTotal.WithLabelValues("agent", "info")))
	assert.Equal(t, float64(workers), testutil.ToFloat64(c.poolEvictions))
}
