package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/agentflow/agentcore/httpclient"
)

// DefaultRetryableError classifies network/timeout/refused/reset errors as
// retryable, matching the engine's default RetryOnErrors.
func DefaultRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// Result reports the outcome of Engine.Execute.
type Result struct {
	Response     *httpclient.Response
	Attempts     int
	TotalDelayMS int64
	LastError    error
	Succeeded    bool
}

// MetricsSink receives per-attempt retry counters; nil is valid.
type MetricsSink interface {
	RetryAttempt(outcome string)
	RetryDelay(d time.Duration)
}

// Engine wraps an httpclient.Client with the backoff-with-jitter retry
// policy described in Config.
type Engine struct {
	client  *httpclient.Client
	cfg     Config
	metrics MetricsSink
}

// New wraps client with cfg.
func New(client *httpclient.Client, cfg Config, metrics MetricsSink) *Engine {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 1 * time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 60 * time.Second
	}
	if cfg.ExponentialBase <= 1 {
		cfg.ExponentialBase = 2.0
	}
	if cfg.RetryOnStatus == nil {
		cfg.RetryOnStatus = DefaultConfig().RetryOnStatus
	}
	if cfg.RetryOnErrors == nil {
		cfg.RetryOnErrors = DefaultRetryableError
	}
	return &Engine{client: client, cfg: cfg, metrics: metrics}
}

// baseDelay computes the exponential schedule for 1-indexed attempt k
// (k >= 2), capped at MaxDelay.
func (e *Engine) baseDelay(k int) time.Duration {
	scaled := float64(e.cfg.InitialDelay) * math.Pow(e.cfg.ExponentialBase, float64(k-1))
	if scaled > float64(e.cfg.MaxDelay) {
		scaled = float64(e.cfg.MaxDelay)
	}
	return time.Duration(scaled)
}

// delay applies jitter to baseDelay(k): final = base - r/2 + U{0,r} where
// r = base/2, landing in [base/2, 3*base/2].
func (e *Engine) delay(k int) time.Duration {
	base := e.baseDelay(k)
	if !e.cfg.Jitter {
		return base
	}
	r := float64(base) / 2
	final := float64(base) - r/2 + rand.Float64()*r
	return time.Duration(final)
}

// retryAfterOverride parses a Retry-After header as integer seconds (no
// HTTP-date form), capped at MaxDelay. ok is false if absent or unparseable.
func (e *Engine) retryAfterOverride(resp *httpclient.Response) (time.Duration, bool) {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return 0, false
	}
	d := time.Duration(secs) * time.Second
	if d > e.cfg.MaxDelay {
		d = e.cfg.MaxDelay
	}
	return d, true
}

// Execute runs req through the client, retrying on transport errors and on
// responses whose status is configured retryable, until success, a
// non-retryable outcome, or MaxAttempts is reached.
func (e *Engine) Execute(ctx context.Context, req *httpclient.Request) Result {
	var result Result
	var totalDelay time.Duration

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		result.Attempts = attempt
		resp, err := e.client.Execute(ctx, req)
		if err != nil {
			result.LastError = err
			result.Response = nil
			retryable := e.cfg.RetryOnErrors(err)
			if !retryable || attempt == e.cfg.MaxAttempts {
				e.report("error", 0)
				result.TotalDelayMS = totalDelay.Milliseconds()
				return result
			}
			d := e.delay(attempt + 1)
			e.report("retry", d)
			totalDelay += d
			e.sleep(ctx, d)
			continue
		}

		result.Response = resp
		result.LastError = nil
		if resp.Success() || !e.cfg.RetryOnStatus[resp.Status] || attempt == e.cfg.MaxAttempts {
			result.Succeeded = resp.Success()
			e.report(outcomeFor(resp.Success()), 0)
			result.TotalDelayMS = totalDelay.Milliseconds()
			return result
		}

		d, overridden := e.retryAfterOverride(resp)
		if !overridden {
			d = e.delay(attempt + 1)
		}
		e.report("retry", d)
		totalDelay += d
		e.sleep(ctx, d)
	}

	result.TotalDelayMS = totalDelay.Milliseconds()
	return result
}

func (e *Engine) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func (e *Engine) report(outcome string, d time.Duration) {
	if e.metrics == nil {
		return
	}
	e.metrics.RetryAttempt(outcome)
	if d > 0 {
		e.metrics.RetryDelay(d)
	}
}

func outcomeFor(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
