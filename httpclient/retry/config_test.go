package retry

import (
	"errors"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigMatchesDocumentedDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 1*time.Second, cfg.InitialDelay)
	assert.Equal(t, 60*time.Second, cfg.MaxDelay)
	assert.Equal(t, 2.0, cfg.ExponentialBase)
	assert.True(t, cfg.Jitter)
	for _, status := range []int{429, 500, 502, 503, 504} {
		assert.True(t, cfg.RetryOnStatus[status])
	}
	assert.False(t, cfg.RetryOnStatus[404])
}

func TestDefaultRetryableError(t *testing.T) {
	assert.False(t, DefaultRetryableError(nil))
	assert.True(t, DefaultRetryableError(syscall.ECONNREFUSED))
	assert.True(t, DefaultRetryableError(syscall.ECONNRESET))
	assert.True(t, DefaultRetryableError(&net.OpError{Op: "dial", Err: errors.New("boom")}))
	assert.False(t, DefaultRetryableError(errors.New("unrelated failure")))
}
