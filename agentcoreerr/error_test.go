package agentcoreerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	retryable := New(CodeTransport, "execute request").WithRetryable(true)
	assert.True(t, IsRetryable(retryable))

	notRetryable := New(CodeValidation, "bad input")
	assert.False(t, IsRetryable(notRetryable))

	assert.False(t, IsRetryable(errors.New("plain error")))
}

func TestCodeOf(t *testing.T) {
	err := New(CodePoolExhaustion, "no connections available")
	assert.Equal(t, CodePoolExhaustion, CodeOf(err))
	assert.Equal(t, Code(""), CodeOf(errors.New("plain error")))
}

func TestErrorUnwrapAndMessage(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := New(CodeTransport, "execute request").WithCause(cause).WithPath("/v1/things")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "TRANSPORT")
	assert.Contains(t, err.Error(), "/v1/things")
	assert.Contains(t, err.Error(), "dial tcp: timeout")
}

func TestIsRetryableAndCodeOfThroughFmtWrap(t *testing.T) {
	retryable := New(CodeTransport, "execute request").WithRetryable(true)
	wrapped := fmt.Errorf("calling service: %w", retryable)

	assert.True(t, IsRetryable(wrapped))
	assert.Equal(t, CodeTransport, CodeOf(wrapped))
}
