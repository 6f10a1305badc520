package httpclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderSetReplacesValues(t *testing.T) {
	h := NewHeader()
	h.Add("X-Trace", "a")
	h.Add("X-Trace", "b")
	h.Set("X-Trace", "c")

	assert.Equal(t, []string{"c"}, h.Values("X-Trace"))
	assert.Equal(t, "c", h.Get("X-Trace"))
}

func TestHeaderLookupIsCaseInsensitive(t *testing.T) {
	h := NewHeader()
	h.Set("Content-Type", "application/json")

	assert.True(t, h.Has("content-type"))
	assert.Equal(t, "application/json", h.Get("CONTENT-TYPE"))
}

func TestHeaderKeysPreserveInsertionCasing(t *testing.T) {
	h := NewHeader()
	h.Set("Authorization", "Bearer x")
	h.Add("X-Request-ID", "1")

	assert.Equal(t, []string{"Authorization", "X-Request-ID"}, h.Keys())
}

func TestRequestWithBearerSetsAuthorizationHeader(t *testing.T) {
	r := NewRequest(MethodGet, "https://example.test/v1").WithBearer("sk-test")
	assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
}

func TestRequestWithBodySetsBytes(t *testing.T) {
	r := NewRequest(MethodPost, "https://example.test/v1").WithBody([]byte(`{"a":1}`))
	assert.Equal(t, []byte(`{"a":1}`), r.Body)
}
