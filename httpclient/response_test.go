package httpclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseSuccess(t *testing.T) {
	assert.True(t, (&Response{Status: 200}).Success())
	assert.True(t, (&Response{Status: 299}).Success())
	assert.False(t, (&Response{Status: 300}).Success())
	assert.False(t, (&Response{Status: 404}).Success())
}

func TestResponseParseJSON(t *testing.T) {
	r := &Response{Body: []byte(`{"name":"agentcore","count":3}`)}

	var out struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, r.ParseJSON(&out))
	assert.Equal(t, "agentcore", out.Name)
	assert.Equal(t, 3, out.Count)
}
