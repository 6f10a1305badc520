package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflow/agentcore/jsonvalue"
)

func TestEventJSONRoundTrip(t *testing.T) {
	meta := Metadata{
		Source:        "agent-runtime",
		CorrelationID: "corr-1",
		UserID:        "user-1",
		SessionID:     "sess-1",
		Tags:          []string{"demo"},
		Custom:        jsonvalue.FromAny(map[string]any{"region": "us"}),
	}
	original := New("agent.started", CategoryAgent, SeverityInfo, meta, jsonvalue.FromAny(map[string]any{"agent_id": "a1"}))

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.True(t, original.Equal(decoded))
}

func TestUnmarshalRejectsUnknownCategory(t *testing.T) {
	raw := `{"id":"x","name":"n","category":"bogus","severity":"info","metadata":{"timestamp":1,"source":"s","tags":[]},"payload":null}`
	var e Event
	err := json.Unmarshal([]byte(raw), &e)
	assert.Error(t, err)
}

func TestUnmarshalRejectsUnknownSeverity(t *testing.T) {
	raw := `{"id":"x","name":"n","category":"agent","severity":"catastrophic","metadata":{"timestamp":1,"source":"s","tags":[]},"payload":null}`
	var e Event
	err := json.Unmarshal([]byte(raw), &e)
	assert.Error(t, err)
}
