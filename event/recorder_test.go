package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflow/agentcore/jsonvalue"
)

func TestRecorderFiltersConjunctively(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder(NewMemoryBackend(nil))
	r.AddFilter("category", Condition{Field: FieldCategory, Op: OpEq, Value: StringValue("agent")})
	r.AddFilter("severity", Condition{Field: FieldSeverity, Op: OpGte, Value: SeverityValue(SeverityWarning)})

	low := New("agent.started", CategoryAgent, SeverityInfo, Metadata{}, jsonvalue.Null())
	require.NoError(t, r.Record(ctx, low))

	wrongCategory := New("tool.invoked", CategoryTool, SeverityCritical, Metadata{}, jsonvalue.Null())
	require.NoError(t, r.Record(ctx, wrongCategory))

	matching := New("agent.failed", CategoryAgent, SeverityError, Metadata{}, jsonvalue.Null())
	require.NoError(t, r.Record(ctx, matching))

	count, err := r.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecorderStopRecordingGatesRecord(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder(NewMemoryBackend(nil))
	r.StopRecording()
	assert.False(t, r.IsRecording())

	require.NoError(t, r.Record(ctx, New("agent.started", CategoryAgent, SeverityInfo, Metadata{}, jsonvalue.Null())))

	count, err := r.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRecorderCloseIsLifecycleGuarded(t *testing.T) {
	r := NewRecorder(NewMemoryBackend(nil))
	require.NoError(t, r.Close())
	assert.Error(t, r.Close())
}
