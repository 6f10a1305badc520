package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflow/agentcore/jsonvalue"
)

func eventAt(name string, ts int64) Event {
	e := New(name, CategoryAgent, SeverityInfo, Metadata{}, jsonvalue.Null())
	e.metadata.TimestampMS = ts
	return e
}

func TestReplayerReplayNextAdvancesAndFilters(t *testing.T) {
	events := []Event{
		eventAt("agent.started", 100),
		eventAt("tool.invoked", 200),
		eventAt("agent.completed", 300),
	}
	filter := Condition{Field: FieldCategory, Op: OpEq, Value: StringValue("agent")}
	r := NewReplayer(events, ReplayConfig{Filter: filter})

	e1, ok := r.ReplayNext()
	require.True(t, ok)
	assert.Equal(t, "agent.started", e1.Name())

	e2, ok := r.ReplayNext()
	require.True(t, ok)
	assert.Equal(t, "agent.completed", e2.Name())

	_, ok = r.ReplayNext()
	assert.False(t, ok)
}

func TestReplayerResetRewindsCursor(t *testing.T) {
	events := []Event{eventAt("agent.started", 100), eventAt("agent.completed", 200)}
	r := NewReplayer(events, ReplayConfig{})

	_, ok := r.ReplayNext()
	require.True(t, ok)
	r.Reset()

	e, ok := r.ReplayNext()
	require.True(t, ok)
	assert.Equal(t, "agent.started", e.Name())
}

func TestReplayerSeekToTime(t *testing.T) {
	events := []Event{
		eventAt("a", 100),
		eventAt("b", 200),
		eventAt("c", 300),
	}
	r := NewReplayer(events, ReplayConfig{})

	r.SeekToTime(250)
	e, ok := r.ReplayNext()
	require.True(t, ok)
	assert.Equal(t, "c", e.Name())

	r.SeekToTime(1000)
	_, ok = r.ReplayNext()
	assert.False(t, ok)
}

func TestReplayDeliversAllInOrderWithoutPacing(t *testing.T) {
	events := []Event{eventAt("a", 100), eventAt("b", 200), eventAt("c", 300)}
	r := NewReplayer(events, ReplayConfig{})

	var names []string
	err := r.Replay(context.Background(), func(_ context.Context, e Event) error {
		names = append(names, e.Name())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestReplayRespectsContextCancellation(t *testing.T) {
	events := []Event{eventAt("a", 100), eventAt("b", 200)}
	r := NewReplayer(events, ReplayConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Replay(ctx, func(_ context.Context, e Event) error {
		return nil
	})
	assert.Error(t, err)
}

func TestReplayWithRespectTimestampsPaces(t *testing.T) {
	events := []Event{eventAt("a", 0), eventAt("b", 50)}
	r := NewReplayer(events, ReplayConfig{RespectTimestamps: true, SpeedMultiplier: 10})

	start := time.Now()
	err := r.Replay(context.Background(), func(_ context.Context, e Event) error {
		return nil
	})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "speed multiplier should shrink the wait")
}
