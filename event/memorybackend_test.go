package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflow/agentcore/jsonvalue"
)

func TestMemoryBackendStoreRetrieveDelete(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend(nil)

	e1 := New("agent.started", CategoryAgent, SeverityInfo, Metadata{}, jsonvalue.Null())
	e2 := New("tool.invoked", CategoryTool, SeverityWarning, Metadata{}, jsonvalue.Null())
	require.NoError(t, b.Store(ctx, e1))
	require.NoError(t, b.Store(ctx, e2))

	count, err := b.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	filter := Condition{Field: FieldCategory, Op: OpEq, Value: StringValue("tool")}
	matched, err := b.Retrieve(ctx, filter, 0)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, e2.ID(), matched[0].ID())

	n, err := b.DeleteByIDs(ctx, []string{e1.ID()})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err = b.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryBackendStoreClonesEvent(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend(nil)
	meta := Metadata{Tags: []string{"a"}}
	e := New("agent.started", CategoryAgent, SeverityInfo, meta, jsonvalue.Null())
	require.NoError(t, b.Store(ctx, e))

	e.metadata.Tags[0] = "mutated"

	all, err := b.Retrieve(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "a", all[0].Metadata().Tags[0])
}
