package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflow/agentcore/schema"
)

func TestMemoryPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	node := schema.String().WithLen(1, 10)

	require.NoError(t, m.Put(ctx, "greeting", node))
	got, err := m.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Same(t, node, got)
}

func TestMemoryGetMissingReturnsAbsentValueNoError(t *testing.T) {
	m := NewMemory()
	node, err := m.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, node)
}

func TestMemoryListAndDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Put(ctx, "a", schema.String()))
	require.NoError(t, m.Put(ctx, "b", schema.Number()))

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	require.NoError(t, m.Delete(ctx, "a"))
	ids, err = m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)

	// Deleting an id that's already gone is not an error.
	assert.NoError(t, m.Delete(ctx, "a"))
}
