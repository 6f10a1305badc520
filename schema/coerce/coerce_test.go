package coerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflow/agentcore/jsonvalue"
	"github.com/agentflow/agentcore/schema"
)

func TestCoerceStringToNumber(t *testing.T) {
	node := schema.Number()
	result := Coerce(jsonvalue.String(" 42 "), node, Options{StringToNumber: true})
	i, ok := result.Value.Int()
	require.True(t, ok)
	assert.Equal(t, int64(42), i)
	assert.True(t, result.Coerced)
}

func TestCoerceStringToNumberFloat(t *testing.T) {
	node := schema.Number()
	result := Coerce(jsonvalue.String("3.5"), node, Options{StringToNumber: true})
	f, ok := result.Value.Float()
	require.True(t, ok)
	assert.Equal(t, 3.5, f)
}

func TestCoerceNoOpWhenDisabled(t *testing.T) {
	node := schema.Number()
	result := Coerce(jsonvalue.String("42"), node, Options{})
	assert.False(t, result.Coerced)
	s, ok := result.Value.Str()
	require.True(t, ok)
	assert.Equal(t, "42", s)
}

func TestCoerceNumberToString(t *testing.T) {
	node := schema.String()
	result := Coerce(jsonvalue.Int(42), node, Options{NumberToString: true})
	s, ok := result.Value.Str()
	require.True(t, ok)
	assert.Equal(t, "42", s)

	result = Coerce(jsonvalue.Float(3.25), node, Options{NumberToString: true})
	s, _ = result.Value.Str()
	assert.Equal(t, "3.25", s)
}

func TestCoerceStringToBoolean(t *testing.T) {
	node := schema.Boolean()
	testCases := []struct {
		in   string
		want bool
	}{
		{"yes", true}, {"TRUE", true}, {"1", true}, {"on", true},
		{"no", false}, {"FALSE", false}, {"0", false}, {"off", false},
	}
	for _, tc := range testCases {
		result := Coerce(jsonvalue.String(tc.in), node, Options{StringToBoolean: true})
		b, ok := result.Value.Bool()
		require.True(t, ok, "input %q should coerce to bool", tc.in)
		assert.Equal(t, tc.want, b, "input %q", tc.in)
	}
}

func TestCoerceNumberToBoolean(t *testing.T) {
	node := schema.Boolean()
	result := Coerce(jsonvalue.Int(1), node, Options{NumberToBoolean: true})
	b, ok := result.Value.Bool()
	require.True(t, ok)
	assert.True(t, b)

	result = Coerce(jsonvalue.Int(0), node, Options{NumberToBoolean: true})
	b, _ = result.Value.Bool()
	assert.False(t, b)
}

func TestCoerceTrimStringsAndCase(t *testing.T) {
	node := schema.String()
	result := Coerce(jsonvalue.String("  Agent Core  "), node, Options{TrimStrings: true, StringCase: CaseUpper})
	s, _ := result.Value.Str()
	assert.Equal(t, "AGENT CORE", s)
}

func TestCoerceArrayAppliesItemSchema(t *testing.T) {
	node := schema.Array(schema.Number())
	in := jsonvalue.Array(jsonvalue.String("1"), jsonvalue.String("2"))
	result := Coerce(in, node, Options{StringToNumber: true})

	items, ok := result.Value.Items()
	require.True(t, ok)
	require.Len(t, items, 2)
	i, _ := items[0].Int()
	assert.Equal(t, int64(1), i)
}

// TestCoerceObjectFillsAllDeclaredPropertiesNotJustRequired mirrors the
// documented coercion pipeline scenario: a schema with one non-required
// property ("note") must still be filled when null_to_defaults is set.
func TestCoerceObjectFillsAllDeclaredPropertiesNotJustRequired(t *testing.T) {
	node := schema.Object(map[string]*schema.Node{
		"n":       schema.Number(),
		"enabled": schema.Boolean(),
		"note":    schema.String(),
	}, []string{"n", "enabled"}, false)

	in := jsonvalue.NewObject()
	in.Set("n", jsonvalue.String(" 42 "))
	in.Set("enabled", jsonvalue.String("yes"))

	result := Coerce(jsonvalue.FromObject(in), node, Options{
		StringToNumber:  true,
		StringToBoolean: true,
		TrimStrings:     true,
		NullToDefaults:  true,
	})

	assert.True(t, result.Coerced)
	obj, ok := result.Value.Obj()
	require.True(t, ok)

	n, _ := obj.Get("n")
	nv, _ := n.Int()
	assert.Equal(t, int64(42), nv)

	enabled, _ := obj.Get("enabled")
	ev, _ := enabled.Bool()
	assert.True(t, ev)

	note, ok := obj.Get("note")
	require.True(t, ok, "note should be filled even though it is not required")
	noteStr, _ := note.Str()
	assert.Equal(t, "", noteStr)
}

func TestCoerceAnyOfPicksFirstValidatingChild(t *testing.T) {
	node := schema.AnyOf(schema.Number(), schema.String())
	result := Coerce(jsonvalue.String("42"), node, Options{StringToNumber: true})
	_, isNum := result.Value.Int()
	assert.True(t, isNum)
}

func TestCoerceAnyOfFallsBackToFirstChildWhenNoneValidate(t *testing.T) {
	node := schema.AnyOf(schema.Number(), schema.Boolean())
	result := Coerce(jsonvalue.String("not a number"), node, Options{})
	s, ok := result.Value.Str()
	require.True(t, ok, "falls back to the first child's (no-op) coercion")
	assert.Equal(t, "not a number", s)
}

func TestCoerceAllOfLeavesValueUntouched(t *testing.T) {
	node := schema.AllOf(schema.String(), schema.String())
	result := Coerce(jsonvalue.String("  hi  "), node, Options{TrimStrings: true, StringCase: CaseUpper})
	s, ok := result.Value.Str()
	require.True(t, ok)
	assert.Equal(t, "  hi  ", s)
	assert.False(t, result.Coerced)
}

func TestCoerceOneOfRequiresExactlyOneMatch(t *testing.T) {
	node := schema.OneOf(schema.Number().WithRange(0, 10), schema.Number().WithRange(5, 20))
	result := Coerce(jsonvalue.Int(7), node, Options{})
	i, ok := result.Value.Int()
	require.True(t, ok, "value is unchanged when more than one child matches")
	assert.Equal(t, int64(7), i)

	result = Coerce(jsonvalue.Int(2), node, Options{})
	i, ok = result.Value.Int()
	require.True(t, ok)
	assert.Equal(t, int64(2), i)
}
