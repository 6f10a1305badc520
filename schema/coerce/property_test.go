package coerce

import (
	"strconv"
	"testing"

	"pgregory.net/rapid"

	"github.com/agentflow/agentcore/jsonvalue"
	"github.com/agentflow/agentcore/schema"
)

// TestPropertyStringToNumberRoundTripsIntegers checks that any integer,
// formatted as a string and coerced with StringToNumber, comes back out as
// the same integer value.
func TestPropertyStringToNumberRoundTripsIntegers(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.Int64Range(-1_000_000, 1_000_000).Draw(rt, "n")
		in := jsonvalue.String(strconv.FormatInt(n, 10))

		result := Coerce(in, schema.Number(), Options{StringToNumber: true})

		got, ok := result.Value.Int()
		if !ok {
			rt.Fatalf("expected coerced value to be an int, got kind %v", result.Value.Kind())
		}
		if got != n {
			rt.Fatalf("round-tripped %d as %d", n, got)
		}
	})
}

// TestPropertyCoerceWithoutOptIsIdentityOnMismatchedKind checks that a
// string value against a number node is left untouched when
// StringToNumber is disabled — Coerce never fails outright, it just
// declines to act.
func TestPropertyCoerceWithoutOptIsIdentityOnMismatchedKind(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "s")
		in := jsonvalue.String(s)

		result := Coerce(in, schema.Number(), Options{})

		if result.Coerced {
			rt.Fatalf("non-numeric string %q should not be marked coerced without StringToNumber", s)
		}
		got, ok := result.Value.Str()
		if !ok || got != s {
			rt.Fatalf("value should pass through unchanged, got %v", result.Value)
		}
	})
}

// TestPropertyTrimStringsRemovesLeadingAndTrailingSpace checks TrimStrings
// against strings built from a fixed non-space core with random space
// padding on each side.
func TestPropertyTrimStringsRemovesLeadingAndTrailingSpace(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		core := rapid.StringMatching(`[a-zA-Z0-9]{1,10}`).Draw(rt, "core")
		leadSpaces := rapid.IntRange(0, 5).Draw(rt, "lead")
		trailSpaces := rapid.IntRange(0, 5).Draw(rt, "trail")

		padded := make([]byte, 0, leadSpaces+len(core)+trailSpaces)
		for i := 0; i < leadSpaces; i++ {
			padded = append(padded, ' ')
		}
		padded = append(padded, core...)
		for i := 0; i < trailSpaces; i++ {
			padded = append(padded, ' ')
		}

		result := Coerce(jsonvalue.String(string(padded)), schema.String(), Options{TrimStrings: true})
		got, ok := result.Value.Str()
		if !ok || got != core {
			rt.Fatalf("expected trimmed %q, got %q", core, got)
		}
	})
}
