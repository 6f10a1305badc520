package schema

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/agentflow/agentcore/jsonvalue"
)

// TestPropertyNumberWithinRangeAlwaysValidates generates random ranges and a
// random value inside [min,max] and checks Validate never rejects it.
func TestPropertyNumberWithinRangeAlwaysValidates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		min := rapid.Float64Range(-1000, 0).Draw(rt, "min")
		max := rapid.Float64Range(min, min+2000).Draw(rt, "max")
		v := rapid.Float64Range(min, max).Draw(rt, "v")

		node := Number().WithRange(min, max)
		result := Validate(jsonvalue.Float(v), node)
		if !result.Valid {
			rt.Fatalf("value %v in [%v,%v] should validate, got errors: %v", v, min, max, result.Errors)
		}
	})
}

// TestPropertyNumberOutsideRangeAlwaysFails generates a value strictly above
// max and checks Validate always rejects it.
func TestPropertyNumberOutsideRangeAlwaysFails(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		min := rapid.Float64Range(-1000, 0).Draw(rt, "min")
		max := rapid.Float64Range(min, min+1000).Draw(rt, "max")
		over := rapid.Float64Range(1, 1000).Draw(rt, "over")
		v := max + over

		node := Number().WithRange(min, max)
		result := Validate(jsonvalue.Float(v), node)
		if result.Valid {
			rt.Fatalf("value %v above max %v should not validate", v, max)
		}
	})
}

// TestPropertyStringLengthWithinBoundsAlwaysValidates mirrors the number
// property for string length bounds.
func TestPropertyStringLengthWithinBoundsAlwaysValidates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		minLen := rapid.IntRange(0, 10).Draw(rt, "minLen")
		maxLen := rapid.IntRange(minLen, minLen+20).Draw(rt, "maxLen")
		n := rapid.IntRange(minLen, maxLen).Draw(rt, "n")
		s := rapid.StringMatching(fmt.Sprintf(`[a-z]{%d}`, n)).Draw(rt, "s")

		node := String().WithLen(minLen, maxLen)
		result := Validate(jsonvalue.String(s), node)
		if !result.Valid {
			rt.Fatalf("string %q of length %d in [%d,%d] should validate, got: %v", s, n, minLen, maxLen, result.Errors)
		}
	})
}

// TestPropertyObjectMissingRequiredFieldAlwaysFails checks that dropping any
// one required property from an otherwise-valid object always fails
// validation, regardless of which required field is dropped.
func TestPropertyObjectMissingRequiredFieldAlwaysFails(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		fields := []string{"a", "b", "c"}
		dropIdx := rapid.IntRange(0, len(fields)-1).Draw(rt, "dropIdx")

		props := map[string]*Node{"a": String(), "b": String(), "c": String()}
		node := Object(props, fields, false)

		obj := jsonvalue.NewObject()
		for i, f := range fields {
			if i == dropIdx {
				continue
			}
			obj.Set(f, jsonvalue.String("x"))
		}

		result := Validate(jsonvalue.FromObject(obj), node)
		if result.Valid {
			rt.Fatalf("object missing required field %q should not validate", fields[dropIdx])
		}
	})
}
