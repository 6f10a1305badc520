// Package coerce implements best-effort value coercion against a schema
// node: widening strings to numbers/booleans, filling defaults for missing
// object properties, and similar type-repair steps used at tool-boundary
// ingestion where callers send loosely-typed JSON.
package coerce

import (
	"strconv"
	"strings"

	"github.com/agentflow/agentcore/jsonvalue"
	"github.com/agentflow/agentcore/schema"
)

// Options toggles which coercions Coerce is allowed to apply. All default
// to false (no coercion) in the zero value.
type Options struct {
	StringToNumber  bool
	NumberToString  bool
	StringToBoolean bool
	NumberToBoolean bool
	NullToDefaults  bool
	TrimStrings     bool
	StringCase      StringCase
}

// StringCase names a case-folding transform applied to string values after
// any other string coercion.
type StringCase string

const (
	CaseNone  StringCase = ""
	CaseLower StringCase = "lower"
	CaseUpper StringCase = "upper"
	CaseTitle StringCase = "title"
)

// Result carries the coerced value and whether anything actually changed.
type Result struct {
	Value   jsonvalue.Value
	Coerced bool
}

// Coerce attempts to bring v into conformance with node, applying only the
// transforms opts enables. It never fails outright: a value it cannot
// coerce is passed through unchanged, and Validate is expected to catch
// whatever remains wrong.
func Coerce(v jsonvalue.Value, node *schema.Node, opts Options) Result {
	out := coerceAt(v, node, opts)
	return Result{Value: out, Coerced: !valuesIdentical(v, out)}
}

func coerceAt(v jsonvalue.Value, node *schema.Node, opts Options) jsonvalue.Value {
	if node == nil {
		return v
	}
	switch node.Kind {
	case schema.KindString:
		return coerceString(v, opts)
	case schema.KindNumber:
		return coerceNumber(v, opts)
	case schema.KindBoolean:
		return coerceBoolean(v, opts)
	case schema.KindNull:
		return v
	case schema.KindArray:
		return coerceArray(v, node, opts)
	case schema.KindObject:
		return coerceObject(v, node, opts)
	case schema.KindAnyOf:
		return coerceAnyOf(v, node, opts)
	case schema.KindAllOf:
		return coerceAllOf(v, node, opts)
	case schema.KindOneOf:
		return coerceOneOf(v, node, opts)
	default:
		return v
	}
}

func coerceString(v jsonvalue.Value, opts Options) jsonvalue.Value {
	s, ok := v.Str()
	if !ok {
		if opts.NumberToString {
			if f, isNum := v.Float(); isNum {
				s = formatNumber(f)
				ok = true
			}
		}
		if !ok {
			return v
		}
	}
	if opts.TrimStrings {
		s = strings.TrimSpace(s)
	}
	switch opts.StringCase {
	case CaseLower:
		s = strings.ToLower(s)
	case CaseUpper:
		s = strings.ToUpper(s)
	case CaseTitle:
		s = strings.Title(strings.ToLower(s))
	}
	return jsonvalue.String(s)
}

func coerceNumber(v jsonvalue.Value, opts Options) jsonvalue.Value {
	if _, ok := v.Float(); ok {
		return v
	}
	if opts.StringToNumber {
		if s, ok := v.Str(); ok {
			trimmed := strings.TrimSpace(s)
			if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
				return jsonvalue.Int(i)
			}
			if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
				return jsonvalue.Float(f)
			}
		}
	}
	return v
}

func coerceBoolean(v jsonvalue.Value, opts Options) jsonvalue.Value {
	if _, ok := v.Bool(); ok {
		return v
	}
	if opts.StringToBoolean {
		if s, ok := v.Str(); ok {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true", "yes", "1", "on":
				return jsonvalue.Bool(true)
			case "false", "no", "0", "off":
				return jsonvalue.Bool(false)
			}
		}
	}
	if opts.NumberToBoolean {
		if f, ok := v.Float(); ok {
			return jsonvalue.Bool(f != 0)
		}
	}
	return v
}

func coerceArray(v jsonvalue.Value, node *schema.Node, opts Options) jsonvalue.Value {
	items, ok := v.Items()
	if !ok {
		return v
	}
	out := make([]jsonvalue.Value, len(items))
	for i, item := range items {
		out[i] = coerceAt(item, node.Items, opts)
	}
	return jsonvalue.Array(out...)
}

func coerceObject(v jsonvalue.Value, node *schema.Node, opts Options) jsonvalue.Value {
	obj, ok := v.Obj()
	if !ok {
		return v
	}
	out := jsonvalue.NewObject()
	for _, key := range obj.Keys() {
		val, _ := obj.Get(key)
		if prop, declared := node.Properties[key]; declared {
			val = coerceAt(val, prop, opts)
		}
		out.Set(key, val)
	}
	if opts.NullToDefaults {
		for prop, propSchema := range node.Properties {
			if out.Has(prop) {
				continue
			}
			out.Set(prop, zeroValueFor(propSchema))
		}
	}
	return jsonvalue.FromObject(out)
}

// zeroValueFor returns the default-fill value used when NullToDefaults
// supplies a missing declared property (required or not): the type's
// natural zero value.
func zeroValueFor(node *schema.Node) jsonvalue.Value {
	if node == nil {
		return jsonvalue.Null()
	}
	switch node.Kind {
	case schema.KindString:
		return jsonvalue.String("")
	case schema.KindNumber:
		return jsonvalue.Int(0)
	case schema.KindBoolean:
		return jsonvalue.Bool(false)
	case schema.KindArray:
		return jsonvalue.Array()
	case schema.KindObject:
		return jsonvalue.FromObject(jsonvalue.NewObject())
	default:
		return jsonvalue.Null()
	}
}

// coerceAnyOf tries each child in order, returning the first whose
// coercion validates cleanly; falls back to the first child's coercion if
// none validate.
func coerceAnyOf(v jsonvalue.Value, node *schema.Node, opts Options) jsonvalue.Value {
	var fallback jsonvalue.Value
	for i, child := range node.Children {
		candidate := coerceAt(v, child, opts)
		if i == 0 {
			fallback = candidate
		}
		if schema.Validate(candidate, child).Valid {
			return candidate
		}
	}
	return fallback
}

// coerceAllOf never coerces: a value must already satisfy every branch, so
// there is no single coerced shape that could apply to all of them at once.
func coerceAllOf(v jsonvalue.Value, node *schema.Node, opts Options) jsonvalue.Value {
	return v
}

// coerceOneOf applies the single child whose coercion validates; if zero
// or more than one validate, the value is returned unchanged.
func coerceOneOf(v jsonvalue.Value, node *schema.Node, opts Options) jsonvalue.Value {
	var match jsonvalue.Value
	matches := 0
	for _, child := range node.Children {
		candidate := coerceAt(v, child, opts)
		if schema.Validate(candidate, child).Valid {
			matches++
			match = candidate
		}
	}
	if matches == 1 {
		return match
	}
	return v
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func valuesIdentical(a, b jsonvalue.Value) bool {
	return a.Equal(b)
}
