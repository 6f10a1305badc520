package event

import (
	"strings"
)

// Field selects which part of an event a condition inspects.
type Field int

const (
	FieldID Field = iota
	FieldName
	FieldCategory
	FieldSeverity
	FieldSource
	FieldCorrelationID
	FieldUserID
	FieldSessionID
	FieldTags
	FieldTimestamp
	FieldPayload
	FieldMetadataCustom
)

// Operator is a comparison or membership test applied to a field's value.
type Operator int

const (
	OpEq Operator = iota
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
	OpContains
	OpStartsWith
	OpEndsWith
	OpMatches
	OpIn
	OpNotIn
)

// Value is a tagged literal compared against a selected field.
type Value struct {
	Str      string
	Int      int64
	Float    float64
	Bool     bool
	List     []string
	Category Category
	Severity Severity
	isFloat  bool
	isInt    bool
	isBool   bool
	isList   bool
	isCat    bool
	isSev    bool
}

func StringValue(s string) Value   { return Value{Str: s} }
func IntValue(i int64) Value       { return Value{Int: i, isInt: true} }
func FloatValue(f float64) Value   { return Value{Float: f, isFloat: true} }
func BoolValue(b bool) Value       { return Value{Bool: b, isBool: true} }
func ListValue(l []string) Value   { return Value{List: l, isList: true} }
func CategoryValue(c Category) Value { return Value{Category: c, isCat: true} }
func SeverityValue(s Severity) Value { return Value{Severity: s, isSev: true} }

// Expr is the recursive filter expression sum type: a leaf Condition, or
// And/Or/Not combinators over child expressions.
type Expr interface {
	Evaluate(e Event) bool
}

// Condition is a leaf: field selector, operator, literal value, and — for
// payload_field/metadata_field selectors — a dotted path into the JSON
// value.
type Condition struct {
	Field    Field
	Op       Operator
	Value    Value
	JSONPath string
}

func (c Condition) Evaluate(e Event) bool {
	switch c.Field {
	case FieldID:
		return compareString(e.ID(), c.Op, c.Value)
	case FieldName:
		return compareString(e.Name(), c.Op, c.Value)
	case FieldCategory:
		return compareString(string(e.Category()), c.Op, c.Value)
	case FieldSeverity:
		return compareSeverity(e.Severity(), c.Op, c.Value)
	case FieldSource:
		return compareString(e.Metadata().Source, c.Op, c.Value)
	case FieldCorrelationID:
		return compareString(e.Metadata().CorrelationID, c.Op, c.Value)
	case FieldUserID:
		return compareString(e.Metadata().UserID, c.Op, c.Value)
	case FieldSessionID:
		return compareString(e.Metadata().SessionID, c.Op, c.Value)
	case FieldTags:
		return compareTags(e.Metadata().Tags, c.Op, c.Value)
	case FieldTimestamp:
		return compareInt(e.Metadata().TimestampMS, c.Op, c.Value)
	case FieldPayload:
		return compareJSONPath(e.Payload(), c.JSONPath, c.Op, c.Value)
	case FieldMetadataCustom:
		return compareJSONPath(e.Metadata().Custom, c.JSONPath, c.Op, c.Value)
	default:
		return false
	}
}

type andExpr struct{ left, right Expr }

func And(left, right Expr) Expr { return andExpr{left, right} }
func (a andExpr) Evaluate(e Event) bool { return a.left.Evaluate(e) && a.right.Evaluate(e) }

type orExpr struct{ left, right Expr }

func Or(left, right Expr) Expr { return orExpr{left, right} }
func (o orExpr) Evaluate(e Event) bool { return o.left.Evaluate(e) || o.right.Evaluate(e) }

type notExpr struct{ child Expr }

func Not(child Expr) Expr { return notExpr{child} }
func (n notExpr) Evaluate(e Event) bool { return !n.child.Evaluate(e) }

func compareString(actual string, op Operator, v Value) bool {
	switch op {
	case OpEq:
		return actual == v.Str
	case OpNe:
		return actual != v.Str
	case OpGt:
		return actual > v.Str
	case OpGte:
		return actual >= v.Str
	case OpLt:
		return actual < v.Str
	case OpLte:
		return actual <= v.Str
	case OpContains:
		return strings.Contains(actual, v.Str)
	case OpStartsWith:
		return strings.HasPrefix(actual, v.Str)
	case OpEndsWith:
		return strings.HasSuffix(actual, v.Str)
	case OpMatches:
		return MatchesPattern(actual, v.Str)
	case OpIn:
		return containsStr(v.List, actual)
	case OpNotIn:
		return !containsStr(v.List, actual)
	default:
		return false
	}
}

func compareInt(actual int64, op Operator, v Value) bool {
	target := v.Int
	if v.isFloat {
		target = int64(v.Float)
	}
	switch op {
	case OpEq:
		return actual == target
	case OpNe:
		return actual != target
	case OpGt:
		return actual > target
	case OpGte:
		return actual >= target
	case OpLt:
		return actual < target
	case OpLte:
		return actual <= target
	default:
		return false
	}
}

func compareSeverity(actual Severity, op Operator, v Value) bool {
	target := v.Severity
	switch op {
	case OpEq:
		return actual == target
	case OpNe:
		return actual != target
	case OpGt:
		return actual > target
	case OpGte:
		return actual >= target
	case OpLt:
		return actual < target
	case OpLte:
		return actual <= target
	default:
		return false
	}
}

func compareTags(tags []string, op Operator, v Value) bool {
	switch op {
	case OpContains:
		return containsStr(tags, v.Str)
	case OpIn:
		for _, want := range v.List {
			if containsStr(tags, want) {
				return true
			}
		}
		return false
	case OpNotIn:
		for _, want := range v.List {
			if containsStr(tags, want) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func containsStr(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}
