package event

import (
	"strconv"
	"strings"

	"github.com/agentflow/agentcore/jsonvalue"
)

// navigatePath walks a dotted path (e.g. "output.items.0.name") through a
// jsonvalue.Value, descending into objects by key and arrays by numeric
// index. Returns false if any segment is missing or the wrong kind.
func navigatePath(v jsonvalue.Value, path string) (jsonvalue.Value, bool) {
	if path == "" {
		return v, true
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		switch cur.Kind() {
		case jsonvalue.KindObject:
			obj, _ := cur.Obj()
			next, ok := obj.Get(seg)
			if !ok {
				return jsonvalue.Value{}, false
			}
			cur = next
		case jsonvalue.KindArray:
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return jsonvalue.Value{}, false
			}
			items, _ := cur.Items()
			if idx < 0 || idx >= len(items) {
				return jsonvalue.Value{}, false
			}
			cur = items[idx]
		default:
			return jsonvalue.Value{}, false
		}
	}
	return cur, true
}

func compareJSONPath(root jsonvalue.Value, path string, op Operator, v Value) bool {
	target, ok := navigatePath(root, path)
	if !ok {
		return false
	}
	switch target.Kind() {
	case jsonvalue.KindString:
		s, _ := target.Str()
		return compareString(s, op, v)
	case jsonvalue.KindInt:
		i, _ := target.Int()
		return compareInt(i, op, v)
	case jsonvalue.KindFloat:
		f, _ := target.Float()
		switch op {
		case OpEq:
			return f == valueAsFloat(v)
		case OpNe:
			return f != valueAsFloat(v)
		case OpGt:
			return f > valueAsFloat(v)
		case OpGte:
			return f >= valueAsFloat(v)
		case OpLt:
			return f < valueAsFloat(v)
		case OpLte:
			return f <= valueAsFloat(v)
		default:
			return false
		}
	case jsonvalue.KindBool:
		b, _ := target.Bool()
		switch op {
		case OpEq:
			return b == v.Bool
		case OpNe:
			return b != v.Bool
		default:
			return false
		}
	case jsonvalue.KindNull:
		return op == OpEq && v.Str == "" && !v.isBool && !v.isInt && !v.isFloat
	default:
		return false
	}
}

func valueAsFloat(v Value) float64 {
	if v.isFloat {
		return v.Float
	}
	return float64(v.Int)
}
