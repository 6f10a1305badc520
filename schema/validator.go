package schema

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/agentflow/agentcore/jsonvalue"
)

// ParseError is a single validation failure with an optional JSON path.
type ParseError struct {
	Path    string
	Message string
}

func (e ParseError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors aggregates every ParseError found during one Validate
// call.
type ValidationErrors struct {
	Errors []ParseError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, pe := range e.Errors {
		msgs[i] = pe.Error()
	}
	return fmt.Sprintf("validation failed with %d errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Result is the outcome of Validate.
type Result struct {
	Valid  bool
	Errors []ParseError
}

// Validate checks v against node, returning every failure found (no
// short-circuiting on the first error within object/array recursion).
func Validate(v jsonvalue.Value, node *Node) Result {
	var errs []ParseError
	validateAt(v, node, "", &errs)
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func appendErr(errs *[]ParseError, path, msg string) {
	*errs = append(*errs, ParseError{Path: path, Message: msg})
}

func validateAt(v jsonvalue.Value, node *Node, path string, errs *[]ParseError) {
	if node == nil {
		return
	}
	switch node.Kind {
	case KindString:
		validateString(v, node, path, errs)
	case KindNumber:
		validateNumber(v, node, path, errs)
	case KindBoolean:
		if v.Kind() != jsonvalue.KindBool {
			appendErr(errs, path, "expected boolean")
		}
	case KindNull:
		if v.Kind() != jsonvalue.KindNull {
			appendErr(errs, path, "expected null")
		}
	case KindArray:
		validateArray(v, node, path, errs)
	case KindObject:
		validateObject(v, node, path, errs)
	case KindAnyOf:
		validateAnyOf(v, node, path, errs)
	case KindAllOf:
		validateAllOf(v, node, path, errs)
	case KindOneOf:
		validateOneOf(v, node, path, errs)
	}
}

func validateString(v jsonvalue.Value, node *Node, path string, errs *[]ParseError) {
	s, ok := v.Str()
	if !ok {
		appendErr(errs, path, "expected string")
		return
	}
	if node.MinLen != nil && len(s) < *node.MinLen {
		appendErr(errs, path, fmt.Sprintf("length %d below minimum %d", len(s), *node.MinLen))
	}
	if node.MaxLen != nil && len(s) > *node.MaxLen {
		appendErr(errs, path, fmt.Sprintf("length %d exceeds maximum %d", len(s), *node.MaxLen))
	}
	if node.Pattern != "" && !wildcardMatch(s, node.Pattern) {
		appendErr(errs, path, "does not match pattern "+node.Pattern)
	}
	if node.Format != "" && !validateFormat(s, node.Format) {
		appendErr(errs, path, "does not match format "+string(node.Format))
	}
}

func validateNumber(v jsonvalue.Value, node *Node, path string, errs *[]ParseError) {
	f, ok := v.Float()
	if !ok {
		appendErr(errs, path, "expected number")
		return
	}
	if node.Minimum != nil {
		if node.ExclusiveMin && f <= *node.Minimum {
			appendErr(errs, path, fmt.Sprintf("%v not greater than exclusive minimum %v", f, *node.Minimum))
		} else if !node.ExclusiveMin && f < *node.Minimum {
			appendErr(errs, path, fmt.Sprintf("%v below minimum %v", f, *node.Minimum))
		}
	}
	if node.Maximum != nil {
		if node.ExclusiveMax && f >= *node.Maximum {
			appendErr(errs, path, fmt.Sprintf("%v not less than exclusive maximum %v", f, *node.Maximum))
		} else if !node.ExclusiveMax && f > *node.Maximum {
			appendErr(errs, path, fmt.Sprintf("%v exceeds maximum %v", f, *node.Maximum))
		}
	}
	if node.MultipleOf != nil && *node.MultipleOf != 0 {
		ratio := f / *node.MultipleOf
		if ratio != float64(int64(ratio)) {
			appendErr(errs, path, fmt.Sprintf("%v is not a multiple of %v", f, *node.MultipleOf))
		}
	}
}

func validateArray(v jsonvalue.Value, node *Node, path string, errs *[]ParseError) {
	items, ok := v.Items()
	if !ok {
		appendErr(errs, path, "expected array")
		return
	}
	if node.MinItems != nil && len(items) < *node.MinItems {
		appendErr(errs, path, fmt.Sprintf("item count %d below minimum %d", len(items), *node.MinItems))
	}
	if node.MaxItems != nil && len(items) > *node.MaxItems {
		appendErr(errs, path, fmt.Sprintf("item count %d exceeds maximum %d", len(items), *node.MaxItems))
	}
	if node.Items != nil {
		for i, item := range items {
			validateAt(item, node.Items, indexPath(path, i), errs)
		}
	}
}

func validateObject(v jsonvalue.Value, node *Node, path string, errs *[]ParseError) {
	obj, ok := v.Obj()
	if !ok {
		appendErr(errs, path, "expected object")
		return
	}
	for _, req := range node.Required {
		if !obj.Has(req) {
			appendErr(errs, fieldPath(path, req), "required property missing")
		}
	}
	for _, key := range obj.Keys() {
		prop, declared := node.Properties[key]
		if declared {
			val, _ := obj.Get(key)
			validateAt(val, prop, fieldPath(path, key), errs)
			continue
		}
		if !node.AdditionalProperties {
			appendErr(errs, fieldPath(path, key), "additional property not allowed")
		}
	}
}

func validateAnyOf(v jsonvalue.Value, node *Node, path string, errs *[]ParseError) {
	for _, child := range node.Children {
		if Validate(v, child).Valid {
			return
		}
	}
	appendErr(errs, path, "value does not satisfy any of the allowed schemas")
}

func validateAllOf(v jsonvalue.Value, node *Node, path string, errs *[]ParseError) {
	for _, child := range node.Children {
		validateAt(v, child, path, errs)
	}
}

func validateOneOf(v jsonvalue.Value, node *Node, path string, errs *[]ParseError) {
	matches := 0
	for _, child := range node.Children {
		if Validate(v, child).Valid {
			matches++
		}
	}
	if matches != 1 {
		appendErr(errs, path, fmt.Sprintf("value matched %d of the one_of schemas, expected exactly 1", matches))
	}
}

func indexPath(base string, i int) string {
	if base == "" {
		return fmt.Sprintf("%d", i)
	}
	return fmt.Sprintf("%s.%d", base, i)
}

func fieldPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}

// wildcardMatch treats pattern as a "*"-wildcarded match, not a full regex,
// consistent with the filter expression language's matches operator.
func wildcardMatch(s, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return s == pattern
	}
	segments := strings.Split(pattern, "*")
	if !strings.HasPrefix(s, segments[0]) {
		return false
	}
	rest := s[len(segments[0]):]
	for i := 1; i < len(segments); i++ {
		seg := segments[i]
		if seg == "" {
			if i == len(segments)-1 {
				return true
			}
			continue
		}
		idx := strings.Index(rest, seg)
		if idx == -1 {
			return false
		}
		rest = rest[idx+len(seg):]
	}
	return true
}

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	uriRe   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	uuidRe  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// validateFormat declares the format as a lexical check only, per the
// subset's relaxed semantics — it does not resolve hostnames, probe URIs,
// etc.
func validateFormat(s string, format Format) bool {
	switch format {
	case FormatEmail:
		return emailRe.MatchString(s)
	case FormatURI:
		return uriRe.MatchString(s)
	case FormatUUID:
		return uuidRe.MatchString(s)
	case FormatDateTime:
		_, err := time.Parse(time.RFC3339, s)
		return err == nil
	case FormatDate:
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	case FormatTime:
		_, err := time.Parse("15:04:05", s)
		return err == nil
	default:
		return true
	}
}
