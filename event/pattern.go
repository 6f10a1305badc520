package event

import "strings"

// MatchesPattern reports whether name matches pattern per the emitter's
// matching rule: literal equality wins; a trailing "*" matches any name
// sharing its prefix; otherwise both are split on "." and compared
// segment-by-segment, where "*" matches exactly one segment and both names
// must exhaust together.
func MatchesPattern(name, pattern string) bool {
	if name == pattern {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(name, prefix)
	}
	nameSegs := strings.Split(name, ".")
	patSegs := strings.Split(pattern, ".")
	if len(nameSegs) != len(patSegs) {
		return false
	}
	for i, p := range patSegs {
		if p == "*" {
			continue
		}
		if p != nameSegs[i] {
			return false
		}
	}
	return true
}
