package pptfill

import (
	"sort"
	"strconv"
)

// ref is a table or image reference from the payload, resolved into one of
// two cases at parse time: a zero-based position, or a name to match against
// shape names, alt text or table identifiers.
type ref struct {
	kind  refKind
	index int
	name  string
}

type refKind int

const (
	refIndex refKind = iota
	refName
)

// parseRef decides between the two reference cases: a string composed
// entirely of ASCII digits is a position, anything else is a name. Digit
// strings too large for int fall back to the name case.
func parseRef(raw string) ref {
	if isDigits(raw) {
		if i, err := strconv.Atoi(raw); err == nil {
			return ref{kind: refIndex, index: i}
		}
	}
	return ref{kind: refName, name: raw}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// sortRefs orders reference keys deterministically: positional references
// numerically first ("2" before "10"), then names lexically.
func sortRefs(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := parseRef(keys[i]), parseRef(keys[j])
		switch {
		case a.kind == refIndex && b.kind == refIndex:
			if a.index != b.index {
				return a.index < b.index
			}
			return keys[i] < keys[j]
		case a.kind == refIndex:
			return true
		case b.kind == refIndex:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
}
