package resource

import (
	"strings"
)

// Wildcard replaces a key segment in a generic entry.
const Wildcard = "*"

// Resolve looks up key, falling back to wildcard entries when there is no
// exact match.
func Resolve(s Store, key string) (string, bool) {
	_, value, ok := ResolveKey(s, key)
	return value, ok
}

// ResolveKey is Resolve but also reports which stored key matched.
func ResolveKey(s Store, key string) (matched, value string, ok bool) {
	if v, ok := s.Lookup(key); ok {
		return key, v, true
	}
	for _, candidate := range Candidates(key) {
		if v, ok := s.Lookup(candidate); ok {
			return candidate, v, true
		}
	}
	return "", "", false
}

// Candidates lists the wildcard keys probed for key, in probe order.
//
// Segment i of an n-segment key is replaced when bit n-i-1 of the counter is
// set. The counter runs over even values in [2, 2^(n-1)), so the last
// segment (bit 0) and the first segment (bit n-1) are never replaced and the
// key itself is never repeated.
func Candidates(key string) []string {
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '.' })
	n := len(parts)
	if n < 3 {
		return nil
	}

	maxCount := 1 << (n - 1)
	out := make([]string, 0, maxCount/2-1)
	segs := make([]string, n)
	for count := 2; count < maxCount; count += 2 {
		for i := 0; i < n; i++ {
			if count&(1<<(n-i-1)) != 0 {
				segs[i] = Wildcard
			} else {
				segs[i] = parts[i]
			}
		}
		out = append(out, strings.Join(segs, "."))
	}
	return out
}
