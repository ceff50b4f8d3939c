package figure

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// NormalizeKey strips decoration from a value label: the angle sign, a
// leading "angle" word and all whitespace.
func NormalizeKey(key string) string {
	k := strings.TrimSpace(key)
	k = strings.ReplaceAll(k, "∠", "")
	if len(k) > 6 && strings.EqualFold(k[:6], "angle ") {
		k = k[6:]
	}
	return strings.Join(strings.Fields(k), "")
}

// AngleName returns ray1 + vertex + ray2.
func AngleName(vertex, ray1, ray2 string) string { return ray1 + vertex + ray2 }

// MatchesAngle reports whether key names the angle at vertex between ray1
// and ray2, in either ray order.
func MatchesAngle(key, vertex, ray1, ray2 string) bool {
	k := NormalizeKey(key)
	return k == AngleName(vertex, ray1, ray2) || k == AngleName(vertex, ray2, ray1)
}

// LookupAngle finds the given value for the angle at vertex between ray1
// and ray2.
func (v Values) LookupAngle(vertex, ray1, ray2 string) (string, bool) {
	for _, k := range v.keys {
		if MatchesAngle(k, vertex, ray1, ray2) {
			return v.m[k], true
		}
	}
	return "", false
}

// sameAngleName compares three-rune names with the ray order reversed.
func sameAngleName(a, b string) bool {
	if utf8.RuneCountInString(a) != 3 || utf8.RuneCountInString(b) != 3 {
		return false
	}
	ra, rb := []rune(a), []rune(b)
	return ra[0] == rb[2] && ra[1] == rb[1] && ra[2] == rb[0]
}

// SplitName splits a concatenated name such as "TAB" or "A1B1" into known
// point ids. Longer ids are tried first so "A1" wins over "A".
func SplitName(name string, ids []string) ([]string, bool) {
	sorted := append([]string(nil), ids...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	var out []string
	rest := NormalizeKey(name)
	for rest != "" {
		matched := false
		for _, id := range sorted {
			if id != "" && strings.HasPrefix(rest, id) {
				out = append(out, id)
				rest = rest[len(id):]
				matched = true
				break
			}
		}
		if !matched {
			return nil, false
		}
	}
	return out, len(out) > 0
}
