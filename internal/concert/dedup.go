package concert

import "strings"

// fuzzyPrefixLen is how many leading characters of a key must be shared for
// two artist names to count as the same concert.
const fuzzyPrefixLen = 10

// FuzzyMatch reports whether two normalized artist keys refer to the same
// concert: the first min(10, len(a), len(b)) characters of either key must
// occur somewhere in the other.
//
// This is deliberately coarse. It absorbs suffixes such as "(Sold Out)" but
// also merges distinct names that share a long enough prefix, and an empty key
// matches everything.
func FuzzyMatch(a, b string) bool {
	p := fuzzyPrefixLen
	if len(a) < p {
		p = len(a)
	}
	if len(b) < p {
		p = len(b)
	}
	return strings.Contains(a, b[:p]) || strings.Contains(b, a[:p])
}

// Dedupe drops candidates whose normalized artist equals an earlier one.
func Dedupe(candidates []Candidate) []Candidate {
	seen := make(map[string]bool)
	unique := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		key := Normalize(c.Artist)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, c)
	}
	return unique
}

// FindNew returns the scraped candidates that do not fuzzily match any
// existing concert, in their original order.
func FindNew(scraped []Candidate, existing []Concert) []Candidate {
	keys := make([]string, len(existing))
	for i, c := range existing {
		keys[i] = Normalize(c.Artist)
	}

	fresh := make([]Candidate, 0)
	for _, sc := range scraped {
		key := Normalize(sc.Artist)
		if !matchesAny(key, keys) {
			fresh = append(fresh, sc)
		}
	}
	return fresh
}

func matchesAny(key string, keys []string) bool {
	for _, k := range keys {
		if FuzzyMatch(k, key) {
			return true
		}
	}
	return false
}
