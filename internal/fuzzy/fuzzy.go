// Package fuzzy ranks show names against a typed, possibly misspelled, query.
package fuzzy

import (
	"strings"
	"unicode"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"
)

// minScore is the lowest Score accepted by Best as a match.
const minScore = 0.6

// Similarity returns 1 for identical words and approaches 0 as they diverge.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	sim := 1 - float64(levenshtein.Distance(a, b))/float64(longest)
	return max(sim, 0)
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Score rates how well name matches query. A prefix match scores 1, a
// substring 0.95 and an in-order subsequence ("btmn" in "Batman") 0.92.
// Otherwise every query word is paired with its closest word in name and the
// mean similarity is scaled below those.
func Score(name, query string) float64 {
	nameLower := strings.ToLower(strings.TrimSpace(name))
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return 0
	}
	if strings.HasPrefix(nameLower, queryLower) {
		return 1
	}
	if strings.Contains(nameLower, queryLower) {
		return 0.95
	}
	if fuzzysearch.Match(queryLower, nameLower) {
		return 0.92
	}

	nameWords := words(nameLower)
	queryWords := words(queryLower)
	if len(queryWords) == 0 || len(nameWords) == 0 {
		return 0
	}

	var total float64
	for _, q := range queryWords {
		var best float64
		for _, w := range nameWords {
			if sim := Similarity(w, q); sim > best {
				best = sim
			}
		}
		total += best
	}
	return total / float64(len(queryWords)) * 0.9
}

// Best returns the index of the name that matches query best. Ties keep the
// earliest name. ok is false when no name scores high enough.
func Best(names []string, query string) (index int, ok bool) {
	index = -1
	var top float64
	for i, name := range names {
		if s := Score(name, query); s > top {
			top, index = s, i
		}
	}
	if index < 0 || top < minScore {
		return -1, false
	}
	return index, true
}
