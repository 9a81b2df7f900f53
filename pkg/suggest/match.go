package suggest

import (
	"sort"
	"strings"
)

// isShorthand reports whether the normalized query reads as an initials
// abbreviation: two or more characters, lowercase ASCII letters only.
// A space anywhere means the user is typing separated syllables, not an
// abbreviation.
func isShorthand(nq string) bool {
	if len(nq) < 2 {
		return false
	}
	for _, r := range nq {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// matchPinyin classifies every candidate for the normalized query into
// exact, partial and shorthand buckets, first match winning so no word
// appears twice. Readings are compared space-free, which is why "nihao"
// and "ni hao" hit the same exact bucket.
func matchPinyin(idx *index, nq string) []Result {
	cq := strings.ReplaceAll(nq, " ", "")
	if cq == "" {
		return nil
	}

	seen := make(map[string]bool)
	var exact, partial, shorthand []Result

	take := func(bucket *[]Result, words []string, match MatchType) {
		for _, word := range words {
			if seen[word] {
				continue
			}
			entry, ok := idx.table.Lookup(word)
			if !ok {
				continue
			}
			seen[word] = true
			*bucket = append(*bucket, Result{
				Entry:     entry,
				Match:     match,
				Syllables: idx.sylCount[word],
			})
		}
	}

	// full-reading equality first, then whole-syllable equality
	take(&exact, idx.wordsAt(idx.full, cq), MatchExact)
	take(&exact, idx.wordsAt(idx.syllable, cq), MatchExact)

	// prefix of the full reading or of any syllable
	take(&partial, idx.wordsUnder(idx.full, cq), MatchPartial)
	take(&partial, idx.wordsUnder(idx.syllable, cq), MatchPartial)

	if isShorthand(nq) {
		take(&shorthand, idx.wordsUnder(idx.initials, cq), MatchShorthand)
	}

	sortBucket(exact)
	sortBucket(partial)
	sortBucket(shorthand)

	results := make([]Result, 0, len(exact)+len(partial)+len(shorthand))
	results = append(results, exact...)
	results = append(results, partial...)
	results = append(results, shorthand...)
	if len(results) > MaxSuggestions {
		results = results[:MaxSuggestions]
	}
	return results
}

// sortBucket orders a bucket by syllable count (shorter words first),
// falling back to dictionary position so output stays deterministic.
func sortBucket(bucket []Result) {
	sort.Slice(bucket, func(i, j int) bool {
		a, b := bucket[i], bucket[j]
		if a.Syllables != b.Syllables {
			return a.Syllables < b.Syllables
		}
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return a.Word < b.Word
	})
}
