package suggest

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/hanserve/pkg/dictionary"
	"github.com/bastiangx/hanserve/pkg/pinyin"
)

// tokenSplit breaks meaning text into whole words for the token tier.
var tokenSplit = regexp.MustCompile(`[\s,.;:()!]+`)

// Search scores form a strict priority ladder: the first tier an entry
// satisfies is its score, nothing accumulates. The constants only encode
// relative order.
const (
	scoreWordExact       = 1000
	scoreWordContains    = 950
	scoreMeaningExact    = 900
	scoreMeaningToken    = 850
	scoreMeaningContains = 800
	scorePinyinExact     = 750
	scorePinyinContains  = 700
	scoreExampleContains = 600
)

// searchText scans the table and ranks every entry that lands on a tier.
// Ties sort shorter words first so compact matches beat compounds.
func searchText(table dictionary.Table, query string, limit int) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	nq := pinyin.NormalizeText(q)
	pq := pinyin.Normalize(q)

	var results []Result
	for _, entry := range table {
		score := scoreEntry(entry, q, nq, pq)
		if score < 0 {
			continue
		}
		results = append(results, Result{Entry: entry, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		al, bl := utf8.RuneCountInString(a.Word), utf8.RuneCountInString(b.Word)
		if al != bl {
			return al < bl
		}
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return a.Word < b.Word
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// scoreEntry walks the tiers top down and returns the first hit, -1 when
// the entry matches nowhere. Normalized comparisons are skipped when the
// normalized query came out empty, otherwise "" would contain-match
// everything.
func scoreEntry(entry dictionary.Entry, q, nq, pq string) int {
	if entry.Word == q {
		return scoreWordExact
	}
	if strings.Contains(entry.Word, q) || (entry.Traditional != "" && strings.Contains(entry.Traditional, q)) {
		return scoreWordContains
	}

	meanings := strings.ToLower(strings.Join(entry.Meanings, ", "))
	nMeanings := pinyin.NormalizeText(meanings)
	if meanings == q || (nq != "" && nMeanings == nq) {
		return scoreMeaningExact
	}
	if strings.Contains(meanings, q) || (nq != "" && strings.Contains(nMeanings, nq)) {
		if hasToken(meanings, q) || (nq != "" && hasToken(nMeanings, nq)) {
			return scoreMeaningToken
		}
		return scoreMeaningContains
	}

	reading := strings.ToLower(entry.Pinyin)
	nReading := pinyin.Normalize(entry.Pinyin)
	if reading == q || (pq != "" && nReading == pq) {
		return scorePinyinExact
	}
	if strings.Contains(reading, q) || (pq != "" && strings.Contains(nReading, pq)) {
		return scorePinyinContains
	}

	if entry.Example != "" {
		example := strings.ToLower(entry.Example)
		if strings.Contains(example, q) || (nq != "" && strings.Contains(pinyin.NormalizeText(example), nq)) {
			return scoreExampleContains
		}
	}
	return -1
}

// hasToken reports whether want appears as a whole token of text.
func hasToken(text, want string) bool {
	for _, token := range tokenSplit.Split(text, -1) {
		if token == want {
			return true
		}
	}
	return false
}
