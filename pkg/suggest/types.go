package suggest

import "github.com/bastiangx/hanserve/pkg/dictionary"

// MatchType labels which rule a suggestion matched under.
type MatchType string

const (
	// MatchExact means the query equals the full reading or one syllable.
	MatchExact MatchType = "exact"
	// MatchPartial means the query is a prefix of the reading or of a syllable.
	MatchPartial MatchType = "partial"
	// MatchShorthand means the query abbreviates the syllable initials.
	MatchShorthand MatchType = "shorthand"
)

// MaxSuggestions caps one pinyin suggestion response.
const MaxSuggestions = 10

// MaxSearchResults caps one free-text search response.
const MaxSearchResults = 50

// Result is one ranked candidate. Match and Syllables are set by the
// pinyin suggestion mode, Score by free-text search.
type Result struct {
	dictionary.Entry
	Score     int
	Match     MatchType
	Syllables int
}
