// Package suggest is the core lookup engine, turning pinyin fragments into
// ranked Hanzi candidates and running free-text search over the dictionary.
package suggest

import "context"

// ISuggester defines the interface for Hanzi suggestion engines
type ISuggester interface {
	// SuggestHanzi returns ranked candidates for a pinyin fragment
	SuggestHanzi(ctx context.Context, query string) ([]Result, error)

	// Search runs free-text dictionary search over words, meanings,
	// readings and examples
	Search(ctx context.Context, query string) ([]Result, error)

	// FetchSuggestions is the error-swallowing suggestion boundary:
	// any failure is logged and comes back as an empty sequence
	FetchSuggestions(ctx context.Context, query string) []Result

	// Stats returns statistics about the engine and its dictionary
	Stats() map[string]int
}
