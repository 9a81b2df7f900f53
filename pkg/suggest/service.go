package suggest

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/hanserve/pkg/dictionary"
	"github.com/bastiangx/hanserve/pkg/pinyin"
)

const defaultCacheSize = 256

// Service wires the dictionary loader to the matchers. The dictionary
// loads on the first query; the trie index builds once right after and
// both are shared by all callers from then on.
type Service struct {
	loader       *dictionary.Loader
	suggestLimit int
	searchLimit  int

	mu  sync.Mutex
	idx *index

	cache *queryCache
}

// NewService creates a suggestion service over loader. Limits out of range
// fall back to the caps.
func NewService(loader *dictionary.Loader, suggestLimit, searchLimit int) *Service {
	if suggestLimit <= 0 || suggestLimit > MaxSuggestions {
		suggestLimit = MaxSuggestions
	}
	if searchLimit <= 0 || searchLimit > MaxSearchResults {
		searchLimit = MaxSearchResults
	}
	return &Service{
		loader:       loader,
		suggestLimit: suggestLimit,
		searchLimit:  searchLimit,
		cache:        newQueryCache(defaultCacheSize),
	}
}

// ensureIndex loads the dictionary if needed and builds the trie index the
// first time a table is available.
func (s *Service) ensureIndex(ctx context.Context) (*index, error) {
	table, err := s.loader.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx == nil {
		s.idx = buildIndex(table)
	}
	return s.idx, nil
}

// SuggestHanzi returns ranked Hanzi candidates for a pinyin fragment,
// exact matches before partials before shorthand hits. The error reports
// an unavailable dictionary; an unmatched query is just an empty result.
func (s *Service) SuggestHanzi(ctx context.Context, query string) ([]Result, error) {
	idx, err := s.ensureIndex(ctx)
	if err != nil {
		return nil, err
	}

	nq := pinyin.Normalize(query)
	if nq == "" {
		return nil, nil
	}

	// cache before matching: keyed on the normalized query so tone-mark
	// variants of the same syllables share one slot
	if cached, ok := s.cache.get(nq); ok {
		return clip(cached, s.suggestLimit), nil
	}

	results := matchPinyin(idx, nq)
	s.cache.put(nq, results)
	return clip(results, s.suggestLimit), nil
}

// Search runs free-text dictionary search across Hanzi, meanings,
// readings and examples.
func (s *Service) Search(ctx context.Context, query string) ([]Result, error) {
	table, err := s.loader.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	return searchText(table, query, s.searchLimit), nil
}

// FetchSuggestions is the boundary the typing flow calls: it never fails,
// it only goes quiet. Lookup errors are logged and turn into an empty,
// non-nil sequence so rendering code needs no error branch.
func (s *Service) FetchSuggestions(ctx context.Context, query string) []Result {
	results, err := s.SuggestHanzi(ctx, query)
	if err != nil {
		log.Warnf("suggestion lookup failed: %v", err)
		return []Result{}
	}
	if results == nil {
		return []Result{}
	}
	return results
}

// Stats returns statistics about the engine
func (s *Service) Stats() map[string]int {
	hits, misses, cacheEntries := s.cache.stats()
	ls := s.loader.Stats()

	stats := map[string]int{
		"dictEntries":  ls.Entries,
		"dictLevels":   ls.Levels,
		"cacheHits":    int(hits),
		"cacheMisses":  int(misses),
		"cacheEntries": cacheEntries,
	}
	if s.loader.State() == dictionary.StateLoaded {
		stats["loaded"] = 1
	} else {
		stats["loaded"] = 0
	}

	s.mu.Lock()
	if s.idx != nil {
		stats["indexedWords"] = s.idx.size()
	}
	s.mu.Unlock()
	return stats
}

// LoaderStats exposes the loader snapshot for health reporting.
func (s *Service) LoaderStats() dictionary.Stats {
	return s.loader.Stats()
}

func clip(results []Result, limit int) []Result {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
