package suggest

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/bastiangx/hanserve/pkg/dictionary"
	"github.com/bastiangx/hanserve/pkg/pinyin"
)

// index holds three tries over the dictionary so a query never scans the
// whole table: full keys ("nihao"), single syllables ("ni", "hao") and
// syllable initials ("nh"). Trie items are word lists since distinct words
// can share a reading.
type index struct {
	table    dictionary.Table
	full     *patricia.Trie
	syllable *patricia.Trie
	initials *patricia.Trie
	sylCount map[string]int
}

// buildIndex indexes every entry under its joined reading, each of its
// syllables and its initials string. Entries whose reading normalizes to
// nothing are unreachable by pinyin and stay out of the index.
func buildIndex(table dictionary.Table) *index {
	idx := &index{
		table:    table,
		full:     patricia.NewTrie(),
		syllable: patricia.NewTrie(),
		initials: patricia.NewTrie(),
		sylCount: make(map[string]int, len(table)),
	}
	for word, entry := range table {
		syllables := pinyin.Syllables(entry.Pinyin)
		if len(syllables) == 0 {
			continue
		}
		idx.sylCount[word] = len(syllables)
		idx.insert(idx.full, strings.Join(syllables, ""), word)
		for _, syl := range syllables {
			idx.insert(idx.syllable, syl, word)
		}
		idx.insert(idx.initials, pinyin.Initials(syllables), word)
	}
	log.Debugf("indexed %d words for pinyin lookup", len(idx.sylCount))
	return idx
}

func (idx *index) insert(trie *patricia.Trie, key, word string) {
	if key == "" {
		return
	}
	prefix := patricia.Prefix(key)
	if item := trie.Get(prefix); item != nil {
		words := item.([]string)
		for _, w := range words {
			if w == word {
				return
			}
		}
		trie.Set(prefix, append(words, word))
		return
	}
	trie.Insert(prefix, []string{word})
}

// wordsAt returns the words stored under exactly key.
func (idx *index) wordsAt(trie *patricia.Trie, key string) []string {
	if key == "" {
		return nil
	}
	item := trie.Get(patricia.Prefix(key))
	if item == nil {
		return nil
	}
	return item.([]string)
}

// wordsUnder returns the words of every key having prefix, the prefix key
// itself included.
func (idx *index) wordsUnder(trie *patricia.Trie, prefix string) []string {
	if prefix == "" {
		return nil
	}
	var words []string
	err := trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		words = append(words, item.([]string)...)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
	}
	return words
}

func (idx *index) size() int {
	return len(idx.sylCount)
}
