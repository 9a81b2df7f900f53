// Package dictionary loads the leveled HSK word lists and merges them into
// the lookup table the suggestion engine runs on. Levels load lazily on
// first use, concurrent first queries share a single in-flight load, and a
// failed load retries on the next call instead of poisoning the process.
package dictionary

import (
	"encoding/json"
	"fmt"
	"strings"

	gopinyin "github.com/mozillazg/go-pinyin"
)

// Entry is one dictionary record, keyed by its simplified Hanzi word.
// Level and Index record where the record came from and act as
// deterministic tie-breaks in ranking. Entries are immutable once the
// table is installed.
type Entry struct {
	Word        string
	Traditional string
	Pinyin      string
	Meanings    []string
	Example     string
	Level       int
	Index       int
}

// Table maps Hanzi words to their entries. Later levels silently overwrite
// earlier entries sharing a word. An installed table is never mutated and
// is safe for unsynchronized concurrent reads.
type Table map[string]Entry

// Lookup returns the entry stored under word.
func (t Table) Lookup(word string) (Entry, bool) {
	e, ok := t[word]
	return e, ok
}

// rawEntry mirrors the hsk{n}.json source shape.
type rawEntry struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
	Word  struct {
		Hanzi       string `json:"hanzi"`
		Pinyin      string `json:"pinyin"`
		Traditional string `json:"traditional"`
	} `json:"word"`
	Meaning string `json:"meaning"`
	Example *struct {
		Hanzi   string `json:"hanzi"`
		Pinyin  string `json:"pinyin"`
		Meaning string `json:"meaning"`
	} `json:"example"`
}

// decodeLevel parses one level's JSON payload into entries. Records
// without a Hanzi word are skipped; records without a reading get one
// derived from the Hanzi.
func decodeLevel(data []byte, level int) ([]Entry, error) {
	var raw []rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing level %d: %w", level, err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, r := range raw {
		if r.Word.Hanzi == "" {
			continue
		}
		e := Entry{
			Word:        r.Word.Hanzi,
			Traditional: r.Word.Traditional,
			Pinyin:      r.Word.Pinyin,
			Meanings:    []string{r.Meaning},
			Level:       level,
			Index:       r.Index,
		}
		if e.Pinyin == "" {
			e.Pinyin = deriveReading(e.Word)
		}
		if r.Example != nil && r.Example.Hanzi != "" {
			e.Example = fmt.Sprintf("%s (%s) - %s", r.Example.Hanzi, r.Example.Pinyin, r.Example.Meaning)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

var readingArgs = func() gopinyin.Args {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Tone
	return args
}()

// deriveReading generates a tone-marked reading for entries whose source
// record carries no pinyin.
func deriveReading(hanzi string) string {
	return strings.Join(gopinyin.LazyPinyin(hanzi, readingArgs), " ")
}

// merge folds per-level entry slices into one table, walking levels in
// order so later records win duplicate words.
func merge(levels [][]Entry) Table {
	size := 0
	for _, entries := range levels {
		size += len(entries)
	}
	table := make(Table, size)
	for _, entries := range levels {
		for _, e := range entries {
			table[e.Word] = e
		}
	}
	return table
}
