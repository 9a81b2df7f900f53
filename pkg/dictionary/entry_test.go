package dictionary

import (
	"testing"

	"github.com/bastiangx/hanserve/pkg/pinyin"
)

// check decoding of a typical level payload
func TestDecodeLevel(t *testing.T) {
	data := []byte(`[
		{"id":"1-1","index":1,"word":{"hanzi":"你好","pinyin":"nǐ hǎo","traditional":"你好"},"meaning":"hello","example":{"hanzi":"你好吗？","pinyin":"nǐ hǎo ma?","meaning":"How are you?"}},
		{"id":"1-2","index":2,"word":{"hanzi":"绿","pinyin":"lǜ"},"meaning":"green"},
		{"id":"1-3","index":3,"word":{"hanzi":"","pinyin":"x"},"meaning":"no hanzi at all"},
		{"id":"1-4","index":4,"word":{"hanzi":"你"},"meaning":"you"}
	]`)

	entries, err := decodeLevel(data, 1)
	if err != nil {
		t.Fatalf("decodeLevel failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries (blank hanzi skipped), got %d", len(entries))
	}

	first := entries[0]
	if first.Word != "你好" || first.Pinyin != "nǐ hǎo" || first.Traditional != "你好" {
		t.Errorf("First entry fields wrong: %+v", first)
	}
	if len(first.Meanings) != 1 || first.Meanings[0] != "hello" {
		t.Errorf("Meaning should be a single-element slice, got %v", first.Meanings)
	}
	if first.Example != "你好吗？ (nǐ hǎo ma?) - How are you?" {
		t.Errorf("Example formatted wrong: %q", first.Example)
	}
	if first.Level != 1 || first.Index != 1 {
		t.Errorf("Level/Index wrong: level=%d index=%d", first.Level, first.Index)
	}

	second := entries[1]
	if second.Example != "" {
		t.Errorf("Entry without example should have empty Example, got %q", second.Example)
	}
	if second.Traditional != "" {
		t.Errorf("Entry without traditional should leave it empty, got %q", second.Traditional)
	}
}

// records without a reading get one derived from the hanzi
func TestDecodeLevelDerivesReading(t *testing.T) {
	data := []byte(`[{"id":"1-1","index":1,"word":{"hanzi":"你好"},"meaning":"hello"}]`)

	entries, err := decodeLevel(data, 1)
	if err != nil {
		t.Fatalf("decodeLevel failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	got := pinyin.Normalize(entries[0].Pinyin)
	if got != "ni hao" {
		t.Errorf("Derived reading should normalize to 'ni hao', got %q (raw %q)", got, entries[0].Pinyin)
	}
}

func TestDecodeLevelBadJSON(t *testing.T) {
	if _, err := decodeLevel([]byte(`{"not":"an array"}`), 2); err == nil {
		t.Error("Expected an error for a non-array payload")
	}
	if _, err := decodeLevel([]byte(`[{"word":`), 2); err == nil {
		t.Error("Expected an error for truncated JSON")
	}
}

// later levels must overwrite earlier records sharing a word
func TestMergeLaterLevelWins(t *testing.T) {
	levelOne := []Entry{
		{Word: "好", Pinyin: "hǎo", Meanings: []string{"good"}, Level: 1, Index: 7},
		{Word: "你", Pinyin: "nǐ", Meanings: []string{"you"}, Level: 1, Index: 8},
	}
	levelTwo := []Entry{
		{Word: "好", Pinyin: "hào", Meanings: []string{"to be fond of"}, Level: 2, Index: 3},
	}

	table := merge([][]Entry{levelOne, levelTwo})
	if len(table) != 2 {
		t.Fatalf("Expected 2 words after merge, got %d", len(table))
	}

	e, ok := table.Lookup("好")
	if !ok {
		t.Fatal("Lookup for 好 failed")
	}
	if e.Level != 2 || e.Meanings[0] != "to be fond of" {
		t.Errorf("Level 2 record should win the duplicate, got %+v", e)
	}

	if _, ok := table.Lookup("伟"); ok {
		t.Error("Lookup for an absent word should report false")
	}
}
