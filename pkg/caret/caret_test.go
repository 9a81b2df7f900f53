package caret

import "testing"

func TestPinyinAt(t *testing.T) {
	testCases := []struct {
		description string
		text        string
		cursor      int
		wantText    string
		wantStart   int
		wantFound   bool
	}{
		{
			description: "whole buffer is one token",
			text:        "nihao",
			cursor:      5,
			wantText:    "nihao",
			wantStart:   0,
			wantFound:   true,
		},
		{
			description: "token stops at the space",
			text:        "ni hao",
			cursor:      6,
			wantText:    "hao",
			wantStart:   3,
			wantFound:   true,
		},
		{
			description: "cursor mid token takes the left part",
			text:        "nihao",
			cursor:      2,
			wantText:    "ni",
			wantStart:   0,
			wantFound:   true,
		},
		{
			description: "empty buffer",
			text:        "",
			cursor:      0,
			wantFound:   false,
		},
		{
			description: "cursor at start has nothing behind it",
			text:        "nihao",
			cursor:      0,
			wantFound:   false,
		},
		{
			description: "cursor right after a space",
			text:        "ni ",
			cursor:      3,
			wantFound:   false,
		},
		{
			description: "u-umlaut counts as a pinyin letter",
			text:        "nü",
			cursor:      2,
			wantText:    "nü",
			wantStart:   0,
			wantFound:   true,
		},
		{
			description: "token after hanzi",
			text:        "你好hao",
			cursor:      5,
			wantText:    "hao",
			wantStart:   2,
			wantFound:   true,
		},
		{
			description: "digits break the run",
			text:        "abc123xy",
			cursor:      8,
			wantText:    "xy",
			wantStart:   6,
			wantFound:   true,
		},
		{
			description: "cursor past the end clamps to the end",
			text:        "hao",
			cursor:      99,
			wantText:    "hao",
			wantStart:   0,
			wantFound:   true,
		},
		{
			description: "negative cursor clamps to the start",
			text:        "hao",
			cursor:      -1,
			wantFound:   false,
		},
		{
			description: "uppercase letters included",
			text:        "Ni",
			cursor:      2,
			wantText:    "Ni",
			wantStart:   0,
			wantFound:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			tok, found := PinyinAt(tc.text, tc.cursor)
			if found != tc.wantFound {
				t.Fatalf("PinyinAt(%q, %d) found = %v, expected %v", tc.text, tc.cursor, found, tc.wantFound)
			}
			if !found {
				return
			}
			if tok.Text != tc.wantText || tok.Start != tc.wantStart {
				t.Errorf("PinyinAt(%q, %d) = {%q %d}, expected {%q %d}",
					tc.text, tc.cursor, tok.Text, tok.Start, tc.wantText, tc.wantStart)
			}
		})
	}
}

func TestInsert(t *testing.T) {
	testCases := []struct {
		description string
		text        string
		cursor      int
		start       int
		repl        string
		wantText    string
		wantCursor  int
	}{
		{
			description: "replace typed pinyin between prefix and suffix",
			text:        "wohaoxx",
			cursor:      5,
			start:       2,
			repl:        "你好",
			wantText:    "wo你好xx",
			wantCursor:  4,
		},
		{
			description: "replace the whole buffer",
			text:        "nihao",
			cursor:      5,
			start:       0,
			repl:        "你好",
			wantText:    "你好",
			wantCursor:  2,
		},
		{
			description: "replace token after a space",
			text:        "ni hao",
			cursor:      6,
			start:       3,
			repl:        "好",
			wantText:    "ni 好",
			wantCursor:  4,
		},
		{
			description: "empty buffer is a no-op",
			text:        "",
			cursor:      3,
			start:       0,
			repl:        "你",
			wantText:    "",
			wantCursor:  3,
		},
		{
			description: "zero width range inserts",
			text:        "ab",
			cursor:      1,
			start:       1,
			repl:        "好",
			wantText:    "a好b",
			wantCursor:  2,
		},
		{
			description: "offsets clamp into range",
			text:        "abc",
			cursor:      99,
			start:       1,
			repl:        "好",
			wantText:    "a好",
			wantCursor:  2,
		},
		{
			description: "start beyond cursor clamps to cursor",
			text:        "abc",
			cursor:      1,
			start:       2,
			repl:        "好",
			wantText:    "a好bc",
			wantCursor:  2,
		},
		{
			description: "rune offsets survive multibyte prefixes",
			text:        "你好abc",
			cursor:      5,
			start:       2,
			repl:        "了",
			wantText:    "你好了",
			wantCursor:  3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			gotText, gotCursor := Insert(tc.text, tc.cursor, tc.start, tc.repl)
			if gotText != tc.wantText || gotCursor != tc.wantCursor {
				t.Errorf("Insert(%q, %d, %d, %q) = (%q, %d), expected (%q, %d)",
					tc.text, tc.cursor, tc.start, tc.repl, gotText, gotCursor, tc.wantText, tc.wantCursor)
			}
		})
	}
}

func TestExtractThenInsertRoundTrip(t *testing.T) {
	// the flow the editor runs: find the token, then splice the pick in
	text := "qing nihao"
	tok, found := PinyinAt(text, 10)
	if !found {
		t.Fatal("expected a token at the end of the buffer")
	}
	if tok.Text != "nihao" || tok.Start != 5 {
		t.Fatalf("token = {%q %d}, expected {nihao 5}", tok.Text, tok.Start)
	}
	gotText, gotCursor := Insert(text, 10, tok.Start, "你好")
	if gotText != "qing 你好" || gotCursor != 7 {
		t.Errorf("round trip = (%q, %d), expected (%q, 7)", gotText, gotCursor, "qing 你好")
	}
}
