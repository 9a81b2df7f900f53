// Package caret finds the pinyin token being typed at a cursor position
// and splices chosen Hanzi back into the buffer. Buffers are plain string
// values with rune-offset cursors, the way an editor integration hands
// them over; there is no live node coupling.
package caret

import "unicode/utf8"

// Token is a run of pinyin letters ending at the cursor. Start is the rune
// offset of its first letter.
type Token struct {
	Text  string
	Start int
}

// isPinyinRune reports whether r can be part of a typed pinyin token.
// Spaces are not part of a token: they separate syllables already
// committed from the one being typed.
func isPinyinRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r == 'ü' || r == 'Ü':
		return true
	}
	return false
}

// PinyinAt returns the longest run of pinyin letters ending exactly at
// cursor. "ni hao" with the cursor at the end yields {hao 3}. The bool is
// false when the buffer is empty or no pinyin letter precedes the cursor.
// Out-of-range cursors are clamped into the buffer.
func PinyinAt(text string, cursor int) (Token, bool) {
	if text == "" {
		return Token{}, false
	}
	runes := []rune(text)
	cursor = clamp(cursor, 0, len(runes))

	start := cursor
	for start > 0 && isPinyinRune(runes[start-1]) {
		start--
	}
	if start == cursor {
		return Token{}, false
	}
	return Token{Text: string(runes[start:cursor]), Start: start}, true
}

// Insert replaces text[start:cursor] (rune offsets) with repl and returns
// the new buffer together with the new cursor position, which lands right
// after the inserted text. An empty buffer comes back unchanged with the
// original cursor. Offsets are clamped so a stale cursor can never slice
// out of range.
func Insert(text string, cursor, start int, repl string) (string, int) {
	if text == "" {
		return text, cursor
	}
	runes := []rune(text)
	cursor = clamp(cursor, 0, len(runes))
	start = clamp(start, 0, cursor)

	replRunes := []rune(repl)
	out := make([]rune, 0, start+len(replRunes)+len(runes)-cursor)
	out = append(out, runes[:start]...)
	out = append(out, replRunes...)
	out = append(out, runes[cursor:]...)
	return string(out), start + utf8.RuneCountInString(repl)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
