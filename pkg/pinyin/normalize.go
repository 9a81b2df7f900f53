// Package pinyin converts romanized pinyin and free text into canonical
// comparable forms. Tone marks are stripped and the vowel ü maps to the
// plain letter v, so "lǜ", "lǚ" and "lv" all normalize to the same string.
package pinyin

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const combiningDiaeresis = '̈'

// Normalize lowercases pinyin, strips tone marks and maps ü in any tone to
// v. Surrounding whitespace is trimmed. The function is total and
// idempotent: normalizing an already normalized string is a no-op.
func Normalize(s string) string {
	return normalize(s, true)
}

// NormalizeText is the free-text variant: same lowercasing and diacritic
// stripping, no ü handling, and đ/Đ map to d. Empty input stays empty.
func NormalizeText(s string) string {
	return normalize(s, false)
}

// normalize decomposes s so precomposed vowels like ǜ and combining-mark
// sequences like "ǜ" walk the same code path.
func normalize(s string, pinyinVowels bool) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	decomposed := []rune(norm.NFD.String(s))
	var b strings.Builder
	b.Grow(len(decomposed))
	for i := 0; i < len(decomposed); i++ {
		r := decomposed[i]
		// ü decomposes to u followed by a diaeresis, with any tone mark
		// after it; the pair becomes v and the tone mark falls through to
		// the mark stripping below.
		if pinyinVowels && r == 'u' && i+1 < len(decomposed) && decomposed[i+1] == combiningDiaeresis {
			b.WriteRune('v')
			i++
			continue
		}
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if !pinyinVowels && r == 'đ' {
			b.WriteRune('d')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Syllables splits pinyin into its normalized whitespace-delimited
// syllables. "nǐ hǎo" yields ["ni", "hao"].
func Syllables(s string) []string {
	return strings.Fields(Normalize(s))
}

// Initials concatenates the first letter of each syllable, in order. The
// result is the shorthand form abbreviation queries match against: ["ni",
// "hao"] yields "nh".
func Initials(syllables []string) string {
	var b strings.Builder
	for _, syl := range syllables {
		if syl == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(syl)
		b.WriteRune(r)
	}
	return b.String()
}
