package pinyin

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expected    string
	}{
		{
			description: "plain ascii passes through",
			input:       "nihao",
			expected:    "nihao",
		},
		{
			description: "tone marks are stripped",
			input:       "nǐ hǎo",
			expected:    "ni hao",
		},
		{
			description: "uppercase folds down",
			input:       "Nǐ Hǎo",
			expected:    "ni hao",
		},
		{
			description: "toned u-umlaut becomes v",
			input:       "lǜ",
			expected:    "lv",
		},
		{
			description: "bare u-umlaut becomes v",
			input:       "nü",
			expected:    "nv",
		},
		{
			description: "typed v stays v",
			input:       "lv",
			expected:    "lv",
		},
		{
			description: "uppercase u-umlaut becomes v",
			input:       "LǙ",
			expected:    "lv",
		},
		{
			description: "combining mark input matches precomposed",
			input:       "lǜ",
			expected:    "lv",
		},
		{
			description: "surrounding whitespace trimmed",
			input:       "  zhōng guó  ",
			expected:    "zhong guo",
		},
		{
			description: "empty input",
			input:       "",
			expected:    "",
		},
		{
			description: "whitespace only",
			input:       "   ",
			expected:    "",
		},
		{
			description: "all four u-umlaut tones collapse",
			input:       "ǖ ǘ ǚ ǜ",
			expected:    "v v v v",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got := Normalize(tc.input)
			if got != tc.expected {
				t.Errorf("Normalize(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	// normalizing twice must match normalizing once for any input
	inputs := []string{
		"nǐ hǎo", "lǜ", "lv", "Nǚ", "zhōng wén", "hello world", "", "  ", "ǖǘǚǜ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizeVariantsAgree(t *testing.T) {
	// different tone notations of the same syllables must normalize identically
	variants := [][]string{
		{"lǜ", "lv", "lü"},
		{"nǐ hǎo", "ni hao", "nǐ hǎo"},
		{"nǚ", "nü", "nv"},
	}
	for _, group := range variants {
		first := Normalize(group[0])
		for _, v := range group[1:] {
			if got := Normalize(v); got != first {
				t.Errorf("Normalize(%q) = %q, expected %q (same as %q)", v, got, first, group[0])
			}
		}
	}
}

func TestNormalizeText(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expected    string
	}{
		{
			description: "diacritics stripped",
			input:       "café",
			expected:    "cafe",
		},
		{
			description: "d with stroke maps to d",
			input:       "Đà nẵng",
			expected:    "da nang",
		},
		{
			description: "u-umlaut loses its marks only",
			input:       "über",
			expected:    "uber",
		},
		{
			description: "empty stays empty",
			input:       "",
			expected:    "",
		},
		{
			description: "lowercase and trim",
			input:       "  To Like  ",
			expected:    "to like",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got := NormalizeText(tc.input)
			if got != tc.expected {
				t.Errorf("NormalizeText(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestSyllables(t *testing.T) {
	got := Syllables("nǐ hǎo")
	if len(got) != 2 || got[0] != "ni" || got[1] != "hao" {
		t.Errorf("Syllables(\"nǐ hǎo\") = %v, expected [ni hao]", got)
	}

	if got := Syllables(""); len(got) != 0 {
		t.Errorf("Syllables(\"\") = %v, expected empty", got)
	}
}

func TestInitials(t *testing.T) {
	testCases := []struct {
		description string
		syllables   []string
		expected    string
	}{
		{"two syllables", []string{"ni", "hao"}, "nh"},
		{"single syllable", []string{"lv"}, "l"},
		{"empty element skipped", []string{"", "hao"}, "h"},
		{"no syllables", nil, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := Initials(tc.syllables); got != tc.expected {
				t.Errorf("Initials(%v) = %q, expected %q", tc.syllables, got, tc.expected)
			}
		})
	}
}

func BenchmarkNormalize(b *testing.B) {
	input := strings.Repeat("nǐ hǎo lǜ sè zhōng guó ", 4)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Normalize(input)
	}
}
