package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const minContentRunes = 3

// Words returns the lowercased runs of letters in s. Apostrophes and any
// other non-letter split words.
func Words(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.ToLower(f))
	}
	return out
}

// ContentWords keeps the words of s at least three letters long that are
// not stopwords of lang.
func ContentWords(s string, lang Language) []string {
	return FilterContent(Words(s), lang)
}

func FilterContent(words []string, lang Language) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) < minContentRunes {
			continue
		}
		if IsStopword(w, lang) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func isSentenceBreak(r rune) bool {
	switch r {
	case '.', '!', '?', ';', '\n', '\r', '…':
		return true
	}
	return false
}

// Sentences splits s on terminal punctuation and line breaks.
func Sentences(s string) []string {
	parts := strings.FieldsFunc(s, isSentenceBreak)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// LongSentences returns the sentences with more than minChars characters.
func LongSentences(s string, minChars int) []string {
	all := Sentences(s)
	out := make([]string, 0, len(all))
	for _, p := range all {
		if utf8.RuneCountInString(p) > minChars {
			out = append(out, p)
		}
	}
	return out
}

// WordCount counts whitespace separated fields, the measure used for the
// minimum length check.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// SentenceTokens returns the content words of every sentence of s, skipping
// sentences left empty after filtering.
func SentenceTokens(s string, lang Language) [][]string {
	sentences := Sentences(s)
	out := make([][]string, 0, len(sentences))
	for _, sent := range sentences {
		tokens := ContentWords(sent, lang)
		if len(tokens) == 0 {
			continue
		}
		out = append(out, tokens)
	}
	return out
}
